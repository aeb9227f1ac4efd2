package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "image/color"
  "io"
  "math/rand"
  "os"
  "strings"

  "github.com/disintegration/imaging"
  "github.com/fogleman/gg"
  "github.com/golang/freetype/truetype"
  "golang.org/x/image/font"
  "gorm.io/gorm"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
  "github.com/skillswap-org/skillswap-backend/internal/types"
)

type AvatarService interface {
  CreateAndUploadProfileAvatar(ctx context.Context, tx *gorm.DB, profile *types.Profile) error
  GenerateProfileAvatar(ctx context.Context, tx *gorm.DB, profile *types.Profile) (bytes.Buffer, error)
  NormalizeAvatarUpload(ctx context.Context, r io.Reader) (bytes.Buffer, error)
}

type avatarService struct {
  db            *gorm.DB
  log           *logger.Logger
  bucketService BucketService
  bgColors      []color.NRGBA
  fontFace      font.Face
}

// defaultBgColors is used when AVATAR_COLORS_JSON_PATH is unset.
var defaultBgColors = []color.NRGBA{
  {R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF},
  {R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
  {R: 0xEC, G: 0x48, B: 0x99, A: 0xFF},
  {R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
  {R: 0x10, G: 0xB9, B: 0x81, A: 0xFF},
  {R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
  {R: 0x06, G: 0xB6, B: 0xD4, A: 0xFF},
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, bucketService BucketService) (AvatarService, error) {
  serviceLog := log.With("service", "AvatarService")

  //1) Get Avatar Colors
  bgColors := defaultBgColors
  colorsJSONPath := os.Getenv("AVATAR_COLORS_JSON_PATH")
  if colorsJSONPath != "" {
    serviceLog.Info("Loading avatar colors from JSON file", "path", colorsJSONPath)
    loaded, err := loadColorsFromFile(colorsJSONPath)
    if err != nil {
      return nil, fmt.Errorf("could not load avatar colors: %w", err)
    }
    bgColors = loaded
  }

  //2) Get Font
  fontPath := os.Getenv("AVATAR_FONT")
  if fontPath == "" {
    return nil, fmt.Errorf("env var AVATAR_FONT is empty")
  }
  serviceLog.Info("Loading avatar font from TTF file", "font", fontPath)
  face, err := loadFontFace(fontPath, 206)
  if err != nil {
    return nil, fmt.Errorf("could not load avatar font: %w", err)
  }

  service := &avatarService{
    db:            db,
    log:           serviceLog,
    bucketService: bucketService,
    bgColors:      bgColors,
    fontFace:      face,
  }
  return service, nil
}

func (as *avatarService) CreateAndUploadProfileAvatar(ctx context.Context, tx *gorm.DB, profile *types.Profile) error {
  buf, err := as.GenerateProfileAvatar(ctx, tx, profile)
  if err != nil {
    return err
  }
  bucketKey := fmt.Sprintf("avatars/%s.png", profile.ID.String())
  if err := as.bucketService.UploadFile(ctx, tx, bucketKey, bytes.NewReader(buf.Bytes()), "image/png"); err != nil {
    return fmt.Errorf("failed to upload profile avatar: %w", err)
  }
  if profile.AvatarBucketKey != bucketKey {
    profile.AvatarBucketKey = bucketKey
  }
  finalURL := as.bucketService.GetPublicURL(bucketKey)
  if profile.AvatarURL != finalURL {
    profile.AvatarURL = finalURL
  }
  return nil
}

func (as *avatarService) GenerateProfileAvatar(ctx context.Context, tx *gorm.DB, profile *types.Profile) (bytes.Buffer, error) {
  const size = 512

  // 1) Create drawing context
  dc := gg.NewContext(size, size)

  // 2) Circular mask so final image is round
  dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
  dc.Clip()

  // 3) Use a single solid background color (no gradient)
  base := as.bgColors[rand.Intn(len(as.bgColors))]
  dc.SetColor(base)
  dc.DrawRectangle(0, 0, float64(size), float64(size))
  dc.Fill()

  // 4) Compute profile initials
  initials := computeInitials(profile.Name, profile.Username)

  // 5) Set font & measure text
  dc.SetFontFace(as.fontFace)
  tw, th := dc.MeasureString(initials)
  cx, cy := float64(size)/2, float64(size)/2

  // 6) Draw main white text
  dc.SetColor(color.White)
  dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

  // 7) Export to PNG
  var buf bytes.Buffer
  if err := dc.EncodePNG(&buf); err != nil {
    return buf, fmt.Errorf("failed to encode PNG: %w", err)
  }
  return buf, nil
}

// NormalizeAvatarUpload resizes a user-supplied avatar image to fit 512x512
// and re-encodes it as PNG.
func (as *avatarService) NormalizeAvatarUpload(ctx context.Context, r io.Reader) (bytes.Buffer, error) {
  img, err := imaging.Decode(r)
  if err != nil {
    return bytes.Buffer{}, fmt.Errorf("failed to decode avatar image: %w", err)
  }
  img = imaging.Fit(img, 512, 512, imaging.Lanczos)

  var buf bytes.Buffer
  if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
    return buf, fmt.Errorf("failed to encode avatar PNG: %w", err)
  }
  return buf, nil
}

//----------------------------------------------------------------------------------------
// Helpers
//----------------------------------------------------------------------------------------

// computeInitials prefers the display name; the username fills in when the
// name is a single word or blank.
func computeInitials(name, username string) string {
  fields := strings.Fields(name)
  switch {
  case len(fields) >= 2:
    return strings.ToUpper(fields[0][:1]) + strings.ToUpper(fields[len(fields)-1][:1])
  case len(fields) == 1:
    return strings.ToUpper(fields[0][:1])
  case len(username) > 0:
    return strings.ToUpper(username[:1])
  default:
    return "?"
  }
}

func loadColorsFromFile(jsonPath string) ([]color.NRGBA, error) {
  data, err := os.ReadFile(jsonPath)
  if err != nil {
    return nil, fmt.Errorf("read file error: %w", err)
  }
  var colors []color.NRGBA
  if err := json.Unmarshal(data, &colors); err != nil {
    return nil, fmt.Errorf("json unmarshal error: %w", err)
  }
  return colors, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
  fontBytes, err := os.ReadFile(fontPath)
  if err != nil {
    return nil, fmt.Errorf("failed to read font file: %w", err)
  }
  parsedFont, err := truetype.Parse(fontBytes)
  if err != nil {
    return nil, fmt.Errorf("failed to parse TTF: %w", err)
  }
  face := truetype.NewFace(parsedFont, &truetype.Options{
    Size:    size,
    DPI:     72,
    Hinting: font.HintingNone,
  })
  return face, nil
}
