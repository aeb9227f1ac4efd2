package services

import (
  "context"
  "fmt"
  "io"
  "mime/multipart"
  "net/url"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
  "github.com/skillswap-org/skillswap-backend/internal/repos"
  "github.com/skillswap-org/skillswap-backend/internal/requestdata"
  "github.com/skillswap-org/skillswap-backend/internal/types"
  "github.com/skillswap-org/skillswap-backend/internal/utils"
)

type UpdateMeInput struct {
  Name     *string
  Username *string
  Bio      *string
  Phone    *string
}

type MeService interface {
  GetMe(ctx context.Context, tx *gorm.DB) (types.Profile, error)
  UpdateMe(ctx context.Context, input UpdateMeInput, avatar *multipart.FileHeader) (types.Profile, error)
}

type meService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  profileRepo   repos.ProfileRepo
  avatarService AvatarService
  bucketService BucketService
}

func NewMeService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  profileRepo repos.ProfileRepo,
  avatarService AvatarService,
  bucketService BucketService,
) MeService {
  serviceLog := log.With("service", "MeService")
  return &meService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    profileRepo:   profileRepo,
    avatarService: avatarService,
    bucketService: bucketService,
  }
}

// GetMe returns the caller's profile, creating it with zero credits when the
// identity exists but the profile row does not.
func (ms *meService) GetMe(ctx context.Context, tx *gorm.DB) (types.Profile, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ms.log.Warn("Request Data is not set in context.")
    return types.Profile{}, fmt.Errorf("request data is not set in context")
  }
  if rd.UserID == uuid.Nil {
    ms.log.Warn("User ID not set in Request Data.")
    return types.Profile{}, fmt.Errorf("user ID not set in request data")
  }

  var theProfile types.Profile
  if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    found, fErr := ms.profileRepo.GetByID(ctx, tx, rd.UserID)
    if fErr != nil {
      return fmt.Errorf("error fetching profile: %w", fErr)
    }
    if found != nil {
      theProfile = *found
      return nil
    }

    user, uErr := ms.userRepo.GetByID(ctx, tx, rd.UserID)
    if uErr != nil {
      return fmt.Errorf("error fetching user: %w", uErr)
    }
    if user == nil {
      return fmt.Errorf("user does not exist")
    }

    fresh := &types.Profile{
      ID:      user.ID,
      Email:   user.Email,
      Credits: 0,
    }
    if ms.avatarService != nil {
      if aErr := ms.avatarService.CreateAndUploadProfileAvatar(ctx, tx, fresh); aErr != nil {
        ms.log.Warn("Failed to generate profile avatar, continuing without one.", "error", aErr)
      }
    }
    if cErr := ms.profileRepo.Upsert(ctx, tx, fresh); cErr != nil {
      return fmt.Errorf("error creating profile: %w", cErr)
    }
    theProfile = *fresh
    return nil
  }); err != nil {
    ms.log.Warn("GetMe transaction error:", "error", err)
    return types.Profile{}, err
  }
  return theProfile, nil
}

func (ms *meService) UpdateMe(ctx context.Context, input UpdateMeInput, avatar *multipart.FileHeader) (types.Profile, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ms.log.Warn("Request Data is not set in context.")
    return types.Profile{}, fmt.Errorf("request data is not set in context")
  }
  if rd.UserID == uuid.Nil {
    ms.log.Warn("User ID not set in Request Data.")
    return types.Profile{}, fmt.Errorf("user ID not set in request data")
  }

  var updated types.Profile
  if err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    profile, fErr := ms.profileRepo.GetByID(ctx, tx, rd.UserID)
    if fErr != nil {
      return fmt.Errorf("error fetching profile: %w", fErr)
    }
    if profile == nil {
      return fmt.Errorf("profile does not exist")
    }

    if input.Name != nil {
      profile.Name = utils.ParseInputString(*input.Name)
    }
    if input.Username != nil {
      profile.Username = utils.ParseInputString(*input.Username)
    }
    if input.Bio != nil {
      profile.Bio = utils.ParseInputString(*input.Bio)
    }
    if input.Phone != nil {
      profile.Phone = utils.ParseInputStringPtr(input.Phone)
    }

    if avatar != nil {
      if aErr := ms.storeAvatarUpload(ctx, tx, profile, avatar); aErr != nil {
        return aErr
      }
    }

    saved, uErr := ms.profileRepo.Update(ctx, tx, profile)
    if uErr != nil {
      return fmt.Errorf("error updating profile: %w", uErr)
    }
    updated = *saved
    return nil
  }); err != nil {
    ms.log.Warn("UpdateMe transaction error:", "error", err)
    return types.Profile{}, err
  }
  return updated, nil
}

func (ms *meService) storeAvatarUpload(ctx context.Context, tx *gorm.DB, profile *types.Profile, avatar *multipart.FileHeader) error {
  if ms.bucketService == nil {
    ms.log.Warn("Bucket service unavailable, skipping avatar upload.")
    return fmt.Errorf("avatar upload unavailable")
  }
  f, err := avatar.Open()
  if err != nil {
    return fmt.Errorf("failed to open avatar upload: %w", err)
  }
  defer f.Close()

  var body io.Reader = f
  contentType := avatar.Header.Get("Content-Type")
  if ms.avatarService != nil {
    buf, nErr := ms.avatarService.NormalizeAvatarUpload(ctx, f)
    if nErr != nil {
      return fmt.Errorf("failed to normalize avatar upload: %w", nErr)
    }
    body = &buf
    contentType = "image/png"
  }

  bucketKey := fmt.Sprintf("avatars/%s/%d-%s", profile.ID.String(), time.Now().Unix(), url.PathEscape(avatar.Filename))
  if uErr := ms.bucketService.UploadFile(ctx, tx, bucketKey, body, contentType); uErr != nil {
    return fmt.Errorf("failed to upload avatar: %w", uErr)
  }
  profile.AvatarBucketKey = bucketKey
  profile.AvatarURL = ms.bucketService.GetPublicURL(bucketKey)
  return nil
}
