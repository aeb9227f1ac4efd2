package services

import (
  "context"
  "crypto/rand"
  "errors"
  "fmt"
  "math/big"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
  "github.com/skillswap-org/skillswap-backend/internal/repos"
  "github.com/skillswap-org/skillswap-backend/internal/templates"
  "github.com/skillswap-org/skillswap-backend/internal/types"
  "github.com/skillswap-org/skillswap-backend/internal/utils"
)

const OtpValidityWindow = 10 * time.Minute

// Business failures the handlers map straight to response messages.
var (
  ErrEmailRequired = errors.New("Email is required")
  ErrMissingFields = errors.New("Missing required fields")
  ErrOtpNotFound   = errors.New("OTP not found")
  ErrOtpInvalid    = errors.New("Invalid or expired OTP")
)

type OtpService interface {
  SendOtp(ctx context.Context, email string, phone string) error
  VerifyOtp(ctx context.Context, email, otp, password, name, username string) (*types.User, error)
}

type otpService struct {
  db             *gorm.DB
  log            *logger.Logger
  oneTimeCodeRepo repos.OneTimeCodeRepo
  userRepo       repos.UserRepo
  profileRepo    repos.ProfileRepo
  emailService   EmailService
  textService    TextService
}

func NewOtpService(
  db *gorm.DB,
  log *logger.Logger,
  oneTimeCodeRepo repos.OneTimeCodeRepo,
  userRepo repos.UserRepo,
  profileRepo repos.ProfileRepo,
  emailService EmailService,
  textService TextService,
) OtpService {
  serviceLog := log.With("service", "OtpService")
  return &otpService{
    db:              db,
    log:             serviceLog,
    oneTimeCodeRepo: oneTimeCodeRepo,
    userRepo:        userRepo,
    profileRepo:     profileRepo,
    emailService:    emailService,
    textService:     textService,
  }
}

func (ots *otpService) SendOtp(ctx context.Context, email string, phone string) error {
  ots.log.Info("Starting SendOtp now...")

  //1) Normalize and validate input
  email = utils.NormalizeEmail(email)
  if email == "" {
    ots.log.Warn("Email is empty, Cannot proceed. Returning error.")
    return ErrEmailRequired
  }

  //2) Generate the code
  code, err := generateOtpCode()
  if err != nil {
    ots.log.Error("Failed to generate OTP code, Cannot proceed. Returning error.", "error", err)
    return fmt.Errorf("failed to generate OTP code: %w", err)
  }

  //3) Store before sending; a code that was never stored must never be delivered
  otc := &types.OneTimeCode{
    ID:       uuid.New(),
    Email:    email,
    Code:     code,
    IssuedAt: time.Now(),
  }
  if err := ots.oneTimeCodeRepo.UpsertByEmail(ctx, nil, otc); err != nil {
    ots.log.Warn("Failed to store one time code, Cannot proceed. Returning error.", "error", err)
    return fmt.Errorf("failed to store one time code: %w", err)
  }

  //4) Deliver via email
  htmlBody, err := templates.RenderOtpHTML(templates.OtpEmailData{
    Code:          code,
    ExpiryMinutes: int(OtpValidityWindow.Minutes()),
  })
  if err != nil {
    ots.log.Warn("Failed to render OTP email template, Cannot proceed. Returning error.", "error", err)
    return fmt.Errorf("failed to render OTP email template: %w", err)
  }
  plainText := fmt.Sprintf("Your OTP is %s. It expires in %d minutes.", code, int(OtpValidityWindow.Minutes()))
  if err := ots.emailService.SendEmail(ctx, email, "Your SkillSwap verification code", plainText, htmlBody, "authorization"); err != nil {
    ots.log.Warn("Failed to send OTP email, Cannot proceed. Returning error.", "error", err)
    return fmt.Errorf("failed to send OTP email: %w", err)
  }

  //5) Optionally deliver via SMS; non-fatal once the email is out
  if phone != "" && ots.textService != nil {
    if err := ots.textService.SendText(ctx, phone, plainText); err != nil {
      ots.log.Warn("Failed to send OTP text, email already delivered. Continuing.", "error", err)
    }
  }

  ots.log.Info("Successfully sent OTP", "email", email)
  return nil
}

func (ots *otpService) VerifyOtp(ctx context.Context, email, otp, password, name, username string) (*types.User, error) {
  ots.log.Info("Starting VerifyOtp now...")

  //1) Normalize and validate input
  email = utils.NormalizeEmail(email)
  otp = utils.ParseInputString(otp)
  name = utils.ParseInputString(name)
  username = utils.ParseInputString(username)
  if email == "" || otp == "" || password == "" || name == "" || username == "" {
    ots.log.Warn("Missing required fields, Cannot proceed. Returning error.")
    return nil, ErrMissingFields
  }

  //2) Hash the password outside the transaction
  hashed, err := utils.HashPassword(ots.log, password)
  if err != nil {
    return nil, err
  }

  // verr carries the business failure out of the transaction body when the
  // code-row delete still has to commit (an invalid or expired code is
  // consumed, not left behind for retries).
  var verr error
  var user *types.User
  txErr := ots.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    //3) Lock the code row; the row lock is what makes the first consumer win
    otc, err := ots.oneTimeCodeRepo.GetByEmailForUpdate(ctx, tx, email)
    if err != nil {
      ots.log.Warn("Failed to fetch one time code, Cannot proceed. Returning error.", "error", err)
      return fmt.Errorf("failed to fetch one time code: %w", err)
    }
    if otc == nil {
      ots.log.Warn("No one time code found for email, Cannot proceed.", "email", email)
      return ErrOtpNotFound
    }

    //4) Wrong or expired: consume the code and surface the failure post-commit
    if otc.Code != otp || time.Since(otc.IssuedAt) > OtpValidityWindow {
      ots.log.Warn("One time code invalid or expired, consuming it.", "email", email)
      if err := ots.oneTimeCodeRepo.DeleteByEmail(ctx, tx, email); err != nil {
        ots.log.Warn("Failed to delete invalid one time code, Cannot proceed. Returning error.", "error", err)
        return fmt.Errorf("failed to delete invalid one time code: %w", err)
      }
      verr = ErrOtpInvalid
      return nil
    }

    //5) Create or link the user
    existing, err := ots.userRepo.GetByEmail(ctx, tx, email)
    if err != nil {
      ots.log.Warn("Failed to fetch user by email, Cannot proceed. Returning error.", "error", err)
      return fmt.Errorf("failed to fetch user by email: %w", err)
    }
    if existing != nil {
      user = existing
      if !user.EmailVerified {
        if err := ots.userRepo.MarkEmailVerified(ctx, tx, user.ID); err != nil {
          ots.log.Warn("Failed to mark user email verified, Cannot proceed. Returning error.", "error", err)
          return fmt.Errorf("failed to mark user email verified: %w", err)
        }
        user.EmailVerified = true
      }
    } else {
      metadata, err := types.NewUserMetadata(name, username)
      if err != nil {
        return fmt.Errorf("failed to build user metadata: %w", err)
      }
      newUser := &types.User{
        ID:            uuid.New(),
        Email:         email,
        Password:      hashed,
        EmailVerified: true,
        Metadata:      metadata,
      }
      created, err := ots.userRepo.Create(ctx, tx, newUser)
      if err != nil {
        ots.log.Warn("Failed to create user, Cannot proceed. Returning error.", "error", err)
        return fmt.Errorf("failed to create user: %w", err)
      }
      user = created
    }

    //6) Upsert the profile; credits stay untouched on the linking path
    profile := &types.Profile{
      ID:       user.ID,
      Email:    email,
      Name:     name,
      Username: username,
      Credits:  0,
    }
    if err := ots.profileRepo.Upsert(ctx, tx, profile); err != nil {
      ots.log.Warn("Failed to upsert profile, Cannot proceed. Returning error.", "error", err)
      return fmt.Errorf("failed to upsert profile: %w", err)
    }

    //7) Consume the code
    if err := ots.oneTimeCodeRepo.DeleteByEmail(ctx, tx, email); err != nil {
      ots.log.Warn("Failed to consume one time code, Cannot proceed. Returning error.", "error", err)
      return fmt.Errorf("failed to consume one time code: %w", err)
    }
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }
  if verr != nil {
    return nil, verr
  }

  ots.log.Info("Successfully verified OTP", "email", email, "userID", user.ID)
  return user, nil
}

func generateOtpCode() (string, error) {
  n, err := rand.Int(rand.Reader, big.NewInt(900000))
  if err != nil {
    return "", err
  }
  return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
