package services

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
  "github.com/skillswap-org/skillswap-backend/internal/repos"
  "github.com/skillswap-org/skillswap-backend/internal/requestdata"
  "github.com/skillswap-org/skillswap-backend/internal/types"
  "github.com/skillswap-org/skillswap-backend/internal/utils"
)

var (
  ErrInvalidCredentials = errors.New("invalid email or password")
  ErrEmailNotVerified   = errors.New("email is not verified")
)

type JWTClaims struct {
  jwt.RegisteredClaims
  Email string `json:"email,omitempty"`
}

type AuthService interface {
  Login(ctx context.Context, email, password string) (string, string, error)
  Refresh(ctx context.Context) (string, string, error)
  Logout(ctx context.Context) error

  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)

  GetAccessTTL() time.Duration
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  userTokenRepo repos.UserTokenRepo
  jwtSecretKey  string
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  userTokenRepo repos.UserTokenRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

func (as *authService) Login(ctx context.Context, userEmail, userPassword string) (string, string, error) {
  //1) Normalize Input
  email := utils.NormalizeEmail(userEmail)
  password := userPassword
  if email == "" || password == "" {
    as.log.Warn("Email or password empty on login, Cannot proceed. Returning error.")
    return "", "", ErrInvalidCredentials
  }

  //2) Find User By Email
  user, err := as.userRepo.GetByEmail(ctx, nil, email)
  if err != nil {
    as.log.Warn("Failure to retrieve user by email, Cannot proceed. Returning error.", "error", err)
    return "", "", fmt.Errorf("error retrieving user by email: %w", err)
  }
  if user == nil {
    as.log.Warn("Invalid email, no user found.")
    return "", "", ErrInvalidCredentials
  }
  if cErr := utils.CheckPassword(user.Password, password); cErr != nil {
    as.log.Warn("Invalid password, user password and hash dont match, Cannot proceed. Returning error.", "error", cErr)
    return "", "", ErrInvalidCredentials
  }
  if !user.EmailVerified {
    as.log.Warn("User email is not verified, Cannot proceed.", "userID", user.ID)
    return "", "", ErrEmailNotVerified
  }

  //3) Replace any existing session and mint a fresh pair
  var accessToken string
  var refreshToken string
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); dErr != nil {
      as.log.Warn("Failed to delete existing user tokens, Cannot proceed. Returning error.", "error", dErr)
      return fmt.Errorf("failed to delete existing user tokens: %w", dErr)
    }
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      as.log.Warn("Generate Access Token Error, Cannot proceed. Returning error.", "error", genErr)
      return fmt.Errorf("generate access token error: %w", genErr)
    }
    accessToken = tok
    refreshToken = uuid.New().String()
    expiresAt := time.Now().Add(as.refreshTTL)
    userToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    expiresAt,
    }
    if _, cErr := as.userTokenRepo.Create(ctx, tx, &userToken); cErr != nil {
      as.log.Warn("Create User Token Error, Cannot proceed. Returning error.", "error", cErr)
      return fmt.Errorf("create user token error: %w", cErr)
    }
    return nil
  }); err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) Refresh(ctx context.Context) (string, string, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    as.log.Warn("No Request Data found in context, Cannot proceed.")
    return "", "", fmt.Errorf("no request data found in context")
  }
  if rd.RefreshToken == "" {
    as.log.Warn("RefreshToken in Request Data is an empty string, Cannot proceed.")
    return "", "", fmt.Errorf("refresh token is an empty string")
  }

  var accessToken string
  var newRefreshTokenStr string
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existingToken, fTErr := as.userTokenRepo.GetByRefreshToken(ctx, tx, rd.RefreshToken)
    if fTErr != nil {
      as.log.Warn("Error fetching refresh token, Cannot proceed. Returning error.", "error", fTErr)
      return fmt.Errorf("error fetching refresh token: %w", fTErr)
    }
    if existingToken == nil {
      as.log.Warn("No session found for the given refresh token, Cannot proceed.")
      return fmt.Errorf("no session found for the given refresh token")
    }
    if existingToken.ExpiresAt.Before(time.Now()) {
      if dTErr := as.userTokenRepo.DeleteByID(ctx, tx, existingToken.ID); dTErr != nil {
        as.log.Warn("Refresh token expired, error deleting expired refresh token, Cannot proceed. Returning error.", "error", dTErr)
        return fmt.Errorf("refresh token expired, error deleting: %w", dTErr)
      }
      as.log.Warn("Refresh Token Expired, Cannot proceed.")
      return fmt.Errorf("refresh token expired")
    }
    user, uErr := as.userRepo.GetByID(ctx, tx, existingToken.UserID)
    if uErr != nil {
      as.log.Warn("Failed to load user for refresh, Cannot proceed. Returning error.", "error", uErr)
      return fmt.Errorf("failed to load user for refresh: %w", uErr)
    }
    if user == nil {
      as.log.Warn("No user found for the given refresh token, Cannot proceed.")
      return fmt.Errorf("no user found for the given refresh token")
    }
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      as.log.Warn("Failed to generate new access token, Cannot proceed. Returning error.", "error", genErr)
      return fmt.Errorf("failed to generate new access token: %w", genErr)
    }
    accessToken = tok
    newRefreshTokenStr = uuid.New().String()
    newUserToken := types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  tok,
      RefreshToken: newRefreshTokenStr,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, cErr := as.userTokenRepo.Create(ctx, tx, &newUserToken); cErr != nil {
      as.log.Warn("Failed to create new user token, Cannot proceed. Returning error.", "error", cErr)
      return fmt.Errorf("failed to create new user token: %w", cErr)
    }
    if dErr := as.userTokenRepo.DeleteByID(ctx, tx, existingToken.ID); dErr != nil {
      as.log.Warn("Failed to remove old refresh token, Cannot proceed. Returning error.", "error", dErr)
      return fmt.Errorf("failed to remove old refresh token: %w", dErr)
    }
    return nil
  })
  if err != nil {
    as.log.Warn("Failed transaction, Cannot proceed. Returning error.", "error", err)
    return "", "", err
  }
  return accessToken, newRefreshTokenStr, nil
}

func (as *authService) Logout(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    as.log.Warn("No Request Data found in context, Cannot proceed.")
    return fmt.Errorf("no request data found in context")
  }
  if rd.TokenString == "" {
    as.log.Warn("TokenString in Request Data is an empty string, Cannot proceed.")
    return fmt.Errorf("token string in request data is an empty string")
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    foundToken, fTErr := as.userTokenRepo.GetByAccessToken(ctx, tx, rd.TokenString)
    if fTErr != nil {
      as.log.Warn("Error finding user token from token string, Cannot proceed. Returning error.", "error", fTErr)
      return fmt.Errorf("error finding user token from token string: %w", fTErr)
    }
    if foundToken == nil {
      as.log.Warn("No session found for the given access token, nothing to delete.")
      return nil
    }
    if tDErr := as.userTokenRepo.DeleteByID(ctx, tx, foundToken.ID); tDErr != nil {
      as.log.Warn("Error deleting user token, Cannot proceed. Returning error.", "error", tDErr)
      return fmt.Errorf("error deleting user token: %w", tDErr)
    }
    return nil
  })
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
    Email: user.Email,
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, nil
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, fmt.Errorf("invalid or expired JWT token")
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, fmt.Errorf("invalid user ID in token: %w", err)
  }
  var refreshTokenStr string
  foundToken, fTErr := as.userTokenRepo.GetByAccessToken(ctx, nil, tokenString)
  if fTErr != nil {
    as.log.Warn("Error fetching user token by access token, Cannot proceed. Returning error.", "error", fTErr)
    return ctx, fmt.Errorf("failed to fetch user token by access token: %w", fTErr)
  }
  if foundToken == nil {
    return ctx, fmt.Errorf("no session found for the given access token")
  }
  refreshTokenStr = foundToken.RefreshToken
  rd := &requestdata.RequestData{
    TokenString:  tokenString,
    RefreshToken: refreshTokenStr,
    UserID:       userID,
    Email:        claims.Email,
  }
  ctx = requestdata.WithRequestData(ctx, rd)
  return ctx, nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
