package repos

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/skillswap-org/skillswap-backend/internal/logger"
    "github.com/skillswap-org/skillswap-backend/internal/types"
)

type UserTokenRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error)

    // READ
    GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*types.UserToken, error)
    GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error)

    // FULL (HARD) DELETE
    DeleteByID(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) error
    DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type userTokenRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
    repoLog := baseLog.With("repo", "UserTokenRepo")
    return &userTokenRepo{db: db, log: repoLog}
}

func (utr *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error) {
    utr.log.Info("Starting Create for UserToken now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
        utr.log.Debug("Transaction is nil, using utr.db")
    }

    if err := transaction.WithContext(ctx).Create(token).Error; err != nil {
        utr.log.Error("Failed to create user token", "error", err)
        return nil, err
    }
    utr.log.Info("Successfully created user token", "tokenID", token.ID)
    return token, nil
}

func (utr *userTokenRepo) GetByAccessToken(ctx context.Context, tx *gorm.DB, accessToken string) (*types.UserToken, error) {
    utr.log.Info("Starting GetByAccessToken for UserToken now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
    }

    var token types.UserToken
    if err := transaction.WithContext(ctx).
        Where("access_token = ?", accessToken).
        First(&token).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            utr.log.Debug("No user token found for access token")
            return nil, nil
        }
        utr.log.Error("Failed to fetch user token by access token", "error", err)
        return nil, err
    }
    return &token, nil
}

func (utr *userTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error) {
    utr.log.Info("Starting GetByRefreshToken for UserToken now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
    }

    var token types.UserToken
    if err := transaction.WithContext(ctx).
        Where("refresh_token = ?", refreshToken).
        First(&token).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            utr.log.Debug("No user token found for refresh token")
            return nil, nil
        }
        utr.log.Error("Failed to fetch user token by refresh token", "error", err)
        return nil, err
    }
    return &token, nil
}

func (utr *userTokenRepo) DeleteByID(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID) error {
    utr.log.Info("Starting DeleteByID for UserToken now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
    }

    if err := transaction.WithContext(ctx).
        Unscoped().
        Where("id = ?", tokenID).
        Delete(&types.UserToken{}).Error; err != nil {
        utr.log.Error("Failed to delete user token by ID", "error", err)
        return err
    }
    utr.log.Info("Successfully deleted user token", "tokenID", tokenID)
    return nil
}

func (utr *userTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
    utr.log.Info("Starting DeleteByUserID for UserTokens now...")

    transaction := tx
    if transaction == nil {
        transaction = utr.db
    }

    if err := transaction.WithContext(ctx).
        Unscoped().
        Where("user_id = ?", userID).
        Delete(&types.UserToken{}).Error; err != nil {
        utr.log.Error("Failed to delete user tokens by user ID", "error", err)
        return err
    }
    utr.log.Info("Successfully deleted user tokens for user", "userID", userID)
    return nil
}
