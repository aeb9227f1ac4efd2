package repos

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/skillswap-org/skillswap-backend/internal/logger"
    "github.com/skillswap-org/skillswap-backend/internal/types"
)

type UserRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)

    // READ
    GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error)
    GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
    EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)

    // PARTIAL UPDATE
    MarkEmailVerified(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type userRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
    repoLog := baseLog.With("repo", "UserRepo")
    return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
    ur.log.Info("Starting Create for User now...")

    transaction := tx
    if transaction == nil {
        transaction = ur.db
        ur.log.Debug("Transaction is nil, using ur.db")
    }

    if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
        ur.log.Error("Failed to create user", "error", err)
        return nil, err
    }
    ur.log.Info("Successfully created user", "userID", user.ID)
    return user, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
    ur.log.Info("Starting GetByID for User now...")

    transaction := tx
    if transaction == nil {
        transaction = ur.db
    }

    var user types.User
    if err := transaction.WithContext(ctx).
        Where("id = ?", userID).
        First(&user).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            ur.log.Debug("No user found for ID", "userID", userID)
            return nil, nil
        }
        ur.log.Error("Failed to fetch user by ID", "error", err)
        return nil, err
    }
    return &user, nil
}

func (ur *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
    ur.log.Info("Starting GetByEmail for User now...")

    transaction := tx
    if transaction == nil {
        transaction = ur.db
    }

    var user types.User
    if err := transaction.WithContext(ctx).
        Where("email = ?", email).
        First(&user).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            ur.log.Debug("No user found for email", "email", email)
            return nil, nil
        }
        ur.log.Error("Failed to fetch user by email", "error", err)
        return nil, err
    }
    return &user, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
    ur.log.Info("Starting EmailExists now...", "email", email)

    transaction := tx
    if transaction == nil {
        transaction = ur.db
    }

    var count int64
    if err := transaction.WithContext(ctx).
        Model(&types.User{}).
        Where("email = ?", email).
        Count(&count).Error; err != nil {
        ur.log.Error("Failed to count users by email", "error", err)
        return false, err
    }
    return count > 0, nil
}

func (ur *userRepo) MarkEmailVerified(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
    ur.log.Info("Starting MarkEmailVerified for User now...", "userID", userID)

    transaction := tx
    if transaction == nil {
        transaction = ur.db
    }

    if err := transaction.WithContext(ctx).
        Model(&types.User{}).
        Where("id = ?", userID).
        Update("email_verified", true).Error; err != nil {
        ur.log.Error("Failed to mark user email verified", "error", err)
        return err
    }
    ur.log.Info("Successfully marked user email verified", "userID", userID)
    return nil
}
