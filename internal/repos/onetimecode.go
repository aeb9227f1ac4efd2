package repos

import (
    "context"
    "errors"
    "time"

    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/skillswap-org/skillswap-backend/internal/logger"
    "github.com/skillswap-org/skillswap-backend/internal/types"
)

type OneTimeCodeRepo interface {
    // UPSERT (issue)
    UpsertByEmail(ctx context.Context, tx *gorm.DB, otc *types.OneTimeCode) error

    // READ
    GetByEmailForUpdate(ctx context.Context, tx *gorm.DB, email string) (*types.OneTimeCode, error)

    // FULL (HARD) DELETE
    DeleteByEmail(ctx context.Context, tx *gorm.DB, email string) error
    DeleteExpired(ctx context.Context, tx *gorm.DB, issuedBefore time.Time) (int64, error)
}

type oneTimeCodeRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewOneTimeCodeRepo(db *gorm.DB, baseLog *logger.Logger) OneTimeCodeRepo {
    repoLog := baseLog.With("repo", "OneTimeCodeRepo")
    return &oneTimeCodeRepo{db: db, log: repoLog}
}

// UpsertByEmail replaces whatever code is currently stored for the email, so
// only the latest issued code can ever verify.
func (ocr *oneTimeCodeRepo) UpsertByEmail(ctx context.Context, tx *gorm.DB, otc *types.OneTimeCode) error {
    ocr.log.Info("Starting UpsertByEmail for OneTimeCode now...")

    transaction := tx
    if transaction == nil {
        transaction = ocr.db
        ocr.log.Debug("Transaction is nil, using ocr.db")
    }

    if err := transaction.WithContext(ctx).
        Clauses(clause.OnConflict{
            Columns:   []clause.Column{{Name: "email"}},
            DoUpdates: clause.AssignmentColumns([]string{"code", "issued_at", "updated_at"}),
        }).
        Create(otc).Error; err != nil {
        ocr.log.Error("Failed to upsert one-time code", "error", err)
        return err
    }
    ocr.log.Info("Successfully upserted one-time code", "email", otc.Email)
    return nil
}

// GetByEmailForUpdate row-locks the code so two concurrent verifications for
// the same email serialize; the loser sees the row already consumed.
func (ocr *oneTimeCodeRepo) GetByEmailForUpdate(ctx context.Context, tx *gorm.DB, email string) (*types.OneTimeCode, error) {
    ocr.log.Info("Starting GetByEmailForUpdate for OneTimeCode now...")

    transaction := tx
    if transaction == nil {
        transaction = ocr.db
        ocr.log.Debug("Transaction is nil, using ocr.db")
    }

    var otc types.OneTimeCode
    if err := transaction.WithContext(ctx).
        Clauses(clause.Locking{Strength: "UPDATE"}).
        Where("email = ?", email).
        First(&otc).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            ocr.log.Debug("No one-time code stored for email", "email", email)
            return nil, nil
        }
        ocr.log.Error("Failed to fetch one-time code by email", "error", err)
        return nil, err
    }
    ocr.log.Info("Successfully fetched one-time code", "email", email)
    return &otc, nil
}

func (ocr *oneTimeCodeRepo) DeleteByEmail(ctx context.Context, tx *gorm.DB, email string) error {
    ocr.log.Info("Starting DeleteByEmail for OneTimeCode now...")

    transaction := tx
    if transaction == nil {
        transaction = ocr.db
    }

    if err := transaction.WithContext(ctx).
        Unscoped().
        Where("email = ?", email).
        Delete(&types.OneTimeCode{}).Error; err != nil {
        ocr.log.Error("Failed to delete one-time code by email", "error", err)
        return err
    }
    ocr.log.Info("Successfully deleted one-time code", "email", email)
    return nil
}

func (ocr *oneTimeCodeRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, issuedBefore time.Time) (int64, error) {
    ocr.log.Info("Starting DeleteExpired for OneTimeCodes now...", "issuedBefore", issuedBefore)

    transaction := tx
    if transaction == nil {
        transaction = ocr.db
    }

    res := transaction.WithContext(ctx).
        Unscoped().
        Where("issued_at < ?", issuedBefore).
        Delete(&types.OneTimeCode{})
    if res.Error != nil {
        ocr.log.Error("Failed to delete expired one-time codes", "error", res.Error)
        return 0, res.Error
    }
    ocr.log.Info("Successfully deleted expired one-time codes", "count", res.RowsAffected)
    return res.RowsAffected, nil
}
