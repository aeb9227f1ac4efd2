package repos

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/skillswap-org/skillswap-backend/internal/logger"
    "github.com/skillswap-org/skillswap-backend/internal/types"
)

// ErrInsufficientCredits is returned by DebitCredits when the guarded update
// matches no row, i.e. the balance is below the requested amount.
var ErrInsufficientCredits = errors.New("insufficient credits")

type ProfileRepo interface {
    // UPSERT (create-if-absent; never touches credits on conflict)
    Upsert(ctx context.Context, tx *gorm.DB, profile *types.Profile) error

    // READ
    GetByID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) (*types.Profile, error)

    // FULL UPDATE
    Update(ctx context.Context, tx *gorm.DB, profile *types.Profile) (*types.Profile, error)

    // CREDITS (atomic in-database increments, never read-modify-write)
    DebitCredits(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, amount int64) error
    AddCredits(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, amount int64) error
}

type profileRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
    repoLog := baseLog.With("repo", "ProfileRepo")
    return &profileRepo{db: db, log: repoLog}
}

func (pr *profileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.Profile) error {
    pr.log.Info("Starting Upsert for Profile now...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
        pr.log.Debug("Transaction is nil, using pr.db")
    }

    if err := transaction.WithContext(ctx).
        Clauses(clause.OnConflict{
            Columns:   []clause.Column{{Name: "id"}},
            DoUpdates: clause.AssignmentColumns([]string{"email", "name", "username", "updated_at"}),
        }).
        Create(profile).Error; err != nil {
        pr.log.Error("Failed to upsert profile", "error", err)
        return err
    }
    pr.log.Info("Successfully upserted profile", "profileID", profile.ID)
    return nil
}

func (pr *profileRepo) GetByID(ctx context.Context, tx *gorm.DB, profileID uuid.UUID) (*types.Profile, error) {
    pr.log.Info("Starting GetByID for Profile now...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    var profile types.Profile
    if err := transaction.WithContext(ctx).
        Where("id = ?", profileID).
        First(&profile).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            pr.log.Debug("No profile found for ID", "profileID", profileID)
            return nil, nil
        }
        pr.log.Error("Failed to fetch profile by ID", "error", err)
        return nil, err
    }
    return &profile, nil
}

func (pr *profileRepo) Update(ctx context.Context, tx *gorm.DB, profile *types.Profile) (*types.Profile, error) {
    pr.log.Info("Starting Update for Profile now...")

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    if err := transaction.WithContext(ctx).Save(profile).Error; err != nil {
        pr.log.Error("Failed to update profile", "error", err)
        return nil, err
    }
    pr.log.Info("Successfully updated profile", "profileID", profile.ID)
    return profile, nil
}

// DebitCredits only succeeds when the row still has the balance to cover the
// amount; the WHERE guard is what serializes concurrent watches.
func (pr *profileRepo) DebitCredits(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, amount int64) error {
    pr.log.Info("Starting DebitCredits for Profile now...", "profileID", profileID, "amount", amount)

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    res := transaction.WithContext(ctx).
        Model(&types.Profile{}).
        Where("id = ? AND credits >= ?", profileID, amount).
        Update("credits", gorm.Expr("credits - ?", amount))
    if res.Error != nil {
        pr.log.Error("Failed to debit credits", "error", res.Error)
        return res.Error
    }
    if res.RowsAffected == 0 {
        pr.log.Warn("Debit matched no row, balance too low or profile missing", "profileID", profileID, "amount", amount)
        return ErrInsufficientCredits
    }
    pr.log.Info("Successfully debited credits", "profileID", profileID, "amount", amount)
    return nil
}

func (pr *profileRepo) AddCredits(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, amount int64) error {
    pr.log.Info("Starting AddCredits for Profile now...", "profileID", profileID, "amount", amount)

    transaction := tx
    if transaction == nil {
        transaction = pr.db
    }

    if err := transaction.WithContext(ctx).
        Model(&types.Profile{}).
        Where("id = ?", profileID).
        Update("credits", gorm.Expr("credits + ?", amount)).Error; err != nil {
        pr.log.Error("Failed to add credits", "error", err)
        return err
    }
    pr.log.Info("Successfully added credits", "profileID", profileID, "amount", amount)
    return nil
}
