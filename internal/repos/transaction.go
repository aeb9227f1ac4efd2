package repos

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/skillswap-org/skillswap-backend/internal/logger"
    "github.com/skillswap-org/skillswap-backend/internal/types"
)

// TransactionRepo is append-only on purpose: there is no update or delete.
type TransactionRepo interface {
    Create(ctx context.Context, tx *gorm.DB, txn *types.Transaction) (*types.Transaction, error)
    ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.Transaction, error)
}

type transactionRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewTransactionRepo(db *gorm.DB, baseLog *logger.Logger) TransactionRepo {
    repoLog := baseLog.With("repo", "TransactionRepo")
    return &transactionRepo{db: db, log: repoLog}
}

func (tr *transactionRepo) Create(ctx context.Context, tx *gorm.DB, txn *types.Transaction) (*types.Transaction, error) {
    tr.log.Info("Starting Create for Transaction now...")

    transaction := tx
    if transaction == nil {
        transaction = tr.db
        tr.log.Debug("Transaction is nil, using tr.db")
    }

    if err := transaction.WithContext(ctx).Create(txn).Error; err != nil {
        tr.log.Error("Failed to create transaction", "error", err)
        return nil, err
    }
    tr.log.Info("Successfully created transaction", "transactionID", txn.ID)
    return txn, nil
}

// ListForUser returns every ledger row the user appears in, viewer or
// creator side, newest first, with the video preloaded for display titles.
func (tr *transactionRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.Transaction, error) {
    tr.log.Info("Starting ListForUser for Transactions now...")

    transaction := tx
    if transaction == nil {
        transaction = tr.db
    }

    var txns []types.Transaction
    if err := transaction.WithContext(ctx).
        Preload("Video").
        Where("viewer_id = ? OR creator_id = ?", userID, userID).
        Order("created_at DESC").
        Find(&txns).Error; err != nil {
        tr.log.Error("Failed to list transactions for user", "error", err)
        return nil, err
    }
    tr.log.Info("Successfully listed transactions for user", "count", len(txns))
    return txns, nil
}
