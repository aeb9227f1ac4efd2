package repos

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/skillswap-org/skillswap-backend/internal/logger"
    "github.com/skillswap-org/skillswap-backend/internal/types"
)

type VideoRepo interface {
    // CREATE
    Create(ctx context.Context, tx *gorm.DB, video *types.Video) (*types.Video, error)

    // READ
    GetByID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) (*types.Video, error)
    ListAll(ctx context.Context, tx *gorm.DB) ([]types.Video, error)
}

type videoRepo struct {
    db  *gorm.DB
    log *logger.Logger
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
    repoLog := baseLog.With("repo", "VideoRepo")
    return &videoRepo{db: db, log: repoLog}
}

func (vr *videoRepo) Create(ctx context.Context, tx *gorm.DB, video *types.Video) (*types.Video, error) {
    vr.log.Info("Starting Create for Video now...")

    transaction := tx
    if transaction == nil {
        transaction = vr.db
        vr.log.Debug("Transaction is nil, using vr.db")
    }

    if err := transaction.WithContext(ctx).Create(video).Error; err != nil {
        vr.log.Error("Failed to create video", "error", err)
        return nil, err
    }
    vr.log.Info("Successfully created video", "videoID", video.ID)
    return video, nil
}

func (vr *videoRepo) GetByID(ctx context.Context, tx *gorm.DB, videoID uuid.UUID) (*types.Video, error) {
    vr.log.Info("Starting GetByID for Video now...")

    transaction := tx
    if transaction == nil {
        transaction = vr.db
    }

    var video types.Video
    if err := transaction.WithContext(ctx).
        Where("id = ?", videoID).
        First(&video).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            vr.log.Debug("No video found for ID", "videoID", videoID)
            return nil, nil
        }
        vr.log.Error("Failed to fetch video by ID", "error", err)
        return nil, err
    }
    return &video, nil
}

func (vr *videoRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]types.Video, error) {
    vr.log.Info("Starting ListAll for Videos now...")

    transaction := tx
    if transaction == nil {
        transaction = vr.db
    }

    var videos []types.Video
    if err := transaction.WithContext(ctx).
        Order("created_at DESC").
        Find(&videos).Error; err != nil {
        vr.log.Error("Failed to list videos", "error", err)
        return nil, err
    }
    vr.log.Info("Successfully listed videos", "count", len(videos))
    return videos, nil
}
