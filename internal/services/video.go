package services

import (
  "context"
  "errors"
  "fmt"
  "mime/multipart"
  "net/url"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
  "github.com/skillswap-org/skillswap-backend/internal/repos"
  "github.com/skillswap-org/skillswap-backend/internal/requestdata"
  "github.com/skillswap-org/skillswap-backend/internal/socket"
  "github.com/skillswap-org/skillswap-backend/internal/types"
  "github.com/skillswap-org/skillswap-backend/internal/utils"
)

var (
  ErrNoFile             = errors.New("no video file provided")
  ErrVideoNotFound      = errors.New("video not found")
  ErrNotEnoughCredits   = errors.New("not enough credits")
  ErrStorageUnavailable = errors.New("video storage is unavailable")
)

type UploadVideoInput struct {
  Title       string
  Description string
  CostCredits int64
}

type WatchResult struct {
  Video        types.Video
  CreditsSpent int64
}

type VideoService interface {
  Upload(ctx context.Context, input UploadVideoInput, file *multipart.FileHeader) (types.Video, error)
  ListFeed(ctx context.Context) ([]types.Video, error)
  Watch(ctx context.Context, videoID uuid.UUID) (WatchResult, error)
}

type videoService struct {
  db              *gorm.DB
  log             *logger.Logger
  videoRepo       repos.VideoRepo
  profileRepo     repos.ProfileRepo
  transactionRepo repos.TransactionRepo
  bucketService   BucketService
  hub             *socket.Hub
}

func NewVideoService(
  db *gorm.DB,
  log *logger.Logger,
  videoRepo repos.VideoRepo,
  profileRepo repos.ProfileRepo,
  transactionRepo repos.TransactionRepo,
  bucketService BucketService,
  hub *socket.Hub,
) VideoService {
  serviceLog := log.With("service", "VideoService")
  return &videoService{
    db:              db,
    log:             serviceLog,
    videoRepo:       videoRepo,
    profileRepo:     profileRepo,
    transactionRepo: transactionRepo,
    bucketService:   bucketService,
    hub:             hub,
  }
}

func (vs *videoService) Upload(ctx context.Context, input UploadVideoInput, file *multipart.FileHeader) (types.Video, error) {
  vs.log.Info("Starting Upload now...")

  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    vs.log.Warn("Request Data is not set in context, Cannot proceed.")
    return types.Video{}, fmt.Errorf("request data is not set in context")
  }

  //1) Validate before any storage write
  if file == nil {
    vs.log.Warn("No file in upload request, Cannot proceed. Returning error.")
    return types.Video{}, ErrNoFile
  }
  title := utils.ParseInputString(input.Title)
  if title == "" {
    return types.Video{}, fmt.Errorf("title is required")
  }
  if input.CostCredits < 0 {
    return types.Video{}, fmt.Errorf("costCredits must not be negative")
  }
  if vs.bucketService == nil {
    vs.log.Warn("Bucket service unavailable, Cannot proceed. Returning error.")
    return types.Video{}, ErrStorageUnavailable
  }

  //2) Store the blob; the request context aborts an in-flight write on cancel
  f, err := file.Open()
  if err != nil {
    vs.log.Warn("Failed to open uploaded file, Cannot proceed. Returning error.", "error", err)
    return types.Video{}, fmt.Errorf("failed to open uploaded file: %w", err)
  }
  defer f.Close()

  bucketKey := fmt.Sprintf("videos/%s/%d-%s", rd.UserID.String(), time.Now().UnixMilli(), url.PathEscape(file.Filename))
  contentType := file.Header.Get("Content-Type")
  if uErr := vs.bucketService.UploadFile(ctx, nil, bucketKey, f, contentType); uErr != nil {
    vs.log.Warn("Failed to upload video blob, Cannot proceed. Returning error.", "error", uErr)
    return types.Video{}, fmt.Errorf("failed to upload video: %w", uErr)
  }
  videoURL := vs.bucketService.GetPublicURL(bucketKey)

  //3) Record the video and the zero-cost authorship row together
  video := &types.Video{
    ID:          uuid.New(),
    CreatorID:   rd.UserID,
    Title:       title,
    Description: utils.ParseInputString(input.Description),
    BucketKey:   bucketKey,
    VideoURL:    videoURL,
    CostCredits: input.CostCredits,
  }
  txErr := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := vs.videoRepo.Create(ctx, tx, video); cErr != nil {
      return fmt.Errorf("failed to create video record: %w", cErr)
    }
    authorship := &types.Transaction{
      ID:           uuid.New(),
      VideoID:      video.ID,
      ViewerID:     rd.UserID,
      CreatorID:    rd.UserID,
      CreditsSpent: 0,
    }
    if _, tErr := vs.transactionRepo.Create(ctx, tx, authorship); tErr != nil {
      return fmt.Errorf("failed to create authorship transaction: %w", tErr)
    }
    return nil
  })
  if txErr != nil {
    // The database refused the record; do not leave an orphaned blob behind.
    vs.log.Warn("Video record transaction failed, deleting uploaded blob.", "error", txErr, "bucketKey", bucketKey)
    if dErr := vs.bucketService.DeleteFile(context.WithoutCancel(ctx), bucketKey); dErr != nil {
      vs.log.Error("Failed to delete orphaned video blob", "bucketKey", bucketKey, "error", dErr)
    }
    return types.Video{}, txErr
  }

  //4) Announce the new video on the feed channel
  if vs.hub != nil {
    vs.hub.BroadcastGlobal(ctx, socket.Message{
      Channel: socket.FeedChannel,
      Payload: map[string]interface{}{
        "event": "video_uploaded",
        "video": video,
      },
    })
  }

  vs.log.Info("Successfully uploaded video", "videoID", video.ID)
  return *video, nil
}

func (vs *videoService) ListFeed(ctx context.Context) ([]types.Video, error) {
  vs.log.Info("Starting ListFeed now...")
  return vs.videoRepo.ListAll(ctx, nil)
}

// Watch performs the debit, the credit, and the ledger insert as one
// transaction: either all three happen or none do.
func (vs *videoService) Watch(ctx context.Context, videoID uuid.UUID) (WatchResult, error) {
  vs.log.Info("Starting Watch now...", "videoID", videoID)

  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    vs.log.Warn("Request Data is not set in context, Cannot proceed.")
    return WatchResult{}, fmt.Errorf("request data is not set in context")
  }

  var result WatchResult
  txErr := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    video, vErr := vs.videoRepo.GetByID(ctx, tx, videoID)
    if vErr != nil {
      return fmt.Errorf("failed to fetch video: %w", vErr)
    }
    if video == nil {
      return ErrVideoNotFound
    }
    cost := video.CostCredits

    //1) Debit the viewer; the guarded update refuses an overdraft
    if cost > 0 && video.CreatorID != rd.UserID {
      if dErr := vs.profileRepo.DebitCredits(ctx, tx, rd.UserID, cost); dErr != nil {
        if errors.Is(dErr, repos.ErrInsufficientCredits) {
          return ErrNotEnoughCredits
        }
        return fmt.Errorf("failed to debit viewer: %w", dErr)
      }
      //2) Credit the creator
      if aErr := vs.profileRepo.AddCredits(ctx, tx, video.CreatorID, cost); aErr != nil {
        return fmt.Errorf("failed to credit creator: %w", aErr)
      }
    } else {
      cost = 0
    }

    //3) Ledger row; free and self watches still get one
    watch := &types.Transaction{
      ID:           uuid.New(),
      VideoID:      video.ID,
      ViewerID:     rd.UserID,
      CreatorID:    video.CreatorID,
      CreditsSpent: cost,
    }
    if _, tErr := vs.transactionRepo.Create(ctx, tx, watch); tErr != nil {
      return fmt.Errorf("failed to create watch transaction: %w", tErr)
    }

    result = WatchResult{Video: *video, CreditsSpent: cost}
    return nil
  })
  if txErr != nil {
    if errors.Is(txErr, ErrNotEnoughCredits) || errors.Is(txErr, ErrVideoNotFound) {
      return WatchResult{}, txErr
    }
    vs.log.Warn("Watch transaction failed, Cannot proceed. Returning error.", "error", txErr)
    return WatchResult{}, txErr
  }

  //4) Push credit updates to both sides
  if vs.hub != nil && result.CreditsSpent > 0 {
    vs.hub.BroadcastGlobal(ctx, socket.Message{
      Channel: socket.UserChannel(rd.UserID),
      Payload: map[string]interface{}{"event": "credits_spent", "videoId": result.Video.ID, "credits": result.CreditsSpent},
    })
    vs.hub.BroadcastGlobal(ctx, socket.Message{
      Channel: socket.UserChannel(result.Video.CreatorID),
      Payload: map[string]interface{}{"event": "credits_earned", "videoId": result.Video.ID, "credits": result.CreditsSpent},
    })
  }

  vs.log.Info("Successfully recorded watch", "videoID", videoID, "creditsSpent", result.CreditsSpent)
  return result, nil
}
