package services

import (
  "context"
  "fmt"
  "io"
  "os"

  "cloud.google.com/go/storage"
  "google.golang.org/api/option"
  "gorm.io/gorm"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
)

type BucketService interface {
  UploadFile(ctx context.Context, tx *gorm.DB, key string, r io.Reader, contentType string) error
  DeleteFile(ctx context.Context, key string) error
  GetPublicURL(key string) string
}

type bucketService struct {
  log        *logger.Logger
  client     *storage.Client
  bucketName string
}

func NewBucketService(ctx context.Context, log *logger.Logger) (BucketService, error) {
  serviceLog := log.With("service", "BucketService")
  bucketName := os.Getenv("GCS_BUCKET")
  if bucketName == "" {
    return nil, fmt.Errorf("missing GCS_BUCKET environment variable")
  }

  var opts []option.ClientOption
  if credsFile := os.Getenv("GCS_CREDENTIALS_FILE"); credsFile != "" {
    opts = append(opts, option.WithCredentialsFile(credsFile))
  }
  client, err := storage.NewClient(ctx, opts...)
  if err != nil {
    serviceLog.Error("Failed to create GCS client", "error", err)
    return nil, fmt.Errorf("failed to create GCS client: %w", err)
  }

  return &bucketService{
    log:        serviceLog,
    client:     client,
    bucketName: bucketName,
  }, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, tx *gorm.DB, key string, r io.Reader, contentType string) error {
  bs.log.Info("Starting UploadFile now...", "key", key)

  w := bs.client.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
  if contentType != "" {
    w.ContentType = contentType
  }
  if _, err := io.Copy(w, r); err != nil {
    w.Close()
    bs.log.Error("Failed to write object to bucket", "key", key, "error", err)
    return fmt.Errorf("failed to write object %q: %w", key, err)
  }
  if err := w.Close(); err != nil {
    bs.log.Error("Failed to finalize object upload", "key", key, "error", err)
    return fmt.Errorf("failed to finalize object %q: %w", key, err)
  }
  bs.log.Info("Successfully uploaded object to bucket", "key", key)
  return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
  bs.log.Info("Starting DeleteFile now...", "key", key)

  if err := bs.client.Bucket(bs.bucketName).Object(key).Delete(ctx); err != nil {
    bs.log.Error("Failed to delete object from bucket", "key", key, "error", err)
    return fmt.Errorf("failed to delete object %q: %w", key, err)
  }
  bs.log.Info("Successfully deleted object from bucket", "key", key)
  return nil
}

func (bs *bucketService) GetPublicURL(key string) string {
  return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}
