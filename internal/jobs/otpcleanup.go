package jobs

import (
  "context"
  "time"

  "github.com/robfig/cron/v3"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
  "github.com/skillswap-org/skillswap-backend/internal/repos"
  "github.com/skillswap-org/skillswap-backend/internal/services"
)

// OtpCleanupJob hard-deletes one time codes past the validity window so the
// table only ever holds live codes.
type OtpCleanupJob struct {
  log             *logger.Logger
  cron            *cron.Cron
  oneTimeCodeRepo repos.OneTimeCodeRepo
}

func NewOtpCleanupJob(log *logger.Logger, oneTimeCodeRepo repos.OneTimeCodeRepo) *OtpCleanupJob {
  jobLog := log.With("job", "OtpCleanupJob")
  return &OtpCleanupJob{
    log:             jobLog,
    cron:            cron.New(),
    oneTimeCodeRepo: oneTimeCodeRepo,
  }
}

func (j *OtpCleanupJob) Start() error {
  if _, err := j.cron.AddFunc("@hourly", j.run); err != nil {
    return err
  }
  j.cron.Start()
  j.log.Info("OTP cleanup job scheduled", "schedule", "@hourly")
  return nil
}

func (j *OtpCleanupJob) Stop() {
  j.cron.Stop()
}

func (j *OtpCleanupJob) run() {
  ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
  defer cancel()

  cutoff := time.Now().Add(-services.OtpValidityWindow)
  deleted, err := j.oneTimeCodeRepo.DeleteExpired(ctx, nil, cutoff)
  if err != nil {
    j.log.Warn("Failed to delete expired one time codes", "error", err)
    return
  }
  if deleted > 0 {
    j.log.Info("Deleted expired one time codes", "count", deleted)
  }
}
