package db

import (
  "fmt"

  "gorm.io/driver/postgres"
  "gorm.io/gorm"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
  "github.com/skillswap-org/skillswap-backend/internal/types"
  "github.com/skillswap-org/skillswap-backend/internal/utils"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  //1) Get and Set Environment Variables
  log.Info("Attempting to load environment variables for Postgres now...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "skillswap", log)
  log.Info("Environment variables loaded for Postgres :)")

  //2) Construct DSN From Environment Variables
  log.Info("Attempting to construct DSN from environment variables for Postgres now...")
  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  //3) Attempt DB Connection
  log.Info("Attempting to connect to Postgres DB now...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres DB", "error", err)
    return nil, fmt.Errorf("failed to connect to Postgres DB: %w", err)
  }
  log.Info("Successfully Connected to Postgres DB :)")

  //4) Enable uuid-ossp Extension
  log.Debug("Attempting to enable uuid-ossp extension now...")
  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension :(", "error", err)
    return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
  }
  log.Info("uuid-ossp extension enabled or already exists :)")

  return &PostgresService{db: db, log: serviceLog}, nil
}

// NewPostgresServiceWithDB wraps an already-open connection. Used by tests.
func NewPostgresServiceWithDB(db *gorm.DB, log *logger.Logger) *PostgresService {
  serviceLog := log.With("service", "PostgresService")
  return &PostgresService{db: db, log: serviceLog}
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Starting AutoMigrateAll for all GORM models now...")

  err := s.db.AutoMigrate(
    &types.User{},
    &types.Profile{},
    &types.Video{},
    &types.Transaction{},
    &types.OneTimeCode{},
    &types.UserToken{},
  )
  if err != nil {
    s.log.Error("AutoMigrateAll failed for Base Tables :(", "error", err)
    return err
  }
  s.log.Info("AutoMigrateAll completed successfully for Base Tables :)")

  s.log.Info("Configuring Foreign Key Relationships for Base Tables now...")
  // -- Profile.id => user.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "profile"
      ADD CONSTRAINT "fk_profile_user_id"
      FOREIGN KEY ("id")
      REFERENCES "user"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
      return fmt.Errorf("failed to add fk_profile_user_id: %w", err)
  }
  // -- Video.creator_id => profile.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "video"
      ADD CONSTRAINT "fk_video_creator_id"
      FOREIGN KEY ("creator_id")
      REFERENCES "profile"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
      return fmt.Errorf("failed to add fk_video_creator_id: %w", err)
  }
  // -- Transaction.video_id => video.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "transaction"
      ADD CONSTRAINT "fk_transaction_video_id"
      FOREIGN KEY ("video_id")
      REFERENCES "video"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
      return fmt.Errorf("failed to add fk_transaction_video_id: %w", err)
  }
  // -- Transaction.viewer_id => profile.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "transaction"
      ADD CONSTRAINT "fk_transaction_viewer_id"
      FOREIGN KEY ("viewer_id")
      REFERENCES "profile"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
      return fmt.Errorf("failed to add fk_transaction_viewer_id: %w", err)
  }
  // -- Transaction.creator_id => profile.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "transaction"
      ADD CONSTRAINT "fk_transaction_creator_id"
      FOREIGN KEY ("creator_id")
      REFERENCES "profile"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
      return fmt.Errorf("failed to add fk_transaction_creator_id: %w", err)
  }
  // -- UserToken.user_id => user.id (ON DELETE CASCADE)
  if err := s.db.Exec(`
      ALTER TABLE "user_token"
      ADD CONSTRAINT "fk_user_token_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE CASCADE
  `).Error; err != nil {
      return fmt.Errorf("failed to add fk_user_token_user_id: %w", err)
  }
  s.log.Info("Successfully Added Foreign Key Relationships to Base Tables :)")

  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
