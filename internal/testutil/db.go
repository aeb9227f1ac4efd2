package testutil

import (
	"fmt"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/skillswap-org/skillswap-backend/internal/logger"
	"github.com/skillswap-org/skillswap-backend/internal/types"
)

func NewTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// OpenTestDB connects to the postgres instance named by TEST_DB_* env vars,
// migrates the schema, and skips the test when no instance is configured.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	port := envOr("TEST_DB_PORT", "5432")
	user := envOr("TEST_DB_USER", "skillswap")
	password := envOr("TEST_DB_PASSWORD", "skillswap_pass")
	name := envOr("TEST_DB_NAME", "skillswap_test")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		t.Fatalf("enable uuid-ossp: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.Profile{},
		&types.Video{},
		&types.Transaction{},
		&types.OneTimeCode{},
		&types.UserToken{},
	); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	CleanTables(t, db)
	return db
}

// CleanTables empties every table in dependency order.
func CleanTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, table := range []string{
		"transaction",
		"video",
		"user_token",
		"one_time_code",
		"profile",
		"user",
	} {
		if err := db.Exec(fmt.Sprintf(`DELETE FROM "%s"`, table)).Error; err != nil {
			t.Fatalf("clean table %s: %v", table, err)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
