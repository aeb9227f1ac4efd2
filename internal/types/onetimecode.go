package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

// OneTimeCode is keyed by email: issuing a new code upserts the row, so at
// most one live code exists per address. Consumption is a hard delete.
type OneTimeCode struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`

  Email               string                    `gorm:"uniqueIndex;not null;column:email"`
  Code                string                    `gorm:"not null;column:code"`
  IssuedAt            time.Time                 `gorm:"not null;column:issued_at"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()"`
}

func (OneTimeCode) TableName() string {
  return "one_time_code"
}
