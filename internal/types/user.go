package types

import (
  "encoding/json"
  "time"

  "gorm.io/gorm"
  "gorm.io/datatypes"
  "github.com/google/uuid"
)

// User is the authentication identity. The account record the rest of the
// app works with lives in Profile.
type User struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

  Email               string                    `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Password            string                    `gorm:"not null;column:password" json:"-"`
  EmailVerified       bool                      `gorm:"not null;default:false;column:email_verified" json:"emailVerified"`
  Metadata            datatypes.JSON            `gorm:"column:metadata" json:"metadata,omitempty"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (User) TableName() string {
  return "user"
}

// NewUserMetadata packs the signup display fields into the metadata column.
func NewUserMetadata(name, username string) (datatypes.JSON, error) {
  raw, err := json.Marshal(map[string]string{
    "name":     name,
    "username": username,
  })
  if err != nil {
    return nil, err
  }
  return datatypes.JSON(raw), nil
}
