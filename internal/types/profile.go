package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

// Profile shares its primary key with the User it belongs to.
type Profile struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
  User                *User                     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ID;references:ID" json:"-"`

  Email               string                    `gorm:"not null;column:email" json:"email"`
  Name                string                    `gorm:"column:name" json:"name"`
  Username            string                    `gorm:"uniqueIndex;not null;column:username" json:"username"`
  Credits             int64                     `gorm:"not null;default:0;column:credits;check:credits >= 0" json:"credits"`
  Bio                 string                    `gorm:"column:bio" json:"bio"`
  Phone               *string                   `gorm:"column:phone" json:"phone,omitempty"`
  AvatarBucketKey     string                    `gorm:"column:avatar_bucket_key" json:"avatarBucketKey"`
  AvatarURL           string                    `gorm:"column:avatar_url" json:"avatarURL"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Profile) TableName() string {
  return "profile"
}
