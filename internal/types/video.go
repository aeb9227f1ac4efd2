package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

// Video rows are immutable once inserted.
type Video struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  CreatorID           uuid.UUID                 `gorm:"index;not null;column:creator_id" json:"creatorID"`
  Creator             *Profile                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:CreatorID;references:ID" json:"creator,omitempty"`

  Title               string                    `gorm:"not null;column:title" json:"title"`
  Description         string                    `gorm:"column:description" json:"description"`
  BucketKey           string                    `gorm:"not null;column:bucket_key" json:"bucketKey"`
  VideoURL            string                    `gorm:"not null;column:video_url" json:"videoURL"`
  CostCredits         int64                     `gorm:"not null;default:0;column:cost_credits;check:cost_credits >= 0" json:"costCredits"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Video) TableName() string {
  return "video"
}
