package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

// Transaction is an append-only ledger entry. A watch writes one row with
// the credits spent; an upload writes one zero-cost row recording
// self-authorship. Rows are never updated or deleted.
type Transaction struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  VideoID             uuid.UUID                 `gorm:"index;not null;column:video_id" json:"videoID"`
  Video               *Video                    `gorm:"constraint:OnDelete:CASCADE;foreignKey:VideoID;references:ID" json:"video,omitempty"`
  ViewerID            uuid.UUID                 `gorm:"index;not null;column:viewer_id" json:"viewerID"`
  CreatorID           uuid.UUID                 `gorm:"index;not null;column:creator_id" json:"creatorID"`

  CreditsSpent        int64                     `gorm:"not null;default:0;column:credits_spent" json:"creditsSpent"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Transaction) TableName() string {
  return "transaction"
}
