package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryToken is one registered FCM endpoint (a device or browser).
// Tokens are globally unique; the owner is optional because a device can
// register before anyone logs in on it. Re-registration moves ownership to
// the current session.
type DeliveryToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   *uuid.UUID `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Token     string     `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (t *DeliveryToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
