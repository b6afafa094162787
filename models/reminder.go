package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder is a scheduled note. RemindDate is YYYY-MM-DD, RemindTime is
// HH:MM; a reminder without a time is never dispatched. Sent flips from
// false to true exactly once, when the dispatch loop claims the row.
type Reminder struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Text       string    `gorm:"not null" json:"text"`
	RemindDate string    `gorm:"index;not null" json:"date"`
	RemindTime string    `json:"time"`
	Repeat     string    `json:"repeat"`
	Sent       bool      `gorm:"not null;default:false" json:"sent"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
