package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultTaskStatus = "not started"

// Task is a single to-do item owned by one user. Date is an optional
// YYYY-MM-DD string, matching what the client sends.
type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Text      string    `gorm:"not null" json:"text"`
	Tag       string    `json:"tag"`
	Date      string    `json:"date"`
	Status    string    `gorm:"not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = DefaultTaskStatus
	}
	return nil
}
