package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Habit tracks a recurring practice. CompletedDates holds the set of
// YYYY-MM-DD days on which the habit was checked off, serialized to a
// JSON column.
type Habit struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Name           string    `gorm:"not null" json:"name"`
	CompletedDates []string  `gorm:"serializer:json" json:"completed_dates"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// CompletedOn reports whether the habit was checked off on the given day.
func (h *Habit) CompletedOn(day string) bool {
	for _, d := range h.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}

// ToggleDay flips the membership of day in CompletedDates and reports the
// new state.
func (h *Habit) ToggleDay(day string) bool {
	for i, d := range h.CompletedDates {
		if d == day {
			h.CompletedDates = append(h.CompletedDates[:i], h.CompletedDates[i+1:]...)
			return false
		}
	}
	h.CompletedDates = append(h.CompletedDates, day)
	return true
}
