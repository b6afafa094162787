package repositories

import (
	"errors"

	"github.com/Musharaf05/HabitFlow/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a row does not exist or is owned by a
// different user. Handlers map it to 404.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert lands on a unique index, for
// example two signups racing the same username past the existence check.
var ErrDuplicate = errors.New("record already exists")

type UserStore interface {
	Create(user *models.User) error
	ByID(id uuid.UUID) (*models.User, error)
	ByUsername(username string) (*models.User, error)
	ByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}

type TaskStore interface {
	Create(task *models.Task) error
	ByOwner(owner uuid.UUID) ([]models.Task, error)
	ByID(owner, id uuid.UUID) (*models.Task, error)
	Update(task *models.Task) error
	Delete(owner, id uuid.UUID) error
}

type GoalStore interface {
	Create(goal *models.Goal) error
	ByOwner(owner uuid.UUID) ([]models.Goal, error)
	ByID(owner, id uuid.UUID) (*models.Goal, error)
	Update(goal *models.Goal) error
	Delete(owner, id uuid.UUID) error
}

type HabitStore interface {
	Create(habit *models.Habit) error
	ByOwner(owner uuid.UUID) ([]models.Habit, error)
	ByID(owner, id uuid.UUID) (*models.Habit, error)
	Update(habit *models.Habit) error
	Delete(owner, id uuid.UUID) error
}

type ReminderStore interface {
	Create(reminder *models.Reminder) error
	ByOwner(owner uuid.UUID) ([]models.Reminder, error)
	ByID(owner, id uuid.UUID) (*models.Reminder, error)
	Update(reminder *models.Reminder) error
	Delete(owner, id uuid.UUID) error

	// DueOn returns the unsent reminders scheduled for the given
	// YYYY-MM-DD day, regardless of owner.
	DueOn(date string) ([]models.Reminder, error)
	// ClaimSent atomically flips sent from false to true and reports
	// whether this caller won the flip. A false return means another
	// writer already claimed the reminder.
	ClaimSent(id uuid.UUID) (bool, error)
	// ReleaseSent puts a claimed reminder back to unsent. Used only when
	// the tokenless-retry policy is active and there was nobody to
	// deliver to.
	ReleaseSent(id uuid.UUID) error
}

type TokenStore interface {
	// Upsert registers a delivery token. Tokens are globally unique: an
	// existing row is re-owned by the given user and its UpdatedAt bumped;
	// otherwise a new row is inserted. A nil owner never strips existing
	// ownership, it only refreshes the row.
	Upsert(owner *uuid.UUID, token string) (*models.DeliveryToken, error)
	ByOwner(owner uuid.UUID) ([]models.DeliveryToken, error)
	// DeleteTokens removes rows by token string. Missing tokens are not
	// an error.
	DeleteTokens(tokens []string) error
}
