package database

import (
	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormReminderStore struct {
	db *gorm.DB
}

func NewReminderStore(db *gorm.DB) *GormReminderStore {
	return &GormReminderStore{db: db}
}

func (s *GormReminderStore) Create(reminder *models.Reminder) error {
	return s.db.Create(reminder).Error
}

func (s *GormReminderStore) ByOwner(owner uuid.UUID) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.Where("owner_id = ?", owner).Order("created_at").Find(&reminders).Error
	return reminders, err
}

func (s *GormReminderStore) ByID(owner, id uuid.UUID) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := s.db.Where("id = ? AND owner_id = ?", id, owner).First(&reminder).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &reminder, nil
}

func (s *GormReminderStore) Update(reminder *models.Reminder) error {
	return s.db.Save(reminder).Error
}

func (s *GormReminderStore) Delete(owner, id uuid.UUID) error {
	res := s.db.Where("id = ? AND owner_id = ?", id, owner).Delete(&models.Reminder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *GormReminderStore) DueOn(date string) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.Where("remind_date = ? AND sent = ?", date, false).Find(&reminders).Error
	return reminders, err
}

// ClaimSent is the atomic dispatch gate: only the caller whose UPDATE
// flips the flag gets to send.
func (s *GormReminderStore) ClaimSent(id uuid.UUID) (bool, error) {
	res := s.db.Model(&models.Reminder{}).
		Where("id = ? AND sent = ?", id, false).
		Update("sent", true)
	return res.RowsAffected > 0, res.Error
}

func (s *GormReminderStore) ReleaseSent(id uuid.UUID) error {
	return s.db.Model(&models.Reminder{}).
		Where("id = ?", id).
		Update("sent", false).Error
}
