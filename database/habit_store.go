package database

import (
	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormHabitStore struct {
	db *gorm.DB
}

func NewHabitStore(db *gorm.DB) *GormHabitStore {
	return &GormHabitStore{db: db}
}

func (s *GormHabitStore) Create(habit *models.Habit) error {
	return s.db.Create(habit).Error
}

func (s *GormHabitStore) ByOwner(owner uuid.UUID) ([]models.Habit, error) {
	var habits []models.Habit
	err := s.db.Where("owner_id = ?", owner).Order("created_at").Find(&habits).Error
	return habits, err
}

func (s *GormHabitStore) ByID(owner, id uuid.UUID) (*models.Habit, error) {
	var habit models.Habit
	if err := s.db.Where("id = ? AND owner_id = ?", id, owner).First(&habit).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &habit, nil
}

func (s *GormHabitStore) Update(habit *models.Habit) error {
	return s.db.Save(habit).Error
}

func (s *GormHabitStore) Delete(owner, id uuid.UUID) error {
	res := s.db.Where("id = ? AND owner_id = ?", id, owner).Delete(&models.Habit{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
