package database

import (
	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormGoalStore struct {
	db *gorm.DB
}

func NewGoalStore(db *gorm.DB) *GormGoalStore {
	return &GormGoalStore{db: db}
}

func (s *GormGoalStore) Create(goal *models.Goal) error {
	return s.db.Create(goal).Error
}

func (s *GormGoalStore) ByOwner(owner uuid.UUID) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.Where("owner_id = ?", owner).Order("created_at").Find(&goals).Error
	return goals, err
}

func (s *GormGoalStore) ByID(owner, id uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND owner_id = ?", id, owner).First(&goal).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &goal, nil
}

func (s *GormGoalStore) Update(goal *models.Goal) error {
	return s.db.Save(goal).Error
}

func (s *GormGoalStore) Delete(owner, id uuid.UUID) error {
	res := s.db.Where("id = ? AND owner_id = ?", id, owner).Delete(&models.Goal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
