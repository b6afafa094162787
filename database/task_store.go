package database

import (
	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormTaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{db: db}
}

func (s *GormTaskStore) Create(task *models.Task) error {
	return s.db.Create(task).Error
}

func (s *GormTaskStore) ByOwner(owner uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Where("owner_id = ?", owner).Order("created_at").Find(&tasks).Error
	return tasks, err
}

func (s *GormTaskStore) ByID(owner, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ? AND owner_id = ?", id, owner).First(&task).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &task, nil
}

func (s *GormTaskStore) Update(task *models.Task) error {
	return s.db.Save(task).Error
}

func (s *GormTaskStore) Delete(owner, id uuid.UUID) error {
	res := s.db.Where("id = ? AND owner_id = ?", id, owner).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
