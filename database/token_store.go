package database

import (
	"errors"
	"time"

	"github.com/Musharaf05/HabitFlow/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormTokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

// Upsert registers a delivery token. The token string is the natural key:
// re-registration from another session re-owns the existing row instead of
// inserting a duplicate. An anonymous re-registration (nil owner) leaves
// the existing ownership untouched and only bumps UpdatedAt.
func (s *GormTokenStore) Upsert(owner *uuid.UUID, token string) (*models.DeliveryToken, error) {
	var row models.DeliveryToken
	err := s.db.Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.DeliveryToken{OwnerID: owner, Token: token}
		if err := s.db.Create(&row).Error; err != nil {
			return nil, err
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}
	if owner != nil {
		row.OwnerID = owner
	}
	row.UpdatedAt = time.Now()
	if err := s.db.Save(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormTokenStore) ByOwner(owner uuid.UUID) ([]models.DeliveryToken, error) {
	var tokens []models.DeliveryToken
	err := s.db.Where("owner_id = ?", owner).Find(&tokens).Error
	return tokens, err
}

func (s *GormTokenStore) DeleteTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return s.db.Where("token IN ?", tokens).Delete(&models.DeliveryToken{}).Error
}

func (s *GormTokenStore) byTokens(tokens []string) ([]models.DeliveryToken, error) {
	var rows []models.DeliveryToken
	err := s.db.Where("token IN ?", tokens).Find(&rows).Error
	return rows, err
}
