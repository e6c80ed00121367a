package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/careerscout/careerscout/internal/domain/models"
)

type Interests struct {
	db *gorm.DB
}

func NewInterestsRepository(db *gorm.DB) *Interests {
	return &Interests{db: db}
}

func (repo *Interests) Add(ctx context.Context, interest models.Interest) error {
	return repo.db.WithContext(ctx).Create(&interest).Error
}

func (repo *Interests) GetActive(ctx context.Context) ([]models.Interest, error) {

	var interests []models.Interest
	if err := repo.db.WithContext(ctx).Find(&interests, "active = ?", true).Error; err != nil {
		return nil, err
	}
	return interests, nil
}
