package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/careerscout/careerscout/internal/domain/models"
)

type Plans struct {
	db *gorm.DB
}

func NewPlansRepository(db *gorm.DB) *Plans {
	return &Plans{db: db}
}

// Get returns the stored plan for a source, or nil when none exists.
func (repo *Plans) Get(ctx context.Context, source string) (*models.ExtractionPlan, error) {
	var plan models.ExtractionPlan
	err := repo.db.WithContext(ctx).First(&plan, "source = ?", source).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// Save replaces the plan row for its source wholesale. Field-level patching
// of learned plans is deliberately not offered.
func (repo *Plans) Save(ctx context.Context, plan models.ExtractionPlan) error {
	return repo.db.WithContext(ctx).Save(&plan).Error
}

// MarkUnlearned demotes a plan after an extraction failure. The career URL
// and the old locators stay in place for the next learning attempt.
func (repo *Plans) MarkUnlearned(ctx context.Context, source string) error {
	return repo.db.WithContext(ctx).
		Model(&models.ExtractionPlan{}).
		Where("source = ?", source).
		Updates(map[string]any{
			"learned":    false,
			"updated_at": time.Now().UTC(),
		}).Error
}
