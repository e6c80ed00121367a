package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/careerscout/careerscout/internal/domain/models"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(models.ExtractionPlan{})
	if err != nil {
		return fmt.Errorf("failed to migrate ExtractionPlan entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.Interest{})
	if err != nil {
		return fmt.Errorf("failed to migrate Interest entity: %w", err)
	}

	if err = c.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_interest_push_token ON interests (push_token);").
		Error; err != nil {
		return fmt.Errorf("failed to create interest index: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
