package repository

import (
	"time"

	"briefly-backend/internal/insights/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InsightsRepository defines the interface for cached insights results
type InsightsRepository interface {
	// Get retrieves a cached result, (nil, nil) on cache miss
	Get(sourceType, sourceID string) (*domain.InsightsResult, error)
	// Save upserts a result for its key, refreshing updated_at on conflict
	Save(result *domain.InsightsResult) error
}

// gormInsightsRepository implements InsightsRepository interface
type gormInsightsRepository struct {
	db *gorm.DB
}

// NewGormInsightsRepository creates a new instance of gormInsightsRepository
func NewGormInsightsRepository(db *gorm.DB) InsightsRepository {
	return &gormInsightsRepository{db: db}
}

func (r *gormInsightsRepository) Get(sourceType, sourceID string) (*domain.InsightsResult, error) {
	var result domain.InsightsResult
	err := r.db.Where("source_type = ? AND source_id = ?", sourceType, sourceID).First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *gormInsightsRepository) Save(result *domain.InsightsResult) error {
	var existing domain.InsightsResult
	err := r.db.Where("source_type = ? AND source_id = ?", result.SourceType, result.SourceID).First(&existing).Error

	now := time.Now()
	if err == gorm.ErrRecordNotFound {
		result.ID = uuid.New().String()
		result.CreatedAt = now
		result.UpdatedAt = now
		return r.db.Create(result).Error
	} else if err != nil {
		return err
	}

	existing.KeyInsights = result.KeyInsights
	existing.Feedback = result.Feedback
	existing.ActionSteps = result.ActionSteps
	existing.RawOutput = result.RawOutput
	existing.UpdatedAt = now
	return r.db.Save(&existing).Error
}
