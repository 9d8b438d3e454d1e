package repository

import (
	"time"

	"briefly-backend/internal/research/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResearchRepository defines the interface for cached research results
type ResearchRepository interface {
	// Get retrieves a cached result, (nil, nil) on cache miss
	Get(sourceType, sourceID string) (*domain.ResearchResult, error)
	// Save upserts a result for its key, refreshing updated_at on conflict
	Save(result *domain.ResearchResult) error
}

// gormResearchRepository implements ResearchRepository interface
type gormResearchRepository struct {
	db *gorm.DB
}

// NewGormResearchRepository creates a new instance of gormResearchRepository
func NewGormResearchRepository(db *gorm.DB) ResearchRepository {
	return &gormResearchRepository{db: db}
}

func (r *gormResearchRepository) Get(sourceType, sourceID string) (*domain.ResearchResult, error) {
	var result domain.ResearchResult
	err := r.db.Where("source_type = ? AND source_id = ?", sourceType, sourceID).First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *gormResearchRepository) Save(result *domain.ResearchResult) error {
	var existing domain.ResearchResult
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

	existing.Output = result.Output
	existing.ToolCalls = result.ToolCalls
	existing.UpdatedAt = now
	return r.db.Save(&existing).Error
}
