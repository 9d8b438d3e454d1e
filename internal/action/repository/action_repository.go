package repository

import (
	"time"

	"briefly-backend/internal/action/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionLogRepository defines the append-only action execution log
type ActionLogRepository interface {
	// Append adds one record to the log; the log is never rewritten
	Append(record *domain.ExecutionRecord) error
	// List returns all records for a key, newest first
	List(sourceType, sourceID string) ([]*domain.ExecutionRecord, error)
}

// gormActionLogRepository implements ActionLogRepository interface
type gormActionLogRepository struct {
	db *gorm.DB
}

// NewGormActionLogRepository creates a new instance of gormActionLogRepository
func NewGormActionLogRepository(db *gorm.DB) ActionLogRepository {
	return &gormActionLogRepository{db: db}
}

func (r *gormActionLogRepository) Append(record *domain.ExecutionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.ExecutedAt.IsZero() {
		record.ExecutedAt = time.Now()
	}
	return r.db.Create(record).Error
}

func (r *gormActionLogRepository) List(sourceType, sourceID string) ([]*domain.ExecutionRecord, error) {
	var records []*domain.ExecutionRecord
	err := r.db.Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("executed_at DESC").Find(&records).Error
	return records, err
}
