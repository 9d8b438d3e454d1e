package repository

import (
	"fmt"
	"time"

	actiondomain "briefly-backend/internal/action/domain"
	insightsdomain "briefly-backend/internal/insights/domain"
	"briefly-backend/internal/item/domain"
	researchdomain "briefly-backend/internal/research/domain"

	"gorm.io/gorm"
)

// gormItemRepository implements ItemRepository using GORM
type gormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GORM-based ItemRepository
func NewGormItemRepository(db *gorm.DB) ItemRepository {
	return &gormItemRepository{db: db}
}

func (r *gormItemRepository) UpsertEmails(items []*domain.EmailItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	newCount := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Snapshot the known-id set before any of this batch's writes so every
		// item in the batch is evaluated against the same baseline.
		var existingIDs []string
		if err := tx.Model(&domain.EmailItem{}).Where("id IN ?", ids).Pluck("id", &existingIDs).Error; err != nil {
			return err
		}
		known := make(map[string]bool, len(existingIDs))
		for _, id := range existingIDs {
			known[id] = true
		}

		now := time.Now()
		for _, item := range items {
			if known[item.ID] {
				// Refresh content fields only; processed flag and id survive re-fetch
				err := tx.Model(&domain.EmailItem{}).Where("id = ?", item.ID).
					Updates(map[string]interface{}{
						"sender":      item.Sender,
						"recipient":   item.Recipient,
						"subject":     item.Subject,
						"snippet":     item.Snippet,
						"body":        item.Body,
						"received_at": item.ReceivedAt,
						"updated_at":  now,
					}).Error
				if err != nil {
					return err
				}
				continue
			}
			item.Processed = false
			item.CreatedAt = now
			item.UpdatedAt = now
			if err := tx.Create(item).Error; err != nil {
				return err
			}
			newCount++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

func (r *gormItemRepository) UpsertEvents(items []*domain.CalendarItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	newCount := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existingIDs []string
		if err := tx.Model(&domain.CalendarItem{}).Where("id IN ?", ids).Pluck("id", &existingIDs).Error; err != nil {
			return err
		}
		known := make(map[string]bool, len(existingIDs))
		for _, id := range existingIDs {
			known[id] = true
		}

		now := time.Now()
		for _, item := range items {
			if known[item.ID] {
				err := tx.Model(&domain.CalendarItem{}).Where("id = ?", item.ID).
					Updates(map[string]interface{}{
						"title":       item.Title,
						"description": item.Description,
						"start_time":  item.StartTime,
						"end_time":    item.EndTime,
						"attendees":   item.Attendees,
						"location":    item.Location,
						"updated_at":  now,
					}).Error
				if err != nil {
					return err
				}
				continue
			}
			item.Processed = false
			item.CreatedAt = now
			item.UpdatedAt = now
			if err := tx.Create(item).Error; err != nil {
				return err
			}
			newCount++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

func (r *gormItemRepository) ListEmails() ([]*domain.EmailItem, error) {
	var items []*domain.EmailItem
	err := r.db.Order("received_at DESC").Find(&items).Error
	return items, err
}

func (r *gormItemRepository) ListEvents() ([]*domain.CalendarItem, error) {
	var items []*domain.CalendarItem
	err := r.db.Order("start_time ASC").Find(&items).Error
	return items, err
}

func (r *gormItemRepository) GetItem(sourceType domain.SourceType, id string) (domain.Item, error) {
	switch sourceType {
	case domain.SourceEmail:
		var item domain.EmailItem
		err := r.db.Where("id = ?", id).First(&item).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, nil
			}
			return nil, err
		}
		return &item, nil
	case domain.SourceCalendar:
		var item domain.CalendarItem
		err := r.db.Where("id = ?", id).First(&item).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, nil
			}
			return nil, err
		}
		return &item, nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
}

func (r *gormItemRepository) GetUnprocessedItems() ([]domain.Item, error) {
	var emails []*domain.EmailItem
	if err := r.db.Where("processed = ?", false).Order("created_at ASC").Find(&emails).Error; err != nil {
		return nil, err
	}
	var events []*domain.CalendarItem
	if err := r.db.Where("processed = ?", false).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(emails)+len(events))
	for _, e := range emails {
		items = append(items, e)
	}
	for _, c := range events {
		items = append(items, c)
	}
	return items, nil
}

func (r *gormItemRepository) MarkProcessed(sourceType domain.SourceType, id string) error {
	switch sourceType {
	case domain.SourceEmail:
		return r.db.Model(&domain.EmailItem{}).Where("id = ?", id).
			Updates(map[string]interface{}{"processed": true, "updated_at": time.Now()}).Error
	case domain.SourceCalendar:
		return r.db.Model(&domain.CalendarItem{}).Where("id = ?", id).
			Updates(map[string]interface{}{"processed": true, "updated_at": time.Now()}).Error
	default:
		return fmt.Errorf("unknown source type: %s", sourceType)
	}
}

// WipeAll clears every table in a single transaction; used only by the full
// data-deletion operation.
func (r *gormItemRepository) WipeAll() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.EmailItem{},
			&domain.CalendarItem{},
			&researchdomain.ResearchResult{},
			&insightsdomain.InsightsResult{},
			&actiondomain.ExecutionRecord{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
