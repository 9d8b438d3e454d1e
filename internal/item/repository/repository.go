package repository

import (
	"briefly-backend/internal/item/domain"
)

// ItemRepository defines persistence for ingested emails and calendar events.
// It is the sole arbiter of "new vs known" and "processed vs pending".
type ItemRepository interface {
	// UpsertEmails inserts unknown emails and refreshes content of known ones.
	// Returns how many ids were not present before the batch, evaluated against
	// a snapshot taken before any of the batch's writes.
	UpsertEmails(items []*domain.EmailItem) (int, error)
	// UpsertEvents does the same for calendar events
	UpsertEvents(items []*domain.CalendarItem) (int, error)
	// ListEmails returns the full stored email collection, newest first
	ListEmails() ([]*domain.EmailItem, error)
	// ListEvents returns the full stored event collection, soonest first
	ListEvents() ([]*domain.CalendarItem, error)
	// GetItem retrieves one item by its key, (nil, nil) when absent
	GetItem(sourceType domain.SourceType, id string) (domain.Item, error)
	// GetUnprocessedItems returns both variants with processed = false, tagged
	GetUnprocessedItems() ([]domain.Item, error)
	// MarkProcessed sets the processed flag; safe to call when already set
	MarkProcessed(sourceType domain.SourceType, id string) error
	// WipeAll clears every persisted table in one transaction
	WipeAll() error
}
