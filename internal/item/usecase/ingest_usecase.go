package usecase

import (
	"context"
	"log"

	"briefly-backend/internal/item/domain"
	"briefly-backend/internal/item/repository"
)

// EmailProvider fetches raw emails from an external source. knownIDs lets the
// provider skip re-downloading full content for items the store already holds.
type EmailProvider interface {
	FetchEmails(ctx context.Context, maxResults int, knownIDs []string) ([]*domain.EmailItem, error)
}

// EventProvider fetches raw calendar events from an external source
type EventProvider interface {
	FetchEvents(ctx context.Context, maxResults int, knownIDs []string) ([]*domain.CalendarItem, error)
}

// ProcessTrigger kicks the auto-processing scheduler after new items land
type ProcessTrigger interface {
	TriggerLater()
}

// IngestUsecase fetches, deduplicates and persists items. Sync methods return
// the entire stored collection, not just the freshly fetched subset, so
// callers always see the complete current picture.
type IngestUsecase interface {
	SyncEmails(ctx context.Context) ([]*domain.EmailItem, int, error)
	SyncEvents(ctx context.Context) ([]*domain.CalendarItem, int, error)
}

type ingestUsecase struct {
	repo           repository.ItemRepository
	emails         EmailProvider
	events         EventProvider
	fallbackEmails EmailProvider
	fallbackEvents EventProvider
	processor      ProcessTrigger
	fetchLimit     int
}

// NewIngestUsecase creates a new IngestUsecase. The fallback providers are
// substituted when the live ones fail (no account connected, network error):
// ingestion never hard-fails the caller.
func NewIngestUsecase(
	repo repository.ItemRepository,
	emails EmailProvider,
	events EventProvider,
	fallbackEmails EmailProvider,
	fallbackEvents EventProvider,
	processor ProcessTrigger,
	fetchLimit int,
) IngestUsecase {
	return &ingestUsecase{
		repo:           repo,
		emails:         emails,
		events:         events,
		fallbackEmails: fallbackEmails,
		fallbackEvents: fallbackEvents,
		processor:      processor,
		fetchLimit:     fetchLimit,
	}
}

func (u *ingestUsecase) SyncEmails(ctx context.Context) ([]*domain.EmailItem, int, error) {
	existing, err := u.repo.ListEmails()
	if err != nil {
		return nil, 0, err
	}
	knownIDs := make([]string, len(existing))
	for i, item := range existing {
		knownIDs[i] = item.ID
	}

	fetched, err := u.emails.FetchEmails(ctx, u.fetchLimit, knownIDs)
	if err != nil {
		log.Printf("[Ingest] Email provider unavailable (%v), using fixture data", err)
		fetched, err = u.fallbackEmails.FetchEmails(ctx, u.fetchLimit, knownIDs)
		if err != nil {
			return nil, 0, err
		}
	}

	newCount, err := u.repo.UpsertEmails(fetched)
	if err != nil {
		return nil, 0, err
	}
	if newCount > 0 {
		log.Printf("[Ingest] %d new emails", newCount)
		u.processor.TriggerLater()
	}

	all, err := u.repo.ListEmails()
	if err != nil {
		return nil, 0, err
	}
	return all, newCount, nil
}

func (u *ingestUsecase) SyncEvents(ctx context.Context) ([]*domain.CalendarItem, int, error) {
	existing, err := u.repo.ListEvents()
	if err != nil {
		return nil, 0, err
	}
	knownIDs := make([]string, len(existing))
	for i, item := range existing {
		knownIDs[i] = item.ID
	}

	fetched, err := u.events.FetchEvents(ctx, u.fetchLimit, knownIDs)
	if err != nil {
		log.Printf("[Ingest] Calendar provider unavailable (%v), using fixture data", err)
		fetched, err = u.fallbackEvents.FetchEvents(ctx, u.fetchLimit, knownIDs)
		if err != nil {
			return nil, 0, err
		}
	}

	newCount, err := u.repo.UpsertEvents(fetched)
	if err != nil {
		return nil, 0, err
	}
	if newCount > 0 {
		log.Printf("[Ingest] %d new events", newCount)
		u.processor.TriggerLater()
	}

	all, err := u.repo.ListEvents()
	if err != nil {
		return nil, 0, err
	}
	return all, newCount, nil
}
