// Package fixtures provides the deterministic fallback dataset used when no
// Google account is connected or the live providers fail. Ingestion never
// hard-fails the caller: it substitutes these samples instead.
package fixtures

import (
	"context"
	"time"

	itemdomain "briefly-backend/internal/item/domain"
)

var baseTime = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

// EmailProvider serves the fixture email collection
type EmailProvider struct{}

func (EmailProvider) FetchEmails(_ context.Context, maxResults int, knownIDs []string) ([]*itemdomain.EmailItem, error) {
	return filterKnown(sampleEmails(), maxResults, knownIDs, func(e *itemdomain.EmailItem) string { return e.ID }), nil
}

// EventProvider serves the fixture calendar collection
type EventProvider struct{}

func (EventProvider) FetchEvents(_ context.Context, maxResults int, knownIDs []string) ([]*itemdomain.CalendarItem, error) {
	return filterKnown(sampleEvents(), maxResults, knownIDs, func(c *itemdomain.CalendarItem) string { return c.ID }), nil
}

func filterKnown[T any](items []T, maxResults int, knownIDs []string, id func(T) string) []T {
	known := make(map[string]bool, len(knownIDs))
	for _, k := range knownIDs {
		known[k] = true
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
		if !known[id(item)] {
			out = append(out, item)
		}
	}
	return out
}

func sampleEmails() []*itemdomain.EmailItem {
	return []*itemdomain.EmailItem{
		{
			ID:         "fixture-email-1",
			Sender:     "sarah.chen@acmecorp.com",
			Recipient:  "me@example.com",
			Subject:    "Q2 partnership proposal",
			Snippet:    "Following up on our call last week, attached is the draft proposal for the Q2 co-marketing push...",
			Body:       "Hi,\n\nFollowing up on our call last week, attached is the draft proposal for the Q2 co-marketing push. We'd need a decision by the 15th to hit the launch window.\n\nCould you review the budget section and let me know if the split works for your team?\n\nBest,\nSarah",
			ReceivedAt: baseTime,
		},
		{
			ID:         "fixture-email-2",
			Sender:     "invoices@cloudhost.io",
			Recipient:  "me@example.com",
			Subject:    "Your March invoice is ready",
			Snippet:    "Invoice #8841 for $249.00 is now available. Payment is due within 30 days...",
			Body:       "Invoice #8841 for $249.00 is now available in your billing dashboard. Payment is due within 30 days.\n\nThank you,\nCloudHost Billing",
			ReceivedAt: baseTime.Add(2 * time.Hour),
		},
		{
			ID:         "fixture-email-3",
			Sender:     "miguel@designstudio.co",
			Recipient:  "me@example.com",
			Subject:    "Re: Website redesign feedback",
			Snippet:    "Thanks for the detailed notes. I've incorporated most of them but had questions about the navigation...",
			Body:       "Thanks for the detailed notes. I've incorporated most of them but had questions about the navigation changes you suggested. Do you have 30 minutes this week to walk through the updated mockups?\n\nMiguel",
			ReceivedAt: baseTime.Add(5 * time.Hour),
		},
	}
}

func sampleEvents() []*itemdomain.CalendarItem {
	return []*itemdomain.CalendarItem{
		{
			ID:          "fixture-event-1",
			Title:       "Product roadmap review",
			Description: "Quarterly review of the product roadmap with engineering and design leads.",
			StartTime:   baseTime.AddDate(0, 0, 1).Add(5 * time.Hour),
			EndTime:     baseTime.AddDate(0, 0, 1).Add(6 * time.Hour),
			Attendees:   []string{"eng-lead@example.com", "design-lead@example.com"},
			Location:    "Conference Room B",
		},
		{
			ID:          "fixture-event-2",
			Title:       "1:1 with Alex",
			Description: "Weekly sync.",
			StartTime:   baseTime.AddDate(0, 0, 2).Add(7 * time.Hour),
			EndTime:     baseTime.AddDate(0, 0, 2).Add(7*time.Hour + 30*time.Minute),
			Attendees:   []string{"alex@example.com"},
			Location:    "",
		},
	}
}
