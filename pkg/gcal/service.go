package gcal

import (
	"context"
	"fmt"
	"time"

	itemdomain "briefly-backend/internal/item/domain"
	"briefly-backend/pkg/session"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Service fetches upcoming events and creates new ones through the Google
// Calendar API using the credentials held by the Session.
type Service struct {
	clientID     string
	clientSecret string
	session      *session.Session
}

// NewService creates a new Calendar service
func NewService(clientID, clientSecret string, sess *session.Session) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		session:      sess,
	}
}

func (s *Service) client(ctx context.Context) (*calendar.Service, error) {
	token, err := s.session.Current()
	if err != nil {
		return nil, err
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}
	httpClient := oauth2.NewClient(ctx, config.TokenSource(ctx, token))

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %v", err)
	}
	return srv, nil
}

// FetchEvents retrieves up to maxResults upcoming events from the primary
// calendar, skipping ids the store already holds.
func (s *Service) FetchEvents(ctx context.Context, maxResults int, knownIDs []string) ([]*itemdomain.CalendarItem, error) {
	srv, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	eventsResp, err := srv.Events.List("primary").
		TimeMin(time.Now().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(int64(maxResults)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list events: %v", err)
	}

	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}

	items := make([]*itemdomain.CalendarItem, 0, len(eventsResp.Items))
	for _, event := range eventsResp.Items {
		if known[event.Id] {
			continue
		}
		items = append(items, convertEvent(event))
	}
	return items, nil
}

// CreateEvent creates an event on the primary calendar and returns its id
func (s *Service) CreateEvent(ctx context.Context, summary, description string, start, end time.Time, attendees []string) (string, error) {
	srv, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
	for _, email := range attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := srv.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create event: %v", err)
	}
	return created.Id, nil
}

func convertEvent(event *calendar.Event) *itemdomain.CalendarItem {
	attendees := make([]string, 0, len(event.Attendees))
	for _, a := range event.Attendees {
		attendees = append(attendees, a.Email)
	}

	return &itemdomain.CalendarItem{
		ID:          event.Id,
		Title:       event.Summary,
		Description: event.Description,
		StartTime:   parseEventTime(event.Start),
		EndTime:     parseEventTime(event.End),
		Attendees:   attendees,
		Location:    event.Location,
	}
}

func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	// All-day events carry a date only
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
