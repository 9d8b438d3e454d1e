package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"briefly-backend/internal/action/domain"
	"briefly-backend/internal/action/repository"
	insightsdomain "briefly-backend/internal/insights/domain"
	insightsrepo "briefly-backend/internal/insights/repository"
)

// defaultMeetingMinutes is used when an action step carries no duration
const defaultMeetingMinutes = 30

// EmailSender is the external email-sending collaborator
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
}

// CalendarWriter is the external calendar-creation collaborator
type CalendarWriter interface {
	CreateEvent(ctx context.Context, summary, description string, start, end time.Time, attendees []string) (string, error)
}

// Outcome is the result of one execution attempt. Provider and validation
// failures are returned here as data, never raised.
type Outcome struct {
	Status domain.ExecutionStatus `json:"status"`
	Detail string                 `json:"detail"` // message/event id, or error text
}

// ActionUsecase executes action steps from cached insights results.
// It performs real external side effects and is only ever invoked on demand.
type ActionUsecase interface {
	// Execute dispatches the indexed action step. Lookup failures (no cached
	// insights, index out of range) are returned as errors; execution
	// failures come back as a failed Outcome. Every attempt, either way, is
	// appended to the action log.
	Execute(ctx context.Context, sourceType, sourceID string, actionIndex int) (*Outcome, error)
	// GetLog returns the execution history for a key, newest first
	GetLog(sourceType, sourceID string) ([]*domain.ExecutionRecord, error)
}

type actionUsecase struct {
	insights insightsrepo.InsightsRepository
	logs     repository.ActionLogRepository
	sender   EmailSender
	calendar CalendarWriter
	now      func() time.Time
}

// NewActionUsecase creates a new ActionUsecase
func NewActionUsecase(
	insights insightsrepo.InsightsRepository,
	logs repository.ActionLogRepository,
	sender EmailSender,
	calendar CalendarWriter,
) ActionUsecase {
	return &actionUsecase{
		insights: insights,
		logs:     logs,
		sender:   sender,
		calendar: calendar,
		now:      time.Now,
	}
}

func (u *actionUsecase) Execute(ctx context.Context, sourceType, sourceID string, actionIndex int) (*Outcome, error) {
	result, err := u.insights.Get(sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("no insights found for %s/%s", sourceType, sourceID)
	}
	if actionIndex < 0 || actionIndex >= len(result.ActionSteps) {
		return nil, fmt.Errorf("action index %d out of range (have %d steps)", actionIndex, len(result.ActionSteps))
	}

	step := result.ActionSteps[actionIndex]

	var outcome *Outcome
	switch step.Type {
	case insightsdomain.ActionEmail:
		outcome = u.executeEmail(ctx, step)
	case insightsdomain.ActionMeeting:
		outcome = u.executeMeeting(ctx, step)
	default:
		outcome = &Outcome{Status: domain.StatusFailed, Detail: fmt.Sprintf("unknown action type: %s", step.Type)}
	}

	// The log is never skipped, even on failure
	record := &domain.ExecutionRecord{
		SourceType:  sourceType,
		SourceID:    sourceID,
		ActionIndex: actionIndex,
		Status:      outcome.Status,
		Detail:      outcome.Detail,
		ExecutedAt:  u.now(),
	}
	if err := u.logs.Append(record); err != nil {
		log.Printf("[Action] Failed to append execution record for %s/%s[%d]: %v", sourceType, sourceID, actionIndex, err)
	}

	return outcome, nil
}

func (u *actionUsecase) executeEmail(ctx context.Context, step insightsdomain.ActionStep) *Outcome {
	var missing []string
	if step.To == "" {
		missing = append(missing, "to")
	}
	if step.Subject == "" {
		missing = append(missing, "subject")
	}
	if step.Body == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		// Do not attempt a partial send
		return &Outcome{
			Status: domain.StatusFailed,
			Detail: fmt.Sprintf("email action missing required fields: %s", strings.Join(missing, ", ")),
		}
	}

	messageID, err := u.sender.SendEmail(ctx, step.To, step.Subject, step.Body)
	if err != nil {
		return &Outcome{Status: domain.StatusFailed, Detail: err.Error()}
	}
	log.Printf("[Action] Sent email to %s (message %s)", step.To, messageID)
	return &Outcome{Status: domain.StatusExecuted, Detail: messageID}
}

func (u *actionUsecase) executeMeeting(ctx context.Context, step insightsdomain.ActionStep) *Outcome {
	start := nextMeetingStart(u.now())
	minutes := step.DurationMinutes
	if minutes <= 0 {
		minutes = defaultMeetingMinutes
	}
	end := start.Add(time.Duration(minutes) * time.Minute)

	attendees := step.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	eventID, err := u.calendar.CreateEvent(ctx, step.MeetingSummary, step.Details, start, end, attendees)
	if err != nil {
		return &Outcome{Status: domain.StatusFailed, Detail: err.Error()}
	}
	log.Printf("[Action] Created event %s at %s", eventID, start.Format(time.RFC1123))
	return &Outcome{Status: domain.StatusExecuted, Detail: eventID}
}

func (u *actionUsecase) GetLog(sourceType, sourceID string) ([]*domain.ExecutionRecord, error) {
	return u.logs.List(sourceType, sourceID)
}

// nextMeetingStart returns 10:00 local time on the next weekday after now.
// A Friday rolls forward past the weekend to Monday.
func nextMeetingStart(now time.Time) time.Time {
	d := now.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 10, 0, 0, 0, now.Location())
}
