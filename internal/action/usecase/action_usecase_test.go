package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"briefly-backend/internal/action/domain"
	"briefly-backend/internal/action/repository"
	insightsdomain "briefly-backend/internal/insights/domain"
	insightsrepo "briefly-backend/internal/insights/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type spySender struct {
	calls int
	err   error
}

func (s *spySender) SendEmail(_ context.Context, to, subject, body string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "msg-123", nil
}

type spyCalendar struct {
	calls     int
	start     time.Time
	end       time.Time
	attendees []string
	err       error
}

func (s *spyCalendar) CreateEvent(_ context.Context, summary, description string, start, end time.Time, attendees []string) (string, error) {
	s.calls++
	s.start = start
	s.end = end
	s.attendees = attendees
	if s.err != nil {
		return "", s.err
	}
	return "evt-456", nil
}

func setup(t *testing.T, steps []insightsdomain.ActionStep) (ActionUsecase, *spySender, *spyCalendar, *actionUsecase) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&insightsdomain.InsightsResult{}, &domain.ExecutionRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	insights := insightsrepo.NewGormInsightsRepository(db)
	if steps != nil {
		err := insights.Save(&insightsdomain.InsightsResult{
			SourceType:  "email-reply",
			SourceID:    "m1",
			ActionSteps: steps,
		})
		if err != nil {
			t.Fatalf("seed insights: %v", err)
		}
	}

	sender := &spySender{}
	calendar := &spyCalendar{}
	uc := NewActionUsecase(insights, repository.NewGormActionLogRepository(db), sender, calendar)
	impl := uc.(*actionUsecase)
	return uc, sender, calendar, impl
}

func emailStep() insightsdomain.ActionStep {
	return insightsdomain.ActionStep{
		Type:        insightsdomain.ActionEmail,
		Description: "Reply to Alice",
		Details:     "Confirm the plan",
		To:          "alice@example.com",
		Subject:     "Re: Plan",
		Body:        "Confirmed.",
	}
}

func TestExecuteEmailAction(t *testing.T) {
	uc, sender, _, _ := setup(t, []insightsdomain.ActionStep{emailStep()})

	outcome, err := uc.Execute(context.Background(), "email-reply", "m1", 0)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if outcome.Status != domain.StatusExecuted {
		t.Fatalf("status = %s, detail = %s", outcome.Status, outcome.Detail)
	}
	if sender.calls != 1 {
		t.Fatalf("sender called %d times", sender.calls)
	}

	log, err := uc.GetLog("email-reply", "m1")
	if err != nil {
		t.Fatalf("get log: %v", err)
	}
	if len(log) != 1 || log[0].Status != domain.StatusExecuted {
		t.Fatalf("unexpected log: %+v", log)
	}
}

func TestExecuteEmailMissingFieldsNeverCallsProvider(t *testing.T) {
	step := emailStep()
	step.To = ""
	step.Body = ""
	uc, sender, _, _ := setup(t, []insightsdomain.ActionStep{step})

	outcome, err := uc.Execute(context.Background(), "email-reply", "m1", 0)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected failed outcome, got %s", outcome.Status)
	}
	if sender.calls != 0 {
		t.Fatal("partial email was sent")
	}

	// The failed attempt is still on the log
	log, _ := uc.GetLog("email-reply", "m1")
	if len(log) != 1 || log[0].Status != domain.StatusFailed {
		t.Fatalf("failed attempt not logged: %+v", log)
	}
}

func TestExecuteMeetingDefaults(t *testing.T) {
	step := insightsdomain.ActionStep{
		Type:           insightsdomain.ActionMeeting,
		Description:    "Kickoff",
		Details:        "Project kickoff",
		MeetingSummary: "Kickoff",
	}
	uc, _, calendar, impl := setup(t, []insightsdomain.ActionStep{step})

	// Friday afternoon: the meeting lands on Monday 10:00
	friday := time.Date(2025, 3, 7, 15, 30, 0, 0, time.UTC)
	impl.now = func() time.Time { return friday }

	outcome, err := uc.Execute(context.Background(), "email-reply", "m1", 0)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if outcome.Status != domain.StatusExecuted {
		t.Fatalf("status = %s, detail = %s", outcome.Status, outcome.Detail)
	}

	wantStart := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	if !calendar.start.Equal(wantStart) {
		t.Fatalf("start = %s, want %s", calendar.start, wantStart)
	}
	if got := calendar.end.Sub(calendar.start); got != 30*time.Minute {
		t.Fatalf("default duration = %s, want 30m", got)
	}
	if calendar.attendees == nil || len(calendar.attendees) != 0 {
		t.Fatalf("attendees = %#v, want empty slice", calendar.attendees)
	}
}

func TestExecuteMeetingExplicitDuration(t *testing.T) {
	step := insightsdomain.ActionStep{
		Type:            insightsdomain.ActionMeeting,
		Description:     "Review",
		Details:         "Design review",
		MeetingSummary:  "Review",
		Attendees:       []string{"bob@example.com"},
		DurationMinutes: 45,
	}
	uc, _, calendar, _ := setup(t, []insightsdomain.ActionStep{step})

	if _, err := uc.Execute(context.Background(), "email-reply", "m1", 0); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := calendar.end.Sub(calendar.start); got != 45*time.Minute {
		t.Fatalf("duration = %s, want 45m", got)
	}
}

func TestExecuteLookupErrors(t *testing.T) {
	uc, _, _, _ := setup(t, []insightsdomain.ActionStep{emailStep()})

	if _, err := uc.Execute(context.Background(), "email-reply", "missing", 0); err == nil {
		t.Fatal("expected error for unknown insights key")
	}
	if _, err := uc.Execute(context.Background(), "email-reply", "m1", 5); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
	if _, err := uc.Execute(context.Background(), "email-reply", "m1", -1); err == nil {
		t.Fatal("expected error for negative index")
	}

	// Lookup failures never reach the log
	log, _ := uc.GetLog("email-reply", "m1")
	if len(log) != 0 {
		t.Fatalf("lookup errors were logged: %+v", log)
	}
}

func TestRetryAppendsToLog(t *testing.T) {
	uc, sender, _, _ := setup(t, []insightsdomain.ActionStep{emailStep()})

	sender.err = errors.New("smtp unavailable")
	outcome, err := uc.Execute(context.Background(), "email-reply", "m1", 0)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected failed outcome, got %s", outcome.Status)
	}

	sender.err = nil
	if _, err := uc.Execute(context.Background(), "email-reply", "m1", 0); err != nil {
		t.Fatalf("retry: %v", err)
	}

	// No idempotency guard: both attempts are history
	log, _ := uc.GetLog("email-reply", "m1")
	if len(log) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(log))
	}
}

func TestNextMeetingStartSkipsWeekend(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"midweek", time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC), time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"friday", time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)},
		{"saturday", time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := nextMeetingStart(tc.now)
			if !got.Equal(tc.want) {
				t.Fatalf("nextMeetingStart(%s) = %s, want %s", tc.now, got, tc.want)
			}
		})
	}
}
