package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"briefly-backend/internal/insights/domain"
	"briefly-backend/internal/insights/repository"
	"briefly-backend/pkg/ai"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeGenerator struct {
	structuredCalls int
	raw             string
	err             error
}

func (g *fakeGenerator) GenerateText(_ context.Context, _, _ string, _ int) (*ai.TextResult, error) {
	return nil, errors.New("not used")
}

func (g *fakeGenerator) GenerateStructured(_ context.Context, _, _ string, _ json.RawMessage) (string, error) {
	g.structuredCalls++
	if g.err != nil {
		return "", g.err
	}
	return g.raw, nil
}

func setup(t *testing.T) (InsightsUsecase, *fakeGenerator) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.InsightsResult{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	gen := &fakeGenerator{}
	return NewInsightsUsecase(repository.NewGormInsightsRepository(db), gen), gen
}

func replyInput(id string) InsightsInput {
	return InsightsInput{
		Type:        domain.InputEmailReply,
		ID:          id,
		Counterpart: "alice@example.com",
		Subject:     "Re: Proposal",
		Content:     "Sounds good, let's move forward.",
	}
}

const validOutput = `{
	"key_insights": ["Alice approved the proposal"],
	"feedback": ["Reply was positive"],
	"action_steps": [
		{"type": "email", "description": "Confirm next steps", "details": "Send confirmation", "to": "alice@example.com", "subject": "Next steps", "body": "Confirming."},
		{"type": "meeting", "description": "Kickoff", "details": "Schedule kickoff", "meeting_summary": "Kickoff", "attendees": ["alice@example.com"], "duration_minutes": 45}
	]
}`

func TestRunExtractsAndCaches(t *testing.T) {
	uc, gen := setup(t)
	gen.raw = validOutput

	result, err := uc.Run(context.Background(), replyInput("m1"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.KeyInsights) != 1 || len(result.ActionSteps) != 2 {
		t.Fatalf("unexpected extraction: %+v", result)
	}
	if result.ActionSteps[0].Type != domain.ActionEmail || result.ActionSteps[1].Type != domain.ActionMeeting {
		t.Fatalf("action step types wrong: %+v", result.ActionSteps)
	}
	if result.RawOutput == "" {
		t.Fatal("raw output not preserved")
	}

	// Second run for the same input hits the cache
	if _, err := uc.Run(context.Background(), replyInput("m1")); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if gen.structuredCalls != 1 {
		t.Fatalf("expected 1 model call, got %d", gen.structuredCalls)
	}
}

func TestRunRejectsMalformedOutput(t *testing.T) {
	uc, gen := setup(t)
	gen.raw = `{"key_insights": "not an array"`

	if _, err := uc.Run(context.Background(), replyInput("m1")); err == nil {
		t.Fatal("expected schema error")
	}

	// Nothing persisted: the next run hits the model again
	cached, err := uc.GetResult("email-reply", "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cached != nil {
		t.Fatalf("malformed output was cached: %#v", cached)
	}
}

func TestRunRejectsUnknownActionType(t *testing.T) {
	uc, gen := setup(t)
	gen.raw = `{"key_insights": [], "feedback": [], "action_steps": [{"type": "phone_call", "description": "x", "details": "y"}]}`

	if _, err := uc.Run(context.Background(), replyInput("m1")); err == nil {
		t.Fatal("expected error for unknown action type")
	}
	cached, _ := uc.GetResult("email-reply", "m1")
	if cached != nil {
		t.Fatal("invalid result was cached")
	}
}

func TestRunValidatesInput(t *testing.T) {
	uc, _ := setup(t)

	if _, err := uc.Run(context.Background(), InsightsInput{Type: "webinar", ID: "x", Content: "y"}); err == nil {
		t.Fatal("expected error for invalid input type")
	}
	if _, err := uc.Run(context.Background(), InsightsInput{Type: domain.InputTranscript, Content: "y"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestTranscriptInputAccepted(t *testing.T) {
	uc, gen := setup(t)
	gen.raw = `{"key_insights": ["x"], "feedback": [], "action_steps": []}`

	input := InsightsInput{
		Type:        domain.InputTranscript,
		ID:          "meet-1",
		Counterpart: "bob@example.com",
		Subject:     "Weekly sync",
		Content:     "Bob: let's ship on Friday.",
	}
	result, err := uc.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.SourceType != "transcript" {
		t.Fatalf("source type = %q", result.SourceType)
	}
}
