package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"briefly-backend/internal/insights/domain"
	"briefly-backend/internal/insights/repository"
	"briefly-backend/pkg/ai"
)

const insightsSystem = `You are an assistant that extracts structured insights from business communications. Extract 3-5 key insights, 2-4 feedback points, and 2-3 concrete action steps. For an email action step, "to" must be the counterpart's address and "body" must be complete text ready to send. For a meeting action step, include a summary, the attendee addresses and a duration in minutes.`

// insightsSchema constrains the model output; generation is schema-enforced,
// not merely requested in prose.
var insightsSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"key_insights": {"type": "array", "items": {"type": "string"}},
		"feedback": {"type": "array", "items": {"type": "string"}},
		"action_steps": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"type": {"type": "string", "enum": ["email", "meeting"]},
					"description": {"type": "string"},
					"details": {"type": "string"},
					"to": {"type": "string"},
					"subject": {"type": "string"},
					"body": {"type": "string"},
					"meeting_summary": {"type": "string"},
					"attendees": {"type": "array", "items": {"type": "string"}},
					"duration_minutes": {"type": "integer"}
				},
				"required": ["type", "description", "details"]
			}
		}
	},
	"required": ["key_insights", "feedback", "action_steps"]
}`)

// InsightsInput is one external communication to extract insights from
type InsightsInput struct {
	Type        domain.InputType `json:"input_type"`
	ID          string           `json:"id"`
	Counterpart string           `json:"counterpart"` // other party's address
	Subject     string           `json:"subject"`
	Content     string           `json:"content"`
}

// InsightsUsecase extracts structured insights from replies and transcripts,
// caching results per (input type, id).
type InsightsUsecase interface {
	Run(ctx context.Context, input InsightsInput) (*domain.InsightsResult, error)
	// GetResult exposes the cache read path, (nil, nil) on miss
	GetResult(sourceType, sourceID string) (*domain.InsightsResult, error)
}

type insightsUsecase struct {
	results   repository.InsightsRepository
	generator ai.Generator
}

// NewInsightsUsecase creates a new InsightsUsecase
func NewInsightsUsecase(results repository.InsightsRepository, generator ai.Generator) InsightsUsecase {
	return &insightsUsecase{results: results, generator: generator}
}

func (u *insightsUsecase) Run(ctx context.Context, input InsightsInput) (*domain.InsightsResult, error) {
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid input type: %s", input.Type)
	}
	if input.ID == "" {
		return nil, fmt.Errorf("input id is required")
	}

	cached, err := u.results.Get(string(input.Type), input.ID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	log.Printf("[Insights] Running extraction for %s/%s", input.Type, input.ID)
	raw, err := u.generator.GenerateStructured(ctx, insightsSystem, buildInsightsPrompt(input), insightsSchema)
	if err != nil {
		return nil, fmt.Errorf("model invocation failed for %s/%s: %w", input.Type, input.ID, err)
	}

	var payload struct {
		KeyInsights []string            `json:"key_insights"`
		Feedback    []string            `json:"feedback"`
		ActionSteps []domain.ActionStep `json:"action_steps"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		// Schema conformance failure is fatal for this call: nothing persisted
		return nil, fmt.Errorf("model output does not conform to schema: %w", err)
	}
	for i, step := range payload.ActionSteps {
		if step.Type != domain.ActionEmail && step.Type != domain.ActionMeeting {
			return nil, fmt.Errorf("model output does not conform to schema: action step %d has type %q", i, step.Type)
		}
	}

	result := &domain.InsightsResult{
		SourceType:  string(input.Type),
		SourceID:    input.ID,
		KeyInsights: payload.KeyInsights,
		Feedback:    payload.Feedback,
		ActionSteps: payload.ActionSteps,
		RawOutput:   raw,
	}
	if err := u.results.Save(result); err != nil {
		return nil, err
	}

	log.Printf("[Insights] Completed %s/%s (%d action steps)", input.Type, input.ID, len(result.ActionSteps))
	return result, nil
}

func (u *insightsUsecase) GetResult(sourceType, sourceID string) (*domain.InsightsResult, error) {
	return u.results.Get(sourceType, sourceID)
}

func buildInsightsPrompt(input InsightsInput) string {
	switch input.Type {
	case domain.InputTranscript:
		return fmt.Sprintf(`Extract insights from this meeting transcript. The counterpart to contact for follow-ups is %s.

Meeting: %s

Transcript:
%s`, input.Counterpart, input.Subject, input.Content)
	default:
		return fmt.Sprintf(`Extract insights from this email reply. The counterpart to contact for follow-ups is %s.

From: %s
Subject: %s

%s`, input.Counterpart, input.Counterpart, input.Subject, input.Content)
	}
}
