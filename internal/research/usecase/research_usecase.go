package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	itemdomain "briefly-backend/internal/item/domain"
	itemrepo "briefly-backend/internal/item/repository"
	"briefly-backend/internal/research/domain"
	"briefly-backend/internal/research/repository"
	"briefly-backend/pkg/ai"
)

// maxAgentSteps caps the model's tool-use loop to bound cost and latency
const maxAgentSteps = 10

const researchSystem = `You are a personal productivity assistant. You research emails and upcoming meetings for the user. You may call the web_search tool to look up people, companies and topics you are not certain about. Never invent facts: everything in your answer must come from the provided item or from a search result. Respond with plain text only.`

// ResearchUsecase runs the research agent for one item, caching results so
// each item is only ever researched once.
type ResearchUsecase interface {
	// Run returns the cached result for the item's key if present; otherwise
	// it invokes the model, persists the result and marks the item processed.
	Run(ctx context.Context, item itemdomain.Item) (*domain.ResearchResult, error)
	// GetResult exposes the cache read path, (nil, nil) on miss
	GetResult(sourceType, sourceID string) (*domain.ResearchResult, error)
}

type researchUsecase struct {
	results   repository.ResearchRepository
	items     itemrepo.ItemRepository
	generator ai.Generator
}

// NewResearchUsecase creates a new ResearchUsecase
func NewResearchUsecase(results repository.ResearchRepository, items itemrepo.ItemRepository, generator ai.Generator) ResearchUsecase {
	return &researchUsecase{
		results:   results,
		items:     items,
		generator: generator,
	}
}

func (u *researchUsecase) Run(ctx context.Context, item itemdomain.Item) (*domain.ResearchResult, error) {
	sourceType, sourceID := item.Source()

	cached, err := u.results.Get(string(sourceType), sourceID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	prompt, err := buildInstruction(item)
	if err != nil {
		return nil, err
	}

	log.Printf("[Research] Running agent for %s/%s", sourceType, sourceID)
	out, err := u.generator.GenerateText(ctx, researchSystem, prompt, maxAgentSteps)
	if err != nil {
		// No cache entry, processed flag untouched: a later run retries
		return nil, fmt.Errorf("model invocation failed for %s/%s: %w", sourceType, sourceID, err)
	}

	toolCalls := make([]domain.ToolCall, len(out.ToolCalls))
	for i, call := range out.ToolCalls {
		toolCalls[i] = domain.ToolCall{Tool: call.Tool, Query: call.Query}
	}

	result := &domain.ResearchResult{
		SourceType: string(sourceType),
		SourceID:   sourceID,
		Output:     out.Text,
		ToolCalls:  toolCalls,
	}
	if err := u.results.Save(result); err != nil {
		return nil, err
	}
	if err := u.items.MarkProcessed(sourceType, sourceID); err != nil {
		return nil, err
	}

	log.Printf("[Research] Completed %s/%s (%d tool calls)", sourceType, sourceID, len(toolCalls))
	return result, nil
}

func (u *researchUsecase) GetResult(sourceType, sourceID string) (*domain.ResearchResult, error) {
	return u.results.Get(sourceType, sourceID)
}

// buildInstruction turns the item into its task-specific instruction:
// a draft reply for emails, a meeting briefing for calendar events.
func buildInstruction(item itemdomain.Item) (string, error) {
	switch v := item.(type) {
	case *itemdomain.EmailItem:
		return fmt.Sprintf(`Draft a reply to the following email. Research the sender and any companies or topics mentioned if needed, then write a concise, professional reply ready to send.

From: %s
To: %s
Subject: %s
Received: %s

%s`, v.Sender, v.Recipient, v.Subject, v.ReceivedAt.Format(time.RFC1123), v.Body), nil

	case *itemdomain.CalendarItem:
		return fmt.Sprintf(`Prepare a briefing for the following meeting. Research the attendees and the topic if needed, then summarize what the meeting is about, who is attending, and what the user should prepare.

Title: %s
When: %s - %s
Location: %s
Attendees: %s

%s`, v.Title, v.StartTime.Format(time.RFC1123), v.EndTime.Format(time.RFC1123), v.Location, strings.Join(v.Attendees, ", "), v.Description), nil

	default:
		return "", fmt.Errorf("unsupported item type %T", item)
	}
}
