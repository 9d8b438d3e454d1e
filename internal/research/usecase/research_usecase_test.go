package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	actiondomain "briefly-backend/internal/action/domain"
	insightsdomain "briefly-backend/internal/insights/domain"
	itemdomain "briefly-backend/internal/item/domain"
	itemrepo "briefly-backend/internal/item/repository"
	researchdomain "briefly-backend/internal/research/domain"
	"briefly-backend/internal/research/repository"
	"briefly-backend/pkg/ai"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeGenerator struct {
	textCalls int
	text      string
	toolCalls []ai.ToolCall
	err       error
}

func (g *fakeGenerator) GenerateText(_ context.Context, _, _ string, _ int) (*ai.TextResult, error) {
	g.textCalls++
	if g.err != nil {
		return nil, g.err
	}
	return &ai.TextResult{Text: g.text, ToolCalls: g.toolCalls}, nil
}

func (g *fakeGenerator) GenerateStructured(_ context.Context, _, _ string, _ json.RawMessage) (string, error) {
	return "", errors.New("not used")
}

func setup(t *testing.T) (ResearchUsecase, itemrepo.ItemRepository, *fakeGenerator) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&itemdomain.EmailItem{},
		&itemdomain.CalendarItem{},
		&researchdomain.ResearchResult{},
		&insightsdomain.InsightsResult{},
		&actiondomain.ExecutionRecord{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	items := itemrepo.NewGormItemRepository(db)
	results := repository.NewGormResearchRepository(db)
	gen := &fakeGenerator{text: "research output"}
	return NewResearchUsecase(results, items, gen), items, gen
}

func TestRunCachesAndMarksProcessed(t *testing.T) {
	uc, items, gen := setup(t)

	email := &itemdomain.EmailItem{
		ID:         "m1",
		Sender:     "alice@example.com",
		Subject:    "Intro",
		Body:       "Hello",
		ReceivedAt: time.Now(),
	}
	if _, err := items.UpsertEmails([]*itemdomain.EmailItem{email}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	gen.toolCalls = []ai.ToolCall{{Tool: "web_search", Query: "alice example"}}
	result, err := uc.Run(context.Background(), email)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Output != "research output" {
		t.Fatalf("output = %q", result.Output)
	}
	if len(result.ToolCalls) != 1 || result.ToolCalls[0].Query != "alice example" {
		t.Fatalf("tool calls not recorded: %v", result.ToolCalls)
	}

	stored, err := items.GetItem(itemdomain.SourceEmail, "m1")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if !stored.(*itemdomain.EmailItem).Processed {
		t.Fatal("item not marked processed after successful run")
	}

	// Second run hits the cache, no model call
	if _, err := uc.Run(context.Background(), email); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if gen.textCalls != 1 {
		t.Fatalf("expected 1 model call, got %d", gen.textCalls)
	}
}

func TestRunFailureLeavesNoTrace(t *testing.T) {
	uc, items, gen := setup(t)

	email := &itemdomain.EmailItem{ID: "m1", Sender: "a@b.c", ReceivedAt: time.Now()}
	if _, err := items.UpsertEmails([]*itemdomain.EmailItem{email}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	gen.err = errors.New("quota exceeded")
	if _, err := uc.Run(context.Background(), email); err == nil {
		t.Fatal("expected error from failed run")
	}

	// No cache entry, item still unprocessed: a later run retries from scratch
	cached, err := uc.GetResult("email", "m1")
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if cached != nil {
		t.Fatalf("failed run left a cache entry: %#v", cached)
	}
	stored, _ := items.GetItem(itemdomain.SourceEmail, "m1")
	if stored.(*itemdomain.EmailItem).Processed {
		t.Fatal("failed run marked item processed")
	}

	gen.err = nil
	if _, err := uc.Run(context.Background(), email); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if gen.textCalls != 2 {
		t.Fatalf("expected 2 model calls, got %d", gen.textCalls)
	}
}

func TestBuildInstructionPerVariant(t *testing.T) {
	uc, items, _ := setup(t)

	event := &itemdomain.CalendarItem{
		ID:        "e1",
		Title:     "Board sync",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
		Attendees: []string{"bob@example.com"},
	}
	if _, err := items.UpsertEvents([]*itemdomain.CalendarItem{event}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	result, err := uc.Run(context.Background(), event)
	if err != nil {
		t.Fatalf("run for event: %v", err)
	}
	if result.SourceType != "calendar" {
		t.Fatalf("source type = %q", result.SourceType)
	}
}
