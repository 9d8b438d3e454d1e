package scheduler

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	itemdomain "briefly-backend/internal/item/domain"
	researchdomain "briefly-backend/internal/research/domain"
)

// ItemSource is the slice of the store the processor needs
type ItemSource interface {
	GetUnprocessedItems() ([]itemdomain.Item, error)
	MarkProcessed(sourceType itemdomain.SourceType, id string) error
}

// ItemRunner runs the research agent for one item
type ItemRunner interface {
	Run(ctx context.Context, item itemdomain.Item) (*researchdomain.ResearchResult, error)
}

// AutoProcessor drains unprocessed items through the research runner, one at
// a time. At most one run is active at any moment: a trigger arriving while a
// run is in flight is dropped, not queued. Ingestion re-triggers after every
// new-item batch, so dropped triggers lose no work.
type AutoProcessor struct {
	items  ItemSource
	runner ItemRunner
	delay  time.Duration

	running atomic.Bool

	mu           sync.Mutex
	timerPending bool

	onItemProcessed func(sourceType itemdomain.SourceType, id string)
	onComplete      func()
}

// NewAutoProcessor creates a new AutoProcessor. delay is the debounce applied
// by TriggerLater so near-simultaneous email and calendar syncs coalesce into
// one run.
func NewAutoProcessor(items ItemSource, runner ItemRunner, delay time.Duration) *AutoProcessor {
	return &AutoProcessor{
		items:  items,
		runner: runner,
		delay:  delay,
	}
}

// SetCallbacks registers the observer notifications. Both are optional and
// fire-and-forget.
func (p *AutoProcessor) SetCallbacks(onItemProcessed func(sourceType itemdomain.SourceType, id string), onComplete func()) {
	p.onItemProcessed = onItemProcessed
	p.onComplete = onComplete
}

// TriggerLater schedules a run after the debounce delay. Calls arriving while
// a timer is already pending are coalesced into it.
func (p *AutoProcessor) TriggerLater() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timerPending {
		return
	}
	p.timerPending = true
	time.AfterFunc(p.delay, func() {
		p.mu.Lock()
		p.timerPending = false
		p.mu.Unlock()
		p.Trigger(context.Background())
	})
}

// Trigger runs one pass over the current unprocessed snapshot and returns how
// many items it processed. Returns 0 immediately when a run is already active.
func (p *AutoProcessor) Trigger(ctx context.Context) int {
	if !p.running.CompareAndSwap(false, true) {
		return 0
	}
	defer p.running.Store(false)

	snapshot, err := p.items.GetUnprocessedItems()
	if err != nil {
		log.Printf("[AutoProcess] Failed to load unprocessed items: %v", err)
		return 0
	}
	if len(snapshot) == 0 {
		return 0
	}

	log.Printf("[AutoProcess] Processing %d items", len(snapshot))

	// Strictly sequential: one model call in flight at a time. Items that
	// become unprocessed during the run are picked up by the next trigger.
	processed := 0
	for _, item := range snapshot {
		sourceType, id := item.Source()
		if _, err := p.runner.Run(ctx, item); err != nil {
			log.Printf("[AutoProcess] Item %s/%s failed: %v", sourceType, id, err)
			// Mark it processed anyway so a permanently-failing item cannot
			// block the queue; the cache stays empty for a manual re-run.
			if err := p.items.MarkProcessed(sourceType, id); err != nil {
				log.Printf("[AutoProcess] Failed to mark %s/%s processed: %v", sourceType, id, err)
			}
		} else if p.onItemProcessed != nil {
			p.onItemProcessed(sourceType, id)
		}
		processed++
	}

	if p.onComplete != nil {
		p.onComplete()
	}
	log.Printf("[AutoProcess] Run complete (%d items)", processed)
	return processed
}

// Running reports whether a run is currently active
func (p *AutoProcessor) Running() bool {
	return p.running.Load()
}
