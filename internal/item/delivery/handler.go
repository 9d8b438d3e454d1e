package delivery

import (
	"net/http"

	"briefly-backend/internal/item/repository"
	"briefly-backend/internal/item/usecase"

	"github.com/gin-gonic/gin"
)

// ItemHandler handles item ingestion HTTP requests
type ItemHandler struct {
	ingest usecase.IngestUsecase
	repo   repository.ItemRepository
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(ingest usecase.IngestUsecase, repo repository.ItemRepository) *ItemHandler {
	return &ItemHandler{
		ingest: ingest,
		repo:   repo,
	}
}

// Sync fetches both variants from their providers and returns the full
// stored collections
// POST /api/items/sync
func (h *ItemHandler) Sync(c *gin.Context) {
	emails, newEmails, err := h.ingest.SyncEmails(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	events, newEvents, err := h.ingest.SyncEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"emails":     emails,
		"events":     events,
		"new_emails": newEmails,
		"new_events": newEvents,
	})
}

// GetUnprocessed returns every item still awaiting research, tagged by variant
// GET /api/items/unprocessed
func (h *ItemHandler) GetUnprocessed(c *gin.Context) {
	items, err := h.repo.GetUnprocessedItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tagged := make([]gin.H, 0, len(items))
	for _, item := range items {
		sourceType, id := item.Source()
		tagged = append(tagged, gin.H{"source_type": sourceType, "id": id, "item": item})
	}
	c.JSON(http.StatusOK, gin.H{"items": tagged, "total": len(tagged)})
}
