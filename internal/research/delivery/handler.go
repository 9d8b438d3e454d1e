package delivery

import (
	"context"
	"net/http"

	itemdomain "briefly-backend/internal/item/domain"
	itemrepo "briefly-backend/internal/item/repository"
	"briefly-backend/internal/research/scheduler"
	"briefly-backend/internal/research/usecase"

	"github.com/gin-gonic/gin"
)

// ResearchHandler handles research agent HTTP requests
type ResearchHandler struct {
	research  usecase.ResearchUsecase
	items     itemrepo.ItemRepository
	processor *scheduler.AutoProcessor
}

// NewResearchHandler creates a new ResearchHandler
func NewResearchHandler(research usecase.ResearchUsecase, items itemrepo.ItemRepository, processor *scheduler.AutoProcessor) *ResearchHandler {
	return &ResearchHandler{
		research:  research,
		items:     items,
		processor: processor,
	}
}

// RunRequest represents the request body for a single research run
type RunRequest struct {
	SourceType string `json:"source_type" binding:"required"`
	SourceID   string `json:"source_id" binding:"required"`
}

// Run executes (or returns the cached result of) the research agent for one item
// POST /api/research/run
func (h *ResearchHandler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sourceType := itemdomain.SourceType(req.SourceType)
	if !sourceType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source type"})
		return
	}

	item, err := h.items.GetItem(sourceType, req.SourceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	result, err := h.research.Run(c.Request.Context(), item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetResult returns a cached result without invoking the model
// GET /api/research/:sourceType/:id
func (h *ResearchHandler) GetResult(c *gin.Context) {
	result, err := h.research.GetResult(c.Param("sourceType"), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no research result for this item"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// TriggerProcessing manually starts an auto-processing run
// POST /api/process
func (h *ResearchHandler) TriggerProcessing(c *gin.Context) {
	// Detached from the request context: a client disconnect mid-run must not
	// cancel the remaining model calls and skip those items.
	processed := h.processor.Trigger(context.Background())
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}
