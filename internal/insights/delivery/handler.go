package delivery

import (
	"net/http"

	"briefly-backend/internal/insights/domain"
	"briefly-backend/internal/insights/usecase"

	"github.com/gin-gonic/gin"
)

// InsightsHandler handles insights extraction HTTP requests
type InsightsHandler struct {
	insights usecase.InsightsUsecase
}

// NewInsightsHandler creates a new InsightsHandler
func NewInsightsHandler(insights usecase.InsightsUsecase) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

// RunRequest represents the request body for an insights extraction run
type RunRequest struct {
	InputType   string `json:"input_type" binding:"required"`
	ID          string `json:"id" binding:"required"`
	Counterpart string `json:"counterpart"`
	Subject     string `json:"subject"`
	Content     string `json:"content" binding:"required"`
}

// Run extracts (or returns cached) insights for one reply or transcript
// POST /api/insights/run
func (h *InsightsHandler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.InsightsInput{
		Type:        domain.InputType(req.InputType),
		ID:          req.ID,
		Counterpart: req.Counterpart,
		Subject:     req.Subject,
		Content:     req.Content,
	}
	if !input.Type.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input type"})
		return
	}

	result, err := h.insights.Run(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetResult returns cached insights without invoking the model
// GET /api/insights/:sourceType/:id
func (h *InsightsHandler) GetResult(c *gin.Context) {
	result, err := h.insights.GetResult(c.Param("sourceType"), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no insights for this input"})
		return
	}
	c.JSON(http.StatusOK, result)
}
