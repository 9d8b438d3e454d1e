package delivery

import (
	"net/http"
	"strings"

	"briefly-backend/internal/action/usecase"

	"github.com/gin-gonic/gin"
)

// ActionHandler handles action execution HTTP requests
type ActionHandler struct {
	actions usecase.ActionUsecase
}

// NewActionHandler creates a new ActionHandler
func NewActionHandler(actions usecase.ActionUsecase) *ActionHandler {
	return &ActionHandler{actions: actions}
}

// ExecuteRequest represents the request body for executing one action step
type ExecuteRequest struct {
	SourceType  string `json:"source_type" binding:"required"`
	SourceID    string `json:"source_id" binding:"required"`
	ActionIndex *int   `json:"action_index" binding:"required"`
}

// Execute dispatches one action step from a cached insights result
// POST /api/actions/execute
func (h *ActionHandler) Execute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.actions.Execute(c.Request.Context(), req.SourceType, req.SourceID, *req.ActionIndex)
	if err != nil {
		if strings.Contains(err.Error(), "no insights found") || strings.Contains(err.Error(), "out of range") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// GetLog returns the execution history for one insights key, newest first
// GET /api/actions/:sourceType/:id/log
func (h *ActionHandler) GetLog(c *gin.Context) {
	records, err := h.actions.GetLog(c.Param("sourceType"), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": records, "total": len(records)})
}
