package api

import (
	actionDelivery "briefly-backend/internal/action/delivery"
	insightsDelivery "briefly-backend/internal/insights/delivery"
	itemDelivery "briefly-backend/internal/item/delivery"
	researchDelivery "briefly-backend/internal/research/delivery"
	"briefly-backend/pkg/config"
	"briefly-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	itemHandler     *itemDelivery.ItemHandler
	researchHandler *researchDelivery.ResearchHandler
	insightsHandler *insightsDelivery.InsightsHandler
	actionHandler   *actionDelivery.ActionHandler
	sessionHandler  *SessionHandler
	sseManager      *sse.Manager
	config          *config.Config
}

func NewHandler(
	itemHandler *itemDelivery.ItemHandler,
	researchHandler *researchDelivery.ResearchHandler,
	insightsHandler *insightsDelivery.InsightsHandler,
	actionHandler *actionDelivery.ActionHandler,
	sessionHandler *SessionHandler,
	sseManager *sse.Manager,
	cfg *config.Config,
) *Handler {
	return &Handler{
		itemHandler:     itemHandler,
		researchHandler: researchHandler,
		insightsHandler: insightsHandler,
		actionHandler:   actionHandler,
		sessionHandler:  sessionHandler,
		sseManager:      sseManager,
		config:          cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.itemHandler, h.researchHandler, h.insightsHandler, h.actionHandler, h.sessionHandler, h.sseManager)

	return r.Run(addr)
}
