package api

import (
	"net/http"

	actionDelivery "briefly-backend/internal/action/delivery"
	insightsDelivery "briefly-backend/internal/insights/delivery"
	itemDelivery "briefly-backend/internal/item/delivery"
	researchDelivery "briefly-backend/internal/research/delivery"
	"briefly-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, itemHandler *itemDelivery.ItemHandler, researchHandler *researchDelivery.ResearchHandler, insightsHandler *insightsDelivery.InsightsHandler, actionHandler *actionDelivery.ActionHandler, sessionHandler *SessionHandler, sseManager *sse.Manager) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint
		api.GET("/events", sseManager.ServeHTTP)

		// Session routes
		auth := api.Group("/auth")
		{
			auth.POST("/google", sessionHandler.GoogleConnect)
			auth.POST("/logout", sessionHandler.Logout)
			auth.GET("/status", sessionHandler.Status)
		}

		// Item routes
		items := api.Group("/items")
		{
			items.POST("/sync", itemHandler.Sync)
			items.GET("/unprocessed", itemHandler.GetUnprocessed)
		}

		// Auto-processing trigger
		api.POST("/process", researchHandler.TriggerProcessing)

		// Research routes
		research := api.Group("/research")
		{
			research.POST("/run", researchHandler.Run)
			research.GET("/:sourceType/:id", researchHandler.GetResult)
		}

		// Insights routes
		insights := api.Group("/insights")
		{
			insights.POST("/run", insightsHandler.Run)
			insights.GET("/:sourceType/:id", insightsHandler.GetResult)
		}

		// Action routes
		actions := api.Group("/actions")
		{
			actions.POST("/execute", actionHandler.Execute)
			actions.GET("/:sourceType/:id/log", actionHandler.GetLog)
		}

		// Data wipe
		api.DELETE("/data", sessionHandler.WipeData)
	}
}
