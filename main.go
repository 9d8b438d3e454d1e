package main

import (
	"log"

	api "briefly-backend/cmd/api"
	actionDelivery "briefly-backend/internal/action/delivery"
	actiondomain "briefly-backend/internal/action/domain"
	actionRepo "briefly-backend/internal/action/repository"
	actionUsecase "briefly-backend/internal/action/usecase"
	insightsDelivery "briefly-backend/internal/insights/delivery"
	insightsdomain "briefly-backend/internal/insights/domain"
	insightsRepo "briefly-backend/internal/insights/repository"
	insightsUsecase "briefly-backend/internal/insights/usecase"
	itemDelivery "briefly-backend/internal/item/delivery"
	itemdomain "briefly-backend/internal/item/domain"
	itemRepo "briefly-backend/internal/item/repository"
	itemUsecase "briefly-backend/internal/item/usecase"
	researchDelivery "briefly-backend/internal/research/delivery"
	researchdomain "briefly-backend/internal/research/domain"
	researchRepo "briefly-backend/internal/research/repository"
	"briefly-backend/internal/research/scheduler"
	researchUsecase "briefly-backend/internal/research/usecase"
	"briefly-backend/pkg/ai"
	"briefly-backend/pkg/config"
	"briefly-backend/pkg/database"
	"briefly-backend/pkg/fixtures"
	"briefly-backend/pkg/gcal"
	"briefly-backend/pkg/gmail"
	"briefly-backend/pkg/session"
	"briefly-backend/pkg/sse"
	"briefly-backend/pkg/websearch"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&itemdomain.EmailItem{},
		&itemdomain.CalendarItem{},
		&researchdomain.ResearchResult{},
		&insightsdomain.InsightsResult{},
		&actiondomain.ExecutionRecord{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	itemRepository := itemRepo.NewGormItemRepository(db)
	researchRepository := researchRepo.NewGormResearchRepository(db)
	insightsRepository := insightsRepo.NewGormInsightsRepository(db)
	actionLogRepository := actionRepo.NewGormActionLogRepository(db)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// One in-memory session per server instance: this is a single-user app
	sess := session.New()

	// Initialize Google services
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, sess)
	gcalService := gcal.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, sess)

	// Initialize web search for the research agent's tool loop
	searcher := websearch.NewSerperSearcher(cfg.SerperAPIKey, cfg.ProviderTimeout)

	// Initialize AI generator
	generator, err := ai.NewGenerator(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
		Timeout:       cfg.ProviderTimeout,
	}, searcher)
	if err != nil {
		log.Fatal("Failed to initialize AI provider:", err)
	}
	log.Printf("AI provider initialized: %s", cfg.AIProvider)

	// Initialize use cases (dependency injection)
	researchInstance := researchUsecase.NewResearchUsecase(researchRepository, itemRepository, generator)
	insightsInstance := insightsUsecase.NewInsightsUsecase(insightsRepository, generator)
	actionInstance := actionUsecase.NewActionUsecase(insightsRepository, actionLogRepository, gmailService, gcalService)

	// Auto-processor: new items trigger a debounced, single-flight research run
	processor := scheduler.NewAutoProcessor(itemRepository, researchInstance, cfg.ProcessDebounce)
	processor.SetCallbacks(
		func(sourceType itemdomain.SourceType, id string) {
			sseManager.Broadcast("item_processed", map[string]interface{}{
				"source_type": sourceType,
				"id":          id,
			})
		},
		func() {
			sseManager.Broadcast("processing_complete", nil)
		},
	)

	ingestInstance := itemUsecase.NewIngestUsecase(
		itemRepository,
		gmailService,
		gcalService,
		fixtures.EmailProvider{},
		fixtures.EventProvider{},
		processor,
		cfg.FetchLimit,
	)

	// Initialize HTTP handlers
	itemHandler := itemDelivery.NewItemHandler(ingestInstance, itemRepository)
	researchHandler := researchDelivery.NewResearchHandler(researchInstance, itemRepository, processor)
	insightsHandler := insightsDelivery.NewInsightsHandler(insightsInstance)
	actionHandler := actionDelivery.NewActionHandler(actionInstance)
	sessionHandler := api.NewSessionHandler(sess, itemRepository)

	handler := api.NewHandler(itemHandler, researchHandler, insightsHandler, actionHandler, sessionHandler, sseManager, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
