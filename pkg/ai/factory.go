package ai

import (
	"fmt"
	"time"

	"briefly-backend/pkg/websearch"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	// Gemini config
	GeminiAPIKey string
	GeminiModel  string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"

	Timeout time.Duration
}

// NewGenerator creates a Generator based on the config.
// This is the factory function - switch AI provider by changing config.Provider.
func NewGenerator(cfg Config, searcher websearch.Searcher) (Generator, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, searcher, timeout), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, searcher, timeout), nil

	default:
		// Gemini primary with local Ollama fallback when both are configured
		if cfg.GeminiAPIKey != "" {
			gemini := NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, searcher, timeout)
			ollama := NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, searcher, timeout)
			return NewFallbackService(gemini, ollama), nil
		}
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, searcher, timeout), nil
	}
}
