package ai

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"strings"
)

// FallbackService routes to Gemini first and falls back to the local Ollama
// instance when Gemini is unreachable or out of quota.
type FallbackService struct {
	gemini Generator
	ollama Generator
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(gemini, ollama Generator) *FallbackService {
	return &FallbackService{gemini: gemini, ollama: ollama}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}
	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}
	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

func (f *FallbackService) shouldFallBack(err error) bool {
	return f.ollama != nil && (isConnectionError(err) || isQuotaError(err))
}

func (f *FallbackService) GenerateText(ctx context.Context, system, prompt string, maxSteps int) (*TextResult, error) {
	result, err := f.gemini.GenerateText(ctx, system, prompt, maxSteps)
	if err == nil {
		return result, nil
	}
	if !f.shouldFallBack(err) {
		return nil, err
	}
	log.Printf("[AI] Gemini unavailable (%v), falling back to Ollama", err)
	return f.ollama.GenerateText(ctx, system, prompt, maxSteps)
}

func (f *FallbackService) GenerateStructured(ctx context.Context, system, prompt string, schema json.RawMessage) (string, error) {
	result, err := f.gemini.GenerateStructured(ctx, system, prompt, schema)
	if err == nil {
		return result, nil
	}
	if !f.shouldFallBack(err) {
		return "", err
	}
	log.Printf("[AI] Gemini unavailable (%v), falling back to Ollama", err)
	return f.ollama.GenerateStructured(ctx, system, prompt, schema)
}
