package ai

import (
	"context"
	"encoding/json"
)

// ToolCall records one tool invocation the model made, in call order
type ToolCall struct {
	Tool  string `json:"tool"`
	Query string `json:"query"`
}

// TextResult is the outcome of a free-text generation with tool use
type TextResult struct {
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"tool_calls"`
}

// Generator is the interface for LLM invocation.
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type Generator interface {
	// GenerateText runs a bounded multi-step loop in which the model may call
	// the web-search tool between reasoning steps. maxSteps caps the loop;
	// reaching the cap returns the best-effort text, not an error.
	GenerateText(ctx context.Context, system, prompt string, maxSteps int) (*TextResult, error)
	// GenerateStructured requests output conforming to the given JSON schema
	// and returns the raw model output. Non-conformant output is the caller's
	// hard failure to detect on unmarshal.
	GenerateStructured(ctx context.Context, system, prompt string, schema json.RawMessage) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
