package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"briefly-backend/pkg/websearch"
)

// OllamaService calls a local Ollama instance via its chat API
type OllamaService struct {
	baseURL    string
	model      string
	searcher   websearch.Searcher
	httpClient *http.Client
}

// NewOllamaService creates a new OllamaService
func NewOllamaService(baseURL, model string, searcher websearch.Searcher, timeout time.Duration) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaService{
		baseURL:    baseURL,
		model:      model,
		searcher:   searcher,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type ollamaToolCall struct {
	Function struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	} `json:"function"`
}

type ollamaMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []ollamaToolCall `json:"tool_calls,omitempty"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Tools    json.RawMessage `json:"tools,omitempty"`
	Format   json.RawMessage `json:"format,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

var ollamaWebSearchTool = json.RawMessage(`[{
	"type": "function",
	"function": {
		"name": "web_search",
		"description": "Search the web for current information",
		"parameters": {
			"type": "object",
			"properties": {
				"query": {"type": "string"},
				"depth": {"type": "string", "enum": ["standard", "deep"]}
			},
			"required": ["query"]
		}
	}
}]`)

// GenerateText runs the same bounded tool loop as the Gemini client against
// a local model
func (o *OllamaService) GenerateText(ctx context.Context, system, prompt string, maxSteps int) (*TextResult, error) {
	messages := []ollamaMessage{}
	if system != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: system})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: prompt})

	var toolCalls []ToolCall
	lastText := ""

	for step := 0; step < maxSteps; step++ {
		msg, err := o.chat(ctx, messages, ollamaWebSearchTool, nil)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
		if msg.Content != "" {
			lastText = msg.Content
		}

		if len(msg.ToolCalls) == 0 {
			return &TextResult{Text: lastText, ToolCalls: toolCalls}, nil
		}

		for _, call := range msg.ToolCalls {
			query, _ := call.Function.Arguments["query"].(string)
			depth, _ := call.Function.Arguments["depth"].(string)
			if depth == "" {
				depth = "standard"
			}
			toolCalls = append(toolCalls, ToolCall{Tool: call.Function.Name, Query: query})

			result := o.searcher.Search(ctx, query, depth)
			content, _ := json.Marshal(result)
			messages = append(messages, ollamaMessage{Role: "tool", Content: string(content)})
		}
	}

	return &TextResult{Text: lastText, ToolCalls: toolCalls}, nil
}

// GenerateStructured uses Ollama's structured-output format parameter
func (o *OllamaService) GenerateStructured(ctx context.Context, system, prompt string, schema json.RawMessage) (string, error) {
	messages := []ollamaMessage{}
	if system != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: system})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: prompt})

	msg, err := o.chat(ctx, messages, nil, schema)
	if err != nil {
		return "", err
	}
	if msg.Content == "" {
		return "", fmt.Errorf("no structured output returned")
	}
	return msg.Content, nil
}

func (o *OllamaService) chat(ctx context.Context, messages []ollamaMessage, tools, format json.RawMessage) (*ollamaMessage, error) {
	reqBody := ollamaChatRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   false,
		Tools:    tools,
		Format:   format,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/chat", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Ollama API error: %s", string(respBody))
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, err
	}
	return &parsed.Message, nil
}
