package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"briefly-backend/pkg/websearch"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// webSearchDeclaration is the single tool exposed to the research model
var webSearchDeclaration = functionDeclaration{
	Name:        "web_search",
	Description: "Search the web for current information. Use depth \"deep\" for thorough research, \"standard\" otherwise.",
	Parameters: json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "The search query"},
			"depth": {"type": "string", "enum": ["standard", "deep"]}
		},
		"required": ["query"]
	}`),
}

// GeminiService calls the Gemini generateContent API
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	searcher   websearch.Searcher
	httpClient *http.Client
}

// NewGeminiService creates a new GeminiService
func NewGeminiService(apiKey, model string, searcher websearch.Searcher, timeout time.Duration) *GeminiService {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		searcher:   searcher,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *functionCall     `json:"functionCall,omitempty"`
	FunctionResponse *functionResponse `json:"functionResponse,omitempty"`
}

type functionCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

type functionResponse struct {
	Name     string                 `json:"name"`
	Response map[string]interface{} `json:"response"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type functionDeclaration struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type geminiTool struct {
	FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	Contents          []geminiContent   `json:"contents"`
	Tools             []geminiTool      `json:"tools,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateText runs the tool-use loop: the model may interleave web_search
// calls with reasoning until it produces final text or the step cap is hit.
// Search failures are fed back to the model as data, never raised.
func (g *GeminiService) GenerateText(ctx context.Context, system, prompt string, maxSteps int) (*TextResult, error) {
	contents := []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}}
	tools := []geminiTool{{FunctionDeclarations: []functionDeclaration{webSearchDeclaration}}}

	var toolCalls []ToolCall
	lastText := ""

	for step := 0; step < maxSteps; step++ {
		content, err := g.generate(ctx, system, contents, tools, nil)
		if err != nil {
			return nil, err
		}
		contents = append(contents, *content)

		var calls []*functionCall
		var texts []string
		for _, p := range content.Parts {
			if p.FunctionCall != nil {
				calls = append(calls, p.FunctionCall)
			}
			if p.Text != "" {
				texts = append(texts, p.Text)
			}
		}
		if len(texts) > 0 {
			lastText = strings.Join(texts, "\n")
		}

		if len(calls) == 0 {
			return &TextResult{Text: lastText, ToolCalls: toolCalls}, nil
		}

		// Resolve each tool call fully before the model is invoked again
		responseParts := make([]geminiPart, 0, len(calls))
		for _, call := range calls {
			query, _ := call.Args["query"].(string)
			depth, _ := call.Args["depth"].(string)
			if depth == "" {
				depth = "standard"
			}
			toolCalls = append(toolCalls, ToolCall{Tool: call.Name, Query: query})

			result := g.searcher.Search(ctx, query, depth)
			var response map[string]interface{}
			if result.Error != "" {
				response = map[string]interface{}{"error": result.Error}
			} else {
				response = map[string]interface{}{"answer": result.Answer, "sources": result.Sources}
			}
			responseParts = append(responseParts, geminiPart{
				FunctionResponse: &functionResponse{Name: call.Name, Response: response},
			})
		}
		contents = append(contents, geminiContent{Role: "user", Parts: responseParts})
	}

	// Step cap reached: return whatever the model produced so far
	return &TextResult{Text: lastText, ToolCalls: toolCalls}, nil
}

// GenerateStructured makes a single schema-constrained call with no tools
func (g *GeminiService) GenerateStructured(ctx context.Context, system, prompt string, schema json.RawMessage) (string, error) {
	contents := []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}}
	cfg := &generationConfig{ResponseMIMEType: "application/json", ResponseSchema: schema}

	content, err := g.generate(ctx, system, contents, nil, cfg)
	if err != nil {
		return "", err
	}
	var texts []string
	for _, p := range content.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("no structured output returned")
	}
	return strings.Join(texts, ""), nil
}

func (g *GeminiService) generate(ctx context.Context, system string, contents []geminiContent, tools []geminiTool, cfg *generationConfig) (*geminiContent, error) {
	reqBody := generateRequest{
		Contents:         contents,
		Tools:            tools,
		GenerationConfig: cfg,
	}
	if system != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}
	return &parsed.Candidates[0].Content, nil
}
