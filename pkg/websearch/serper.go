package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const serperURL = "https://google.serper.dev/search"

// Result is what the model sees for one search. Failures are carried in Error
// rather than raised, so the calling model can retry with a different query or
// proceed without the result.
type Result struct {
	Answer  string   `json:"answer,omitempty"`
	Sources []string `json:"sources,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Searcher is the single tool exposed to the research agent
type Searcher interface {
	Search(ctx context.Context, query, depth string) Result
}

// SerperSearcher queries the Serper web search API
type SerperSearcher struct {
	apiKey     string
	httpClient *http.Client
}

// NewSerperSearcher creates a new SerperSearcher
func NewSerperSearcher(apiKey string, timeout time.Duration) *SerperSearcher {
	return &SerperSearcher{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *SerperSearcher) Search(ctx context.Context, query, depth string) Result {
	if s.apiKey == "" {
		return Result{Error: "web search not configured"}
	}

	num := 5
	if depth == "deep" {
		num = 10
	}

	payload := map[string]any{"q": query, "num": num}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", serperURL, bytes.NewBuffer(body))
	if err != nil {
		return Result{Error: err.Error()}
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{Error: fmt.Sprintf("search request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Error: fmt.Sprintf("search API returned status %d", resp.StatusCode)}
	}

	var raw struct {
		AnswerBox struct {
			Answer  string `json:"answer"`
			Snippet string `json:"snippet"`
		} `json:"answerBox"`
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Result{Error: fmt.Sprintf("failed to parse search response: %v", err)}
	}

	var parts []string
	if raw.AnswerBox.Answer != "" {
		parts = append(parts, raw.AnswerBox.Answer)
	} else if raw.AnswerBox.Snippet != "" {
		parts = append(parts, raw.AnswerBox.Snippet)
	}

	sources := make([]string, 0, len(raw.Organic))
	for i, item := range raw.Organic {
		if i >= num {
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %s", item.Title, item.Snippet))
		sources = append(sources, item.Link)
	}

	if len(parts) == 0 {
		return Result{Error: "no results found"}
	}
	return Result{Answer: strings.Join(parts, "\n"), Sources: sources}
}
