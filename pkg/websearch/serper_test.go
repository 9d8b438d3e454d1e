package websearch

import (
	"context"
	"testing"
	"time"
)

func TestSearchWithoutAPIKey(t *testing.T) {
	s := NewSerperSearcher("", time.Second)

	result := s.Search(context.Background(), "anything", "standard")
	if result.Error == "" {
		t.Fatal("expected error result when no API key is configured")
	}
	if result.Answer != "" || len(result.Sources) != 0 {
		t.Fatalf("unconfigured search returned data: %+v", result)
	}
}
