package gmail

import (
	"strings"
	"testing"
	"unicode/utf8"

	gmailapi "google.golang.org/api/gmail/v1"
)

func TestTruncateRunesKeepsValidUTF8(t *testing.T) {
	// 1 rune = 3 bytes; 200 is not a multiple of 3, so a byte slice at 200
	// would split a rune
	long := strings.Repeat("世", 100)
	got := truncateRunes(long, 200)

	if !utf8.ValidString(got) {
		t.Fatalf("truncated string is not valid UTF-8: %q", got)
	}
	if len(got) > 200 {
		t.Fatalf("truncated to %d bytes, want <= 200", len(got))
	}
	if got != strings.Repeat("世", 66) {
		t.Fatalf("unexpected cut point, got %d runes", utf8.RuneCountInString(got))
	}

	if truncateRunes("short", 200) != "short" {
		t.Fatal("strings under the limit must pass through unchanged")
	}
}

func TestConvertMessageSnippetStaysValidUTF8(t *testing.T) {
	msg := &gmailapi.Message{
		Id:      "m1",
		Snippet: strings.Repeat("é", 150),
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "From", Value: "alice@example.com"},
				{Name: "Subject", Value: "Bonjour"},
			},
		},
	}

	item := convertMessage(msg)
	if !utf8.ValidString(item.Snippet) {
		t.Fatalf("snippet is not valid UTF-8: %q", item.Snippet)
	}
	if !strings.HasSuffix(item.Snippet, "...") {
		t.Fatalf("long snippet not marked truncated: %q", item.Snippet)
	}
	if item.Sender != "alice@example.com" || item.Subject != "Bonjour" {
		t.Fatalf("headers not mapped: %+v", item)
	}
}
