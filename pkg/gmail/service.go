package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	itemdomain "briefly-backend/internal/item/domain"
	"briefly-backend/pkg/session"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Service fetches inbox messages and sends mail through the Gmail API using
// the credentials held by the Session.
type Service struct {
	clientID     string
	clientSecret string
	session      *session.Session
}

// NewService creates a new Gmail service
func NewService(clientID, clientSecret string, sess *session.Session) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		session:      sess,
	}
}

func (s *Service) client(ctx context.Context) (*gmail.Service, error) {
	token, err := s.session.Current()
	if err != nil {
		return nil, err
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}
	httpClient := oauth2.NewClient(ctx, config.TokenSource(ctx, token))

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}
	return srv, nil
}

// FetchEmails retrieves up to maxResults inbox messages, skipping ids the
// store already holds so known messages are not re-downloaded in full.
func (s *Service) FetchEmails(ctx context.Context, maxResults int, knownIDs []string) ([]*itemdomain.EmailItem, error) {
	srv, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	user := "me"
	listResp, err := srv.Users.Messages.List(user).
		LabelIds("INBOX").MaxResults(int64(maxResults)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %v", err)
	}

	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}

	items := make([]*itemdomain.EmailItem, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		if known[ref.Id] {
			continue
		}
		msg, err := srv.Users.Messages.Get(user, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve message %s: %v", ref.Id, err)
		}
		items = append(items, convertMessage(msg))
	}
	return items, nil
}

// SendEmail sends a plain-text email and returns the provider's message id
func (s *Service) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	srv, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	var emailMsg bytes.Buffer
	emailMsg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	// Encode subject to handle non-ASCII characters (RFC 2047)
	encodedSubject := fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(subject)))
	emailMsg.WriteString(fmt.Sprintf("Subject: %s\r\n", encodedSubject))
	emailMsg.WriteString("MIME-Version: 1.0\r\n")
	emailMsg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	emailMsg.WriteString(body)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(emailMsg.Bytes()),
	}

	sent, err := srv.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to send message: %v", err)
	}
	return sent.Id, nil
}

// Helper functions

func convertMessage(msg *gmail.Message) *itemdomain.EmailItem {
	body := getMessageBody(msg.Payload)

	snippet := msg.Snippet
	if snippet == "" {
		// Strip HTML tags for the preview
		re := regexp.MustCompile(`<[^>]*>`)
		snippet = re.ReplaceAllString(body, " ")
		snippet = strings.Join(strings.Fields(snippet), " ")
	}
	if len(snippet) > 200 {
		snippet = truncateRunes(snippet, 200) + "..."
	}

	return &itemdomain.EmailItem{
		ID:         msg.Id,
		Sender:     getHeader(msg.Payload.Headers, "From"),
		Recipient:  getHeader(msg.Payload.Headers, "To"),
		Subject:    getHeader(msg.Payload.Headers, "Subject"),
		Snippet:    snippet,
		Body:       body,
		ReceivedAt: time.Unix(msg.InternalDate/1000, 0),
	}
}

// truncateRunes cuts s at the last rune boundary at or below max bytes, so a
// multibyte character is never split.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

func getMessageBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err == nil {
			return string(data)
		}
	}

	var htmlBody string
	var plainBody string

	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.Body != nil && part.Body.Data != "" {
				data, err := base64.URLEncoding.DecodeString(part.Body.Data)
				if err == nil {
					switch part.MimeType {
					case "text/plain":
						plainBody = string(data)
					case "text/html":
						htmlBody = string(data)
					}
				}
			}
			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}
	findBody(payload.Parts)

	if plainBody != "" {
		return plainBody
	}
	return htmlBody
}
