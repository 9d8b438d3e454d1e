package session

import (
	"errors"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNotConnected is returned when a collaborator needs Google credentials
// before the user has connected their account.
var ErrNotConnected = errors.New("google account not connected")

// Session holds the user's Google OAuth token with an explicit lifecycle.
// It replaces a hidden process-wide client handle: constructed once at startup
// and passed to every collaborator that talks to Google.
type Session struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

// New creates a disconnected session
func New() *Session {
	return &Session{}
}

// Connect stores the token obtained from the OAuth flow
func (s *Session) Connect(token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Disconnect drops the held credentials; safe to call when already disconnected
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
}

// Current returns the held token or ErrNotConnected
func (s *Session) Current() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil, ErrNotConnected
	}
	return s.token, nil
}

// Connected reports whether a token is held
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil
}
