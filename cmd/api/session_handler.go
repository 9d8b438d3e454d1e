package api

import (
	"log"
	"net/http"
	"time"

	itemrepo "briefly-backend/internal/item/repository"
	"briefly-backend/pkg/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// SessionHandler manages the Google connection and the data wipe endpoint
type SessionHandler struct {
	session *session.Session
	items   itemrepo.ItemRepository
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sess *session.Session, items itemrepo.ItemRepository) *SessionHandler {
	return &SessionHandler{session: sess, items: items}
}

// GoogleConnectRequest carries an OAuth token obtained by the UI
type GoogleConnectRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// GoogleConnect stores the Google OAuth token for this session
// POST /api/auth/google
func (h *SessionHandler) GoogleConnect(c *gin.Context) {
	var req GoogleConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := &oauth2.Token{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    "Bearer",
	}
	if req.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(req.ExpiresIn) * time.Second)
	}
	h.session.Connect(token)
	log.Println("[Session] Google account connected")

	c.JSON(http.StatusOK, gin.H{"connected": true})
}

// Logout drops the stored Google token
// POST /api/auth/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	h.session.Disconnect()
	log.Println("[Session] Google account disconnected")
	c.JSON(http.StatusOK, gin.H{"connected": false})
}

// Status reports whether a Google account is connected
// GET /api/auth/status
func (h *SessionHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connected": h.session.Connected()})
}

// WipeData deletes every stored item, cached result and log entry
// DELETE /api/data
func (h *SessionHandler) WipeData(c *gin.Context) {
	if err := h.items.WipeAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Wipe means everything: stored items, cached results, and the credentials
	h.session.Disconnect()
	log.Println("[Session] All stored data wiped, Google account disconnected")
	c.JSON(http.StatusOK, gin.H{"wiped": true})
}
