package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	actiondomain "briefly-backend/internal/action/domain"
	insightsdomain "briefly-backend/internal/insights/domain"
	itemdomain "briefly-backend/internal/item/domain"
	itemrepo "briefly-backend/internal/item/repository"
	researchdomain "briefly-backend/internal/research/domain"
	"briefly-backend/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSessionHandlerForTest(t *testing.T) (*SessionHandler, *session.Session, itemrepo.ItemRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&itemdomain.EmailItem{},
		&itemdomain.CalendarItem{},
		&researchdomain.ResearchResult{},
		&insightsdomain.InsightsResult{},
		&actiondomain.ExecutionRecord{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	items := itemrepo.NewGormItemRepository(db)
	sess := session.New()
	return NewSessionHandler(sess, items), sess, items
}

func TestWipeDataClearsStoreAndDisconnects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, sess, items := newSessionHandlerForTest(t)

	sess.Connect(&oauth2.Token{AccessToken: "tok"})
	_, err := items.UpsertEmails([]*itemdomain.EmailItem{
		{ID: "m1", Sender: "a@b.c", ReceivedAt: time.Now()},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/data", nil)

	handler.WipeData(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	emails, err := items.ListEmails()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(emails) != 0 {
		t.Fatalf("emails survived wipe: %d", len(emails))
	}
	// Wiping all data includes the held credentials
	if sess.Connected() {
		t.Fatal("session still connected after full wipe")
	}
}

func TestGoogleConnectAndLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, sess, _ := newSessionHandlerForTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"access_token": "tok", "refresh_token": "rt", "expires_in": 3600}`
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.GoogleConnect(c)
	if w.Code != http.StatusOK {
		t.Fatalf("connect status = %d, body = %s", w.Code, w.Body.String())
	}
	if !sess.Connected() {
		t.Fatal("session not connected after google connect")
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	handler.Logout(c)
	if sess.Connected() {
		t.Fatal("session still connected after logout")
	}
}
