package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Eric21111/expense-tracker-sub001/internal/config"
	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

const testEmail = "test@example.com"

// setupTest points the package-level DB at a fresh in-memory sqlite database
// and returns an engine plus a verified user.
func setupTest(t *testing.T) (*gin.Engine, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Budget{},
		&models.Transaction{},
		&models.Notification{},
		&models.Badge{},
		&models.VerificationCode{},
		&models.PendingRegistration{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	database.DB = db

	cfg := &config.Config{
		Port:          "0",
		AllowOrigins:  "*",
		JWTSecret:     "test-secret",
		ReqTimeoutSec: 5,
		CodeTTLMin:    15,
	}
	r := NewServer(cfg)

	user := models.User{Name: "Test User", Email: testEmail, Provider: "local", Verified: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return r, &user
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, email string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("x-user-email", email)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodGet, "/accounts", nil, "")
	if w.Code != 401 {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/accounts", nil, "nobody@example.com")
	if w.Code != 401 {
		t.Fatalf("unknown user status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareEmailCaseInsensitive(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodGet, "/accounts", nil, "TEST@Example.COM")
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	r, _ := setupTest(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil, "")
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
