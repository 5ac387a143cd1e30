package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

func storedCode(t *testing.T, email, purpose string) string {
	t.Helper()
	var vc models.VerificationCode
	err := database.DB.Where("email = ? AND purpose = ?", email, purpose).
		Order("created_at desc").First(&vc).Error
	if err != nil {
		t.Fatalf("no %s code for %s: %v", purpose, email, err)
	}
	return vc.Code
}

func TestRegisterVerifyLogin(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/users/register", map[string]any{
		"name": "New User", "email": "new@example.com", "password": "secret1",
	}, "")
	if w.Code != 200 {
		t.Fatalf("register status = %d: %s", w.Code, w.Body.String())
	}

	// No user yet, only a pending registration.
	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", "new@example.com").Count(&count)
	if count != 0 {
		t.Fatal("user created before verification")
	}

	code := storedCode(t, "new@example.com", "verify")
	w = doJSON(t, r, http.MethodPost, "/users/verify-email", map[string]any{
		"email": "new@example.com", "code": code,
	}, "")
	if w.Code != 201 {
		t.Fatalf("verify status = %d: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["token"].(string) == "" {
		t.Fatal("no token issued on verification")
	}

	w = doJSON(t, r, http.MethodPost, "/users/login", map[string]any{
		"email": "new@example.com", "password": "secret1",
	}, "")
	if w.Code != 200 {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/users/login", map[string]any{
		"email": "new@example.com", "password": "wrong-pass",
	}, "")
	if w.Code != 401 {
		t.Fatalf("bad login status = %d, want 401", w.Code)
	}
}

func TestVerifyEmailRejectsBadCode(t *testing.T) {
	r, _ := setupTest(t)

	doJSON(t, r, http.MethodPost, "/users/register", map[string]any{
		"name": "New User", "email": "new@example.com", "password": "secret1",
	}, "")

	w := doJSON(t, r, http.MethodPost, "/users/verify-email", map[string]any{
		"email": "new@example.com", "code": "000000x",
	}, "")
	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestVerificationCodeExpiry(t *testing.T) {
	r, _ := setupTest(t)

	doJSON(t, r, http.MethodPost, "/users/register", map[string]any{
		"name": "New User", "email": "new@example.com", "password": "secret1",
	}, "")
	code := storedCode(t, "new@example.com", "verify")

	// Age the code past its TTL.
	database.DB.Model(&models.VerificationCode{}).
		Where("email = ?", "new@example.com").
		Update("expires_at", time.Now().Add(-time.Minute))

	w := doJSON(t, r, http.MethodPost, "/users/verify-email", map[string]any{
		"email": "new@example.com", "code": code,
	}, "")
	if w.Code != 400 {
		t.Fatalf("expired code status = %d, want 400", w.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/users/register", map[string]any{
		"name": "Dup", "email": testEmail, "password": "secret1",
	}, "")
	if w.Code != 409 {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	r, _ := setupTest(t)

	// Unknown email answers 200 without leaking existence.
	w := doJSON(t, r, http.MethodPost, "/users/forgot-password", map[string]any{
		"email": "ghost@example.com",
	}, "")
	if w.Code != 200 {
		t.Fatalf("unknown email status = %d, want 200", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/users/forgot-password", map[string]any{
		"email": testEmail,
	}, "")
	if w.Code != 200 {
		t.Fatalf("forgot status = %d: %s", w.Code, w.Body.String())
	}
	code := storedCode(t, testEmail, "reset")

	w = doJSON(t, r, http.MethodPost, "/users/reset-password", map[string]any{
		"email": testEmail, "code": code, "new_password": "fresh-pass",
	}, "")
	if w.Code != 200 {
		t.Fatalf("reset status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/users/login", map[string]any{
		"email": testEmail, "password": "fresh-pass",
	}, "")
	if w.Code != 200 {
		t.Fatalf("login after reset status = %d: %s", w.Code, w.Body.String())
	}

	// Codes are single use.
	w = doJSON(t, r, http.MethodPost, "/users/reset-password", map[string]any{
		"email": testEmail, "code": code, "new_password": "another-pass",
	}, "")
	if w.Code != 400 {
		t.Fatalf("reused code status = %d, want 400", w.Code)
	}
}

func TestGoogleLoginUpsertsUser(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/users/google", map[string]any{
		"email": "g@example.com", "name": "G User",
	}, "")
	if w.Code != 200 {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := database.DB.Where("email = ?", "g@example.com").First(&user).Error; err != nil {
		t.Fatalf("google user not created: %v", err)
	}
	if user.Provider != "google" || !user.Verified {
		t.Fatalf("unexpected user %+v", user)
	}

	// Second call logs into the same account.
	w = doJSON(t, r, http.MethodPost, "/users/google", map[string]any{
		"email": "g@example.com",
	}, "")
	if w.Code != 200 {
		t.Fatalf("second login status = %d", w.Code)
	}
	var n int64
	database.DB.Model(&models.User{}).Where("email = ?", "g@example.com").Count(&n)
	if n != 1 {
		t.Fatalf("user rows = %d, want 1", n)
	}
}

func TestBearerTokenAuth(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/users/google", map[string]any{
		"email": "g@example.com", "name": "G User",
	}, "")
	token := decode(t, w)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("bearer auth status = %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != 401 {
		t.Fatalf("garbage token status = %d, want 401", rec.Code)
	}
}

func TestChangePassword(t *testing.T) {
	r, user := setupTest(t)

	// Seed a real hash for the test user.
	w := doJSON(t, r, http.MethodPost, "/users/google", map[string]any{"email": user.Email}, "")
	if w.Code != 200 {
		t.Fatalf("seed login status = %d", w.Code)
	}
	doJSON(t, r, http.MethodPost, "/users/forgot-password", map[string]any{"email": user.Email}, "")
	code := storedCode(t, user.Email, "reset")
	doJSON(t, r, http.MethodPost, "/users/reset-password", map[string]any{
		"email": user.Email, "code": code, "new_password": "oldpass",
	}, "")

	w = doJSON(t, r, http.MethodPost, "/users/change-password", map[string]any{
		"old_password": "wrong", "new_password": "newpass1",
	}, testEmail)
	if w.Code != 401 {
		t.Fatalf("wrong old password status = %d, want 401", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/users/change-password", map[string]any{
		"old_password": "oldpass", "new_password": "newpass1",
	}, testEmail)
	if w.Code != 200 {
		t.Fatalf("change status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/users/login", map[string]any{
		"email": testEmail, "password": "newpass1",
	}, "")
	if w.Code != 200 {
		t.Fatalf("login after change status = %d: %s", w.Code, w.Body.String())
	}
}
