package http

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/finance"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

func TestBudgetArchiveAndPermanentDelete(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/budgets", map[string]any{
		"category": "Food", "amount": 500,
	}, testEmail)
	if w.Code != 201 {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	budget := decode(t, w)["budget"].(map[string]any)
	id := uint(budget["id"].(float64))

	// permanent=false archives instead of removing.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/budgets/%d?permanent=false", id), nil, testEmail)
	if w.Code != 200 {
		t.Fatalf("archive status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/budgets", nil, testEmail)
	if got := len(decode(t, w)["budgets"].([]any)); got != 0 {
		t.Fatalf("active listing has %d budgets, want 0", got)
	}
	w = doJSON(t, r, http.MethodGet, "/budgets?archived=true", nil, testEmail)
	if got := len(decode(t, w)["budgets"].([]any)); got != 1 {
		t.Fatalf("archived listing has %d budgets, want 1", got)
	}

	// permanent=true removes the row.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/budgets/%d?permanent=true", id), nil, testEmail)
	if w.Code != 200 {
		t.Fatalf("delete status = %d: %s", w.Code, w.Body.String())
	}
	var n int64
	database.DB.Model(&models.Budget{}).Count(&n)
	if n != 0 {
		t.Fatalf("budget rows = %d, want 0", n)
	}
}

func TestMultiBudgetCreateAndGroupTotals(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/budgets", map[string]any{
		"label": "Essentials",
		"categories": []map[string]any{
			{"category": "Food", "amount": 300},
			{"category": "Transport", "amount": 200},
		},
	}, testEmail)
	if w.Code != 201 {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	created := resp["budgets"].([]any)
	if len(created) != 2 {
		t.Fatalf("created %d budgets, want 2", len(created))
	}
	groupID := resp["group_id"].(string)
	if groupID == "" {
		t.Fatal("empty group_id")
	}

	first := created[0].(map[string]any)
	w = doJSON(t, r, http.MethodPost, "/transactions", map[string]any{
		"type": "expense", "amount": 120, "date": today(), "budget_id": uint(first["id"].(float64)),
	}, testEmail)
	if w.Code != 201 {
		t.Fatalf("spend status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/budgets", nil, testEmail)
	groups := decode(t, w)["groups"].([]any)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0].(map[string]any)
	if g["amount"].(float64) != 500 || g["spent"].(float64) != 120 {
		t.Fatalf("group amount/spent = %v/%v, want 500/120", g["amount"], g["spent"])
	}
	if g["percentage"].(float64) != 24 {
		t.Fatalf("group percentage = %v, want 24", g["percentage"])
	}
}

func TestArchiveGroupAndRestore(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/budgets", map[string]any{
		"label": "Essentials",
		"categories": []map[string]any{
			{"category": "Food", "amount": 300},
			{"category": "Transport", "amount": 200},
		},
	}, testEmail)
	groupID := decode(t, w)["group_id"].(string)

	w = doJSON(t, r, http.MethodPut, "/budgets/archive-group/"+groupID, nil, testEmail)
	if w.Code != 200 {
		t.Fatalf("archive status = %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/budgets", nil, testEmail)
	if got := len(decode(t, w)["budgets"].([]any)); got != 0 {
		t.Fatalf("active budgets after group archive = %d, want 0", got)
	}

	w = doJSON(t, r, http.MethodPut, "/budgets/archive-group/"+groupID+"?restore=true", nil, testEmail)
	if w.Code != 200 {
		t.Fatalf("restore status = %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/budgets", nil, testEmail)
	if got := len(decode(t, w)["budgets"].([]any)); got != 2 {
		t.Fatalf("active budgets after restore = %d, want 2", got)
	}

	w = doJSON(t, r, http.MethodPut, "/budgets/archive-group/no-such-group", nil, testEmail)
	if w.Code != 404 {
		t.Fatalf("unknown group status = %d, want 404", w.Code)
	}
}

func TestBudgetValidation(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/budgets", map[string]any{"amount": 100}, testEmail)
	if w.Code != 400 {
		t.Fatalf("missing category status = %d, want 400", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/budgets", map[string]any{"category": "Food", "amount": -1}, testEmail)
	if w.Code != 400 {
		t.Fatalf("negative amount status = %d, want 400", w.Code)
	}
}

func TestLazyMonthlyReset(t *testing.T) {
	r, user := setupTest(t)

	stale := models.Budget{
		UserID: user.ID, Category: "Food", Amount: 500,
		MonthKey: "2020-01", LastResetDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	database.DB.Create(&stale)

	w := doJSON(t, r, http.MethodGet, "/budgets", nil, testEmail)
	if w.Code != 200 {
		t.Fatalf("list status = %d: %s", w.Code, w.Body.String())
	}
	b := decode(t, w)["budgets"].([]any)[0].(map[string]any)
	want := finance.CurrentMonthKey(time.Now())
	if b["month_key"].(string) != want {
		t.Fatalf("month_key = %v, want %v", b["month_key"], want)
	}

	var reloaded models.Budget
	database.DB.First(&reloaded, stale.ID)
	if reloaded.MonthKey != want {
		t.Fatalf("persisted month_key = %q, want %q", reloaded.MonthKey, want)
	}
}

func TestResetMonthlyEndpoint(t *testing.T) {
	r, user := setupTest(t)
	database.DB.Create(&models.Budget{UserID: user.ID, Category: "Food", Amount: 500, MonthKey: "2020-01"})
	database.DB.Create(&models.Budget{UserID: user.ID, Category: "Fun", Amount: 100, MonthKey: "2020-01"})

	w := doJSON(t, r, http.MethodPost, "/budgets/reset-monthly", nil, testEmail)
	if w.Code != 200 {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["reset"].(float64); got != 2 {
		t.Fatalf("reset = %v, want 2", got)
	}
}
