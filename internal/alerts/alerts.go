package alerts

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Eric21111/expense-tracker-sub001/internal/finance"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

const (
	WarningThreshold  = 80.0
	ExceededThreshold = 100.0
)

// Level maps a budget percentage to an alert level, "" below the warning
// threshold.
func Level(percentage float64) string {
	switch {
	case percentage >= ExceededThreshold:
		return "exceeded"
	case percentage >= WarningThreshold:
		return "warning"
	}
	return ""
}

// Sender is the email side of an alert. Satisfied by mail.Mailer; nil in
// tests.
type Sender interface {
	SendBudgetAlert(to, category, level string, percentage float64) error
}

type Generator struct {
	db     *gorm.DB
	sender Sender
}

func NewGenerator(db *gorm.DB, sender Sender) *Generator {
	return &Generator{db: db, sender: sender}
}

// CheckBudget recomputes the budget's percentage for its current month and
// records at most one notification per (budget, level, month). Dismissed
// notifications count toward the dedup, so a dismissed alert stays quiet for
// the rest of the period. Runs after transaction mutations; any failure here
// must not fail the triggering request, so errors are logged, not returned.
func (g *Generator) CheckBudget(user *models.User, budgetID uint) {
	if budgetID == 0 {
		return
	}

	var budget models.Budget
	err := g.db.Where("id = ? AND user_id = ? AND archived = ?", budgetID, user.ID, false).
		First(&budget).Error
	if err != nil {
		return
	}

	monthKey := budget.MonthKey
	if monthKey == "" {
		monthKey = finance.CurrentMonthKey(time.Now())
	}

	var txns []models.Transaction
	err = g.db.Where("user_id = ? AND budget_id = ? AND date LIKE ?", user.ID, budget.ID, monthKey+"%").
		Find(&txns).Error
	if err != nil {
		log.Printf("alerts: load transactions for budget %d: %v", budget.ID, err)
		return
	}

	status := finance.StatusFor(budget, txns)
	level := Level(status.Percentage)
	if level == "" {
		return
	}

	var existing int64
	g.db.Model(&models.Notification{}).
		Where("user_id = ? AND budget_id = ? AND level = ? AND month_key = ?", user.ID, budget.ID, level, monthKey).
		Count(&existing)
	if existing > 0 {
		return
	}

	label := budget.Category
	if budget.Label != "" {
		label = budget.Label
	}
	n := models.Notification{
		UserID:       user.ID,
		BudgetID:     budget.ID,
		Category:     budget.Category,
		Level:        level,
		Message:      alertMessage(label, level, status.Percentage),
		Percentage:   status.Percentage,
		Spent:        status.Spent,
		BudgetAmount: budget.Amount,
		MonthKey:     monthKey,
	}
	if err := g.db.Create(&n).Error; err != nil {
		log.Printf("alerts: create notification for budget %d: %v", budget.ID, err)
		return
	}

	if g.sender != nil {
		go func() {
			if err := g.sender.SendBudgetAlert(user.Email, budget.Category, level, status.Percentage); err != nil {
				log.Printf("alerts: email for budget %d: %v", budget.ID, err)
			}
		}()
	}
}

func alertMessage(label, level string, percentage float64) string {
	if level == "exceeded" {
		return fmt.Sprintf("You have exceeded your %s budget (%.0f%% spent).", label, percentage)
	}
	return fmt.Sprintf("You have used %.0f%% of your %s budget.", percentage, label)
}
