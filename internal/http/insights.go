package http

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/finance"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

func (s *Server) monthData(userID uint) (string, finance.Summary, []budgetView, []finance.Group, error) {
	monthKey := finance.CurrentMonthKey(time.Now())

	var txns []models.Transaction
	err := database.DB.Where("user_id = ? AND date LIKE ?", userID, monthKey+"%").Find(&txns).Error
	if err != nil {
		return monthKey, finance.Summary{}, nil, nil, err
	}

	var budgets []models.Budget
	err = database.DB.Where("user_id = ? AND archived = ?", userID, false).Find(&budgets).Error
	if err != nil {
		return monthKey, finance.Summary{}, nil, nil, err
	}

	views := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, budgetView{Budget: b, Status: finance.StatusFor(b, txns)})
	}

	return monthKey, finance.Summarize(txns), views, finance.Groups(budgets, txns), nil
}

// GET /insights
// Month-to-date aggregates: totals, category breakdown, budget status,
// average daily spend.
func (s *Server) getInsights(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	monthKey, summary, budgets, groups, err := s.monthData(userID)
	if err != nil {
		fail(c, 500, "could not load insights", err)
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"month":   monthKey,
		"summary": summary,
		"budgets": budgets,
		"groups":  groups,
	})
}

// POST /insights/ai
// Sends the aggregate summary to the language model and returns its
// commentary. Only the derived numbers leave the server, never raw rows.
func (s *Server) aiInsights(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	if !s.openai.Enabled() {
		c.JSON(503, gin.H{"success": false, "message": "AI insights are not configured"})
		return
	}

	monthKey, summary, budgets, _, err := s.monthData(userID)
	if err != nil {
		fail(c, 500, "could not load insights", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(s.cfg.ReqTimeoutSec)*time.Second)
	defer cancel()

	text, err := s.openai.GenerateInsights(ctx, insightPrompt(monthKey, summary, budgets))
	if err != nil {
		fail(c, 502, "AI request failed", err)
		return
	}

	c.JSON(200, gin.H{"success": true, "insights": text})
}

func insightPrompt(monthKey string, summary finance.Summary, budgets []budgetView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Month %s. Income %.2f, expenses %.2f, net %.2f. Average daily spend %.2f.\n",
		monthKey, summary.TotalIncome, summary.TotalExpense, summary.Net, summary.AverageDailySpend)

	if len(summary.ByCategory) > 0 {
		cats := make([]string, 0, len(summary.ByCategory))
		for cat := range summary.ByCategory {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		b.WriteString("Spending by category:\n")
		for _, cat := range cats {
			fmt.Fprintf(&b, "- %s: %.2f\n", cat, summary.ByCategory[cat])
		}
	}

	if len(budgets) > 0 {
		b.WriteString("Budgets:\n")
		for _, v := range budgets {
			fmt.Fprintf(&b, "- %s: %.2f of %.2f spent (%.0f%%)\n", v.Category, v.Spent, v.Amount, v.Percentage)
		}
	}
	return b.String()
}
