package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Eric21111/expense-tracker-sub001/internal/badges"
	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/finance"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

// badgeView merges a catalog definition with the user's unlock row.
type badgeView struct {
	badges.Definition
	Current    int        `json:"current"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	Shown      bool       `json:"shown"`
}

func badgeViews(rows []models.Badge) []badgeView {
	byCode := make(map[string]models.Badge, len(rows))
	for _, r := range rows {
		byCode[r.Code] = r
	}

	views := make([]badgeView, 0, len(badges.Catalog))
	for _, def := range badges.Catalog {
		v := badgeView{Definition: def}
		if row, ok := byCode[def.Code]; ok {
			v.Current = row.Current
			v.Unlocked = row.Unlocked
			v.UnlockedAt = row.UnlockedAt
			v.Shown = row.Shown
		}
		views = append(views, v)
	}
	return views
}

// GET /badges
func (s *Server) listBadges(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var rows []models.Badge
	if err := database.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		fail(c, 500, "could not load badges", err)
		return
	}
	c.JSON(200, gin.H{"success": true, "badges": badgeViews(rows)})
}

// POST /badges/progress
// Recomputes every badge from current database counts and persists the
// result. Unlocks are written once and never reverted, so the endpoint is
// safe to poll.
func (s *Server) refreshBadgeProgress(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	counts, err := s.badgeCounts(userID)
	if err != nil {
		fail(c, 500, "could not compute badge progress", err)
		return
	}

	var rows []models.Badge
	if err := database.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		fail(c, 500, "could not compute badge progress", err)
		return
	}
	byCode := make(map[string]*models.Badge, len(rows))
	for i := range rows {
		byCode[rows[i].Code] = &rows[i]
	}

	now := time.Now()
	updated := make([]models.Badge, 0, len(badges.Catalog))
	for _, def := range badges.Catalog {
		count := counts.For(def.Kind)

		row, ok := byCode[def.Code]
		if !ok {
			row = &models.Badge{UserID: userID, Code: def.Code, Target: def.Target}
		}
		row.Target = def.Target
		row.Current = badges.Progress(count, def.Target)
		if !row.Unlocked && badges.Unlocked(count, def.Target) {
			row.Unlocked = true
			row.UnlockedAt = &now
		}

		if err := database.DB.Save(row).Error; err != nil {
			fail(c, 500, "could not compute badge progress", err)
			return
		}
		updated = append(updated, *row)
	}

	c.JSON(200, gin.H{"success": true, "badges": badgeViews(updated)})
}

func (s *Server) badgeCounts(userID uint) (badges.Counts, error) {
	var counts badges.Counts

	var n int64
	err := database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, "expense").Count(&n).Error
	if err != nil {
		return counts, err
	}
	counts.Expenses = int(n)

	err = database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, "income").Count(&n).Error
	if err != nil {
		return counts, err
	}
	counts.Incomes = int(n)

	err = database.DB.Model(&models.Budget{}).
		Where("user_id = ? AND archived = ?", userID, false).Count(&n).Error
	if err != nil {
		return counts, err
	}
	counts.Budgets = int(n)

	err = database.DB.Model(&models.Budget{}).
		Where("user_id = ? AND group_id <> ''", userID).
		Distinct("group_id").Count(&n).Error
	if err != nil {
		return counts, err
	}
	counts.MultiBudgets = int(n)

	// History-based kinds work over full fetches; the evaluation itself is
	// pure.
	var allBudgets []models.Budget
	if err := database.DB.Where("user_id = ?", userID).Find(&allBudgets).Error; err != nil {
		return counts, err
	}
	var allTxns []models.Transaction
	if err := database.DB.Where("user_id = ?", userID).Find(&allTxns).Error; err != nil {
		return counts, err
	}
	counts.CategoryBudgetSuccesses, counts.UnderBudgetMonths =
		badges.HistoricalCounts(allBudgets, allTxns, finance.CurrentMonthKey(time.Now()))

	return counts, nil
}
