package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/finance"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

// budgetView is a budget with its derived numbers, flattened into one JSON
// object.
type budgetView struct {
	models.Budget
	finance.Status
}

func monthTransactions(txns []models.Transaction, monthKey string) []models.Transaction {
	var out []models.Transaction
	for _, t := range txns {
		if strings.HasPrefix(t.Date, monthKey) {
			out = append(out, t)
		}
	}
	return out
}

// GET /budgets
// Active budgets by default, archived=true for the archive. Stale month keys
// are rolled forward before anything is computed; there is no scheduler, the
// roll happens here on read.
func (s *Server) listBudgets(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	archived := c.Query("archived") == "true"

	var budgets []models.Budget
	err := database.DB.Where("user_id = ? AND archived = ?", userID, archived).
		Order("created_at asc").Find(&budgets).Error
	if err != nil {
		fail(c, 500, "could not load budgets", err)
		return
	}

	now := time.Now()
	currentKey := finance.CurrentMonthKey(now)
	if !archived {
		for i := range budgets {
			if budgets[i].MonthKey == currentKey {
				continue
			}
			budgets[i].MonthKey = currentKey
			budgets[i].LastResetDate = now
			if err := database.DB.Model(&budgets[i]).
				Updates(map[string]interface{}{"month_key": currentKey, "last_reset_date": now}).Error; err != nil {
				fail(c, 500, "could not reset budgets", err)
				return
			}
		}
	}

	var txns []models.Transaction
	if err := database.DB.Where("user_id = ?", userID).Find(&txns).Error; err != nil {
		fail(c, 500, "could not load budgets", err)
		return
	}

	views := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		monthTx := monthTransactions(txns, b.MonthKey)
		views = append(views, budgetView{Budget: b, Status: finance.StatusFor(b, monthTx)})
	}

	resp := gin.H{"success": true, "budgets": views}
	if !archived {
		resp["groups"] = finance.Groups(budgets, monthTransactions(txns, currentKey))
	}
	c.JSON(200, resp)
}

// POST /budgets
// One category budget, or categories[] for a multi-budget sharing a fresh
// group id.
func (s *Server) createBudget(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input struct {
		Category   string  `json:"category"`
		Label      string  `json:"label"`
		Amount     float64 `json:"amount"`
		AccountID  uint    `json:"account_id"`
		Categories []struct {
			Category string  `json:"category"`
			Amount   float64 `json:"amount"`
		} `json:"categories"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	now := time.Now()
	monthKey := finance.CurrentMonthKey(now)

	if len(input.Categories) > 0 {
		for _, in := range input.Categories {
			if in.Category == "" {
				c.JSON(400, gin.H{"success": false, "message": "category is required"})
				return
			}
			if in.Amount < 0 {
				c.JSON(400, gin.H{"success": false, "message": "amount must not be negative"})
				return
			}
		}
		label := input.Label
		if label == "" {
			label = input.Categories[0].Category
		}
		groupID := uuid.NewString()

		created := make([]models.Budget, 0, len(input.Categories))
		for _, in := range input.Categories {
			b := models.Budget{
				UserID:        userID,
				Category:      in.Category,
				Label:         label,
				Amount:        in.Amount,
				GroupID:       groupID,
				AccountID:     input.AccountID,
				MonthKey:      monthKey,
				LastResetDate: now,
			}
			if err := database.DB.Create(&b).Error; err != nil {
				fail(c, 500, "could not create budget", err)
				return
			}
			created = append(created, b)
		}
		c.JSON(201, gin.H{"success": true, "budgets": created, "group_id": groupID})
		return
	}

	if input.Category == "" {
		c.JSON(400, gin.H{"success": false, "message": "category is required"})
		return
	}
	if input.Amount < 0 {
		c.JSON(400, gin.H{"success": false, "message": "amount must not be negative"})
		return
	}

	b := models.Budget{
		UserID:        userID,
		Category:      input.Category,
		Label:         input.Label,
		Amount:        input.Amount,
		AccountID:     input.AccountID,
		MonthKey:      monthKey,
		LastResetDate: now,
	}
	if err := database.DB.Create(&b).Error; err != nil {
		fail(c, 500, "could not create budget", err)
		return
	}
	c.JSON(201, gin.H{"success": true, "budget": b})
}

// PUT /budgets/:id
func (s *Server) updateBudget(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return
	}

	var budget models.Budget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		c.JSON(404, gin.H{"success": false, "message": "budget not found"})
		return
	}

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	if v, ok := input["amount"].(float64); ok {
		if v < 0 {
			c.JSON(400, gin.H{"success": false, "message": "amount must not be negative"})
			return
		}
		budget.Amount = v
	}
	if v, ok := input["category"].(string); ok {
		budget.Category = v
	}
	if v, ok := input["label"].(string); ok {
		budget.Label = v
	}
	if v, ok := input["account_id"].(float64); ok {
		budget.AccountID = uint(v)
	}

	if err := database.DB.Save(&budget).Error; err != nil {
		fail(c, 500, "could not update budget", err)
		return
	}
	c.JSON(200, gin.H{"success": true, "budget": budget})
}

// DELETE /budgets/:id?permanent=true|false
// permanent=false archives the budget, permanent=true removes it.
func (s *Server) deleteBudget(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return
	}

	var budget models.Budget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		c.JSON(404, gin.H{"success": false, "message": "budget not found"})
		return
	}

	if c.Query("permanent") == "true" {
		if err := database.DB.Delete(&budget).Error; err != nil {
			fail(c, 500, "could not delete budget", err)
			return
		}
		c.JSON(200, gin.H{"success": true, "message": "budget deleted"})
		return
	}

	budget.Archived = true
	if err := database.DB.Save(&budget).Error; err != nil {
		fail(c, 500, "could not archive budget", err)
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "budget archived", "budget": budget})
}

// PUT /budgets/archive-group/:groupId
// Archives every budget in the group; restore=true brings them back.
func (s *Server) archiveGroup(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	groupID := c.Param("groupId")
	restore := c.Query("restore") == "true"

	res := database.DB.Model(&models.Budget{}).
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Update("archived", !restore)
	if res.Error != nil {
		fail(c, 500, "could not update group", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(404, gin.H{"success": false, "message": "group not found"})
		return
	}

	msg := "group archived"
	if restore {
		msg = "group restored"
	}
	c.JSON(200, gin.H{"success": true, "message": msg, "updated": res.RowsAffected})
}

// POST /budgets/reset-monthly
// Forces the month roll instead of waiting for the lazy reset on read.
func (s *Server) resetMonthly(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	now := time.Now()
	key := finance.CurrentMonthKey(now)
	res := database.DB.Model(&models.Budget{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"month_key": key, "last_reset_date": now})
	if res.Error != nil {
		fail(c, 500, "could not reset budgets", res.Error)
		return
	}

	c.JSON(200, gin.H{"success": true, "reset": res.RowsAffected, "month_key": key})
}
