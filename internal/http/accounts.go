package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

type accountInput struct {
	Name    string  `json:"name" binding:"required"`
	Balance float64 `json:"balance"`
	Icon    string  `json:"icon"`
	Color   string  `json:"color"`
}

// GET /accounts
func (s *Server) listAccounts(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	query := database.DB.Where("user_id = ?", userID).Order("created_at asc")
	if e := c.Query("enabled"); e == "true" || e == "false" {
		query = query.Where("enabled = ?", e == "true")
	}

	var accounts []models.Account
	if err := query.Find(&accounts).Error; err != nil {
		fail(c, 500, "could not load accounts", err)
		return
	}
	c.JSON(200, gin.H{"success": true, "accounts": accounts})
}

// POST /accounts
func (s *Server) createAccount(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input accountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	account := models.Account{
		UserID:  userID,
		Name:    input.Name,
		Balance: input.Balance,
		Icon:    input.Icon,
		Color:   input.Color,
		Enabled: true,
	}
	if err := database.DB.Create(&account).Error; err != nil {
		fail(c, 500, "could not create account", err)
		return
	}
	c.JSON(201, gin.H{"success": true, "account": account})
}

// POST /accounts/bulk
// Best effort per item: valid accounts are created, invalid ones are counted
// and skipped. No rollback.
func (s *Server) bulkCreateAccounts(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input struct {
		Accounts []accountInput `json:"accounts" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	created := []models.Account{}
	failed := 0
	for _, in := range input.Accounts {
		if in.Name == "" {
			failed++
			continue
		}
		account := models.Account{
			UserID:  userID,
			Name:    in.Name,
			Balance: in.Balance,
			Icon:    in.Icon,
			Color:   in.Color,
			Enabled: true,
		}
		if err := database.DB.Create(&account).Error; err != nil {
			failed++
			continue
		}
		created = append(created, account)
	}

	c.JSON(201, gin.H{"success": true, "accounts": created, "failed": failed})
}

// PUT /accounts/:id
func (s *Server) updateAccount(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		c.JSON(404, gin.H{"success": false, "message": "account not found"})
		return
	}

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	if v, ok := input["name"].(string); ok {
		account.Name = v
	}
	if v, ok := input["balance"].(float64); ok {
		account.Balance = v
	}
	if v, ok := input["icon"].(string); ok {
		account.Icon = v
	}
	if v, ok := input["color"].(string); ok {
		account.Color = v
	}
	if v, ok := input["enabled"].(bool); ok {
		account.Enabled = v
	}

	if err := database.DB.Save(&account).Error; err != nil {
		fail(c, 500, "could not update account", err)
		return
	}
	c.JSON(200, gin.H{"success": true, "account": account})
}

// DELETE /accounts/:id
// Hard delete. Transactions keep their account_id; the balance goes with the
// account.
func (s *Server) deleteAccount(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		c.JSON(404, gin.H{"success": false, "message": "account not found"})
		return
	}
	if err := database.DB.Delete(&account).Error; err != nil {
		fail(c, 500, "could not delete account", err)
		return
	}
	c.JSON(200, gin.H{"success": true, "message": "account deleted"})
}
