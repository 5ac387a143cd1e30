package http

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
	"gorm.io/gorm"

	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/finance"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

var (
	errAccountNotFound = errors.New("account not found")
	errBudgetNotFound  = errors.New("budget not found")
)

// balanceDelta is the signed effect of a transaction on its account balance.
func balanceDelta(txType string, amount float64) float64 {
	if txType == "income" {
		return amount
	}
	return -amount
}

// adjustBalance applies a delta as a single atomic SQL expression. Two
// concurrent writes against the same account serialize in the database
// instead of racing on a read-modify-write.
func adjustBalance(tx *gorm.DB, accountID uint, delta float64) error {
	return tx.Model(&models.Account{}).Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}

// GET /transactions
func (s *Server) listTransactions(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	query := database.DB.Where("user_id = ?", userID).Order("date desc, created_at desc")

	if t := strings.TrimSpace(c.Query("type")); t != "" && t != "All" {
		query = query.Where("LOWER(type) = LOWER(?)", t)
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		query = query.Where("LOWER(category) = LOWER(?)", cat)
	}
	if b := c.Query("budget_id"); b != "" {
		if id, err := strconv.ParseUint(b, 10, 32); err == nil {
			query = query.Where("budget_id = ?", id)
		}
	}
	if a := c.Query("account_id"); a != "" {
		if id, err := strconv.ParseUint(a, 10, 32); err == nil {
			query = query.Where("account_id = ?", id)
		}
	}
	if start := c.Query("start_date"); start != "" {
		query = query.Where("date >= ?", start)
	}
	if end := c.Query("end_date"); end != "" {
		query = query.Where("date <= ?", end)
	}

	var txns []models.Transaction
	if err := query.Find(&txns).Error; err != nil {
		fail(c, 500, "could not load transactions", err)
		return
	}
	c.JSON(200, gin.H{"success": true, "transactions": txns})
}

// GET /transactions/summary
func (s *Server) transactionSummary(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	query := database.DB.Where("user_id = ?", userID)
	if start := c.Query("start_date"); start != "" {
		query = query.Where("date >= ?", start)
	}
	if end := c.Query("end_date"); end != "" {
		query = query.Where("date <= ?", end)
	}

	var txns []models.Transaction
	if err := query.Find(&txns).Error; err != nil {
		fail(c, 500, "could not load transactions", err)
		return
	}
	c.JSON(200, gin.H{"success": true, "summary": finance.Summarize(txns)})
}

// POST /transactions
// The payload is a schema-validated document. Creating the row and adjusting
// the linked account balance happen in one database transaction; the alert
// check runs after commit.
func (s *Server) createTransaction(c *gin.Context) {
	user := currentUser(c)

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "could not read body"})
		return
	}

	res, err := s.validator.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid payload"})
		return
	}
	if !res.Valid() {
		details := []string{}
		for _, e := range res.Errors() {
			details = append(details, e.String())
		}
		c.JSON(400, gin.H{"success": false, "message": "invalid transaction", "details": details})
		return
	}

	var input struct {
		Type      string  `json:"type"`
		Category  string  `json:"category"`
		Amount    float64 `json:"amount"`
		Date      string  `json:"date"`
		Note      string  `json:"note"`
		BudgetID  uint    `json:"budget_id"`
		AccountID uint    `json:"account_id"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	txn := models.Transaction{
		UserID:    user.ID,
		Type:      input.Type,
		Category:  input.Category,
		Amount:    input.Amount,
		Date:      input.Date,
		Note:      input.Note,
		BudgetID:  input.BudgetID,
		AccountID: input.AccountID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if txn.AccountID != 0 {
			var account models.Account
			if err := tx.Where("id = ? AND user_id = ?", txn.AccountID, user.ID).First(&account).Error; err != nil {
				return errAccountNotFound
			}
			if err := adjustBalance(tx, txn.AccountID, balanceDelta(txn.Type, txn.Amount)); err != nil {
				return err
			}
		}
		if txn.BudgetID != 0 {
			var budget models.Budget
			if err := tx.Where("id = ? AND user_id = ?", txn.BudgetID, user.ID).First(&budget).Error; err != nil {
				return errBudgetNotFound
			}
		}
		return tx.Create(&txn).Error
	})
	switch {
	case errors.Is(err, errAccountNotFound):
		c.JSON(404, gin.H{"success": false, "message": "account not found"})
		return
	case errors.Is(err, errBudgetNotFound):
		c.JSON(404, gin.H{"success": false, "message": "budget not found"})
		return
	case err != nil:
		fail(c, 500, "could not create transaction", err)
		return
	}

	s.alerts.CheckBudget(user, txn.BudgetID)
	c.JSON(201, gin.H{"success": true, "transaction": txn})
}

// PUT /transactions/:id
// Edits compensate balances: the old effect is reversed on the old account
// and the new effect applied on the new one, inside one database
// transaction.
func (s *Server) updateTransaction(c *gin.Context) {
	user := currentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return
	}

	var txn models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&txn).Error; err != nil {
		c.JSON(404, gin.H{"success": false, "message": "transaction not found"})
		return
	}
	old := txn

	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	if v, ok := input["type"].(string); ok {
		v = strings.ToLower(v)
		if v != "income" && v != "expense" {
			c.JSON(400, gin.H{"success": false, "message": "type must be income or expense"})
			return
		}
		txn.Type = v
	}
	if v, ok := input["amount"].(float64); ok {
		if v <= 0 {
			c.JSON(400, gin.H{"success": false, "message": "amount must be positive"})
			return
		}
		txn.Amount = v
	}
	if v, ok := input["category"].(string); ok {
		txn.Category = v
	}
	if v, ok := input["date"].(string); ok {
		txn.Date = v
	}
	if v, ok := input["note"].(string); ok {
		txn.Note = v
	}
	if v, ok := input["budget_id"].(float64); ok {
		txn.BudgetID = uint(v)
	}
	if v, ok := input["account_id"].(float64); ok {
		txn.AccountID = uint(v)
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if old.AccountID != 0 {
			if err := adjustBalance(tx, old.AccountID, -balanceDelta(old.Type, old.Amount)); err != nil {
				return err
			}
		}
		if txn.AccountID != 0 {
			var account models.Account
			if err := tx.Where("id = ? AND user_id = ?", txn.AccountID, user.ID).First(&account).Error; err != nil {
				return errAccountNotFound
			}
			if err := adjustBalance(tx, txn.AccountID, balanceDelta(txn.Type, txn.Amount)); err != nil {
				return err
			}
		}
		if txn.BudgetID != 0 && txn.BudgetID != old.BudgetID {
			var budget models.Budget
			if err := tx.Where("id = ? AND user_id = ?", txn.BudgetID, user.ID).First(&budget).Error; err != nil {
				return errBudgetNotFound
			}
		}
		return tx.Save(&txn).Error
	})
	switch {
	case errors.Is(err, errAccountNotFound):
		c.JSON(404, gin.H{"success": false, "message": "account not found"})
		return
	case errors.Is(err, errBudgetNotFound):
		c.JSON(404, gin.H{"success": false, "message": "budget not found"})
		return
	case err != nil:
		fail(c, 500, "could not update transaction", err)
		return
	}

	s.alerts.CheckBudget(user, old.BudgetID)
	if txn.BudgetID != old.BudgetID {
		s.alerts.CheckBudget(user, txn.BudgetID)
	}
	c.JSON(200, gin.H{"success": true, "transaction": txn})
}

// DELETE /transactions/:id
// Reverses the balance effect before removing the row.
func (s *Server) deleteTransaction(c *gin.Context) {
	user := currentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return
	}

	var txn models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&txn).Error; err != nil {
		c.JSON(404, gin.H{"success": false, "message": "transaction not found"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if txn.AccountID != 0 {
			if err := adjustBalance(tx, txn.AccountID, -balanceDelta(txn.Type, txn.Amount)); err != nil {
				return err
			}
		}
		return tx.Delete(&txn).Error
	})
	if err != nil {
		fail(c, 500, "could not delete transaction", err)
		return
	}

	s.alerts.CheckBudget(user, txn.BudgetID)
	c.JSON(200, gin.H{"success": true, "message": "transaction deleted"})
}
