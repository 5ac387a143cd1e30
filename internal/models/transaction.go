package models

import "time"

type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Type      string    `json:"type"` // income, expense
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Date      string    `json:"date"` // "2006-01-02", local calendar date
	Note      string    `json:"note"`
	BudgetID  uint      `gorm:"index" json:"budget_id"`
	AccountID uint      `gorm:"index" json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
