package models

import "time"

// Budget is one category limit. Budgets created together as a multi-budget
// share a GroupID and Label and are reported as one aggregate card.
// Spent is never stored; it is derived from transactions at read time.
type Budget struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	Category      string    `json:"category"`
	Label         string    `json:"label"`
	Amount        float64   `json:"amount"`
	GroupID       string    `gorm:"index" json:"group_id"`
	AccountID     uint      `json:"account_id"`
	Archived      bool      `gorm:"default:false" json:"archived"`
	MonthKey      string    `json:"month_key"` // "2006-01"
	LastResetDate time.Time `json:"last_reset_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
