package models

import "time"

// Notification is a denormalized alert record. Level, budget and month key
// together identify one alert period; the generator never writes the same
// tuple twice.
type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index" json:"user_id"`
	BudgetID     uint      `gorm:"index" json:"budget_id"`
	Category     string    `json:"category"`
	Level        string    `json:"level"` // warning, exceeded, info
	Message      string    `json:"message"`
	Percentage   float64   `json:"percentage"`
	Spent        float64   `json:"spent"`
	BudgetAmount float64   `json:"budget_amount"`
	MonthKey     string    `gorm:"index" json:"month_key"`
	Read         bool      `gorm:"default:false" json:"read"`
	Dismissed    bool      `gorm:"default:false" json:"dismissed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
