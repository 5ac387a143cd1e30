package models

import "time"

// Badge is the per-user unlock state for one catalog entry (see
// internal/badges for the definitions). Unlocked is monotonic: once set it
// is never cleared, even if the underlying count later drops.
type Badge struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index" json:"user_id"`
	Code       string     `gorm:"index" json:"code"`
	Current    int        `json:"current"`
	Target     int        `json:"target"`
	Unlocked   bool       `gorm:"default:false" json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	Shown      bool       `gorm:"default:false" json:"shown"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
