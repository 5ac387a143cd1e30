package models

import "time"

// VerificationCode is a short-lived code for email verification and password
// reset. There is no TTL index here; expiry is enforced on lookup and stale
// rows are deleted there.
type VerificationCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"index" json:"email"`
	Code      string    `json:"code"`
	Purpose   string    `json:"purpose"` // verify, reset
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingRegistration holds a signup until its email is verified.
type PendingRegistration struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"index" json:"email"`
	PasswordHash string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
