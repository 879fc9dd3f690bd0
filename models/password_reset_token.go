package models

import (
	"time"
)

// PasswordResetToken is a single-use, time-limited secret permitting one
// password change. At most one usable token exists per user: issuing a new
// one deletes its predecessors.
type PasswordResetToken struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
