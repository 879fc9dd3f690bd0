package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin  UserRole = "administrator"
	RoleEditor UserRole = "editor"
)

const (
	DefaultAvatarURL = "/assets/avatar-default.png"
)

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      UserRole  `json:"role" gorm:"default:'editor'"`
	PhotoURL  string    `json:"photo_url"`
	Bio       string    `json:"bio"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public returns the outward projection of a user: never the password hash,
// and a default avatar when none was uploaded.
func (u *User) Public() *User {
	out := *u
	out.Password = ""
	if out.PhotoURL == "" {
		out.PhotoURL = DefaultAvatarURL
	}
	return &out
}

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}
