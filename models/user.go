package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole controls what API operations an account may perform.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleCoach UserRole = "coach"
	RoleFan   UserRole = "fan"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
