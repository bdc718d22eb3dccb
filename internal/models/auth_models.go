package models

import "time"

// User roles. Identity is asserted upstream (phone OTP etc.); this backend
// only needs a stable id plus one of these two roles.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents an account in the users table.
type User struct {
	ID           string    `json:"id"`
	Phone        string    `json:"phone"`
	FullName     *string   `json:"full_name,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
