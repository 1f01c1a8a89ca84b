package model

import (
	"errors"
	"time"
)

// User represents an authentication user (separate from employees).
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"display_name,omitempty"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin = "admin"
	RoleHR    = "hr"
	RoleUser  = "user"
)

// MinPasswordLen is the shortest password accepted for any account.
const MinPasswordLen = 8

// ValidatePassword checks a candidate password against the account policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleAdmin: 3,
		RoleHR:    2,
		RoleUser:  1,
	}
	return levels[role] >= levels[minimum]
}
