package domain

import "time"

// User represents a registered account.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Username     string
	Bio          string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
