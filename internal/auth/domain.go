package auth

import "time"

// User represents an authenticated user account.
type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	IsActive       bool
	IsAdmin        bool
	Bio            string
	ProfilePicture string
	RoleID         *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
