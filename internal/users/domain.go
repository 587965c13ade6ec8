package users

import "time"

// User represents a user account for administration.
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
