package users

import (
	"context"
	"strings"

	"github.com/pressdesk/pressdesk/internal/auth"
	"github.com/pressdesk/pressdesk/internal/shared"
)

// Service handles user administration logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the fields accepted when creating a user. Password is
// plaintext here and hashed exactly once before it reaches storage.
type CreateInput struct {
	Name           string
	Email          string
	Password       string
	IsActive       bool
	IsAdmin        bool
	Bio            string
	ProfilePicture string
	RoleID         *int64
}

// UpdateInput carries the fields accepted when updating a user. A nil
// Password leaves the stored hash untouched.
type UpdateInput struct {
	Name           string
	Email          string
	Password       *string
	IsActive       bool
	IsAdmin        bool
	Bio            string
	ProfilePicture string
	RoleID         *int64
}

// ListUsers returns users within the pagination window.
func (s *Service) ListUsers(ctx context.Context, window shared.ListRange) ([]User, error) {
	return s.repo.ListUsers(ctx, window)
}

// GetUser fetches a user by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindUser(ctx, id)
}

// CreateUser hashes the password and inserts the account.
func (s *Service) CreateUser(ctx context.Context, input CreateInput) (*User, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateUser(ctx, User{
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:   hash,
		IsActive:       input.IsActive,
		IsAdmin:        input.IsAdmin,
		Bio:            input.Bio,
		ProfilePicture: input.ProfilePicture,
		RoleID:         input.RoleID,
	})
}

// UpdateUser replaces the mutable fields of an account, re-hashing only when
// a new password was supplied.
func (s *Service) UpdateUser(ctx context.Context, id int64, input UpdateInput) (*User, error) {
	current, err := s.repo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	hash := current.PasswordHash
	if input.Password != nil && *input.Password != "" {
		hash, err = auth.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
	}
	return s.repo.UpdateUser(ctx, User{
		ID:             id,
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:   hash,
		IsActive:       input.IsActive,
		IsAdmin:        input.IsAdmin,
		Bio:            input.Bio,
		ProfilePicture: input.ProfilePicture,
		RoleID:         input.RoleID,
	})
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

// Deactivate turns off the active flag; the account's outstanding tokens
// start failing authentication on their next use.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, false)
}

// Activate turns the active flag back on.
func (s *Service) Activate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, true)
}

// AssignRole points the user at a role, or clears it with nil.
func (s *Service) AssignRole(ctx context.Context, id int64, roleID *int64) error {
	return s.repo.AssignRole(ctx, id, roleID)
}
