package auth

import (
	"context"
	"errors"

	"github.com/pressdesk/pressdesk/internal/shared"
)

// Service wraps the authentication lifecycle: credential checks, token
// issuance, and resolving a presented token back to a user.
type Service struct {
	repo   Repository
	tokens *TokenService
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates email/password credentials and issues a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.ErrInvalidCredentials
		}
		return "", err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return "", shared.ErrInvalidCredentials
	}
	return s.tokens.Issue(user.Email)
}

// Authenticate resolves a raw bearer token to an active user. An invalid
// token and a token whose subject no longer exists produce the same failure.
func (s *Service) Authenticate(ctx context.Context, raw string) (*User, error) {
	claims, err := s.tokens.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInactiveAccount
	}
	return user, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, raw string) error {
	claims, err := s.tokens.Verify(ctx, raw)
	if err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, claims)
}
