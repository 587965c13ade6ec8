package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pressdesk/pressdesk/internal/shared"
)

// Denylist is the revocation extension point consulted during verification.
// Stateless deployments can leave it nil; tokens then stay valid until expiry.
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	Revoked(ctx context.Context, jti string) (bool, error)
}

// TokenClaims is the verified payload of a session token.
type TokenClaims struct {
	Subject   string
	ID        string
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, time-limited session tokens.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	denylist Denylist
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source, for expiry tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// WithDenylist plugs a revocation store into verification.
func WithDenylist(d Denylist) TokenOption {
	return func(s *TokenService) { s.denylist = d }
}

// NewTokenService constructs a TokenService. The signing secret is process-wide
// configuration, loaded once at startup and never logged.
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL exposes the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject expiring at now + the configured TTL.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, expiry and revocation before trusting any claim.
// Every failure collapses into shared.ErrUnauthenticated so callers cannot
// leak which factor rejected the token.
func (s *TokenService) Verify(ctx context.Context, raw string) (*TokenClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.Subject == "" {
		return nil, shared.ErrUnauthenticated
	}
	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.Revoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.ErrUnauthenticated
		}
	}
	return &TokenClaims{
		Subject:   claims.Subject,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke denylists a verified token until its natural expiry. A nil denylist
// makes this a no-op.
func (s *TokenService) Revoke(ctx context.Context, claims *TokenClaims) error {
	if s.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt)
}
