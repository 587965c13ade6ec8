package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressdesk/pressdesk/internal/shared"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)

	raw, err := svc.Issue("editor@pressdesk.local")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := svc.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "editor@pressdesk.local", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestVerifyExpiredToken(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	svc := NewTokenService("test-secret", 30*time.Minute, WithClock(func() time.Time { return clock }))

	raw, err := svc.Issue("editor@pressdesk.local")
	require.NoError(t, err)

	clock = start.Add(29 * time.Minute)
	_, err = svc.Verify(context.Background(), raw)
	require.NoError(t, err)

	clock = start.Add(31 * time.Minute)
	_, err = svc.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestVerifyRejectsTampering(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)
	raw, err := svc.Issue("editor@pressdesk.local")
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	// Flip a character in the payload segment.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = svc.Verify(context.Background(), tampered)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("issuer-secret", 30*time.Minute)
	verifier := NewTokenService("other-secret", 30*time.Minute)

	raw, err := issuer.Issue("editor@pressdesk.local")
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", 30*time.Minute)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(context.Background(), raw)
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	}
}

func TestRevokedTokenRejected(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewTokenService("test-secret", 30*time.Minute, WithDenylist(NewRedisDenylist(client)))

	raw, err := svc.Issue("editor@pressdesk.local")
	require.NoError(t, err)

	ctx := context.Background()
	claims, err := svc.Verify(ctx, raw)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, claims))

	_, err = svc.Verify(ctx, raw)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestRevokeExpiredClaimsNoop(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	denylist := NewRedisDenylist(client)
	err := denylist.Revoke(context.Background(), "stale-jti", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	revoked, err := denylist.Revoked(context.Background(), "stale-jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
