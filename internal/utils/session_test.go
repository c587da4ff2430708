package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	return srv, redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestSessionLifecycle(t *testing.T) {
	_, rdb := testRedis(t)
	ctx := context.Background()

	token, err := CreateSession(ctx, rdb, 42, "alice", "alice@example.com", secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := ValidateSession(ctx, rdb, token, secret)
	require.NoError(t, err)
	assert.EqualValues(t, 42, sess.UserID)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, "alice@example.com", sess.Email)

	// Destroying the session revokes the token immediately
	require.NoError(t, DestroySession(ctx, rdb, token, secret))
	_, err = ValidateSession(ctx, rdb, token, secret)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestValidateSessionRejectsBadTokens(t *testing.T) {
	_, rdb := testRedis(t)
	ctx := context.Background()

	token, err := CreateSession(ctx, rdb, 42, "alice", "alice@example.com", secret, time.Hour)
	require.NoError(t, err)

	// Wrong signing secret
	_, err = ValidateSession(ctx, rdb, token, "other-secret")
	assert.Error(t, err)

	// Garbage token
	_, err = ValidateSession(ctx, rdb, "not-a-token", secret)
	assert.Error(t, err)

	// Token signed with the right secret but no session reference
	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	forged, err := claims.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ValidateSession(ctx, rdb, forged, secret)
	assert.Error(t, err)
}

func TestSessionExpiresWithRedisTTL(t *testing.T) {
	srv, rdb := testRedis(t)
	ctx := context.Background()

	token, err := CreateSession(ctx, rdb, 42, "alice", "alice@example.com", secret, time.Minute)
	require.NoError(t, err)

	// Fast forward past the record's TTL
	srv.FastForward(2 * time.Minute)
	_, err = ValidateSession(ctx, rdb, token, secret)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSessionsAreIndependent(t *testing.T) {
	_, rdb := testRedis(t)
	ctx := context.Background()

	first, err := CreateSession(ctx, rdb, 1, "alice", "alice@example.com", secret, time.Hour)
	require.NoError(t, err)
	second, err := CreateSession(ctx, rdb, 1, "alice", "alice@example.com", secret, time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Logging out one client leaves the other logged in
	require.NoError(t, DestroySession(ctx, rdb, first, secret))
	_, err = ValidateSession(ctx, rdb, second, secret)
	assert.NoError(t, err)
}
