package utils

import (
	"context" // Context for Redis operations
	"errors"  // Error values
	"time"    // Token and session lifetimes

	"github.com/golang-jwt/jwt/v5"   // JWT library
	"github.com/google/uuid"         // Session identifiers
	"github.com/redis/go-redis/v9"   // Redis client
)

// ErrSessionExpired is returned when the token is valid but the backing
// session record is gone (logged out or expired).
var ErrSessionExpired = errors.New("session expired")

// Session is the per-client identity record kept in Redis for the lifetime
// of a login. It is set at login and cleared at logout.
type Session struct {
	UserID   uint   `json:"user_id"`  // Authenticated user ID
	Username string `json:"username"` // Username at login time
	Email    string `json:"email"`    // Email at login time
}

// SessionClaims are the signed claims of a session token. The ID claim (jti)
// references the Redis session record, so deleting the record revokes the
// token even before it expires.
type SessionClaims struct {
	UserID               uint `json:"user_id"` // Custom claim for user ID
	jwt.RegisteredClaims      // Standard JWT claims, ID carries the session ID
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// CreateSession stores a session record in Redis and returns a signed token
// referencing it.
func CreateSession(ctx context.Context, rdb *redis.Client, userID uint, username, email, secret string, ttl time.Duration) (string, error) {
	sessionID := uuid.NewString() // Opaque per-client session identifier
	sess := Session{UserID: userID, Username: username, Email: email}
	if err := SetCache(ctx, rdb, sessionKey(sessionID), sess, ttl); err != nil {
		return "", err // Session record must exist before the token is handed out
	}
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,                              // Links the token to the Redis record
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)), // Token expires with the session
			IssuedAt:  jwt.NewNumericDate(time.Now()),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ValidateSession parses a session token and resolves it against Redis.
// Returns ErrSessionExpired when the record no longer exists.
func ValidateSession(ctx context.Context, rdb *redis.Client, tokenStr, secret string) (*Session, error) {
	claims, err := parseSessionToken(tokenStr, secret)
	if err != nil {
		return nil, err // Invalid or expired token
	}
	var sess Session
	found, err := GetCache(ctx, rdb, sessionKey(claims.ID), &sess)
	if err != nil {
		return nil, err // Redis failure
	}
	if !found {
		return nil, ErrSessionExpired // Logged out or TTL elapsed
	}
	return &sess, nil
}

// DestroySession removes the Redis session record referenced by the token,
// revoking it immediately.
func DestroySession(ctx context.Context, rdb *redis.Client, tokenStr, secret string) error {
	claims, err := parseSessionToken(tokenStr, secret)
	if err != nil {
		return err // Invalid or expired token
	}
	return DeleteCache(ctx, rdb, sessionKey(claims.ID))
}

// parseSessionToken parses and validates a session token string
func parseSessionToken(tokenStr, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid && claims.ID != "" {
		return claims, nil // Return claims if valid
	}
	return nil, jwt.ErrSignatureInvalid // Token is invalid
}
