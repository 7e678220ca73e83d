// Package auth provides token issuance/validation and password verification
// for the API's authentication flows.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Claims represents the validated contents of a token.
type Claims struct {
	UserID    uuid.UUID
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// JWTService issues and validates the access/refresh token pair. Access
// tokens authenticate API requests; refresh tokens only mint new pairs.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks an access token and returns its claims.
	// Returns ErrExpiredToken, ErrWrongTokenType or ErrInvalidToken.
	ValidateToken(ctx context.Context, token string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for the user.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	ValidateRefreshToken(ctx context.Context, token string) (*Claims, error)
}
