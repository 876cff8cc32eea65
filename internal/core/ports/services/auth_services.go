package services

import (
	"context"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// TokenSvc issues access tokens.
type TokenSvc interface {
	// GenerateAccessToken creates a signed JWT for user and returns it with its expiry.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
