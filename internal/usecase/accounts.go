package usecase

import (
	"context"

	"social-analytics-backend/internal/entity"
)

// Accounts tracks connected accounts per platform and the active selection.
type Accounts interface {
	// ResolveAccounts refreshes the platform's account list from the shared
	// accounts endpoint, prunes it to active accounts and re-derives the
	// selection (previous selection if still present, else first remaining,
	// else none).
	ResolveAccounts(ctx context.Context, platform entity.Platform) (*entity.ConnectionState, error)
	// SelectAccount makes accountID the active account for the platform.
	// Returns ErrAccountNotFound if it is not among the connected accounts.
	SelectAccount(ctx context.Context, platform entity.Platform, accountID string) (*entity.ConnectionState, error)
	// Selected returns the currently selected account for the platform, or
	// ErrAccountNotResolved when no resolution has happened yet.
	Selected(ctx context.Context, platform entity.Platform) (string, error)
}
