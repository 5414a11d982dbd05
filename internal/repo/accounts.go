package repo

import (
	"errors"

	"social-analytics-backend/internal/entity"
)

var ErrNoSelectedAccount = errors.New("no selected account for platform")

// Accounts persists the per-platform connection state so the gateway and the
// stats worker share one view of which account is active.
type Accounts interface {
	// ReplaceAccounts swaps the platform's account list for the given one,
	// dropping rows for accounts that are no longer connected.
	ReplaceAccounts(platform entity.Platform, accounts []entity.ConnectedAccount) error
	// GetAccounts returns the stored accounts for the platform.
	GetAccounts(platform entity.Platform) ([]entity.ConnectedAccount, error)
	// GetSelected returns the selected account id or ErrNoSelectedAccount.
	GetSelected(platform entity.Platform) (string, error)
	// SetSelected marks accountID as the platform's selected account.
	// An empty accountID clears the selection.
	SetSelected(platform entity.Platform, accountID string) error
}
