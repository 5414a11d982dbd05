package entity

// ConnectedAccount is one account linked to a platform through the shared
// accounts endpoint.
type ConnectedAccount struct {
	AccountID   string `json:"account_id" db:"account_id"`
	DisplayName string `json:"display_name" db:"display_name"`
	IsActive    bool   `json:"is_active" db:"is_active"`
}

// ConnectionState is the per-platform list of connected accounts plus the
// currently selected one. Accounts are pruned to active entries; if the
// previously selected account disappears, the first remaining account becomes
// selected, or nothing if none remain.
type ConnectionState struct {
	Platform          Platform           `json:"platform"`
	Accounts          []ConnectedAccount `json:"accounts"`
	SelectedAccountID string             `json:"selected_account_id,omitempty"`
}

type GetSnapshotRequest struct {
	Platform  string `query:"platform"`
	AccountID string `query:"account_id"`
}

type GetAccountsRequest struct {
	Platform string `query:"platform"`
}

type SelectAccountRequest struct {
	Platform  string `json:"platform"`
	AccountID string `json:"account_id"`
}
