package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/repo"
)

type Accounts struct {
	db *sqlx.DB
}

func NewAccounts(db *sqlx.DB) repo.Accounts {
	return &Accounts{
		db: db,
	}
}

func (a *Accounts) ReplaceAccounts(platform entity.Platform, accounts []entity.ConnectedAccount) error {
	tx, err := a.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM connected_accounts WHERE platform = $1`, platform); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}
	for _, account := range accounts {
		_, err := tx.Exec(`
			INSERT INTO connected_accounts (platform, account_id, display_name, is_active)
			VALUES ($1, $2, $3, $4)
		`, platform, account.AccountID, account.DisplayName, account.IsActive)
		if err != nil {
			return fmt.Errorf("failed to insert account %s: %w", account.AccountID, err)
		}
	}

	return tx.Commit()
}

func (a *Accounts) GetAccounts(platform entity.Platform) ([]entity.ConnectedAccount, error) {
	var accounts []entity.ConnectedAccount
	query := `
		SELECT account_id, display_name, is_active
		FROM connected_accounts
		WHERE platform = $1
		ORDER BY account_id
	`
	if err := a.db.Select(&accounts, query, platform); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (a *Accounts) GetSelected(platform entity.Platform) (string, error) {
	var accountID string
	query := `SELECT account_id FROM selected_accounts WHERE platform = $1`
	err := a.db.Get(&accountID, query, platform)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repo.ErrNoSelectedAccount
		}
		return "", err
	}
	if accountID == "" {
		return "", repo.ErrNoSelectedAccount
	}
	return accountID, nil
}

func (a *Accounts) SetSelected(platform entity.Platform, accountID string) error {
	query := `
		INSERT INTO selected_accounts (platform, account_id)
		VALUES ($1, $2)
		ON CONFLICT (platform) DO UPDATE SET account_id = EXCLUDED.account_id
	`
	_, err := a.db.Exec(query, platform, accountID)
	return err
}
