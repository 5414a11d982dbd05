package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/repo"
	"social-analytics-backend/internal/usecase"
)

// Accounts resolves connected accounts through the shared accounts endpoint
// and persists the per-platform selection.
type Accounts struct {
	client       *resty.Client
	accountsRepo repo.Accounts

	mu           sync.Mutex
	lastPlatform entity.Platform
}

func NewAccounts(baseURL string, accountsRepo repo.Accounts) usecase.Accounts {
	return &Accounts{
		client:       resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
		accountsRepo: accountsRepo,
	}
}

func (a *Accounts) ResolveAccounts(ctx context.Context, platform entity.Platform) (*entity.ConnectionState, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParam("platform", platform.String()).
		Get("/api/social-media/accounts")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch connected accounts: %w", err)
	}
	body := gjson.ParseBytes(resp.Body())
	if !resp.IsSuccess() || !body.Get("success").Bool() {
		return nil, fmt.Errorf("accounts endpoint returned status %d", resp.StatusCode())
	}

	// Only active accounts survive resolution.
	var accounts []entity.ConnectedAccount
	for _, item := range body.Get("accounts").Array() {
		if !item.Get("is_active").Bool() {
			continue
		}
		accounts = append(accounts, entity.ConnectedAccount{
			AccountID:   item.Get("account_id").String(),
			DisplayName: item.Get("display_name").String(),
			IsActive:    true,
		})
	}

	a.mu.Lock()
	platformChanged := a.lastPlatform != platform
	a.lastPlatform = platform
	a.mu.Unlock()

	// A platform switch resets the selection to the first active account.
	// Otherwise the previous selection survives as long as its account still
	// exists; a vanished account also falls back to the first remaining one.
	selected := ""
	if !platformChanged {
		if prev, err := a.accountsRepo.GetSelected(platform); err == nil && contains(accounts, prev) {
			selected = prev
		}
	}
	if selected == "" && len(accounts) > 0 {
		selected = accounts[0].AccountID
	}

	if err := a.accountsRepo.ReplaceAccounts(platform, accounts); err != nil {
		return nil, fmt.Errorf("failed to store connected accounts: %w", err)
	}
	if err := a.accountsRepo.SetSelected(platform, selected); err != nil {
		return nil, fmt.Errorf("failed to store selected account: %w", err)
	}

	return &entity.ConnectionState{
		Platform:          platform,
		Accounts:          accounts,
		SelectedAccountID: selected,
	}, nil
}

func (a *Accounts) SelectAccount(ctx context.Context, platform entity.Platform, accountID string) (*entity.ConnectionState, error) {
	accounts, err := a.accountsRepo.GetAccounts(platform)
	if err != nil {
		return nil, fmt.Errorf("failed to get stored accounts: %w", err)
	}
	if !contains(accounts, accountID) {
		return nil, usecase.ErrAccountNotFound
	}
	if err := a.accountsRepo.SetSelected(platform, accountID); err != nil {
		return nil, fmt.Errorf("failed to store selected account: %w", err)
	}
	return &entity.ConnectionState{
		Platform:          platform,
		Accounts:          accounts,
		SelectedAccountID: accountID,
	}, nil
}

func (a *Accounts) Selected(ctx context.Context, platform entity.Platform) (string, error) {
	selected, err := a.accountsRepo.GetSelected(platform)
	switch {
	case errors.Is(err, repo.ErrNoSelectedAccount):
		return "", usecase.ErrAccountNotResolved
	case err != nil:
		return "", fmt.Errorf("failed to get selected account: %w", err)
	}
	return selected, nil
}

func contains(accounts []entity.ConnectedAccount, accountID string) bool {
	if accountID == "" {
		return false
	}
	for _, account := range accounts {
		if account.AccountID == accountID {
			return true
		}
	}
	return false
}
