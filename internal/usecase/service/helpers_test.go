package service

import (
	"context"
	"sync"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/repo"
	"social-analytics-backend/internal/usecase"
)

// In-memory repo.Accounts used by resolver and orchestrator tests.
type fakeAccountsRepo struct {
	mu       sync.Mutex
	accounts map[entity.Platform][]entity.ConnectedAccount
	selected map[entity.Platform]string
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{
		accounts: map[entity.Platform][]entity.ConnectedAccount{},
		selected: map[entity.Platform]string{},
	}
}

func (f *fakeAccountsRepo) ReplaceAccounts(platform entity.Platform, accounts []entity.ConnectedAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[platform] = accounts
	return nil
}

func (f *fakeAccountsRepo) GetAccounts(platform entity.Platform) ([]entity.ConnectedAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[platform], nil
}

func (f *fakeAccountsRepo) GetSelected(platform entity.Platform) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	selected, ok := f.selected[platform]
	if !ok || selected == "" {
		return "", repo.ErrNoSelectedAccount
	}
	return selected, nil
}

func (f *fakeAccountsRepo) SetSelected(platform entity.Platform, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected[platform] = accountID
	return nil
}

// In-memory repo.SnapshotCache recording writes.
type fakeSnapshotCache struct {
	mu        sync.Mutex
	snapshots map[string]*entity.AnalyticsSnapshot
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{snapshots: map[string]*entity.AnalyticsSnapshot{}}
}

func cacheKey(platform entity.Platform, accountID string) string {
	return platform.String() + "/" + accountID
}

func (f *fakeSnapshotCache) Put(snapshot *entity.AnalyticsSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[cacheKey(snapshot.Platform, snapshot.AccountID)] = snapshot
	return nil
}

func (f *fakeSnapshotCache) Get(platform entity.Platform, accountID string) (*entity.AnalyticsSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot, ok := f.snapshots[cacheKey(platform, accountID)]
	if !ok {
		return nil, repo.ErrSnapshotNotFound
	}
	return snapshot, nil
}

func (f *fakeSnapshotCache) has(platform entity.Platform, accountID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.snapshots[cacheKey(platform, accountID)]
	return ok
}

// Scripted usecase.Accounts for orchestrator tests.
type fakeAccountsUseCase struct {
	state       *entity.ConnectionState
	selected    string
	selectedErr error
	resolveErr  error
}

func (f *fakeAccountsUseCase) ResolveAccounts(ctx context.Context, platform entity.Platform) (*entity.ConnectionState, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	if f.state != nil {
		return f.state, nil
	}
	return &entity.ConnectionState{Platform: platform}, nil
}

func (f *fakeAccountsUseCase) SelectAccount(ctx context.Context, platform entity.Platform, accountID string) (*entity.ConnectionState, error) {
	return f.state, nil
}

func (f *fakeAccountsUseCase) Selected(ctx context.Context, platform entity.Platform) (string, error) {
	if f.selectedErr != nil {
		return "", f.selectedErr
	}
	if f.selected == "" {
		return "", usecase.ErrAccountNotResolved
	}
	return f.selected, nil
}
