package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/tidwall/gjson"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/repo"
	"social-analytics-backend/internal/usecase"
	"social-analytics-backend/pkg/retry"
)

const defaultCallTimeout = 10 * time.Second

// Analytics is the fetch orchestrator. For one platform selection it fans the
// platform's REST calls out concurrently, classifies the result set, adapts
// surviving data into a canonical snapshot and completes the ranking.
//
// Every run gets a generation key; only the run matching the most recent
// selection publishes to the snapshot cache. A run superseded by a platform
// or account switch returns its result to its own caller but never writes
// shared state, closing the stale-overwrite race between overlapping fetches.
type Analytics struct {
	client      *resty.Client
	platforms   map[entity.Platform]usecase.AnalyticsPlatform
	accounts    usecase.Accounts
	cache       repo.SnapshotCache
	callTimeout time.Duration

	mu         sync.Mutex
	generation string
}

func NewAnalytics(
	baseURL string,
	platforms []usecase.AnalyticsPlatform,
	accounts usecase.Accounts,
	cache repo.SnapshotCache,
) usecase.Analytics {
	table := make(map[entity.Platform]usecase.AnalyticsPlatform, len(platforms))
	for _, p := range platforms {
		table[p.Platform()] = p
	}
	return &Analytics{
		client:      resty.New().SetBaseURL(baseURL),
		platforms:   table,
		accounts:    accounts,
		cache:       cache,
		callTimeout: defaultCallTimeout,
	}
}

func (a *Analytics) LoadSnapshot(ctx context.Context, platform entity.Platform, accountID string) (*entity.AnalyticsSnapshot, error) {
	// "all" carries no combined math: it is always the canonical empty
	// snapshot, not an aggregation.
	if platform == entity.PlatformAll {
		return entity.NewEmptySnapshot(platform), nil
	}
	adapter, ok := a.platforms[platform]
	if !ok {
		return entity.NewEmptySnapshot(platform), usecase.ErrUnknownPlatform
	}

	// Platforms with explicit account selection defer the fetch until the
	// resolver produced one instead of failing outright.
	if platform.RequiresAccount() && accountID == "" {
		selected, err := a.accounts.Selected(ctx, platform)
		if errors.Is(err, usecase.ErrAccountNotResolved) {
			state, err := a.accounts.ResolveAccounts(ctx, platform)
			if err != nil {
				return entity.NewEmptySnapshot(platform), fmt.Errorf("failed to resolve accounts: %w", err)
			}
			selected = state.SelectedAccountID
		} else if err != nil {
			return entity.NewEmptySnapshot(platform), fmt.Errorf("failed to get selected account: %w", err)
		}
		if selected == "" {
			return entity.NewEmptySnapshot(platform), usecase.ErrNoAccountConnected
		}
		accountID = selected
	}

	generation := a.beginRun()
	bundle := a.fanOut(ctx, platform, adapter.Calls(accountID))

	if !bundle.AnySuccess() {
		connected := 0
		if state, err := a.accounts.ResolveAccounts(ctx, platform); err == nil {
			connected = len(state.Accounts)
		}
		return entity.NewEmptySnapshot(platform), Classify(bundle, connected)
	}

	classification := Classify(bundle, 1)
	// The explicit no-account signal and credential expiry both override
	// partial-success tolerance.
	if errors.Is(classification, usecase.ErrNoAccountConnected) || errors.Is(classification, usecase.ErrCredentialExpired) {
		return entity.NewEmptySnapshot(platform), classification
	}

	snapshot := adapter.Adapt(bundle)
	snapshot.AccountID = accountID
	snapshot.FetchedAt = time.Now()
	EnsureBestWorst(snapshot)
	if errors.Is(classification, usecase.ErrPartialFailure) {
		snapshot.Warning = "Some platform data could not be loaded; showing what is available."
	}

	if a.isCurrent(generation) {
		if err := a.cache.Put(snapshot); err != nil {
			log.Errorf("failed to cache snapshot for %s/%s: %v", platform, accountID, err)
		}
	} else {
		log.Infof("discarding superseded fetch result for %s/%s", platform, accountID)
	}

	return snapshot, classification
}

// beginRun registers a new fetch generation and returns its key. Any
// previously started run is superseded from this point on.
func (a *Analytics) beginRun() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation = uuid.NewString()
	return a.generation
}

func (a *Analytics) isCurrent(generation string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation == generation
}

// fanOut issues all calls concurrently and collects every outcome as a value;
// failures never propagate past the bundle.
func (a *Analytics) fanOut(ctx context.Context, platform entity.Platform, calls []entity.RemoteCall) *entity.RawBundle {
	bundle := entity.NewRawBundle(platform)

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, call := range calls {
		wg.Add(1)
		go func(call entity.RemoteCall) {
			defer wg.Done()
			result := a.doCall(ctx, call)
			mu.Lock()
			bundle.Results[call.Name] = result
			mu.Unlock()
		}(call)
	}
	wg.Wait()

	return bundle
}

func (a *Analytics) doCall(ctx context.Context, call entity.RemoteCall) entity.CallResult {
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	// Transport-level failures get one retry; envelope-level failures are a
	// platform answer and go straight to the classifier.
	var resp *resty.Response
	err := retry.WithAttempts(func() error {
		if callCtx.Err() != nil {
			return callCtx.Err()
		}
		r, err := a.client.R().
			SetContext(callCtx).
			SetQueryParams(call.Query).
			Get(call.Path)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}, 1)
	if err != nil {
		return entity.CallResult{Name: call.Name, Err: err}
	}

	body := resp.Body()
	result := entity.CallResult{
		Name:       call.Name,
		StatusCode: resp.StatusCode(),
		Body:       body,
	}
	// An HTTP 200 with success=false in the envelope is still a failed call.
	result.Success = resp.IsSuccess() && gjson.GetBytes(body, "success").Bool()
	return result
}
