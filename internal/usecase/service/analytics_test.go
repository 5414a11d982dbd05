package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/usecase"
	"social-analytics-backend/internal/usecase/service/instagram"
	"social-analytics-backend/internal/usecase/service/reddit"
	"social-analytics-backend/internal/usecase/service/twitter"
)

func newOrchestrator(baseURL string, accounts usecase.Accounts, cache *fakeSnapshotCache) usecase.Analytics {
	return NewAnalytics(baseURL, []usecase.AnalyticsPlatform{
		instagram.NewAnalytics(),
		twitter.NewAnalytics(),
		reddit.NewAnalytics(),
	}, accounts, cache)
}

func TestLoadSnapshotAllPlatform(t *testing.T) {
	orchestrator := newOrchestrator("http://127.0.0.1:1", &fakeAccountsUseCase{}, newFakeSnapshotCache())

	snapshot, err := orchestrator.LoadSnapshot(context.Background(), entity.PlatformAll, "")
	if err != nil {
		t.Fatalf("selecting all platforms must not fail: %v", err)
	}
	if snapshot.Overview.Configured || len(snapshot.Posts) != 0 {
		t.Error("all-platforms selection must yield the canonical empty snapshot")
	}
}

func TestLoadSnapshotPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "account/info") {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"success": false, "error": "upstream timeout"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success": true, "posts": [
			{"id": "p1", "title": "t", "score": 10, "num_comments": 2, "subreddit": "go"}
		]}`))
	}))
	defer server.Close()

	cache := newFakeSnapshotCache()
	orchestrator := newOrchestrator(server.URL, &fakeAccountsUseCase{}, cache)

	snapshot, err := orchestrator.LoadSnapshot(context.Background(), entity.PlatformReddit, "")
	if !errors.Is(err, usecase.ErrPartialFailure) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if len(snapshot.Posts) != 1 {
		t.Errorf("partial failure must still surface fetched data, got %d posts", len(snapshot.Posts))
	}
	if snapshot.Warning == "" {
		t.Error("partial failure must carry a non-blocking warning")
	}
	if !cache.has(entity.PlatformReddit, "") {
		t.Error("a current run must publish its snapshot to the cache")
	}
}

func TestLoadSnapshotTotalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success": false, "error": "boom"}`))
	}))
	defer server.Close()

	accounts := &fakeAccountsUseCase{state: &entity.ConnectionState{
		Platform: entity.PlatformReddit,
		Accounts: []entity.ConnectedAccount{{AccountID: "acc-1", IsActive: true}},
	}}
	orchestrator := newOrchestrator(server.URL, accounts, newFakeSnapshotCache())

	snapshot, err := orchestrator.LoadSnapshot(context.Background(), entity.PlatformReddit, "")
	if !errors.Is(err, usecase.ErrGenericFailure) {
		t.Fatalf("expected generic failure, got %v", err)
	}
	if snapshot.Overview.Configured {
		t.Error("total failure must degrade to the canonical empty snapshot")
	}
}

func TestLoadSnapshotInstagramNoAccountOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "media") {
			_, _ = w.Write([]byte(`{"success": true, "media": [{"id": "m1", "total_engagement": 5}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"success": false, "error": "No account connected for this user"}`))
	}))
	defer server.Close()

	orchestrator := newOrchestrator(server.URL, &fakeAccountsUseCase{selected: "acc-1"}, newFakeSnapshotCache())

	_, err := orchestrator.LoadSnapshot(context.Background(), entity.PlatformInstagram, "acc-1")
	if !errors.Is(err, usecase.ErrNoAccountConnected) {
		t.Fatalf("explicit no-account signal must override partial tolerance, got %v", err)
	}
}

func TestLoadSnapshotDefersToResolver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "tweets": [], "user": {}, "analytics": {}}`))
	}))
	defer server.Close()

	accounts := &fakeAccountsUseCase{
		selectedErr: usecase.ErrAccountNotResolved,
		state: &entity.ConnectionState{
			Platform:          entity.PlatformTwitter,
			Accounts:          []entity.ConnectedAccount{{AccountID: "acc-9", IsActive: true}},
			SelectedAccountID: "acc-9",
		},
	}
	orchestrator := newOrchestrator(server.URL, accounts, newFakeSnapshotCache())

	snapshot, err := orchestrator.LoadSnapshot(context.Background(), entity.PlatformTwitter, "")
	if err != nil {
		t.Fatalf("fetch must defer to resolution, not fail: %v", err)
	}
	if snapshot.AccountID != "acc-9" {
		t.Errorf("resolved account must drive the fetch, got %q", snapshot.AccountID)
	}
}

func TestLoadSnapshotNoAccountAfterResolution(t *testing.T) {
	accounts := &fakeAccountsUseCase{
		selectedErr: usecase.ErrAccountNotResolved,
		state:       &entity.ConnectionState{Platform: entity.PlatformTwitter},
	}
	orchestrator := newOrchestrator("http://127.0.0.1:1", accounts, newFakeSnapshotCache())

	_, err := orchestrator.LoadSnapshot(context.Background(), entity.PlatformTwitter, "")
	if !errors.Is(err, usecase.ErrNoAccountConnected) {
		t.Fatalf("resolution without accounts must classify as no-account, got %v", err)
	}
}

// A twitter fetch still in flight when the user switches to reddit must not
// publish its late result over the newer selection.
func TestLoadSnapshotStaleRunDiscarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "/api/twitter/") {
			time.Sleep(150 * time.Millisecond)
			_, _ = w.Write([]byte(`{"success": true, "tweets": [], "user": {}, "analytics": {}}`))
			return
		}
		_, _ = w.Write([]byte(`{"success": true, "posts": [], "user": {}}`))
	}))
	defer server.Close()

	cache := newFakeSnapshotCache()
	orchestrator := newOrchestrator(server.URL, &fakeAccountsUseCase{selected: "acc-1"}, cache)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = orchestrator.LoadSnapshot(context.Background(), entity.PlatformTwitter, "acc-1")
	}()

	time.Sleep(30 * time.Millisecond)
	if _, err := orchestrator.LoadSnapshot(context.Background(), entity.PlatformReddit, ""); err != nil {
		t.Fatalf("reddit fetch failed: %v", err)
	}
	wg.Wait()

	if !cache.has(entity.PlatformReddit, "") {
		t.Error("the newer selection must reach the cache")
	}
	if cache.has(entity.PlatformTwitter, "acc-1") {
		t.Error("the superseded twitter run must be discarded, not cached")
	}
}

func TestLoadSnapshotUnknownPlatform(t *testing.T) {
	orchestrator := NewAnalytics("http://127.0.0.1:1", nil, &fakeAccountsUseCase{}, newFakeSnapshotCache())

	_, err := orchestrator.LoadSnapshot(context.Background(), entity.PlatformReddit, "")
	if !errors.Is(err, usecase.ErrUnknownPlatform) {
		t.Fatalf("expected unknown platform, got %v", err)
	}
}
