package usecase

import (
	"context"

	"social-analytics-backend/internal/entity"
)

// AnalyticsPlatform is implemented once per platform variant. Calls describes
// the REST fan-out for a snapshot; Adapt is a pure transform from the raw
// call results to the canonical snapshot and must tolerate partial bundles.
type AnalyticsPlatform interface {
	// Platform returns the variant this adapter serves.
	Platform() entity.Platform
	// Calls returns the upstream calls needed for one full snapshot.
	// accountID is empty for platforms that operate on the implicit account.
	Calls(accountID string) []entity.RemoteCall
	// Adapt converts raw call results into a canonical snapshot. It is never
	// invoked when every call in the bundle failed.
	Adapt(raw *entity.RawBundle) *entity.AnalyticsSnapshot
}

// Analytics is the fetch orchestrator: concurrent fan-out of a platform's
// calls, partial-failure tolerance, assembly into one snapshot.
type Analytics interface {
	// LoadSnapshot fetches, adapts and ranks one platform+account snapshot.
	// On total failure it returns the canonical empty snapshot together with
	// the classified error. A run superseded by a newer selection returns
	// its snapshot to the caller but never publishes it to shared state.
	LoadSnapshot(ctx context.Context, platform entity.Platform, accountID string) (*entity.AnalyticsSnapshot, error)
}
