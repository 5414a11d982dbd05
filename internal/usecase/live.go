package usecase

import (
	"context"

	"social-analytics-backend/internal/entity"
)

// LiveChannel is the client side of the /ws/analytics push channel. It owns
// one snapshot value; full fetches replace it wholesale, inbound overview
// patches merge into it. Patches tagged with another platform or account are
// dropped. Posts and demographics are never touched by a patch.
type LiveChannel interface {
	// Run drives the connect/receive/reconnect state machine until ctx is
	// cancelled. Reconnects use exponential backoff with a ceiling; while
	// the socket stays down, a poll fallback triggers full re-fetches.
	Run(ctx context.Context)
	// State returns the observable connection state.
	State() entity.ChannelState
	// Current returns the owned snapshot (nil until the first Replace).
	Current() *entity.AnalyticsSnapshot
	// Replace installs the result of a full fetch as the owned snapshot.
	Replace(snapshot *entity.AnalyticsSnapshot)
}
