package repo

import (
	"errors"

	"social-analytics-backend/internal/entity"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotCache stores the last full snapshot per platform+account so the
// stats worker can diff overviews and the gateway can serve a warm copy.
type SnapshotCache interface {
	// Put upserts the snapshot for its platform+account key.
	Put(snapshot *entity.AnalyticsSnapshot) error
	// Get returns the cached snapshot or ErrSnapshotNotFound.
	Get(platform entity.Platform, accountID string) (*entity.AnalyticsSnapshot, error)
}
