package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vmihailenco/msgpack/v5"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/repo"
)

// SnapshotCache keeps the last full snapshot per platform+account as a
// msgpack blob.
type SnapshotCache struct {
	db *sqlx.DB
}

func NewSnapshotCache(db *sqlx.DB) repo.SnapshotCache {
	return &SnapshotCache{
		db: db,
	}
}

func (s *SnapshotCache) Put(snapshot *entity.AnalyticsSnapshot) error {
	blob, err := msgpack.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	query := `
		INSERT INTO snapshot_cache (platform, account_id, snapshot, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (platform, account_id)
		DO UPDATE SET snapshot = EXCLUDED.snapshot, fetched_at = EXCLUDED.fetched_at
	`
	_, err = s.db.Exec(query, snapshot.Platform, snapshot.AccountID, blob, snapshot.FetchedAt)
	return err
}

func (s *SnapshotCache) Get(platform entity.Platform, accountID string) (*entity.AnalyticsSnapshot, error) {
	var blob []byte
	query := `SELECT snapshot FROM snapshot_cache WHERE platform = $1 AND account_id = $2`
	err := s.db.Get(&blob, query, platform, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrSnapshotNotFound
		}
		return nil, err
	}

	var snapshot entity.AnalyticsSnapshot
	if err := msgpack.Unmarshal(blob, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}
