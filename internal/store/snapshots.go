package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SnapshotKind names a catalog group.
type SnapshotKind string

const (
	SnapshotCategories SnapshotKind = "categories"
	SnapshotFacts      SnapshotKind = "facts"
	SnapshotPopular    SnapshotKind = "popular"
)

// SaveSnapshot replaces the stored payload for kind with v encoded as JSON.
func (s *Store) SaveSnapshot(kind SnapshotKind, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO catalog_snapshots (kind, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, string(kind), string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save %s snapshot: %w", kind, err)
	}
	return nil
}

// LoadSnapshot decodes the stored payload for kind into out.
// It reports false when no snapshot exists.
func (s *Store) LoadSnapshot(kind SnapshotKind, out interface{}) (bool, time.Time, error) {
	var payload string
	var updated time.Time
	err := s.db.QueryRow(`
		SELECT payload, updated_at FROM catalog_snapshots WHERE kind = ?
	`, string(kind)).Scan(&payload, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return false, time.Time{}, nil
	}
	if err != nil {
		return false, time.Time{}, fmt.Errorf("load %s snapshot: %w", kind, err)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, time.Time{}, fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	return true, updated, nil
}
