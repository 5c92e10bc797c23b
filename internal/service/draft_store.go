package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stemsi/pathfinder-backend/internal/config"
	"github.com/stemsi/pathfinder-backend/internal/intake"
)

// DraftStore keeps intake snapshots in Redis with a sliding TTL.
type DraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDraftStore creates a new DraftStore.
func NewDraftStore(rdb *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{rdb: rdb, ttl: ttl}
}

// Save overwrites the draft and resets its TTL.
func (d *DraftStore) Save(ctx context.Context, userID, assessmentID uuid.UUID, snap intake.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	key := config.CacheKey.IntakeDraftKey(userID.String(), assessmentID.String())
	return d.rdb.Set(ctx, key, data, d.ttl).Err()
}

// Load returns the stored draft, or nil when none exists.
func (d *DraftStore) Load(ctx context.Context, userID, assessmentID uuid.UUID) (*intake.Snapshot, error) {
	key := config.CacheKey.IntakeDraftKey(userID.String(), assessmentID.String())
	data, err := d.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap intake.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &snap, nil
}

// Clear removes the draft.
func (d *DraftStore) Clear(ctx context.Context, userID, assessmentID uuid.UUID) error {
	key := config.CacheKey.IntakeDraftKey(userID.String(), assessmentID.String())
	return d.rdb.Del(ctx, key).Err()
}
