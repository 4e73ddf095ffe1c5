package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connect6-backend/internal/entity"
)

// SnapshotRepository keeps the latest published snapshot for readers outside this process.
// The game never restores itself from it, and it is deleted when the process stops.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *entity.Snapshot) error
	Delete(ctx context.Context) error
}

type dbSnapshot struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewSnapshotRepository(client *redis.Client, key string, ttl time.Duration) SnapshotRepository {
	return &dbSnapshot{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (that *dbSnapshot) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	if err = that.client.Set(ctx, that.key, snapshotJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (that *dbSnapshot) Delete(ctx context.Context) error {
	if err := that.client.Del(ctx, that.key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}
