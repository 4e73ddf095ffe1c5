package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connect6-backend/internal/entity"
)

// Publisher sends snapshots over a redis pub/sub channel.
type Publisher struct {
	client  *redis.Client
	channel string
}

func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{
		client:  client,
		channel: channel,
	}
}

// Publish - publishes the snapshot and returns the number of subscribers that received it.
func (that *Publisher) Publish(ctx context.Context, snapshot *entity.Snapshot) (int64, error) {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	receivers, err := that.client.Publish(ctx, that.channel, snapshotJSON).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to publish snapshot: %w", err)
	}

	return receivers, nil
}
