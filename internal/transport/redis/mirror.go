package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/connect6-backend/internal/entity"
)

const publishTimeout = 3 * time.Second

type snapshotRepo interface {
	Save(ctx context.Context, snapshot *entity.Snapshot) error
	Delete(ctx context.Context) error
}

type snapshotPublisher interface {
	Publish(ctx context.Context, snapshot *entity.Snapshot) (int64, error)
}

// Mirror copies every snapshot to redis from a single worker goroutine.
// Only the newest pending snapshot is kept, so a slow redis never blocks the game.
type Mirror struct {
	logger    *slog.Logger
	repo      snapshotRepo
	publisher snapshotPublisher

	queue chan *entity.Snapshot
}

func NewMirror(logger *slog.Logger, repo snapshotRepo, publisher snapshotPublisher) *Mirror {
	return &Mirror{
		logger:    logger.With("component", "redis-mirror"),
		repo:      repo,
		publisher: publisher,
		queue:     make(chan *entity.Snapshot, 1),
	}
}

// Broadcast - queues the snapshot for the worker and never blocks.
func (that *Mirror) Broadcast(snapshot *entity.Snapshot) {
	for {
		select {
		case that.queue <- snapshot:
			return
		default:
		}

		// drop the stale snapshot and try again
		select {
		case <-that.queue:
		default:
		}
	}
}

// Run - writes queued snapshots to redis until ctx is done, then removes the stored snapshot
// so no state outlives the process.
func (that *Mirror) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	for {
		select {
		case <-ctx.Done():
			that.clear()
			log.Info("redis mirror stopped")
			return
		case snapshot := <-that.queue:
			that.mirror(ctx, snapshot)
		}
	}
}

func (that *Mirror) mirror(ctx context.Context, snapshot *entity.Snapshot) {
	log := that.logger.With("method", "mirror")

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := that.repo.Save(ctx, snapshot); err != nil {
		log.Error("failed to save snapshot", "error", err)
	}

	receivers, err := that.publisher.Publish(ctx, snapshot)
	if err != nil {
		log.Error("failed to publish snapshot", "error", err)
		return
	}

	log.Debug("snapshot published", "receivers", receivers)
}

func (that *Mirror) clear() {
	log := that.logger.With("method", "clear")

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := that.repo.Delete(ctx); err != nil {
		log.Error("failed to delete snapshot", "error", err)
	}
}
