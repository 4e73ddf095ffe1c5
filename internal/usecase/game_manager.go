package usecase

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/connect6-backend/internal/entity"
)

type gameSession interface {
	PlaceStone(row, col int) error
	ConfirmTurn() bool
	UndoTurn() bool
	ResetGame()
	Snapshot() *entity.Snapshot
}

// Broadcaster receives the snapshot after every action.
type Broadcaster interface {
	Broadcast(snapshot *entity.Snapshot)
}

// GameManager runs actions against the shared session and broadcasts the result.
// An action and its broadcast happen under one lock, so listeners see snapshots in
// the order the actions were applied.
type GameManager struct {
	logger *slog.Logger

	mu           sync.Mutex
	session      gameSession
	broadcasters []Broadcaster
}

func NewGameManager(logger *slog.Logger, session gameSession, broadcasters ...Broadcaster) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game-manager"),

		session:      session,
		broadcasters: broadcasters,
	}
}

// PlaceStone - places a stone for the side to move. Rejected moves are still broadcast.
func (that *GameManager) PlaceStone(row, col int) *entity.Snapshot {
	log := that.logger.With("method", "PlaceStone", "row", row, "col", col)

	return that.apply(func() {
		if err := that.session.PlaceStone(row, col); err != nil {
			log.Debug("stone rejected", "reason", err)
			return
		}

		log.Debug("stone placed")
	})
}

func (that *GameManager) ConfirmTurn() *entity.Snapshot {
	log := that.logger.With("method", "ConfirmTurn")

	var confirmed bool

	snapshot := that.apply(func() {
		confirmed = that.session.ConfirmTurn()
	})

	log.Debug("turn confirm requested", "confirmed", confirmed, "turn", snapshot.Turn.String())

	return snapshot
}

func (that *GameManager) UndoTurn() *entity.Snapshot {
	log := that.logger.With("method", "UndoTurn")

	return that.apply(func() {
		log.Debug("turn undo requested", "removed", that.session.UndoTurn())
	})
}

func (that *GameManager) ResetGame() *entity.Snapshot {
	log := that.logger.With("method", "ResetGame")

	return that.apply(func() {
		that.session.ResetGame()
		log.Info("game reset")
	})
}

// Snapshot - returns the current state without broadcasting.
func (that *GameManager) Snapshot() *entity.Snapshot {
	return that.session.Snapshot()
}

// WithSnapshot - calls join with the current state while no action can run.
// Listeners registered inside join receive every later broadcast and nothing older.
func (that *GameManager) WithSnapshot(join func(snapshot *entity.Snapshot)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	join(that.session.Snapshot())
}

func (that *GameManager) apply(action func()) *entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	action()

	snapshot := that.session.Snapshot()
	for _, b := range that.broadcasters {
		b.Broadcast(snapshot)
	}

	return snapshot
}
