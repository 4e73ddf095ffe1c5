package connect6

import (
	"sync"

	"github.com/rocketscienceinc/connect6-backend/internal/entity"
)

// axes are the four lines a run can follow, each given as one of its two directions.
var axes = [4]entity.Coordinate{
	{Row: 0, Col: 1},  // horizontal
	{Row: 1, Col: 0},  // vertical
	{Row: 1, Col: 1},  // diagonal
	{Row: -1, Col: 1}, // anti-diagonal
}

// GameSession is the single shared game. All methods are safe for concurrent use.
type GameSession struct {
	mu sync.Mutex

	size         int
	grid         [][]entity.Stone
	turn         entity.Stone
	stoneLimit   int
	stonesPlaced int
	pendingMoves []entity.Coordinate
	win          bool
}

// NewGameSession creates a session on a size×size board with Black to move.
// A non-positive size falls back to entity.DefaultGridSize.
func NewGameSession(size int) *GameSession {
	if size <= 0 {
		size = entity.DefaultGridSize
	}

	session := &GameSession{size: size}
	session.reset()

	return session
}

// PlaceStone puts a stone of the current colour at row, col.
// A rejected move returns the reason and leaves the session untouched.
func (that *GameSession) PlaceStone(row, col int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.validateMove(row, col); err != nil {
		return err
	}

	that.grid[row][col] = that.turn
	that.pendingMoves = append(that.pendingMoves, entity.Coordinate{Row: row, Col: col})
	that.stonesPlaced++

	if that.checkWin(row, col) {
		that.win = true
	}

	return nil
}

// ConfirmTurn closes the open turn once its stone limit is reached.
//
// The hand-off is evaluated in two steps: Black passes to White first, then the limit
// becomes 2, then a White turn that is still full passes to Black. A Black confirmation
// zeroes the count in the first step, so the second step only fires for White.
func (that *GameSession) ConfirmTurn() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.stonesPlaced != that.stoneLimit {
		return false
	}

	if that.turn == entity.Black {
		that.passTurn(that.turn.Opponent())
	}

	that.stoneLimit = entity.TurnStoneLimit

	if that.turn == entity.White && that.stonesPlaced == that.stoneLimit {
		that.passTurn(that.turn.Opponent())
	}

	return true
}

// UndoTurn removes every stone placed in the open turn and reports whether any were removed.
// The colour to move and the stone limit stay as they are.
func (that *GameSession) UndoTurn() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	removed := len(that.pendingMoves) > 0

	for _, move := range that.pendingMoves {
		that.grid[move.Row][move.Col] = entity.Empty
	}

	that.stonesPlaced = 0
	that.pendingMoves = nil

	return removed
}

// ResetGame starts a new game on the same board.
func (that *GameSession) ResetGame() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.reset()
}

// Snapshot returns a deep copy of the visible game state.
func (that *GameSession) Snapshot() *entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	snapshot := entity.NewSnapshot(that.size)
	for row := range snapshot.Grid {
		copy(snapshot.Grid[row], that.grid[row])
	}

	snapshot.Turn = that.turn
	snapshot.StonesPlaced = that.stonesPlaced
	snapshot.StoneLimit = that.stoneLimit
	snapshot.Win = that.win

	return snapshot
}

func (that *GameSession) reset() {
	that.grid = make([][]entity.Stone, that.size)
	for row := range that.grid {
		that.grid[row] = make([]entity.Stone, that.size)
	}

	that.turn = entity.Black
	that.stoneLimit = entity.OpeningStoneLimit
	that.stonesPlaced = 0
	that.pendingMoves = nil
	that.win = false
}

func (that *GameSession) passTurn(next entity.Stone) {
	that.turn = next
	that.stonesPlaced = 0
	that.pendingMoves = nil
}

// validateMove - checks if a stone may be placed at row, col.
func (that *GameSession) validateMove(row, col int) error {
	if that.win {
		return ErrGameWon
	}

	if !that.inBounds(row, col) {
		return ErrInvalidCell
	}

	if that.grid[row][col] != entity.Empty {
		return ErrCellOccupied
	}

	if that.stonesPlaced == that.stoneLimit {
		return ErrStoneLimitReached
	}

	return nil
}

func (that *GameSession) inBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// checkWin - looks for a run of entity.WinLength or more through row, col.
// Only lines through the latest stone can have changed, so nothing else is scanned.
func (that *GameSession) checkWin(row, col int) bool {
	for _, axis := range axes {
		total := 1 + that.countRun(row, col, axis.Row, axis.Col) + that.countRun(row, col, -axis.Row, -axis.Col)
		if total >= entity.WinLength {
			return true
		}
	}

	return false
}

// countRun - counts current-colour stones from row, col in one direction, excluding the start.
func (that *GameSession) countRun(row, col, dRow, dCol int) int {
	var count int
	for step := 1; ; step++ {
		r, c := row+dRow*step, col+dCol*step
		if !that.inBounds(r, c) || that.grid[r][c] != that.turn {
			return count
		}
		count++
	}
}
