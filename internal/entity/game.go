package entity

import "fmt"

// Stone is the state of a single board cell. The numeric values are the wire codes.
type Stone int

const (
	Empty Stone = iota
	Black
	White
)

const (
	DefaultGridSize = 19
	WinLength       = 6

	OpeningStoneLimit = 1
	TurnStoneLimit    = 2
)

func (that Stone) String() string {
	switch that {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return fmt.Sprintf("stone(%d)", int(that))
	}
}

// Opponent returns the other colour. Empty has no opponent.
func (that Stone) Opponent() Stone {
	switch that {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Snapshot is the full game state sent to listeners after every action.
type Snapshot struct {
	Grid         [][]Stone `json:"grid"`
	Turn         Stone     `json:"turn"`
	StonesPlaced int       `json:"stonesPlaced"`
	StoneLimit   int       `json:"stoneLimit"`
	Win          bool      `json:"win"`
}

// NewSnapshot returns the snapshot of a freshly started game on a size×size board.
func NewSnapshot(size int) *Snapshot {
	grid := make([][]Stone, size)
	for row := range grid {
		grid[row] = make([]Stone, size)
	}

	return &Snapshot{
		Grid:       grid,
		Turn:       Black,
		StoneLimit: OpeningStoneLimit,
	}
}
