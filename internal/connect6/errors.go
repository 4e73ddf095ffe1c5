package connect6

import "errors"

// Placement rejection reasons.
var (
	ErrGameWon           = errors.New("game is already won")
	ErrInvalidCell       = errors.New("invalid cell coordinates")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrStoneLimitReached = errors.New("stone limit for this turn is reached")
)
