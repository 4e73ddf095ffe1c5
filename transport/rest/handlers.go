package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/connect6-backend/internal/apperror"
)

// handlePlaceStone - GET /placeStone?i=<row>&j=<col>.
// Range checks belong to the game; only non-integers are refused here.
func (that *Server) handlePlaceStone(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handlePlaceStone")

	row, col, err := parseCoordinates(r)
	if err != nil {
		log.Warn("invalid coordinates", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	that.game.PlaceStone(row, col)
}

func (that *Server) handleConfirmTurn(_ http.ResponseWriter, _ *http.Request) {
	that.game.ConfirmTurn()
}

func (that *Server) handleUndoTurn(_ http.ResponseWriter, _ *http.Request) {
	that.game.UndoTurn()
}

func (that *Server) handleResetGame(_ http.ResponseWriter, _ *http.Request) {
	that.game.ResetGame()
}

func (that *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	log := that.logger.With("method", "handleState")

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if err := json.NewEncoder(w).Encode(that.game.Snapshot()); err != nil {
		log.Error("failed to write snapshot", "error", err)
	}
}

func parseCoordinates(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	row, err := strconv.Atoi(query.Get("i"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: i=%q", apperror.ErrInvalidCoordinates, query.Get("i"))
	}

	col, err := strconv.Atoi(query.Get("j"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: j=%q", apperror.ErrInvalidCoordinates, query.Get("j"))
	}

	return row, col, nil
}
