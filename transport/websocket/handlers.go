package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/connect6-backend/internal/apperror"
)

func (that *Server) handlePlaceStone(msg *Message) error {
	var payload PlacePayload

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.Row == nil || payload.Col == nil {
		return apperror.ErrInvalidCoordinates
	}

	that.game.PlaceStone(*payload.Row, *payload.Col)

	return nil
}

func (that *Server) handleConfirmTurn(_ *Message) error {
	that.game.ConfirmTurn()
	return nil
}

func (that *Server) handleUndoTurn(_ *Message) error {
	that.game.UndoTurn()
	return nil
}

func (that *Server) handleResetGame(_ *Message) error {
	that.game.ResetGame()
	return nil
}

// dispatch - routes a raw inbound frame to its action handler.
func (that *Server) dispatch(data []byte) error {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownAction, message.Action)
	}

	if err := handler(&message); err != nil {
		return fmt.Errorf("action %s: %w", message.Action, err)
	}

	return nil
}
