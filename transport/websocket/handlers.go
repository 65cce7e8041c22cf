package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const internalError = "internal error"

var (
	errGameIDRequired = errors.New("game_id is required")
	errCellRequired   = errors.New("cell is required")
	errMoveRequired   = errors.New("move is required")
)

func (that *Server) handleNewGame(ctx context.Context, _ Request) (*entity.Game, error) {
	game, err := that.games.CreateGame(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("New game created", "gameID", game.ID)

	return game, nil
}

func (that *Server) handleGetGame(ctx context.Context, req Request) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	return that.games.GetGame(ctx, req.GameID) //nolint: wrapcheck // already wrapped by the service
}

func (that *Server) handlePlay(ctx context.Context, req Request) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	if req.Cell == nil {
		return nil, errCellRequired
	}

	return that.games.Play(ctx, req.GameID, *req.Cell) //nolint: wrapcheck // already wrapped by the service
}

func (that *Server) handleJump(ctx context.Context, req Request) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	if req.Move == nil {
		return nil, errMoveRequired
	}

	return that.games.JumpTo(ctx, req.GameID, *req.Move) //nolint: wrapcheck // already wrapped by the service
}

func (that *Server) handleToggleOrder(ctx context.Context, req Request) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, errGameIDRequired
	}

	return that.games.ToggleOrder(ctx, req.GameID) //nolint: wrapcheck // already wrapped by the service
}

func decodeRequest(payload json.RawMessage, req *Request) error {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}

// errorMessage - client-facing text; internal failures are not leaked.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return apperror.ErrGameNotFound.Error()
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrMoveOutOfRange),
		errors.Is(err, errGameIDRequired),
		errors.Is(err, errCellRequired),
		errors.Is(err, errMoveRequired):
		return err.Error()
	default:
		return internalError
	}
}

func newMessage(action string, response Response) Message {
	payload, err := json.Marshal(response)
	if err != nil {
		payload = []byte(`{"error":"internal error"}`)
	}

	return Message{
		Action:  action,
		Payload: payload,
	}
}
