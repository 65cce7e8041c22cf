package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const maxBodyBytes = 1 << 10

type handlers struct {
	logger *slog.Logger
	games  gameService
}

type playRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Move *int `json:"move"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var errMissingField = errors.New("missing field")

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeView(w, http.StatusCreated, game)
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeView(w, http.StatusOK, game)
}

func (that *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) play(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := decode(r, &req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingField.Error() + ": cell"})
		return
	}

	game, err := that.games.Play(r.Context(), r.PathValue("id"), *req.Cell)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeView(w, http.StatusOK, game)
}

func (that *handlers) jump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := decode(r, &req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if req.Move == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingField.Error() + ": move"})
		return
	}

	game, err := that.games.JumpTo(r.Context(), r.PathValue("id"), *req.Move)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeView(w, http.StatusOK, game)
}

func (that *handlers) toggleOrder(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.ToggleOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeView(w, http.StatusOK, game)
}

func decode(r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	return decoder.Decode(v) //nolint: wrapcheck // reported to the client as is
}

func (that *handlers) writeView(w http.ResponseWriter, status int, game *entity.Game) {
	that.writeJSON(w, status, entity.Render(game))
}

// writeError - maps domain errors to status codes; everything else is a 500.
func (that *handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrGameNotFound.Error()})
	case errors.Is(err, apperror.ErrInvalidCell), errors.Is(err, apperror.ErrMoveOutOfRange):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
