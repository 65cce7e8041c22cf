package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
	"github.com/rocketscienceinc/tictactoe-history/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewMemoryGameRepository(quartz.NewMock(t), time.Hour)

	return NewHandler(logger, service.NewGameService(logger, repo))
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) entity.View {
	t.Helper()

	var view entity.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	return view
}

func createGame(t *testing.T, handler http.Handler) string {
	t.Helper()

	rec := do(t, handler, http.MethodPost, "/games", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	return decodeView(t, rec).GameID
}

func TestPing(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestCreateAndGetGame(t *testing.T) {
	// Given: a fresh API
	handler := newTestHandler(t)

	// When: a game is created and fetched
	id := createGame(t, handler)
	rec := do(t, handler, http.MethodGet, "/games/"+id, "")

	// Then: the view shows the empty board
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	view := decodeView(t, rec)
	assert.Equal(t, id, view.GameID)
	assert.Equal(t, "Next player: X", view.Status)
	require.Len(t, view.Moves, 1)
	assert.Equal(t, "You are at move #0", view.Moves[0].Label)
}

func TestPlayScenario(t *testing.T) {
	// Given: a new game
	handler := newTestHandler(t)
	id := createGame(t, handler)

	// When: X takes the top row
	var rec *httptest.ResponseRecorder
	for _, cell := range []string{"0", "4", "1", "5", "2"} {
		rec = do(t, handler, http.MethodPost, "/games/"+id+"/play", `{"cell":`+cell+`}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	// Then: the winner and the line are reported
	view := decodeView(t, rec)
	assert.Equal(t, "Winner: X", view.Status)
	require.NotNil(t, view.Result.Line)
	assert.Equal(t, entity.Line{0, 1, 2}, *view.Result.Line)
	assert.True(t, view.Cells[0].Highlighted)
	assert.False(t, view.Cells[4].Highlighted)

	// And: another move is a silent no-op
	rec = do(t, handler, http.MethodPost, "/games/"+id+"/play", `{"cell":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	after := decodeView(t, rec)
	assert.Equal(t, view, after)
}

func TestJumpAndOrder(t *testing.T) {
	handler := newTestHandler(t)
	id := createGame(t, handler)
	for _, cell := range []string{"0", "4", "8"} {
		rec := do(t, handler, http.MethodPost, "/games/"+id+"/play", `{"cell":`+cell+`}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	t.Run("Jump", func(t *testing.T) {
		rec := do(t, handler, http.MethodPost, "/games/"+id+"/jump", `{"move":1}`)
		require.Equal(t, http.StatusOK, rec.Code)

		view := decodeView(t, rec)
		assert.Equal(t, "Next player: O", view.Status)
		assert.Len(t, view.Moves, 4)
		assert.True(t, view.Moves[1].Current)
	})

	t.Run("Toggle order", func(t *testing.T) {
		rec := do(t, handler, http.MethodPost, "/games/"+id+"/order", "")
		require.Equal(t, http.StatusOK, rec.Code)

		view := decodeView(t, rec)
		assert.False(t, view.Ascending)
		assert.Equal(t, 3, view.Moves[0].Move)
		assert.Equal(t, 0, view.Moves[3].Move)
	})

	t.Run("Jump out of range", func(t *testing.T) {
		rec := do(t, handler, http.MethodPost, "/games/"+id+"/jump", `{"move":10}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "out of history range")
	})
}

func TestErrors(t *testing.T) {
	handler := newTestHandler(t)
	id := createGame(t, handler)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"Unknown game", http.MethodGet, "/games/missing", "", http.StatusNotFound},
		{"Play on unknown game", http.MethodPost, "/games/missing/play", `{"cell":0}`, http.StatusNotFound},
		{"Invalid cell", http.MethodPost, "/games/" + id + "/play", `{"cell":9}`, http.StatusBadRequest},
		{"Missing cell", http.MethodPost, "/games/" + id + "/play", `{}`, http.StatusBadRequest},
		{"Bad JSON", http.MethodPost, "/games/" + id + "/play", `{"cell":`, http.StatusBadRequest},
		{"Unknown field", http.MethodPost, "/games/" + id + "/jump", `{"step":1}`, http.StatusBadRequest},
		{"Delete unknown game", http.MethodDelete, "/games/missing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, handler, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestDeleteGame(t *testing.T) {
	handler := newTestHandler(t)
	id := createGame(t, handler)

	rec := do(t, handler, http.MethodDelete, "/games/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, handler, http.MethodGet, "/games/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
