package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect6-backend/internal/connect6"
	"github.com/rocketscienceinc/connect6-backend/internal/entity"
	"github.com/rocketscienceinc/connect6-backend/internal/usecase"
)

type recordingBroadcaster struct {
	mu        sync.Mutex
	snapshots []*entity.Snapshot
}

func (that *recordingBroadcaster) Broadcast(snapshot *entity.Snapshot) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.snapshots = append(that.snapshots, snapshot)
}

func (that *recordingBroadcaster) last(t *testing.T) *entity.Snapshot {
	t.Helper()
	that.mu.Lock()
	defer that.mu.Unlock()
	require.NotEmpty(t, that.snapshots)
	return that.snapshots[len(that.snapshots)-1]
}

func (that *recordingBroadcaster) count() int {
	that.mu.Lock()
	defer that.mu.Unlock()
	return len(that.snapshots)
}

func newTestServer(t *testing.T) (http.Handler, *recordingBroadcaster) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	recorder := &recordingBroadcaster{}
	manager := usecase.NewGameManager(logger, connect6.NewGameSession(entity.DefaultGridSize), recorder)

	return New(logger, manager, "*", t.TempDir()).Handler(), recorder
}

func do(handler http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestServer_PlaceStone(t *testing.T) {
	t.Run("Places and broadcasts", func(t *testing.T) {
		// Given: a fresh server
		handler, recorder := newTestServer(t)

		// When: Black places at the centre
		rec := do(handler, http.MethodGet, "/placeStone?i=9&j=9")

		// Then: the request succeeds and the broadcast shows the stone
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())

		snapshot := recorder.last(t)
		assert.Equal(t, entity.Black, snapshot.Grid[9][9])
		assert.Equal(t, 1, snapshot.StonesPlaced)
	})

	t.Run("Out of range is a broadcast no-op", func(t *testing.T) {
		// Given: a fresh server
		handler, recorder := newTestServer(t)

		// When: a stone is placed off the board
		rec := do(handler, http.MethodGet, "/placeStone?i=-1&j=0")

		// Then: the unchanged state is still broadcast
		assert.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, recorder.count())
		assert.Equal(t, entity.NewSnapshot(entity.DefaultGridSize), recorder.last(t))
	})

	t.Run("Non-integer coordinates are refused", func(t *testing.T) {
		// Given: a fresh server
		handler, recorder := newTestServer(t)

		// When: the coordinates do not parse
		for _, target := range []string{"/placeStone", "/placeStone?i=a&j=1", "/placeStone?i=1&j=1.5"} {
			rec := do(handler, http.MethodGet, target)

			// Then: 400 is returned and nothing is broadcast
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
		assert.Zero(t, recorder.count())
	})
}

func TestServer_TurnActions(t *testing.T) {
	// Given: Black placed the opening stone
	handler, recorder := newTestServer(t)
	do(handler, http.MethodGet, "/placeStone?i=9&j=9")

	// When: the turn is confirmed
	assert.Equal(t, http.StatusOK, do(handler, http.MethodGet, "/confirm").Code)

	// Then: White is to move with two stones
	snapshot := recorder.last(t)
	assert.Equal(t, entity.White, snapshot.Turn)
	assert.Equal(t, 2, snapshot.StoneLimit)

	// When: White places and undoes
	do(handler, http.MethodGet, "/placeStone?i=0&j=0")
	assert.Equal(t, http.StatusOK, do(handler, http.MethodGet, "/undoTurn").Code)

	// Then: the White stone is gone
	snapshot = recorder.last(t)
	assert.Equal(t, entity.Empty, snapshot.Grid[0][0])
	assert.Equal(t, 0, snapshot.StonesPlaced)

	// When: the game is reset
	assert.Equal(t, http.StatusOK, do(handler, http.MethodGet, "/resetGame").Code)

	// Then: the initial state is broadcast
	assert.Equal(t, entity.NewSnapshot(entity.DefaultGridSize), recorder.last(t))
	assert.Equal(t, 5, recorder.count())
}

func TestServer_State(t *testing.T) {
	// Given: a game with the opening stone
	handler, recorder := newTestServer(t)
	do(handler, http.MethodGet, "/placeStone?i=2&j=3")
	broadcasts := recorder.count()

	// When: the state is requested
	rec := do(handler, http.MethodGet, "/state")

	// Then: the snapshot is returned as JSON without a broadcast
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	grid, ok := body["grid"].([]any)
	require.True(t, ok, "grid is %T", body["grid"])
	require.Len(t, grid, entity.DefaultGridSize)

	row, ok := grid[2].([]any)
	require.True(t, ok, "row is %T", grid[2])
	assert.Equal(t, float64(entity.Black), row[3])
	assert.Equal(t, float64(entity.Empty), row[4])

	assert.Equal(t, float64(entity.Black), body["turn"])
	assert.Equal(t, float64(1), body["stonesPlaced"])
	assert.Equal(t, float64(1), body["stoneLimit"])
	assert.Equal(t, false, body["win"])
	assert.Equal(t, broadcasts, recorder.count())
}

func TestServer_CORS(t *testing.T) {
	handler, _ := newTestServer(t)

	t.Run("Action responses carry CORS headers", func(t *testing.T) {
		rec := do(handler, http.MethodGet, "/confirm")
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight is answered", func(t *testing.T) {
		rec := do(handler, http.MethodOptions, "/placeStone")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
	})
}

func TestServer_Ping(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := do(handler, http.MethodGet, "/ping")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
