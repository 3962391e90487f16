package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/repository"
	"github.com/rocketscienceinc/tictactoe-series/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-series/internal/service"
	"github.com/rocketscienceinc/tictactoe-series/internal/usecase"
)

func newTestServer(t *testing.T) (*httptest.Server, *usecase.GameManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemorySessionRepository(), service.NewBotService(),
		scheduler.NewManualScheduler(), usecase.Delays{})

	srv := httptest.NewServer(New(logger, manager).Handler())
	t.Cleanup(srv.Close)

	return srv, manager
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, data
}

func TestServer_Ping(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/ping", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestServer_Sessions(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns a stored session", func(t *testing.T) {
		// Given: a started session
		srv, manager := newTestServer(t)
		_, err := manager.StartSession(ctx, "s1", entity.ModeHumanVsComputer)
		require.NoError(t, err)

		// When: it is requested
		resp, body := do(t, http.MethodGet, srv.URL+"/sessions/s1", "")

		// Then: its state is returned
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var session entity.Session
		require.NoError(t, json.Unmarshal(body, &session))
		assert.Equal(t, "s1", session.ID)
		assert.Equal(t, entity.StateInProgress, session.State)
		assert.Equal(t, "Player X's turn", session.Message)
	})

	t.Run("Unknown session is not found", func(t *testing.T) {
		srv, _ := newTestServer(t)

		resp, _ := do(t, http.MethodGet, srv.URL+"/sessions/missing", "")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Ends a session", func(t *testing.T) {
		srv, manager := newTestServer(t)
		_, err := manager.StartSession(ctx, "s1", entity.ModeHumanVsHuman)
		require.NoError(t, err)

		resp, _ := do(t, http.MethodDelete, srv.URL+"/sessions/s1", "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = do(t, http.MethodGet, srv.URL+"/sessions/s1", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_BestMove(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		cell   int
	}{
		{
			name:   "Blocks the open row",
			body:   `{"board":["X","X","","","O","","","",""],"mark":"O"}`,
			status: http.StatusOK,
			cell:   2,
		},
		{
			name:   "Takes the center after a corner",
			body:   `{"board":["X","","","","","","","",""],"mark":"O"}`,
			status: http.StatusOK,
			cell:   4,
		},
		{
			name:   "Finished board",
			body:   `{"board":["X","X","X","O","O","","","",""],"mark":"O"}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "Wrong board size",
			body:   `{"board":["X"],"mark":"O"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "Unknown symbol",
			body:   `{"board":["X","-","","","","","","",""],"mark":"O"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "Invalid mark",
			body:   `{"board":["","","","","","","","",""],"mark":"Z"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "Malformed body",
			body:   `{"board":`,
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, srv.URL+"/best-move", tt.body)

			require.Equal(t, tt.status, resp.StatusCode, string(body))

			if tt.status == http.StatusOK {
				var move BestMoveResponse
				require.NoError(t, json.Unmarshal(body, &move))
				assert.Equal(t, tt.cell, move.Cell)
			}
		})
	}
}
