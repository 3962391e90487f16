package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/repository"
	"github.com/rocketscienceinc/tictactoe-series/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-series/internal/service"
	"github.com/rocketscienceinc/tictactoe-series/internal/usecase"
)

const readTimeout = 5 * time.Second

type testServer struct {
	url   string
	clock *scheduler.ManualScheduler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := scheduler.NewManualScheduler()
	manager := usecase.NewGameManager(logger, repository.NewMemorySessionRepository(), service.NewBotService(),
		clock, usecase.Delays{ComputerMove: 500 * time.Millisecond, RoundReset: 2 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := httptest.NewServer(New(logger, manager).Handler(ctx))
	t.Cleanup(srv.Close)

	return &testServer{
		url:   "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
		clock: clock,
	}
}

func (that *testServer) dial(t *testing.T, header http.Header) (*websocket.Conn, *http.Response) {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(that.url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, resp
}

func send(t *testing.T, conn *websocket.Conn, action, payload string) {
	t.Helper()

	msg := `{"action":"` + action + `"`
	if payload != "" {
		msg += `,"payload":` + payload
	}
	msg += "}"

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
}

func receive(t *testing.T, conn *websocket.Conn) Response {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))

	var resp Response
	require.NoError(t, conn.ReadJSON(&resp))

	return resp
}

func TestServer_SessionCookie(t *testing.T) {
	ts := newTestServer(t)

	t.Run("Issues a cookie to new visitors", func(t *testing.T) {
		_, resp := ts.dial(t, nil)

		cookies := resp.Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sessionCookieName, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
	})

	t.Run("Reuses the cookie of a returning visitor", func(t *testing.T) {
		// Given: a session started under a known cookie
		header := http.Header{"Cookie": []string{sessionCookieName + "=browser-1"}}
		first, resp := ts.dial(t, header)
		assert.Empty(t, resp.Cookies())

		send(t, first, actionSessionStart, `{"mode":"pvp"}`)
		started := receive(t, first)
		require.Empty(t, started.Payload.Error)
		assert.Equal(t, "browser-1", started.Payload.Session.ID)

		// When: the browser reconnects and asks for its state
		second, _ := ts.dial(t, header)
		send(t, second, actionSessionState, "")

		// Then: it gets the same session back
		state := receive(t, second)
		require.Empty(t, state.Payload.Error)
		assert.Equal(t, "browser-1", state.Payload.Session.ID)
		assert.Equal(t, entity.ModeHumanVsHuman, state.Payload.Session.Mode)
	})
}

func TestServer_Game(t *testing.T) {
	t.Run("Plays a human-vs-human round", func(t *testing.T) {
		// Given: a started human-vs-human session
		ts := newTestServer(t)
		conn, _ := ts.dial(t, nil)

		send(t, conn, actionSessionStart, `{"mode":"pvp"}`)
		started := receive(t, conn)
		require.Empty(t, started.Payload.Error)
		assert.Equal(t, actionSessionStart, started.Action)
		assert.Equal(t, entity.StateInProgress, started.Payload.Session.State)

		// When: X completes the top row
		var last Response
		for i, cell := range []string{"0", "3", "1", "4", "2"} {
			mark := "X"
			if i%2 == 1 {
				mark = "O"
			}
			send(t, conn, actionGameTurn, `{"mark":"`+mark+`","cell":`+cell+`}`)
			last = receive(t, conn)
			require.Empty(t, last.Payload.Error)
		}

		// Then: X wins the round and the next round is pushed after the pause
		assert.Equal(t, entity.StateRoundOver, last.Payload.Session.State)
		assert.Equal(t, entity.Score{X: 1}, last.Payload.Session.Score)
		assert.Equal(t, "Player X wins this round!", last.Payload.Session.Message)

		ts.clock.Advance(2 * time.Second)

		update := receive(t, conn)
		assert.Equal(t, actionSessionUpdate, update.Action)
		assert.Equal(t, entity.StateInProgress, update.Payload.Session.State)
		assert.Equal(t, entity.Board{}, update.Payload.Session.Board)
	})

	t.Run("Pushes the computer's reply", func(t *testing.T) {
		ts := newTestServer(t)
		conn, _ := ts.dial(t, nil)

		send(t, conn, actionSessionStart, `{"mode":"ai"}`)
		require.Empty(t, receive(t, conn).Payload.Error)

		// When: X plays a corner and the computer's delay passes
		send(t, conn, actionGameTurn, `{"mark":"X","cell":0}`)
		turn := receive(t, conn)
		require.Empty(t, turn.Payload.Error)
		assert.Equal(t, entity.PlayerO, turn.Payload.Session.Turn)

		ts.clock.Advance(500 * time.Millisecond)

		// Then: the computer takes the center
		update := receive(t, conn)
		assert.Equal(t, actionSessionUpdate, update.Action)
		assert.Equal(t, entity.PlayerO, update.Payload.Session.Board[4])
		assert.Equal(t, entity.PlayerX, update.Payload.Session.Turn)
	})

	t.Run("Reports a rejected move with the unchanged session", func(t *testing.T) {
		ts := newTestServer(t)
		conn, _ := ts.dial(t, nil)

		send(t, conn, actionSessionStart, `{"mode":"pvp"}`)
		require.Empty(t, receive(t, conn).Payload.Error)

		send(t, conn, actionGameTurn, `{"mark":"O","cell":4}`)
		resp := receive(t, conn)

		assert.Equal(t, actionGameTurn, resp.Action)
		assert.Equal(t, "it's not your turn", resp.Payload.Error)
		require.NotNil(t, resp.Payload.Session)
		assert.Equal(t, entity.Board{}, resp.Payload.Session.Board)
	})

	t.Run("Restart zeroes the score", func(t *testing.T) {
		ts := newTestServer(t)
		conn, _ := ts.dial(t, nil)

		send(t, conn, actionSessionStart, `{"mode":"pvp"}`)
		require.Empty(t, receive(t, conn).Payload.Error)
		send(t, conn, actionGameTurn, `{"mark":"X","cell":4}`)
		require.Empty(t, receive(t, conn).Payload.Error)

		send(t, conn, actionBoardReset, "")
		reset := receive(t, conn)
		require.Empty(t, reset.Payload.Error)
		assert.Equal(t, entity.Board{}, reset.Payload.Session.Board)

		send(t, conn, actionSessionRestart, "")
		restart := receive(t, conn)
		require.Empty(t, restart.Payload.Error)
		assert.Equal(t, entity.Score{}, restart.Payload.Session.Score)
	})
}

func TestServer_InvalidRequests(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := ts.dial(t, nil)

	tests := []struct {
		name    string
		action  string
		payload string
		want    string
	}{
		{"Unknown mode", actionSessionStart, `{"mode":"solo"}`, "invalid request"},
		{"Missing cell", actionGameTurn, `{"mark":"X"}`, "invalid request"},
		{"Malformed payload", actionGameTurn, `"X"`, "malformed payload"},
		{"Unknown action", "game:leave", "", "unknown action"},
		{"No session yet", actionSessionState, "", "no session, start one first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.action, tt.payload)

			resp := receive(t, conn)

			assert.Equal(t, tt.action, resp.Action)
			assert.Contains(t, resp.Payload.Error, tt.want)
			assert.Nil(t, resp.Payload.Session)
		})
	}
}
