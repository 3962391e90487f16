package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

const (
	sessionCookieName = "user_session"
	sessionCookieTTL  = 24 * time.Hour
	shutdownTimeout   = 5 * time.Second
)

type gameManager interface {
	StartSession(ctx context.Context, id, mode string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id, mark string, cell int) (*entity.Session, error)
	ResetBoard(ctx context.Context, id string) (*entity.Session, error)
	ResetSession(ctx context.Context, id string) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	OnUpdate(fn func(session *entity.Session))
}

type handlerFunc func(ctx context.Context, client *client, message *Message) error

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	connectionsMutex sync.RWMutex
	connections      map[string]map[*client]struct{}
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		handlers:    make(map[string]handlerFunc),
		connections: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionSessionStart] = server.handleSessionStart
	server.handlers[actionSessionRestart] = server.handleSessionRestart
	server.handlers[actionBoardReset] = server.handleBoardReset
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionSessionState] = server.handleSessionState

	manager.OnUpdate(server.pushUpdate)

	return server
}

// Handler - returns the HTTP handler serving the websocket endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	sessionID, header := that.sessionCookie(req)

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{conn: conn}
	that.bind(c, sessionID)

	defer func() {
		that.unbind(c)
		_ = conn.Close()
	}()

	log.Info("WebSocket connection established", "sessionID", sessionID)

	if err = that.handleMessages(ctx, c); err != nil {
		log.Debug("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client until the connection closes.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, reqBody, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)

			if err = c.sendError(actionError, "malformed message"); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = c.sendError(message.Action, "unknown action"); err != nil {
				return err
			}

			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// sessionCookie - returns the browser session id, creating a cookie for new visitors.
func (that *Server) sessionCookie(req *http.Request) (string, http.Header) {
	log := that.logger.With("method", "sessionCookie")

	if cookie, err := req.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		log.Debug("session cookie found", "cookie", cookie.Value)
		return cookie.Value, nil
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    uuid.NewString(),
		Expires:  time.Now().Add(sessionCookieTTL),
		Path:     "/ws",
		HttpOnly: true,
	}

	log.Debug("session cookie not found, new one created", "cookie", cookie.Value)

	return cookie.Value, http.Header{"Set-Cookie": []string{cookie.String()}}
}

// bind - subscribes the client to updates of the session.
func (that *Server) bind(c *client, sessionID string) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	if previous := c.session(); previous != "" {
		delete(that.connections[previous], c)
		if len(that.connections[previous]) == 0 {
			delete(that.connections, previous)
		}
	}

	c.setSession(sessionID)

	if that.connections[sessionID] == nil {
		that.connections[sessionID] = make(map[*client]struct{})
	}
	that.connections[sessionID][c] = struct{}{}
}

func (that *Server) unbind(c *client) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	sessionID := c.session()

	delete(that.connections[sessionID], c)
	if len(that.connections[sessionID]) == 0 {
		delete(that.connections, sessionID)
	}
}

// broadcast - sends the session to every client watching it.
func (that *Server) broadcast(action string, session *entity.Session) {
	log := that.logger.With("method", "broadcast", "sessionID", session.ID)

	that.connectionsMutex.RLock()
	clients := make([]*client, 0, len(that.connections[session.ID]))
	for c := range that.connections[session.ID] {
		clients = append(clients, c)
	}
	that.connectionsMutex.RUnlock()

	for _, c := range clients {
		if err := c.sendSession(action, session); err != nil {
			log.Error("failed to send session update", "error", err)
		}
	}
}

func (that *Server) pushUpdate(session *entity.Session) {
	that.broadcast(actionSessionUpdate, session)
}
