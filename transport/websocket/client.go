package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

// client is one websocket connection. gorilla connections allow a single concurrent writer.
type client struct {
	conn *websocket.Conn

	writeMutex sync.Mutex

	sessionMutex sync.RWMutex
	sessionID    string
}

func (that *client) session() string {
	that.sessionMutex.RLock()
	defer that.sessionMutex.RUnlock()

	return that.sessionID
}

func (that *client) setSession(id string) {
	that.sessionMutex.Lock()
	defer that.sessionMutex.Unlock()

	that.sessionID = id
}

func (that *client) send(response Response) error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err := that.conn.WriteJSON(response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) sendSession(action string, session *entity.Session) error {
	return that.send(Response{Action: action, Payload: ResponsePayload{Session: session}})
}

func (that *client) sendError(action, message string) error {
	return that.send(Response{Action: action, Payload: ResponsePayload{Error: message}})
}
