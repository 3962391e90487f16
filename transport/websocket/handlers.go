package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-series/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/validator"
)

// userErrors are reported back to the player as is.
var userErrors = []error{
	apperror.ErrGameNotInProgress,
	apperror.ErrNotYourTurn,
	apperror.ErrComputerTurn,
	apperror.ErrNoComputerPlayer,
	apperror.ErrCellOccupied,
	apperror.ErrInvalidCell,
	apperror.ErrInvalidMark,
	apperror.ErrUnknownMode,
	apperror.ErrSessionNotStarted,
	apperror.ErrSessionOver,
}

func (that *Server) handleSessionStart(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleSessionStart")

	var payloadReq StartPayload
	if err := that.decode(c, msg, &payloadReq); err != nil {
		return err
	}

	sessionID := payloadReq.SessionID
	if sessionID == "" {
		sessionID = c.session()
	}

	session, err := that.manager.StartSession(ctx, sessionID, payloadReq.Mode)
	if err != nil {
		return that.replyError(c, msg.Action, session, err)
	}

	that.bind(c, session.ID)
	that.broadcast(msg.Action, session)

	log.Info("session started", "sessionID", session.ID, "mode", session.Mode)

	return nil
}

func (that *Server) handleSessionRestart(ctx context.Context, c *client, msg *Message) error {
	session, err := that.manager.ResetSession(ctx, c.session())
	if err != nil {
		return that.replyError(c, msg.Action, session, err)
	}

	that.broadcast(msg.Action, session)

	return nil
}

func (that *Server) handleBoardReset(ctx context.Context, c *client, msg *Message) error {
	session, err := that.manager.ResetBoard(ctx, c.session())
	if err != nil {
		return that.replyError(c, msg.Action, session, err)
	}

	that.broadcast(msg.Action, session)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	var payloadReq TurnPayload
	if err := that.decode(c, msg, &payloadReq); err != nil {
		return err
	}

	session, err := that.manager.MakeTurn(ctx, c.session(), payloadReq.Mark, *payloadReq.Cell)
	if err != nil {
		return that.replyError(c, msg.Action, session, err)
	}

	that.broadcast(msg.Action, session)

	log.Debug("player made a turn", "sessionID", session.ID, "mark", payloadReq.Mark, "cell", *payloadReq.Cell)

	return nil
}

func (that *Server) handleSessionState(ctx context.Context, c *client, msg *Message) error {
	session, err := that.manager.GetSession(ctx, c.session())
	if err != nil {
		return that.replyError(c, msg.Action, nil, err)
	}

	return c.sendSession(msg.Action, session)
}

// decode - unmarshals and validates the payload, answering the client when it is unusable.
func (that *Server) decode(c *client, msg *Message, payload any) error {
	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		if sendErr := c.sendError(msg.Action, "malformed payload"); sendErr != nil {
			return sendErr
		}

		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := validator.Struct(payload); err != nil {
		if sendErr := c.sendError(msg.Action, err.Error()); sendErr != nil {
			return sendErr
		}

		return err
	}

	return nil
}

// replyError - tells the client why the request failed, with the session state when there is one.
func (that *Server) replyError(c *client, action string, session *entity.Session, err error) error {
	message := "internal error"

	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		message = "no session, start one first"
	default:
		for _, userErr := range userErrors {
			if errors.Is(err, userErr) {
				message = userErr.Error()
				break
			}
		}
	}

	if message == "internal error" {
		that.logger.Error("request failed", "action", action, "error", err)
	}

	if sendErr := c.send(Response{Action: action, Payload: ResponsePayload{Session: session, Error: message}}); sendErr != nil {
		return sendErr
	}

	return nil
}
