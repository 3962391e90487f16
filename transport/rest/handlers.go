package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-series/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-series/internal/validator"
)

type BestMoveRequest struct {
	Board []string `json:"board" validate:"len=9,dive,omitempty,oneof=X O"`
	Mark  string   `json:"mark" validate:"required,oneof=X O"`
}

type BestMoveResponse struct {
	Cell int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.manager.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := that.manager.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleBestMove - answers which cell the computer would play on the given board.
func (that *Server) handleBestMove(w http.ResponseWriter, r *http.Request) {
	var req BestMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	if err := validator.Struct(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var board entity.Board
	copy(board[:], req.Board)

	cell, err := tictactoe.SelectMove(board, req.Mark)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, BestMoveResponse{Cell: cell})
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
	case errors.Is(err, tictactoe.ErrBoardTerminal), errors.Is(err, tictactoe.ErrNoAvailableMoves):
		that.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, apperror.ErrInvalidMark):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
