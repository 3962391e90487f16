package service

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/tictactoe"
)

var ErrNotComputerTurn = errors.New("it is not the computer's turn")

type BotService interface {
	MakeTurn(session *entity.Session) (int, tictactoe.Outcome, error)
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// MakeTurn - plays the computer's optimal move on the session.
func (that *botService) MakeTurn(session *entity.Session) (int, tictactoe.Outcome, error) {
	if !session.IsComputerTurn() {
		return -1, "", ErrNotComputerTurn
	}

	cell, err := tictactoe.SelectMove(session.Board, entity.ComputerMark)
	if err != nil {
		return -1, "", fmt.Errorf("failed to select move: %w", err)
	}

	outcome, err := tictactoe.ApplyMove(session, entity.ActorComputer, entity.ComputerMark, cell)
	if err != nil {
		return -1, "", fmt.Errorf("bot failed to make turn: %w", err)
	}

	return cell, outcome, nil
}
