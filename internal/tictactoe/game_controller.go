package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-series/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

// Outcome describes what a successful move did to the round.
type Outcome string

const (
	OutcomeContinue Outcome = "continue"
	OutcomeRoundWon Outcome = "round_won"
	OutcomeDraw     Outcome = "draw"
	OutcomeChampion Outcome = "champion"
)

// StartSession - selects a mode and starts a fresh series.
func StartSession(session *entity.Session, mode string) error {
	if !entity.IsValidMode(mode) {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownMode, mode)
	}

	session.Mode = mode
	ResetSession(session)

	return nil
}

// ApplyMove - validates and applies one move. A rejected move leaves the session untouched.
func ApplyMove(session *entity.Session, actor, mark string, cell int) (Outcome, error) {
	if err := validateMove(session, actor, mark, cell); err != nil {
		return "", fmt.Errorf("invalid turn: %w", err)
	}

	session.Board[cell] = mark

	return updateGameStatus(session, mark), nil
}

// ResetBoard - clears the board for the next round, keeping the series score.
func ResetBoard(session *entity.Session) {
	session.Board = entity.Board{}
	session.Turn = entity.PlayerX
	session.Active = true
	session.State = entity.StateInProgress
	session.Winner = ""
	session.Message = turnMessage(session.Turn)
	session.Epoch++
}

// ResetSession - zeroes the series score and clears the board.
func ResetSession(session *entity.Session) {
	session.Score = entity.Score{}
	session.Champion = ""
	ResetBoard(session)
}

// validateMove - checks if the move is valid.
func validateMove(session *entity.Session, actor, mark string, cell int) error {
	if !session.IsInProgress() || !session.Active {
		return apperror.ErrGameNotInProgress
	}

	if cell < 0 || cell >= len(session.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !entity.IsValidMark(mark) {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if session.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	if session.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	switch actor {
	case entity.ActorComputer:
		if !session.IsWithComputer() {
			return apperror.ErrNoComputerPlayer
		}
	default:
		if session.IsWithComputer() && mark == entity.ComputerMark {
			return apperror.ErrComputerTurn
		}
	}

	return nil
}

// updateGameStatus - checks the game status after a move. Win is checked before draw.
func updateGameStatus(session *entity.Session, mark string) Outcome {
	switch winner := CheckGameStatus(session.Board); winner {
	case entity.PlayerX, entity.PlayerO:
		session.Winner = winner
		session.Active = false

		if winner == entity.PlayerX {
			session.Score.X++
		} else {
			session.Score.O++
		}

		if session.RoundWins(winner) >= entity.ChampionThreshold {
			session.Champion = winner
			session.State = entity.StateSessionOver
			session.Message = fmt.Sprintf("Player %s is the Champion!", winner)

			return OutcomeChampion
		}

		session.State = entity.StateRoundOver
		session.Message = fmt.Sprintf("Player %s wins this round!", winner)

		return OutcomeRoundWon
	case entity.PlayerTie:
		session.Winner = entity.PlayerTie
		session.Active = false
		session.State = entity.StateRoundOver
		session.Message = "It's a draw!"

		return OutcomeDraw
	default:
		session.Turn = entity.Opponent(mark)
		session.Message = turnMessage(session.Turn)

		return OutcomeContinue
	}
}

// CheckGameStatus - returns the winning mark, PlayerTie for a full board, or "" while the round goes on.
func CheckGameStatus(board entity.Board) string {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	if board.IsFull() {
		return entity.PlayerTie
	}

	return ""
}

func turnMessage(mark string) string {
	return fmt.Sprintf("Player %s's turn", mark)
}
