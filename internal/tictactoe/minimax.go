package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-series/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

const (
	winScore  = 10
	lossScore = -10
	drawScore = 0
)

var (
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrBoardTerminal    = errors.New("board already has a completed line")
)

// SelectMove - returns the optimal cell for mark, which is both the side to move and the maximizing side.
// Among equally scored cells the lowest index wins.
func SelectMove(board entity.Board, mark string) (int, error) {
	if !entity.IsValidMark(mark) {
		return -1, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if board.HasLine(entity.PlayerX) || board.HasLine(entity.PlayerO) {
		return -1, ErrBoardTerminal
	}

	if board.IsFull() {
		return -1, ErrNoAvailableMoves
	}

	cell, _ := minimax(board, mark, mark)

	return cell, nil
}

// Evaluate - returns the minimax score of board from maximizer's point of view with toMove to play.
func Evaluate(board entity.Board, maximizer, toMove string) int {
	_, score := minimax(board, maximizer, toMove)
	return score
}

// minimax works on its own copy of the board, so tentative placements never leak to the caller.
func minimax(board entity.Board, maximizer, toMove string) (int, int) {
	if board.HasLine(maximizer) {
		return -1, winScore
	}

	if board.HasLine(entity.Opponent(maximizer)) {
		return -1, lossScore
	}

	available := board.EmptyCells()
	if len(available) == 0 {
		return -1, drawScore
	}

	bestCell, bestScore := -1, 0
	for _, cell := range available {
		board[cell] = toMove
		_, score := minimax(board, maximizer, entity.Opponent(toMove))
		board[cell] = entity.EmptyCell

		if bestCell == -1 || isBetter(score, bestScore, toMove == maximizer) {
			bestCell, bestScore = cell, score
		}
	}

	return bestCell, bestScore
}

func isBetter(score, best int, maximizing bool) bool {
	if maximizing {
		return score > best
	}
	return score < best
}
