package tictactoe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

const emptySymbol = '.'

var ErrInvalidBoard = errors.New("invalid board")

// ParseBoard - reads a board written row by row as 9 symbols: X, O or '.' for an empty cell.
func ParseBoard(raw string) (entity.Board, error) {
	var board entity.Board

	symbols := []rune(strings.ToUpper(strings.TrimSpace(raw)))
	if len(symbols) != len(board) {
		return board, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoard, len(board), len(symbols))
	}

	for i, symbol := range symbols {
		switch symbol {
		case emptySymbol:
			board[i] = entity.EmptyCell
		case 'X':
			board[i] = entity.PlayerX
		case 'O':
			board[i] = entity.PlayerO
		default:
			return board, fmt.Errorf("%w: unexpected %q at cell %d", ErrInvalidBoard, symbol, i)
		}
	}

	return board, nil
}

// FormatBoard - renders the board as three rows.
func FormatBoard(board entity.Board) string {
	var sb strings.Builder

	for i, cell := range board {
		if cell == entity.EmptyCell {
			sb.WriteRune(emptySymbol)
		} else {
			sb.WriteString(cell)
		}

		if i%3 == 2 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
