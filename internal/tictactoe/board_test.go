package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

func TestParseBoard(t *testing.T) {
	t.Run("Reads marks and empty cells", func(t *testing.T) {
		board, err := ParseBoard(" X.o...O.x\n")

		require.NoError(t, err)
		assert.Equal(t, entity.Board{x, e, o, e, e, e, o, e, x}, board)
	})

	tests := []struct {
		name string
		raw  string
	}{
		{"Too short", "X.O"},
		{"Too long", ".........."},
		{"Unknown symbol", "X.O..-..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBoard(tt.raw)

			require.ErrorIs(t, err, ErrInvalidBoard)
		})
	}
}

func TestFormatBoard(t *testing.T) {
	board := entity.Board{x, e, o, e, x, e, e, e, o}

	assert.Equal(t, "X.O\n.X.\n..O\n", FormatBoard(board))

	parsed, err := ParseBoard("X.O.X...O")
	require.NoError(t, err)
	assert.Equal(t, board, parsed)
}
