package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/tictactoe"
)

var moveMark string

var bestMoveCmd = &cobra.Command{
	Use:   "best-move <board>",
	Short: "Print the cell the computer would play",
	Long: `Print the cell the computer would play on a board.

The board is 9 symbols read row by row: X, O, or '.' for an empty cell.
Cells are numbered 0 to 8 from the top left.
	tictactoe best-move XX..O.... --mark O
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		board, err := tictactoe.ParseBoard(args[0])
		if err != nil {
			return err
		}

		cell, err := tictactoe.SelectMove(board, moveMark)
		if err != nil {
			return fmt.Errorf("no move for %s: %w", moveMark, err)
		}

		board[cell] = moveMark

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s plays cell %d\n", moveMark, cell)
		fmt.Fprint(out, tictactoe.FormatBoard(board))

		if status := tictactoe.CheckGameStatus(board); status != "" {
			fmt.Fprintln(out, describeStatus(status))
		}

		return nil
	},
}

func describeStatus(status string) string {
	if status == entity.PlayerTie {
		return "It's a draw!"
	}

	return fmt.Sprintf("Player %s wins!", status)
}

func init() {
	bestMoveCmd.Flags().StringVarP(&moveMark, "mark", "m", entity.ComputerMark, "Mark to play, X or O")

	rootCmd.AddCommand(bestMoveCmd)
}
