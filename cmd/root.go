package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tictactoe",
	Short: "Best-of-five tic-tac-toe against a friend or the computer",
	Long: `tictactoe serves a tic-tac-toe series over websocket: two players on
one device, or a player against an unbeatable computer. The first
player to win three rounds is the champion.

Run the servers
	tictactoe serve --config config.yml

Ask the computer for its move on a board
	tictactoe best-move X...O....
`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
