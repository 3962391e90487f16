package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-series/internal"
	"github.com/rocketscienceinc/tictactoe-series/internal/config"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the websocket and HTTP servers",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		conf, err := config.Load(configPath)
		if err != nil {
			return err
		}

		if err = app.RunApp(initLogger(conf), conf); err != nil {
			return fmt.Errorf("app run failed: %w", err)
		}

		return nil
	},
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "./config.yml", "Path to the config file")

	rootCmd.AddCommand(serveCmd)
}
