// pong is a two-player terminal pong game.
//
// Usage:
//
//	pong play               - Play a match in this terminal
//	pong serve              - Start SSH server for remote play
//	pong scores             - Show the match history
//	pong sim                - Run headless CPU-versus-CPU matches
//	pong config             - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.pong/pong.db)
//	--config <path>     - Load settings from a YAML or TOML file
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs to a rotating file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/logging"
	"github.com/vovakirdan/tui-pong/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pong",
	Short: "Two-player pong in your terminal",
	Long: `A real-time two-player pong game for the terminal.

Available commands:
  play     - Play a match locally (two players on one keyboard, or against the CPU)
  serve    - Start SSH server for remote play
  scores   - View the recent match history
  sim      - Run headless CPU-versus-CPU matches
  config   - Print the effective configuration

Examples:
  pong play
  pong play --cpu right --difficulty hard
  pong serve --ssh :2222
  pong scores
  pong sim --matches 10 --seed 42`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pong/pong.db", "Path to match history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (rotated)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(configCmd)
}

// mustLoadConfig loads the settings or exits.
func mustLoadConfig() (config.PongConfig, string) {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg, source
}

// mustLogger builds the logger for a command or exits. When quiet is set
// and no log file is given, logs are dropped so they do not draw over a
// full-screen UI.
func mustLogger(prefix string, quiet bool) (*log.Logger, io.Closer) {
	if quiet && flagLogFile == "" {
		return logging.Discard(), io.NopCloser(nil)
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  flagLogLevel,
		File:   flagLogFile,
		Prefix: prefix,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return logger, closer
}

// openStore opens the match history with the configured cap.
func openStore(cfg config.PongConfig) (*storage.Store, error) {
	return storage.Open(flagDBPath, storage.WithHistoryLimit(cfg.Gameplay.HistoryLimit))
}
