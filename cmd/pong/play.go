package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/platform/tui"
)

var (
	flagDifficulty string
	flagLeftName   string
	flagRightName  string
	flagCPU        string
	flagHold       time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a match",
	Long: `Start a match in this terminal.

Controls:
  W/S        - Left paddle
  Up/Down    - Right paddle
  Space/P    - Pause and resume
  R          - Restart with the same players
  Enter      - New match (after a win)
  Esc        - Reset to the setup screen
  Ctrl+L     - Leaderboard
  Ctrl+C     - Quit

Difficulty options:
  easy, medium, hard - base ball speed (defaults 4, 6 and 8)

Examples:
  pong play
  pong play --left Alice --right Bob
  pong play --cpu right --difficulty hard
  pong play --cpu both
  pong play --config ./pong.toml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, medium, hard")
	playCmd.Flags().StringVar(&flagLeftName, "left", "", "Left player name")
	playCmd.Flags().StringVar(&flagRightName, "right", "", "Right player name")
	playCmd.Flags().StringVar(&flagCPU, "cpu", "", "Let the computer play: left, right or both")
	playCmd.Flags().DurationVar(&flagHold, "hold", core.DefaultHoldWindow, "How long a key press holds a paddle")
}

// parseCPU turns the --cpu value into the sides the computer plays.
func parseCPU(s string) ([]core.Side, error) {
	switch s {
	case "":
		return nil, nil
	case "both":
		return []core.Side{core.SideLeft, core.SideRight}, nil
	}
	side := core.ParseSide(s)
	if side == core.SideNone {
		return nil, fmt.Errorf("unknown --cpu side %q (want left, right or both)", s)
	}
	return []core.Side{side}, nil
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, _ := mustLoadConfig()

	var difficulty config.Difficulty
	if flagDifficulty != "" {
		d, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		difficulty = d
	}

	cpu, err := parseCPU(flagCPU)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	logger, closer := mustLogger("pong", true)
	defer closer.Close()

	// Open match history
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match history: %v\n", err)
		// Continue without storage - the match still works
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Store:      store,
		Logger:     logger,
		CPU:        cpu,
		LeftName:   flagLeftName,
		RightName:  flagRightName,
		Difficulty: difficulty,
		HoldWindow: flagHold,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
