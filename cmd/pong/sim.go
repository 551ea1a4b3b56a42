package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pong/internal/bot"
	"github.com/vovakirdan/tui-pong/internal/config"
	"github.com/vovakirdan/tui-pong/internal/core"
	"github.com/vovakirdan/tui-pong/internal/engine"
	"github.com/vovakirdan/tui-pong/internal/match"
)

var (
	flagMatches  int
	flagSave     bool
	flagMaxTicks int
	flagSimLevel string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless CPU-versus-CPU matches",
	Long: `Play matches between two CPU paddles without a terminal UI.

The simulation steps as fast as possible; the post-match delay is
counted in simulated frames. With a fixed --seed the results are
reproducible.

Examples:
  pong sim
  pong sim --matches 20 --seed 7
  pong sim --difficulty hard --save`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagMatches, "matches", 1, "Number of matches to play")
	simCmd.Flags().BoolVar(&flagSave, "save", false, "Record results in the match history")
	simCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 1_000_000, "Give up on a match after this many ticks")
	simCmd.Flags().StringVar(&flagSimLevel, "difficulty", "", "Difficulty preset: easy, medium, hard")
}

// simOptions controls a headless run.
type simOptions struct {
	Matches    int
	Seed       int64
	TickRate   int
	MaxTicks   int
	Difficulty config.Difficulty
}

// simulate plays CPU-versus-CPU matches and writes one line per match to
// out. It returns the final state of every match.
func simulate(cfg config.PongConfig, opts simOptions, saver match.ResultSaver, logger *log.Logger, out io.Writer) ([]match.State, error) {
	ctrlOpts := []match.Option{match.WithLogger(logger)}
	if saver != nil {
		ctrlOpts = append(ctrlOpts, match.WithResultSaver(saver))
	}
	eng := engine.New(cfg, rand.New(rand.NewSource(opts.Seed))) //nolint:gosec // gameplay randomness
	ctrl := match.NewController(eng, ctrlOpts...)
	if opts.Difficulty != "" {
		if err := ctrl.SetDifficulty(opts.Difficulty); err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
	}

	left, right := bot.NewCPU(core.SideLeft, cfg), bot.NewCPU(core.SideRight, cfg)
	frame := match.NewFrameClock(opts.TickRate).Interval()

	states := make([]match.State, 0, opts.Matches)
	for i := range opts.Matches {
		if err := ctrl.Start("CPU West", "CPU East"); err != nil {
			return states, fmt.Errorf("sim: cannot start match %d: %w", i+1, err)
		}

		var timer *match.EndTimer
		for ticks := 0; timer == nil; ticks++ {
			if opts.MaxTicks > 0 && ticks >= opts.MaxTicks {
				return states, fmt.Errorf("sim: match %d did not finish within %d ticks", i+1, opts.MaxTicks)
			}
			s := ctrl.Snapshot()
			ctrl.SetControls(right.Apply(s, left.Apply(s, core.ControlInput{})))
			timer = ctrl.Step().Timer
		}

		final := ctrl.Snapshot()
		frames := final.Ticks + int(timer.Delay/frame)
		if !ctrl.CompleteEnd(timer.Generation) {
			return states, fmt.Errorf("sim: end timer for match %d was rejected", i+1)
		}
		states = append(states, final)

		fmt.Fprintf(out, "match %d: %s %s %s  winner %s  (%d ticks, %s)\n",
			i+1, final.Players.Left, final.Score, final.Players.Right, final.WinnerName(),
			final.Ticks, (time.Duration(frames) * frame).Round(100*time.Millisecond))

		if ctrl.Phase() == match.PhaseEnded {
			if err := ctrl.NewMatch(); err != nil {
				return states, fmt.Errorf("sim: %w", err)
			}
		}
	}
	return states, nil
}

func runSim(_ *cobra.Command, _ []string) {
	cfg, _ := mustLoadConfig()
	logger, closer := mustLogger("pong-sim", false)
	defer closer.Close()

	opts := simOptions{
		Matches:  flagMatches,
		Seed:     flagSeed,
		TickRate: flagFPS,
		MaxTicks: flagMaxTicks,
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if flagSimLevel != "" {
		d, err := config.ParseDifficulty(flagSimLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts.Difficulty = d
	}

	var saver match.ResultSaver
	if flagSave {
		store, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening match history: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		saver = store
	}

	logger.Debug("simulation starting", "matches", opts.Matches, "seed", opts.Seed)
	states, err := simulate(cfg, opts, saver, logger, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	wins := map[core.Side]int{}
	for _, s := range states {
		wins[s.Winner]++
	}
	fmt.Printf("\nCPU West %d - %d CPU East (seed %d)\n", wins[core.SideLeft], wins[core.SideRight], opts.Seed)
}
