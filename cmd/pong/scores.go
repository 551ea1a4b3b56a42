package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pong/internal/platform/tui"
)

var (
	flagLimit       int
	flagClear       bool
	flagInteractive bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the match history",
	Long: `Display the most recent matches, newest first, and each player's
wins and losses across them. Only the last few matches are kept
(gameplay.history_limit, default 5).

Examples:
  pong scores
  pong scores --limit 3
  pong scores --interactive
  pong scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 0, "Number of matches to show (0 = all kept)")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the whole history")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the leaderboard in a full-screen view")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg, _ := mustLoadConfig()

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing history: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Match history cleared.")
		return
	}

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running leaderboard: %v\n", err)
			os.Exit(1)
		}
		return
	}

	results, err := store.Results(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent Matches")
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'pong play' to get on the board!")
		return
	}

	fmt.Printf("  %-3s  %-16s  %-16s  %-5s  %-16s  %-6s  %s\n", "#", "Left", "Right", "Score", "Winner", "Level", "Date")
	fmt.Printf("  %-3s  %-16s  %-16s  %-5s  %-16s  %-6s  %s\n", "-", "----", "-----", "-----", "------", "-----", "----")
	for i, r := range results {
		fmt.Printf("  %-3d  %-16s  %-16s  %-5s  %-16s  %-6s  %s\n",
			i+1, r.LeftName, r.RightName, r.Score, r.WinnerName(), r.Difficulty.Title(),
			r.PlayedAt.Local().Format("2006-01-02 15:04"))
	}

	records, err := store.Records()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error tallying players: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Printf("  %-4s  %-16s  %-4s  %s\n", "Rank", "Player", "Won", "Lost")
	fmt.Printf("  %-4s  %-16s  %-4s  %s\n", "----", "------", "---", "----")
	for i, rec := range records {
		fmt.Printf("  %-4d  %-16s  %-4d  %d\n", i+1, rec.Name, rec.Wins, rec.Losses)
	}
}
