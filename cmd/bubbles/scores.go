package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bubbles/internal/registry"
	"github.com/vovakirdan/tui-bubbles/internal/storage"
)

var flagClear bool

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores and recent rounds",
	Long: `Display the top 10 scores and the latest rounds of a mode.
Without a mode, a summary of every mode is shown.

Examples:
  bubbles scores
  bubbles scores bubbles
  bubbles scores bubbles_puzzle --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and rounds of the mode")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		if err := printSummary(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
			os.Exit(1)
		}
		return
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'bubbles list' to see available modes.")
		os.Exit(1)
	}

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("scores cleared", "mode", gameID)
		fmt.Printf("Cleared scores for %s.\n", registry.Title(gameID))
		return
	}

	if err := printMode(store, gameID); err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}

	fmt.Println("All modes")
	fmt.Println()
	fmt.Printf("  %-16s  %6s  %10s  %10s  %s\n", "Mode", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-16s  %6s  %10s  %10s  %s\n", "----", "-----", "----", "-------", "-----------")
	for _, m := range registry.List() {
		st, ok := stats[m.ID]
		if !ok {
			fmt.Printf("  %-16s  %6d  %10s  %10s  %s\n", m.ID, 0, "-", "-", "never")
			continue
		}
		fmt.Printf("  %-16s  %6s  %10s  %10s  %s\n",
			m.ID,
			humanize.Comma(int64(st.GamesCount)),
			humanize.Comma(int64(st.HighScore)),
			humanize.Comma(int64(st.AvgScore)),
			humanize.Time(st.LastPlayed),
		)
	}
	return nil
}

func printMode(store *storage.Store, gameID string) error {
	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", registry.Title(gameID))
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'bubbles play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %10s  %s\n", "Rank", "Score", "When")
	fmt.Printf("  %-4s  %10s  %s\n", "----", "-----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %10s  %s\n", i+1, humanize.Comma(int64(e.Score)), humanize.Time(e.CreatedAt))
	}

	rounds, err := store.RecentRounds(gameID, 5)
	if err != nil {
		return err
	}
	if len(rounds) > 0 {
		fmt.Println()
		fmt.Println("Recent rounds:")
		fmt.Println()
		for _, r := range rounds {
			result := "lost"
			if r.Cleared {
				result = "cleared"
			}
			fmt.Printf("  %-14s %8s pts  %3d shots  %3d popped  %3d dropped  x%d chain  %s  %s\n",
				humanize.Time(r.CreatedAt),
				humanize.Comma(int64(r.Score)),
				r.Shots, r.Popped, r.Dropped, r.BestChain,
				r.Duration.Round(time.Second),
				result,
			)
		}
	}

	if high, err := store.HighScore(gameID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %s\n", humanize.Comma(int64(high)))
	}
	return nil
}
