package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles"
	"github.com/vovakirdan/tui-bubbles/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List game modes",
	Long:  `Shows every registered game mode and the available puzzle levels.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	modes := registry.List()
	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	maxIDLen := 2
	for _, m := range modes {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Println("Game modes:")
	fmt.Println()
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, m := range modes {
		fmt.Printf("  %-*s  %s\n", maxIDLen, m.ID, m.Title)
	}

	levels := bubbles.Levels()
	fmt.Println()
	fmt.Printf("Puzzle levels (%d):\n", len(levels))
	fmt.Println()
	for i, lvl := range levels {
		fmt.Printf("  %2d. %-20s %dx%d, %d bubbles\n", i+1, lvl.Name, lvl.Grid.Rows(), lvl.Grid.Cols(), lvl.Grid.Count())
	}

	fmt.Println()
	fmt.Println("Run 'bubbles play <id>' to play a mode.")
}
