// bubbles is a terminal bubble shooter.
//
// Usage:
//
//	bubbles list            - List game modes
//	bubbles play [mode]     - Play a mode (default: bubbles)
//	bubbles menu            - Pick modes interactively
//	bubbles serve           - Serve the game over SSH
//	bubbles scores [mode]   - Show high scores and recent rounds
//
// Global flags:
//
//	--fps <rate>         - Tick rate (default: 60)
//	--seed <value>       - RNG seed for reproducible boards
//	--db <path>          - Scores database (default: ~/.bubbles/scores.db)
//	--levels <dir>       - Directory of puzzle level YAML files
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Log destination for interactive commands
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles"
)

var (
	flagFPS       int
	flagSeed      int64
	flagDBPath    string
	flagLevelsDir string
	flagLogLevel  string
	flagLogFile   string
)

// logger is configured by the root command before any subcommand runs.
var logger = log.New(io.Discard)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bubbles",
	Short: "Bubbles - a bubble shooter for your terminal",
	Long: `Bubbles is a hex-grid bubble shooter played in the terminal.

Aim the launcher, fire coloured bubbles into the board and clear groups of
three or more. Bubbles cut off from the ceiling drop for extra points.

Available commands:
  list     - Show game modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  scores   - View high scores and recent rounds

Examples:
  bubbles play
  bubbles play bubbles_puzzle --level 2
  bubbles menu --fps 30
  bubbles serve --ssh :2222
  bubbles scores bubbles`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// serve owns stderr; the interactive commands draw on the alt screen.
		toStderr := cmd.Name() == "serve" || cmd.Name() == "list" || cmd.Name() == "scores"
		l, err := newLogger(flagLogLevel, flagLogFile, toStderr)
		if err != nil {
			return err
		}
		logger = l
		bubbles.SetLogger(logger)
		bubbles.SetLevelsDir(flagLevelsDir)
		return nil
	},
}

// newLogger builds the command logger. Without a log file, interactive
// commands discard log output so the game screen stays intact.
func newLogger(level, file string, toStderr bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}

	var w io.Writer = io.Discard
	switch {
	case file != "":
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
	case toStderr:
		w = os.Stderr
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "bubbles",
		Level:           lvl,
	}), nil
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bubbles/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory of puzzle level YAML files")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
