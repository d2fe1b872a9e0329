package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cncoverlay/matchwatch/internal/config"
)

var (
	// Version information (set by ldflags)
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	verbose    bool
	configPath string
	envFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "matchwatch",
	Short: "Quickmatch roster overlay for the game client log",
	Long: `matchwatch follows the game client's log, and when a quickmatch is found
it looks the match up on the matchmaking service and publishes the roster
(names, elo, colors, factions, start positions) to a stream overlay.

The overlay state is written to match_info.json in the overlay directory and,
with --listen, pushed to browser sources over a websocket.`,
	SilenceUsage: true, // Don't show usage on error
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.LoadDotEnv(envFile)
		return err
	},
}

func init() {
	// Global flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"Environment file loaded before the config, if present")

	// Add subcommands
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "matchwatch %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// newLogger returns a text logger on w; debug level when verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
