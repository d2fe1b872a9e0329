package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cncoverlay/matchwatch/internal/logfinder"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch"
)

var (
	// scan flags
	scanLog    string
	scanFormat string
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Show the identifiers a roster lookup would use",
	Long: `Read a game log once and report the session id and steam id a roster
lookup would use, the last map found and how many trigger lines it holds.

Useful to check that the log is found and readable before a match.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanLog, "log", "l", "",
		"Game log file or directory (auto-detected if not specified)")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "pretty",
		"Output format: jsonl, pretty")
}

func runScan(cmd *cobra.Command, args []string) error {
	if !ValidFormats[scanFormat] {
		return fmt.Errorf("invalid format %q: must be one of: jsonl, pretty", scanFormat)
	}

	explicit := scanLog
	if len(args) > 0 {
		explicit = args[0]
	}
	path, err := logfinder.FindLogFile(explicit)
	if err != nil {
		return err
	}

	summary, err := matchwatch.Summarize(path)
	if err != nil {
		return err
	}
	return outputSummary(scanFormat, summary, cmd.OutOrStdout())
}
