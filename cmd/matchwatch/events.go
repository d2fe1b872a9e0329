package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cncoverlay/matchwatch/internal/logfinder"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch"
)

var (
	// events flags
	eventsLog          string
	eventsIncludeTypes []string
	eventsExcludeTypes []string
	eventsFormat       string
	eventsRaw          bool
	eventsStopOnError  bool
	eventsFollow       bool
	eventsFromStart    bool
	eventsOffset       int64
)

var eventsCmd = &cobra.Command{
	Use:   "events [file]",
	Short: "List trigger lines found in a game log",
	Long: `List the match_found and match_ended trigger lines of a game log without
contacting the matchmaking service.

With --follow, the log is tailed and new trigger lines are printed as they
are written.

Examples:
  # Trigger lines in the auto-detected log
  matchwatch events

  # A specific file, human-readable
  matchwatch events --format pretty game.log

  # Keep printing as the client writes
  matchwatch events --follow --include-types match_found

  # Resume following where an earlier read stopped
  matchwatch events --follow --offset 18234`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVarP(&eventsLog, "log", "l", "",
		"Game log file or directory (auto-detected if not specified)")
	eventsCmd.Flags().StringSliceVar(&eventsIncludeTypes, "include-types", nil,
		"Event types to include (comma-separated: match_found,match_ended)")
	eventsCmd.Flags().StringSliceVar(&eventsExcludeTypes, "exclude-types", nil,
		"Event types to exclude (comma-separated)")
	eventsCmd.Flags().StringVarP(&eventsFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	eventsCmd.Flags().BoolVar(&eventsRaw, "raw", false,
		"Include raw log lines in output")
	eventsCmd.Flags().BoolVar(&eventsStopOnError, "stop-on-error", false,
		"Stop on the first malformed trigger line instead of skipping")
	eventsCmd.Flags().BoolVarP(&eventsFollow, "follow", "F", false,
		"Keep following the log for new lines")
	eventsCmd.Flags().BoolVar(&eventsFromStart, "from-start", false,
		"With --follow, print existing lines first")
	eventsCmd.Flags().Int64Var(&eventsOffset, "offset", 0,
		"With --follow, resume at this byte offset (restarts at 0 if the log is shorter)")

	registerEventTypeCompletion(eventsCmd, "include-types")
	registerEventTypeCompletion(eventsCmd, "exclude-types")
}

func runEvents(cmd *cobra.Command, args []string) error {
	if !ValidFormats[eventsFormat] {
		return fmt.Errorf("invalid format %q: must be one of: jsonl, pretty", eventsFormat)
	}
	includes, excludes, err := parseTypeFlags(eventsIncludeTypes, eventsExcludeTypes)
	if err != nil {
		return err
	}

	explicit := eventsLog
	if len(args) > 0 {
		explicit = args[0]
	}
	path, err := logfinder.FindLogFile(explicit)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []matchwatch.LineOption{
		matchwatch.WithLineFilter(includes, excludes),
		matchwatch.WithLineIncludeRawLine(eventsRaw),
		matchwatch.WithLineStopOnError(eventsStopOnError),
		matchwatch.WithLineFromStart(eventsFromStart),
	}

	if cmd.Flags().Changed("offset") {
		if eventsOffset < 0 {
			return fmt.Errorf("invalid --offset %d: must be non-negative", eventsOffset)
		}
		opts = append(opts, matchwatch.WithLineResume(matchwatch.Cursor{Path: path, Offset: eventsOffset}))
	}

	out := cmd.OutOrStdout()
	if eventsFollow {
		return followEvents(ctx, cmd, path, opts)
	}

	for ev, err := range matchwatch.ScanFile(ctx, path, opts...) {
		if err != nil {
			// Ctrl+C: exit silently
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("parse error: %w", err)
		}
		if err := OutputEvent(eventsFormat, ev, out); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
	return nil
}

func followEvents(ctx context.Context, cmd *cobra.Command, path string, opts []matchwatch.LineOption) error {
	events, errs, err := matchwatch.Follow(ctx, path, opts...)
	if err != nil {
		return err
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil // Channel closed
			}
			if err := OutputEvent(eventsFormat, ev, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("output error: %w", err)
			}

		case err, ok := <-errs:
			if !ok {
				return nil // Channel closed
			}
			if eventsStopOnError {
				return fmt.Errorf("parse error: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)

		case <-ctx.Done():
			return nil
		}
	}
}
