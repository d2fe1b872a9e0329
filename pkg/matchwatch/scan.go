package matchwatch

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/cncoverlay/matchwatch/internal/parser"
)

// ScanFile reads a game log line by line and returns an iterator over the
// trigger lines it holds. No remote lookup is made, so only match_found and
// match_ended events are produced and they carry no timestamp.
// The file is opened lazily on first iteration.
//
// The iterator yields (Event, error) pairs. When an error occurs:
//   - File open errors: yields (Event{}, error) once and stops
//   - Malformed trigger lines: skipped, or yielded as *ParseError and
//     iteration stops when WithLineStopOnError is set
//   - Context cancellation: yields (Event{}, ctx.Err()) and stops
func ScanFile(ctx context.Context, path string, opts ...LineOption) iter.Seq2[Event, error] {
	if path == "" {
		return func(yield func(Event, error) bool) {
			yield(Event{}, ErrNoLogPath)
		}
	}

	cfg := applyLineOptions(opts)

	return func(yield func(Event, error) bool) {
		file, err := os.Open(path)
		if err != nil {
			yield(Event{}, err)
			return
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		// Lobby lines carry whole JSON documents.
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)

		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield(Event{}, err)
				return
			}

			line := strings.ToValidUTF8(scanner.Text(), "\uFFFD")
			ev, ok, err := detectLine(line, cfg)
			if err != nil {
				if cfg.stopOnError {
					yield(Event{}, err)
					return
				}
				continue
			}
			if !ok {
				continue
			}
			if !yield(ev, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(Event{}, err)
		}
	}
}

// ScanFileAll collects every event ScanFile yields. Stops on the first error
// and returns the events collected so far.
func ScanFileAll(ctx context.Context, path string, opts ...LineOption) ([]Event, error) {
	events := make([]Event, 0, 16)
	for ev, err := range ScanFile(ctx, path, opts...) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// detectLine parses a single line and applies the line options.
// ok is false when the line is not a (wanted) event.
func detectLine(line string, cfg *lineConfig) (Event, bool, error) {
	ev, err := parser.Parse(line)
	if err != nil {
		return Event{}, false, &ParseError{Line: line, Err: err}
	}
	if ev == nil {
		return Event{}, false, nil
	}
	out, ok := cfg.accept(*ev, line)
	return out, ok, nil
}

// Summary describes what a log file says about the current session.
type Summary struct {
	Path        string `json:"path"`
	SessionID   int64  `json:"session_id,omitempty"`
	SteamID     string `json:"steam_id,omitempty"`
	LastMap     string `json:"last_map,omitempty"`
	MatchFound  int    `json:"match_found"`
	MatchEnded  int    `json:"match_ended"`
	SessionErr  string `json:"session_error,omitempty"`
	ParseErrors int    `json:"parse_errors"`
}

// Summarize extracts the identifiers a roster lookup would use from the
// whole file, along with trigger counts. A missing session id is reported in
// SessionErr rather than as an error.
func Summarize(path string) (Summary, error) {
	s := Summary{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read log: %w", err)
	}
	text := strings.ToValidUTF8(string(data), "\uFFFD")

	if id, err := parser.ParseSessionID(text); err != nil {
		s.SessionErr = err.Error()
	} else {
		s.SessionID = id
	}
	if id, ok := parser.ParseSteamID(text); ok {
		s.SteamID = strconv.FormatInt(id, 10)
	}

	for _, line := range strings.Split(text, "\n") {
		ev, err := parser.Parse(strings.TrimSuffix(line, "\r"))
		if err != nil {
			s.ParseErrors++
			continue
		}
		if ev == nil {
			continue
		}
		switch ev.Type {
		case EventMatchFound:
			s.MatchFound++
			s.LastMap = ev.MapName
		case EventMatchEnded:
			s.MatchEnded++
		}
	}
	return s, nil
}
