package matchwatch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cncoverlay/matchwatch/internal/tailer"
)

// Follow tails path and streams detected trigger lines, like ScanFile but
// live. It is meant for diagnostics: no remote lookup is made.
// By default only lines appended after the call are seen; WithLineFromStart
// and WithLineResume move the start back.
//
// Both channels close when ctx is cancelled or the tailer stops.
// Malformed trigger lines are sent to the error channel as *ParseError.
func Follow(ctx context.Context, path string, opts ...LineOption) (<-chan Event, <-chan error, error) {
	if path == "" {
		return nil, nil, ErrNoLogPath
	}
	cfg := applyLineOptions(opts)

	tcfg, err := followStart(path, cfg)
	if err != nil {
		return nil, nil, err
	}
	t, err := tailer.New(ctx, path, tcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("starting tailer: %w", err)
	}

	eventCh := make(chan Event)
	errCh := make(chan error, 1)
	go func() {
		defer close(eventCh)
		defer close(errCh)
		defer func() { _ = t.Stop() }()

		for {
			select {
			case <-ctx.Done():
				return
			case tr, ok := <-t.Triggers():
				if !ok {
					return
				}
				ev, ok := cfg.accept(tr.Event, tr.Line)
				if !ok {
					continue
				}
				select {
				case eventCh <- ev:
				case <-ctx.Done():
					return
				}
			case err, ok := <-t.Errors():
				if !ok {
					return
				}
				var lerr *tailer.LineError
				if errors.As(err, &lerr) {
					err = &ParseError{Line: lerr.Line, Err: lerr.Err}
				}
				sendError(errCh, err)
			}
		}
	}()

	return eventCh, errCh, nil
}

// followStart maps the line options to a tailer start position. A resumed
// cursor beyond the current size means the log was truncated, so reading
// restarts at 0 like ReadNew does.
func followStart(path string, cfg *lineConfig) (tailer.Config, error) {
	tcfg := tailer.DefaultConfig()
	switch {
	case cfg.resume != nil:
		info, err := os.Stat(path)
		if err != nil {
			return tcfg, err
		}
		tcfg.AtEnd = false
		tcfg.Offset = cfg.resume.Offset
		if tcfg.Offset > info.Size() {
			tcfg.Offset = 0
		}
	case cfg.fromStart:
		tcfg.AtEnd = false
	}
	return tcfg, nil
}

// sendError sends an error non-blocking.
func sendError(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
		// Drop error if channel is full
	}
}
