// Package tailer follows a game log with nxadm/tail and reports the trigger
// lines written to it.
package tailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nxadm/tail"

	"github.com/cncoverlay/matchwatch/internal/parser"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch/event"
)

// errBuffer is the buffer size for the error channel.
const errBuffer = 16

// ErrNegativeOffset is returned by New for a start offset below zero.
var ErrNegativeOffset = errors.New("negative start offset")

// Trigger is a match-found or match-ended line seen while following.
type Trigger struct {
	Event event.Event
	Line  string
	// Num counts lines read since the tailer started, from 1.
	Num int
}

// LineError reports a trigger line that could not be parsed.
type LineError struct {
	Num  int
	Line string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Num, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Config selects where following starts.
type Config struct {
	// Offset is the byte offset reading starts at, typically a saved
	// cursor position. Ignored when AtEnd is set.
	Offset int64

	// AtEnd starts at the current end of the file (tail -f).
	AtEnd bool

	// Poll uses polling instead of filesystem notifications. The client
	// keeps its log open for writing, so notifications are not always delivered.
	Poll bool
}

// DefaultConfig follows new lines only, polling.
func DefaultConfig() Config {
	return Config{AtEnd: true, Poll: true}
}

// Tailer follows one log file. The file is reopened when it is truncated or
// recreated.
type Tailer struct {
	t        *tail.Tail
	ctx      context.Context
	cancel   context.CancelFunc
	triggers chan Trigger
	errors   chan error
	doneCh   chan struct{}

	mu      sync.Mutex
	stopped bool
}

// New starts following path. The file must exist.
// The provided context controls the tailer's lifecycle.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	if cfg.Offset < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeOffset, cfg.Offset)
	}
	location := &tail.SeekInfo{Offset: cfg.Offset, Whence: io.SeekStart}
	if cfg.AtEnd {
		location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		Poll:      cfg.Poll,
		MustExist: true,
		Location:  location,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening tail: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	tr := &Tailer{
		t:        t,
		ctx:      ctx,
		cancel:   cancel,
		triggers: make(chan Trigger),
		errors:   make(chan error, errBuffer),
		doneCh:   make(chan struct{}),
	}
	go tr.run()
	return tr, nil
}

// Triggers returns the channel of detected trigger lines. It is closed when
// the tailer stops.
func (t *Tailer) Triggers() <-chan Trigger {
	return t.triggers
}

// Errors returns read errors and *LineError values. Errors are dropped when
// the buffer is full.
func (t *Tailer) Errors() <-chan error {
	return t.errors
}

// Stop stops following and closes both channels.
// Safe to call multiple times.
func (t *Tailer) Stop() error {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.stopped = true
	t.mu.Unlock()

	t.cancel()
	<-t.doneCh
	return t.t.Stop()
}

func (t *Tailer) run() {
	defer close(t.doneCh)
	defer close(t.triggers)
	defer close(t.errors)

	var num int
	for {
		select {
		case <-t.ctx.Done():
			return
		case line, ok := <-t.t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				t.sendError(fmt.Errorf("tail: %w", line.Err))
				continue
			}
			num++
			text := strings.TrimSuffix(line.Text, "\r")

			ev, err := parser.Parse(text)
			if err != nil {
				t.sendError(&LineError{Num: num, Line: text, Err: err})
				continue
			}
			if ev == nil {
				continue
			}
			select {
			case t.triggers <- Trigger{Event: *ev, Line: text, Num: num}:
			case <-t.ctx.Done():
				return
			}
		}
	}
}

func (t *Tailer) sendError(err error) {
	select {
	case t.errors <- err:
	default:
	}
}
