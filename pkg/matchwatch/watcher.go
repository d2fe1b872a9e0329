package matchwatch

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cncoverlay/matchwatch/internal/parser"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch/roster"
)

// SettingCloseOverlayOnMatchComplete is the settings key consulted when a
// match ends.
const SettingCloseOverlayOnMatchComplete = "close_overlay_on_match_complete"

// MatchFetcher looks up the matches visible to a session.
// *remote.Client satisfies it.
type MatchFetcher interface {
	FetchMatches(ctx context.Context, sessionID int64) ([]byte, error)
}

// Notifier receives rosters and hide signals for the overlay.
type Notifier interface {
	Update(players []roster.Player, mapName string) error
	Hide() error
}

// Settings is a boolean settings lookup. ok is false when the key or its
// source is missing.
type Settings interface {
	Bool(key string) (value, ok bool)
}

type discardNotifier struct{}

func (discardNotifier) Update([]roster.Player, string) error { return nil }
func (discardNotifier) Hide() error                          { return nil }

// Watcher tails a game log and turns match-found and match-ended lines into
// overlay updates.
type Watcher struct {
	path    string
	fetcher MatchFetcher
	cfg     *watchConfig

	mu        sync.Mutex
	closed    bool
	running   bool
	cancel    context.CancelFunc // cancel func to stop Run
	doneCh    chan struct{}      // signals when Run has exited
	hideTimer *time.Timer

	// Owned by the Run goroutine.
	cursor        Cursor
	ended         bool // match_ended reported for the current roster
	hideScheduled bool // a hide was scheduled for the current roster
}

// NewWatcher creates a watcher for the log at path.
// Validates options. Does NOT start goroutines or touch the file.
func NewWatcher(path string, fetcher MatchFetcher, opts ...WatchOption) (*Watcher, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("invalid options: %w", ErrNoLogPath)
	}
	if fetcher == nil {
		return nil, fmt.Errorf("invalid options: %w", ErrNoFetcher)
	}
	cfg := applyWatchOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &Watcher{
		path:    path,
		fetcher: fetcher,
		cfg:     cfg,
		cursor:  Cursor{Path: path},
	}, nil
}

// Run polls the log until ctx is cancelled or Close is called, then returns
// nil. No failure inside an iteration stops it.
// Run can only be called once per Watcher instance.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	defer close(w.doneCh)
	defer cancel()

	w.startCursor()
	log := w.cfg.logger
	log.Info("watching log", "path", w.path, "offset", w.cursor.Offset,
		"poll_interval", w.cfg.pollInterval)

	for {
		if ctx.Err() != nil {
			return nil
		}
		w.poll(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.cfg.pollInterval):
		}
	}
}

// Close stops Run and cancels a pending hide.
// Safe to call multiple times. Blocks until Run has exited.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	if w.hideTimer != nil {
		w.hideTimer.Stop()
		w.hideTimer = nil
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

// startCursor places the cursor at offset 0, so a match found before launch
// is still shown, or at the current end of the file with WithFromEnd.
func (w *Watcher) startCursor() {
	if !w.cfg.fromEnd {
		w.cursor = Cursor{Path: w.path}
		return
	}
	c, err := CursorAtEnd(w.path)
	if err != nil {
		// The file may not exist yet; everything it gets is new.
		w.cfg.logger.Warn("log not readable, starting at offset 0", "path", w.path, "error", err)
	}
	w.cursor = c
}

// poll runs one iteration: read the appended text and react to it.
func (w *Watcher) poll(ctx context.Context) {
	log := w.cfg.logger

	prevResets := w.cursor.Resets
	next, text, err := ReadNew(w.cursor)
	if err != nil {
		log.Warn("read log failed", "path", w.path, "error", err)
		return
	}
	w.cursor = next
	if next.Resets != prevResets {
		log.Info("log shrank, reading from the start", "path", w.path)
	}
	if text == "" {
		return
	}

	if parser.ContainsMatchFound(text) {
		w.handleMatchFound(ctx, text)
	}
	// Ended lines before the last trigger line belong to the previous match.
	if parser.MatchEndedAfterFound(text) {
		w.handleMatchEnded()
	}
}

func (w *Watcher) handleMatchFound(ctx context.Context, text string) {
	log := w.cfg.logger

	line, _ := parser.LastMatchFoundLine(text)
	mapName, ok := parser.ParseMapName(line)
	if !ok {
		log.Warn("match found without map name", "line", line)
		return
	}
	log.Info("match found", "map", mapName)

	found := Event{Type: EventMatchFound, MapName: mapName}
	if w.cfg.includeRawLine {
		found.RawLine = line
	}
	w.emit(found)

	players, ev, err := w.lookupRoster(ctx, mapName)
	if err != nil {
		if ctx.Err() == nil {
			log.Error("roster lookup failed", "map", mapName, "error", err)
		}
		return
	}
	if len(players) == 0 {
		log.Info("no match contains the local player, nothing to display",
			"session_id", ev.SessionID, "steam_id", ev.SteamID)
		return
	}

	if w.cfg.includeRawLine {
		ev.RawLine = line
	}
	w.emit(ev)

	if err := w.cfg.notifier.Update(players, mapName); err != nil {
		log.Error("overlay update failed", "error", err)
	} else {
		log.Info("overlay updated", "map", mapName, "players", len(players))
	}
	w.ended = false
	w.hideScheduled = false
	w.cancelHide()
}

// lookupRoster re-derives both ids from the whole file, queries the service
// and correlates the answer.
func (w *Watcher) lookupRoster(ctx context.Context, mapName string) ([]roster.Player, Event, error) {
	ev := Event{Type: EventRoster, MapName: mapName}

	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, ev, fmt.Errorf("read log: %w", err)
	}
	full := strings.ToValidUTF8(string(data), "\uFFFD")

	sessionID, err := parser.ParseSessionID(full)
	if err != nil {
		return nil, ev, err
	}
	ev.SessionID = sessionID

	body, err := w.fetcher.FetchMatches(ctx, sessionID)
	if err != nil {
		return nil, ev, err
	}
	list, err := roster.DecodeMatchList(body)
	if err != nil {
		return nil, ev, err
	}

	steamID, ok := parser.ParseSteamID(full)
	if !ok {
		return nil, ev, ErrSteamIDNotFound
	}
	ev.SteamID = strconv.FormatInt(steamID, 10)

	ev.Players = roster.Correlate(list, roster.IntID(steamID))
	return ev.Players, ev, nil
}

// handleMatchEnded reports match_ended once per roster. The hide setting is
// read on every ended window until a hide has been scheduled, so enabling it
// mid-teardown still takes effect.
func (w *Watcher) handleMatchEnded() {
	if !w.ended {
		w.ended = true
		w.emit(Event{Type: EventMatchEnded})
	}
	if w.hideScheduled || w.cfg.settings == nil {
		return
	}
	hide, _ := w.cfg.settings.Bool(SettingCloseOverlayOnMatchComplete)
	if !hide {
		return
	}
	w.hideScheduled = true
	w.scheduleHide()
}

func (w *Watcher) scheduleHide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.hideTimer != nil {
		w.hideTimer.Stop()
	}
	log := w.cfg.logger
	notifier := w.cfg.notifier
	log.Info("overlay hide scheduled", "delay", w.cfg.hideDelay)
	w.hideTimer = time.AfterFunc(w.cfg.hideDelay, func() {
		if err := notifier.Hide(); err != nil {
			log.Error("overlay hide failed", "error", err)
		}
	})
}

func (w *Watcher) cancelHide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hideTimer != nil {
		if w.hideTimer.Stop() {
			w.cfg.logger.Info("pending overlay hide cancelled")
		}
		w.hideTimer = nil
	}
}

func (w *Watcher) emit(ev Event) {
	if w.cfg.onEvent == nil || !w.cfg.filter.Allows(ev.Type) {
		return
	}
	ev.Timestamp = time.Now()
	w.cfg.onEvent(ev)
}
