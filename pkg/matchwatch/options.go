package matchwatch

import (
	"fmt"
	"log/slog"
	"time"
)

// Defaults for the watcher.
const (
	DefaultPollInterval = 10 * time.Second
	DefaultHideDelay    = 10 * time.Second
)

// WatchOption configures a Watcher using the functional options pattern.
type WatchOption func(*watchConfig)

// watchConfig holds internal configuration for the watcher.
type watchConfig struct {
	pollInterval   time.Duration
	hideDelay      time.Duration
	fromEnd        bool
	includeRawLine bool
	logger         *slog.Logger
	notifier       Notifier
	settings       Settings
	onEvent        func(Event)
	filter         *compiledFilter
}

// defaultWatchConfig returns a watchConfig with sensible defaults.
func defaultWatchConfig() *watchConfig {
	return &watchConfig{
		pollInterval: DefaultPollInterval,
		hideDelay:    DefaultHideDelay,
	}
}

// applyWatchOptions applies functional options to a watchConfig.
func applyWatchOptions(opts []WatchOption) *watchConfig {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option values and fills in defaults.
func (c *watchConfig) validate() error {
	if c.pollInterval < 0 {
		return fmt.Errorf("poll interval must be non-negative, got %v", c.pollInterval)
	}
	if c.hideDelay < 0 {
		return fmt.Errorf("hide delay must be non-negative, got %v", c.hideDelay)
	}
	if c.pollInterval == 0 {
		c.pollInterval = DefaultPollInterval
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.notifier == nil {
		c.notifier = discardNotifier{}
	}
	return nil
}

// WithPollInterval sets the pause between two reads of the log.
// Default: 10 seconds.
func WithPollInterval(interval time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.pollInterval = interval
	}
}

// WithHideDelay sets how long after a match ends the overlay is hidden,
// when the close-on-match-complete setting is on. Default: 10 seconds.
func WithHideDelay(delay time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.hideDelay = delay
	}
}

// WithFromEnd starts at the current end of the log instead of scanning its
// existing content on the first poll.
func WithFromEnd(fromEnd bool) WatchOption {
	return func(c *watchConfig) {
		c.fromEnd = fromEnd
	}
}

// WithIncludeRawLine includes the trigger line in Event.RawLine.
func WithIncludeRawLine(include bool) WatchOption {
	return func(c *watchConfig) {
		c.includeRawLine = include
	}
}

// WithLogger sets the slog logger. If nil (default), logging is disabled.
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logger
	}
}

// WithNotifier sets the overlay notifier receiving rosters and hide signals.
func WithNotifier(n Notifier) WatchOption {
	return func(c *watchConfig) {
		c.notifier = n
	}
}

// WithSettings sets the settings lookup read on every match end.
// Without one, the overlay is never hidden automatically.
func WithSettings(s Settings) WatchOption {
	return func(c *watchConfig) {
		c.settings = s
	}
}

// WithEventHandler registers a callback for detected events. It runs on the
// watcher goroutine and must not block for long.
func WithEventHandler(fn func(Event)) WatchOption {
	return func(c *watchConfig) {
		c.onEvent = fn
	}
}

// WithIncludeTypes limits the events passed to the event handler.
// If called multiple times, only the last call takes effect.
func WithIncludeTypes(types ...EventType) WatchOption {
	return func(c *watchConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.include = typeSet(types)
	}
}

// WithExcludeTypes drops events of the given types before the event handler.
// Exclude takes precedence over include.
func WithExcludeTypes(types ...EventType) WatchOption {
	return func(c *watchConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.exclude = typeSet(types)
	}
}

// LineOption configures ScanFile and Follow.
type LineOption func(*lineConfig)

type lineConfig struct {
	filter         *compiledFilter
	includeRawLine bool
	stopOnError    bool
	fromStart      bool
	resume         *Cursor
}

func applyLineOptions(opts []LineOption) *lineConfig {
	cfg := &lineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithLineFilter sets both include and exclude type filters.
func WithLineFilter(include, exclude []EventType) LineOption {
	return func(c *lineConfig) {
		c.filter = newCompiledFilter(include, exclude)
	}
}

// WithLineIncludeRawLine includes the original log line in Event.RawLine.
func WithLineIncludeRawLine(include bool) LineOption {
	return func(c *lineConfig) {
		c.includeRawLine = include
	}
}

// WithLineStopOnError stops ScanFile on the first malformed trigger line
// instead of skipping it.
func WithLineStopOnError(stop bool) LineOption {
	return func(c *lineConfig) {
		c.stopOnError = stop
	}
}

// WithLineFromStart makes Follow read the file from the beginning.
func WithLineFromStart(fromStart bool) LineOption {
	return func(c *lineConfig) {
		c.fromStart = fromStart
	}
}

// WithLineResume makes Follow continue from a saved cursor, such as the one
// ReadNew returned. Takes precedence over WithLineFromStart.
func WithLineResume(c Cursor) LineOption {
	return func(lc *lineConfig) {
		lc.resume = &c
	}
}

// accept applies the filter and raw-line options to a detected event.
func (c *lineConfig) accept(ev Event, line string) (Event, bool) {
	if !c.filter.Allows(ev.Type) {
		return Event{}, false
	}
	if c.includeRawLine {
		ev.RawLine = line
	}
	return ev, true
}
