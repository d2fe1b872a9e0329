package matchwatch

import (
	"testing"
	"time"
)

func TestWatchConfig_Defaults(t *testing.T) {
	cfg := applyWatchOptions(nil)
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate() error = %v", err)
	}
	if cfg.pollInterval != DefaultPollInterval {
		t.Errorf("pollInterval = %v, want %v", cfg.pollInterval, DefaultPollInterval)
	}
	if cfg.hideDelay != DefaultHideDelay {
		t.Errorf("hideDelay = %v, want %v", cfg.hideDelay, DefaultHideDelay)
	}
	if cfg.logger == nil || cfg.notifier == nil {
		t.Error("validate() should fill in a logger and a notifier")
	}
	if cfg.fromEnd {
		t.Error("the watcher should scan the existing log by default")
	}
	if cfg.settings != nil {
		t.Error("settings should stay nil so the overlay is never hidden")
	}
}

func TestWatchConfig_ZeroPollUsesDefault(t *testing.T) {
	cfg := applyWatchOptions([]WatchOption{WithPollInterval(0), WithHideDelay(0)})
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate() error = %v", err)
	}
	if cfg.pollInterval != DefaultPollInterval {
		t.Errorf("pollInterval = %v, want %v", cfg.pollInterval, DefaultPollInterval)
	}
	if cfg.hideDelay != 0 {
		t.Errorf("hideDelay = %v, want 0 (hide immediately)", cfg.hideDelay)
	}
}

func TestWatchConfig_NilOptionIgnored(t *testing.T) {
	cfg := applyWatchOptions([]WatchOption{nil, WithPollInterval(time.Second)})
	if cfg.pollInterval != time.Second {
		t.Errorf("pollInterval = %v, want 1s", cfg.pollInterval)
	}
}

func TestLineConfig(t *testing.T) {
	cfg := applyLineOptions([]LineOption{
		WithLineFilter([]EventType{EventMatchFound}, nil),
		WithLineIncludeRawLine(true),
		WithLineStopOnError(true),
		WithLineFromStart(true),
		nil,
	})
	if !cfg.includeRawLine || !cfg.stopOnError || !cfg.fromStart {
		t.Errorf("lineConfig = %+v, want all flags set", cfg)
	}
	if !cfg.filter.Allows(EventMatchFound) || cfg.filter.Allows(EventMatchEnded) {
		t.Error("line filter should allow only match_found")
	}

	empty := applyLineOptions(nil)
	if empty.filter != nil {
		t.Error("no filter option should leave a nil filter")
	}
	if empty.resume != nil {
		t.Error("no resume option should leave a nil cursor")
	}
}

func TestLineConfig_Resume(t *testing.T) {
	saved := Cursor{Path: "game.log", Offset: 42}
	cfg := applyLineOptions([]LineOption{WithLineResume(saved)})
	if cfg.resume == nil || *cfg.resume != saved {
		t.Errorf("resume = %v, want %+v", cfg.resume, saved)
	}

	saved.Offset = 7
	if cfg.resume.Offset != 42 {
		t.Error("WithLineResume should keep its own copy of the cursor")
	}
}
