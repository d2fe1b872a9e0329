package overlay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cncoverlay/matchwatch/pkg/matchwatch/roster"
)

// StateFileName is the file the browser overlay polls.
const StateFileName = "match_info.json"

// FileNotifier writes the overlay state to a JSON file in a directory.
type FileNotifier struct {
	dir string
	now func() time.Time
}

// NewFileNotifier creates the directory if needed.
func NewFileNotifier(dir string) (*FileNotifier, error) {
	if dir == "" {
		return nil, fmt.Errorf("overlay dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create overlay dir: %w", err)
	}
	return &FileNotifier{dir: dir, now: time.Now}, nil
}

// Path returns the state file path.
func (f *FileNotifier) Path() string {
	return filepath.Join(f.dir, StateFileName)
}

// Update writes the roster.
func (f *FileNotifier) Update(players []roster.Player, mapName string) error {
	return f.write(BuildState(players, mapName, f.now()))
}

// Hide writes a hidden state.
func (f *FileNotifier) Hide() error {
	return f.write(State{Players: []PlayerView{}, Hidden: true, Updated: f.now()})
}

// WritePlaceholder writes the waiting state so the overlay can be set up
// before the first match.
func (f *FileNotifier) WritePlaceholder() error {
	return f.write(State{Players: []PlayerView{}, Waiting: true, Updated: f.now()})
}

// write replaces the state file atomically so a reader never sees a partial
// document.
func (f *FileNotifier) write(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode overlay state: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, StateFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path()); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
