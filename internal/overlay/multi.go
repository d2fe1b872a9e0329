package overlay

import (
	"errors"

	"github.com/cncoverlay/matchwatch/pkg/matchwatch"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch/roster"
)

// Multi forwards every call to each notifier in order. One failing notifier
// does not stop the others; their errors are joined.
type Multi []matchwatch.Notifier

func (m Multi) Update(players []roster.Player, mapName string) error {
	var errs []error
	for _, n := range m {
		if err := n.Update(players, mapName); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Hide() error {
	var errs []error
	for _, n := range m {
		if err := n.Hide(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
