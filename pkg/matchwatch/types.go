package matchwatch

import (
	"github.com/cncoverlay/matchwatch/pkg/matchwatch/event"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch/roster"
)

// Re-export event types for convenience.
// Users can import just "github.com/cncoverlay/matchwatch/pkg/matchwatch"
// and use matchwatch.Event, matchwatch.EventRoster, etc.

// Event represents a detected match event.
type Event = event.Event

// EventType represents the type of match event.
type EventType = event.Type

// Player is one correlated roster entry.
type Player = roster.Player

// Event type constants.
const (
	EventMatchFound = event.MatchFound
	EventRoster     = event.Roster
	EventMatchEnded = event.MatchEnded
)
