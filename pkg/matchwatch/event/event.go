// Package event defines the Event type emitted while watching a game log.
//
// This package is separated from the main matchwatch package to avoid import
// cycles between pkg/matchwatch and internal/parser.
package event

import (
	"sort"
	"strings"
	"time"

	"github.com/cncoverlay/matchwatch/pkg/matchwatch/roster"
)

// Type represents the kind of detected event.
type Type string

const (
	// MatchFound indicates the client logged a quickmatch found line.
	MatchFound Type = "match_found"

	// Roster indicates a match-found event was correlated into a player list.
	Roster Type = "roster"

	// MatchEnded indicates players are being removed from the match.
	MatchEnded Type = "match_ended"
)

// allTypes is the canonical list of all event types.
// Add new event types here when extending the parser.
var allTypes = []Type{MatchFound, Roster, MatchEnded}

// TypeNames returns a sorted list of all valid event type names.
func TypeNames() []string {
	names := make([]string, len(allTypes))
	for i, t := range allTypes {
		names[i] = string(t)
	}
	sort.Strings(names)
	return names
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, len(allTypes))
	for _, t := range allTypes {
		m[string(t)] = t
	}
	return m
}()

// ParseType converts a string to Type if valid.
// It is case-insensitive and trims leading/trailing whitespace.
func ParseType(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	t, ok := typeByName[name]
	return t, ok
}

// Event represents a detected match event.
type Event struct {
	// Type is the event type.
	Type Type `json:"type"`

	// Timestamp is when the event was detected. Game log lines carry no
	// reliable timestamp of their own.
	Timestamp time.Time `json:"timestamp,omitzero"`

	// MapName is the raw map key from the trigger line (match_found, roster).
	MapName string `json:"map_name,omitempty"`

	// SessionID is the local session id used for the lookup (roster).
	SessionID int64 `json:"session_id,omitempty"`

	// SteamID is the local player's steam id (roster).
	SteamID string `json:"steam_id,omitempty"`

	// Players is the correlated roster (roster).
	Players []roster.Player `json:"players,omitempty"`

	// RawLine is the trigger line (only included if requested).
	RawLine string `json:"raw_line,omitempty"`
}
