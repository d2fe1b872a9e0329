// Package parser extracts match events and identifiers from game client log text.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cncoverlay/matchwatch/pkg/matchwatch/event"
)

// Trigger phrases, matched case-insensitively.
const (
	MatchFoundPhrase = "quickmatchfound"
	MatchEndedPhrase = "removed player"
)

const sessionIDKey = "sessionID"

// Sentinel errors.
var (
	ErrMapNameNotFound   = errors.New("map name not found")
	ErrSessionIDNotFound = errors.New("session id not found")
	ErrInvalidSessionID  = errors.New("invalid session id")
)

var (
	mapNamePattern = regexp.MustCompile(`(?i)"mapname"\s*:\s*"([^"]*)"`)
	steamIDPattern = regexp.MustCompile(`ID:\s*(\d{17})`)
)

// ContainsMatchFound reports whether text holds the match-found phrase.
func ContainsMatchFound(text string) bool {
	return containsFold(text, MatchFoundPhrase)
}

// ContainsMatchEnded reports whether text holds the match-ended phrase.
func ContainsMatchEnded(text string) bool {
	return containsFold(text, MatchEndedPhrase)
}

// LastMatchFoundLine returns the last line of text containing the
// match-found phrase. When a read window holds several, the newest one is
// authoritative.
func LastMatchFoundLine(text string) (string, bool) {
	lines := splitLines(text)
	for i := len(lines) - 1; i >= 0; i-- {
		if containsFold(lines[i], MatchFoundPhrase) {
			return lines[i], true
		}
	}
	return "", false
}

// MatchEndedAfterFound reports whether a match-ended line follows the last
// match-found line of text, or text holds match-ended lines and no
// match-found line at all.
func MatchEndedAfterFound(text string) bool {
	lines := splitLines(text)
	for i := len(lines) - 1; i >= 0; i-- {
		switch {
		case containsFold(lines[i], MatchFoundPhrase):
			return false
		case containsFold(lines[i], MatchEndedPhrase):
			return true
		}
	}
	return false
}

// ParseMapName returns the value of a "mapname": "..." pair in line.
// The key is matched case-insensitively and the value is returned verbatim.
func ParseMapName(line string) (string, bool) {
	m := mapNamePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseSessionID returns the session id from the last line of text that
// mentions sessionID. The value starts after any ':', ' ' or '"' following
// the key and runs to the next ',' or '}'.
//
// Returns ErrSessionIDNotFound when the key never appears and
// ErrInvalidSessionID when the last value is not an integer.
func ParseSessionID(text string) (int64, error) {
	var (
		value string
		found bool
	)
	for _, line := range splitLines(text) {
		idx := strings.LastIndex(line, sessionIDKey)
		if idx < 0 {
			continue
		}
		rest := strings.TrimLeft(line[idx+len(sessionIDKey):], `:" `)
		if end := strings.IndexAny(rest, ",}"); end >= 0 {
			rest = rest[:end]
		}
		value = strings.Trim(strings.TrimSpace(rest), `"'`)
		found = true
	}
	if !found {
		return 0, ErrSessionIDNotFound
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidSessionID, value, err)
	}
	return id, nil
}

// ParseSteamID returns the first 17-digit id following "ID:" in text.
//
// Unlike ParseSessionID the first occurrence wins. Both behaviours match what
// the game client logs today and are kept as they are.
func ParseSteamID(text string) (int64, bool) {
	for _, line := range splitLines(text) {
		m := steamIDPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		return id, true
	}
	return 0, false
}

// Parse detects an event in a single log line.
//
// Return values:
//   - (*Event, nil): the line is a trigger line
//   - (nil, nil): the line is not an event
//   - (nil, error): the line holds the match-found phrase without a map name
//
// The returned event has no timestamp; callers stamp it.
func Parse(line string) (*event.Event, error) {
	switch {
	case ContainsMatchFound(line):
		name, ok := ParseMapName(line)
		if !ok {
			return nil, ErrMapNameNotFound
		}
		return &event.Event{Type: event.MatchFound, MapName: name}, nil
	case ContainsMatchEnded(line):
		return &event.Event{Type: event.MatchEnded}, nil
	}
	return nil, nil
}

func containsFold(s, phrase string) bool {
	return strings.Contains(strings.ToLower(s), phrase)
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
