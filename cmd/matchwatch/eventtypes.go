package main

import (
	"fmt"
	"strings"

	"github.com/cncoverlay/matchwatch/pkg/matchwatch"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch/event"
)

// ValidEventTypes maps CLI string names to matchwatch.EventType.
// Used for both validation and normalization.
var ValidEventTypes = map[string]matchwatch.EventType{
	"match_found": matchwatch.EventMatchFound,
	"roster":      matchwatch.EventRoster,
	"match_ended": matchwatch.EventMatchEnded,
}

// ValidEventTypeNames returns a sorted list of valid event type names.
// Delegates to event.TypeNames() as the single source of truth.
func ValidEventTypeNames() []string {
	return event.TypeNames()
}

// NormalizeEventTypes converts CLI string values to matchwatch.EventType slice.
// It handles case-insensitivity, whitespace trimming, and duplicate removal.
func NormalizeEventTypes(values []string) ([]matchwatch.EventType, error) {
	if len(values) == 0 {
		return nil, nil
	}

	result := make([]matchwatch.EventType, 0, len(values))
	seen := make(map[matchwatch.EventType]struct{})

	for _, raw := range values {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			return nil, fmt.Errorf("empty event type provided (input: %q); valid types: %s", raw, strings.Join(ValidEventTypeNames(), ", "))
		}

		t, ok := ValidEventTypes[name]
		if !ok {
			return nil, fmt.Errorf("unknown event type %q (valid: %s)", raw, strings.Join(ValidEventTypeNames(), ", "))
		}

		if _, dup := seen[t]; dup {
			continue // ignore duplicates silently
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}

	return result, nil
}

// RejectOverlap returns an error if any event type is in both includes and excludes.
func RejectOverlap(includes, excludes []matchwatch.EventType) error {
	ex := make(map[matchwatch.EventType]struct{}, len(excludes))
	for _, t := range excludes {
		ex[t] = struct{}{}
	}
	for _, t := range includes {
		if _, ok := ex[t]; ok {
			return fmt.Errorf("event type %q cannot be both included and excluded", t)
		}
	}
	return nil
}

// parseTypeFlags normalizes and cross-checks include/exclude flag values.
func parseTypeFlags(include, exclude []string) (includes, excludes []matchwatch.EventType, err error) {
	if includes, err = NormalizeEventTypes(include); err != nil {
		return nil, nil, err
	}
	if excludes, err = NormalizeEventTypes(exclude); err != nil {
		return nil, nil, err
	}
	if err := RejectOverlap(includes, excludes); err != nil {
		return nil, nil, err
	}
	return includes, excludes, nil
}
