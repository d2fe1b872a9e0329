package main

import (
	"slices"
	"strings"
	"testing"

	"github.com/cncoverlay/matchwatch/pkg/matchwatch"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch/event"
)

func TestValidEventTypeNames(t *testing.T) {
	names := ValidEventTypeNames()

	if len(names) != len(event.TypeNames()) {
		t.Errorf("ValidEventTypeNames() returned %d names, want %d", len(names), len(event.TypeNames()))
	}
	if !slices.IsSorted(names) {
		t.Errorf("ValidEventTypeNames() not sorted: %v", names)
	}
	for _, name := range []string{"match_found", "roster", "match_ended"} {
		if !slices.Contains(names, name) {
			t.Errorf("ValidEventTypeNames() missing %q", name)
		}
		if _, ok := ValidEventTypes[name]; !ok {
			t.Errorf("ValidEventTypes missing %q", name)
		}
	}
}

func TestNormalizeEventTypes(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []matchwatch.EventType
		wantErr string
	}{
		{
			name:  "empty input",
			input: nil,
			want:  nil,
		},
		{
			name:  "single valid type",
			input: []string{"roster"},
			want:  []matchwatch.EventType{matchwatch.EventRoster},
		},
		{
			name:  "case and whitespace",
			input: []string{" MATCH_FOUND ", "Match_Ended"},
			want:  []matchwatch.EventType{matchwatch.EventMatchFound, matchwatch.EventMatchEnded},
		},
		{
			name:  "duplicates removed",
			input: []string{"roster", "ROSTER", "roster"},
			want:  []matchwatch.EventType{matchwatch.EventRoster},
		},
		{
			name:    "unknown type",
			input:   []string{"player_join"},
			wantErr: "unknown event type",
		},
		{
			name:    "empty value",
			input:   []string{"roster", "  "},
			wantErr: "empty event type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEventTypes(tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("NormalizeEventTypes() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeEventTypes() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("NormalizeEventTypes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRejectOverlap(t *testing.T) {
	tests := []struct {
		name     string
		includes []matchwatch.EventType
		excludes []matchwatch.EventType
		wantErr  bool
	}{
		{
			name:     "no overlap",
			includes: []matchwatch.EventType{matchwatch.EventRoster},
			excludes: []matchwatch.EventType{matchwatch.EventMatchEnded},
		},
		{
			name: "empty lists",
		},
		{
			name:     "overlap",
			includes: []matchwatch.EventType{matchwatch.EventRoster, matchwatch.EventMatchFound},
			excludes: []matchwatch.EventType{matchwatch.EventRoster},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RejectOverlap(tt.includes, tt.excludes)
			if (err != nil) != tt.wantErr {
				t.Errorf("RejectOverlap() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
