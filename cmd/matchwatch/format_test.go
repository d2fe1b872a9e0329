package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cncoverlay/matchwatch/pkg/matchwatch"
)

const bullseye = "MOBIUS_RED_ALERT_MULTIPLAYER_123_MAP"

func ptr[T any](v T) *T { return &v }

func TestOutputJSON(t *testing.T) {
	ev := matchwatch.Event{
		Type:      matchwatch.EventRoster,
		Timestamp: time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC),
		MapName:   bullseye,
		SessionID: 4242,
		Players:   []matchwatch.Player{{Name: "Alice", Elo: ptr(1500.0)}},
	}

	var buf bytes.Buffer
	if err := OutputJSON(ev, &buf); err != nil {
		t.Fatalf("OutputJSON() error = %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") || strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("OutputJSON() should write exactly one line, got %q", buf.String())
	}

	var decoded matchwatch.Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("OutputJSON() produced invalid JSON: %v", err)
	}
	if decoded.SessionID != 4242 || len(decoded.Players) != 1 || decoded.Players[0].Name != "Alice" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestOutputPretty(t *testing.T) {
	ts := time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC)
	tests := []struct {
		name     string
		event    matchwatch.Event
		contains []string
	}{
		{
			name:     "match_found",
			event:    matchwatch.Event{Type: matchwatch.EventMatchFound, Timestamp: ts, MapName: bullseye},
			contains: []string{"12:30:45", "* Match found on Bullseye (" + bullseye + ")"},
		},
		{
			name:     "match_found_unknown_map",
			event:    matchwatch.Event{Type: matchwatch.EventMatchFound, MapName: "SOMETHING_ELSE"},
			contains: []string{"--:--:--", "Match found on Unknown Map"},
		},
		{
			name: "roster",
			event: matchwatch.Event{
				Type:      matchwatch.EventRoster,
				Timestamp: ts,
				MapName:   bullseye,
				SessionID: 4242,
				Players: []matchwatch.Player{
					{Name: "Alice", Elo: ptr(1500.0), Color: ptr(int64(2)), StartPosition: 0},
					{Name: "Bob", StartPosition: 1},
				},
			},
			contains: []string{"Roster for Bullseye (session 4242)", "Alice", "1500", "Top Right", "Bob", "N/A", "Bot Left"},
		},
		{
			name:     "match_ended",
			event:    matchwatch.Event{Type: matchwatch.EventMatchEnded, Timestamp: ts},
			contains: []string{"x Match ended"},
		},
		{
			name:     "raw_line",
			event:    matchwatch.Event{Type: matchwatch.EventMatchEnded, RawLine: "Removed player 2"},
			contains: []string{"Removed player 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := OutputPretty(tt.event, &buf); err != nil {
				t.Fatalf("OutputPretty() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("OutputPretty() = %q, want to contain %q", buf.String(), want)
				}
			}
		})
	}
}

func TestOutputEvent(t *testing.T) {
	ev := matchwatch.Event{
		Type:      matchwatch.EventMatchFound,
		Timestamp: time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC),
		MapName:   bullseye,
	}

	tests := []struct {
		format  string
		wantErr bool
		want    string
	}{
		{format: "jsonl", want: `"map_name":"` + bullseye + `"`},
		{format: "pretty", want: "Match found on Bullseye"},
		{format: "unknown", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := OutputEvent(tt.format, ev, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OutputEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !strings.Contains(buf.String(), tt.want) {
				t.Errorf("OutputEvent() = %q, want to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestOutputSummary(t *testing.T) {
	s := matchwatch.Summary{
		Path:       "game.log",
		SessionID:  222,
		SteamID:    "76561198000000001",
		LastMap:    bullseye,
		MatchFound: 2,
		MatchEnded: 1,
	}

	var buf bytes.Buffer
	if err := outputSummary("pretty", s, &buf); err != nil {
		t.Fatalf("outputSummary() error = %v", err)
	}
	for _, want := range []string{"game.log", "222", "76561198000000001", "Bullseye"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("pretty summary = %q, want to contain %q", buf.String(), want)
		}
	}

	buf.Reset()
	if err := outputSummary("pretty", matchwatch.Summary{Path: "empty.log", SessionErr: "session id not found"}, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(none)") || !strings.Contains(buf.String(), "session id not found") {
		t.Errorf("pretty summary = %q", buf.String())
	}

	buf.Reset()
	if err := outputSummary("jsonl", s, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"session_id":222`) {
		t.Errorf("jsonl summary = %q", buf.String())
	}

	if err := outputSummary("xml", s, &buf); err == nil {
		t.Error("outputSummary() with unknown format should fail")
	}
}
