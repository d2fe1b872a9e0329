package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cncoverlay/matchwatch/internal/overlay"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch"
)

// ValidFormats lists the accepted --format values.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

var (
	timeStyle  = lipgloss.NewStyle().Faint(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
	eloStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// OutputEvent writes ev to w in the given format.
func OutputEvent(format string, ev matchwatch.Event, w io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(ev, w)
	case "pretty":
		return OutputPretty(ev, w)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes v as a single JSON line.
func OutputJSON(v any, w io.Writer) error {
	return json.NewEncoder(w).Encode(v)
}

// OutputPretty writes a human-readable rendering of ev.
func OutputPretty(ev matchwatch.Event, w io.Writer) error {
	ts := "--:--:--"
	if !ev.Timestamp.IsZero() {
		ts = ev.Timestamp.Format("15:04:05")
	}
	prefix := timeStyle.Render("[" + ts + "]")

	var b strings.Builder
	switch ev.Type {
	case matchwatch.EventMatchFound:
		fmt.Fprintf(&b, "%s * Match found on %s (%s)\n", prefix, overlay.MapDisplayName(ev.MapName), ev.MapName)
	case matchwatch.EventRoster:
		fmt.Fprintf(&b, "%s = %s\n", prefix,
			titleStyle.Render(fmt.Sprintf("Roster for %s (session %d)", overlay.MapDisplayName(ev.MapName), ev.SessionID)))
		st := overlay.BuildState(ev.Players, ev.MapName, ev.Timestamp)
		for _, p := range st.Players {
			name := p.DisplayName
			if p.ColorHex != "" {
				name = lipgloss.NewStyle().Foreground(lipgloss.Color(p.ColorHex)).Render(name)
			}
			fmt.Fprintf(&b, "    %s %s", name, eloStyle.Render(p.EloText))
			if p.StartLabel != "" {
				fmt.Fprintf(&b, "  %s", p.StartLabel)
			}
			b.WriteString("\n")
		}
	case matchwatch.EventMatchEnded:
		fmt.Fprintf(&b, "%s x Match ended\n", prefix)
	default:
		fmt.Fprintf(&b, "%s ? %s\n", prefix, ev.Type)
	}
	if ev.RawLine != "" {
		fmt.Fprintf(&b, "    %s\n", timeStyle.Render(ev.RawLine))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// outputSummary writes a log summary in the given format.
func outputSummary(format string, s matchwatch.Summary, w io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(s, w)
	case "pretty":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	rows := [][2]string{
		{"log", s.Path},
		{"session id", orNone(s.SessionID != 0, fmt.Sprint(s.SessionID))},
		{"steam id", orNone(s.SteamID != "", s.SteamID)},
		{"last map", orNone(s.LastMap != "", overlay.MapDisplayName(s.LastMap)+" ("+s.LastMap+")")},
		{"match found", fmt.Sprint(s.MatchFound)},
		{"match ended", fmt.Sprint(s.MatchEnded)},
		{"parse errors", fmt.Sprint(s.ParseErrors)},
	}
	if s.SessionErr != "" {
		rows = append(rows, [2]string{"session error", s.SessionErr})
	}

	var b strings.Builder
	label := titleStyle.Width(14)
	for _, r := range rows {
		fmt.Fprintf(&b, "%s%s\n", label.Render(r[0]), r[1])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func orNone(ok bool, s string) string {
	if ok {
		return s
	}
	return "(none)"
}
