// Package roster turns the matchmaking service's match list into the player
// roster shown on the overlay.
//
// The service describes each match with parallel arrays (players, names,
// teams, elos, colors, factions) sharing one player index. The arrays are
// filled independently and any of them may be shorter than names; a missing
// entry becomes an absent attribute, never an error.
package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrMalformedResponse is returned when the match list body is not valid JSON
// of the expected shape.
var ErrMalformedResponse = errors.New("malformed match list")

// Match is one entry of the service's match list. Values are kept raw so a
// bad entry in one array only affects that attribute.
type Match struct {
	Players  []json.RawMessage `json:"players"`
	Names    []json.RawMessage `json:"names"`
	Teams    []json.RawMessage `json:"teams"`
	Elos     []json.RawMessage `json:"elos"`
	Colors   []json.RawMessage `json:"colors"`
	Factions []json.RawMessage `json:"factions"`
}

// MatchList is the decoded response of a match lookup.
type MatchList struct {
	Matches []Match `json:"matches"`
}

// Player is one roster entry. Nil pointers are absent attributes and encode
// as JSON null.
type Player struct {
	Name    string   `json:"name"`
	Team    *int64   `json:"team"`
	Elo     *float64 `json:"elo"`
	Color   *int64   `json:"color"`
	Faction *int64   `json:"faction"`

	// StartPosition is the player's index within the correlated match, not
	// an in-game seat.
	StartPosition int `json:"start_position"`

	SteamID *Identifier `json:"steam_id"`
}

// DecodeMatchList parses a lookup response body.
func DecodeMatchList(body []byte) (MatchList, error) {
	var list MatchList
	if err := json.Unmarshal(body, &list); err != nil {
		return MatchList{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return list, nil
}

// Identifiers returns the match's players array normalized to Identifiers.
// Entries that are not integers are kept as opaque tokens.
func (m Match) Identifiers() []Identifier {
	ids := make([]Identifier, len(m.Players))
	for i, raw := range m.Players {
		ids[i] = identifierFromRaw(raw)
	}
	return ids
}

func at(values []json.RawMessage, i int) (json.RawMessage, bool) {
	if i >= len(values) {
		return nil, false
	}
	raw := bytes.TrimSpace(values[i])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	return raw, true
}

func stringAt(values []json.RawMessage, i int) string {
	raw, ok := at(values, i)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func floatAt(values []json.RawMessage, i int) *float64 {
	raw, ok := at(values, i)
	if !ok {
		return nil
	}
	text := string(raw)
	var s string
	if json.Unmarshal(raw, &s) == nil {
		text = s
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func intAt(values []json.RawMessage, i int) *int64 {
	f := floatAt(values, i)
	if f == nil || *f != math.Trunc(*f) {
		return nil
	}
	n := int64(*f)
	return &n
}
