// Package overlay publishes correlated rosters to the stream overlay, as a
// JSON state file and over a websocket.
package overlay

import (
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/cncoverlay/matchwatch/pkg/matchwatch/roster"
)

const (
	unknownColor = "#CCCCCC"
	unknownMap   = "Unknown Map"
)

// colorHex maps the service's color index to the in-game player color.
var colorHex = map[int64]string{
	0: "#FFFF00",
	1: "#00FFFF",
	2: "#FF3333",
	3: "#00FF00",
	4: "#FFA500",
	5: "#3366FF",
	6: "#800080",
	7: "#FF69B4",
}

// factionFlag maps a faction to the country code of its flag.
var factionFlag = map[int64]string{
	1: "tr",
	2: "es",
	3: "gr",
	4: "su",
	5: "gb",
	6: "ua",
	7: "de",
	8: "fr",
}

type mapInfo struct {
	display   string
	positions []string
}

// maps holds display names and start-position labels for the ladder maps.
var maps = map[string]mapInfo{
	"MOBIUS_RED_ALERT_MULTIPLAYER_123_MAP":         {"Bullseye", []string{"Top Right", "Bot Left"}},
	"MOBIUS_RED_ALERT_MULTIPLAYER_COMMUNITY_2_MAP": {"Tournament Arena", []string{"Bot Right", "Top Left"}},
	"MOBIUS_RED_ALERT_MULTIPLAYER_22_MAP":          {"Path Beyond", []string{"Bot Right", "Top Left"}},
	"MOBIUS_RED_ALERT_MULTIPLAYER_COMMUNITY_3_MAP": {"Ore Rift", []string{"Left", "Right"}},
	"MOBIUS_RED_ALERT_MULTIPLAYER_5_MAP":           {"Keep Off the Grass", []string{"Top Left", "Bot Right"}},
	"MOBIUS_RED_ALERT_MULTIPLAYER_COMMUNITY_1_MAP": {"Canyon", []string{"Top Right", "Bot Left"}},
	"MOBIUS_RED_ALERT_MULTIPLAYER_K0_MAP":          {"Arena Valley", []string{"Bot Right", "Top Left"}},
	"MOBIUS_RED_ALERT_MULTIPLAYER_9_MAP":           {"North by Northwest", eightPlayerRing},
}

var eightPlayerRing = []string{
	"Top Right", "Right Top", "Right Bot", "Bot Right",
	"Bot Left", "Left Bot", "Left Top", "Top Left",
}

var octalEscape = regexp.MustCompile(`\\([0-7]{1,3})`)

// State is the document the overlay renders.
type State struct {
	MapName    string       `json:"map_name,omitempty"`
	MapDisplay string       `json:"map_display,omitempty"`
	Players    []PlayerView `json:"players"`
	Hidden     bool         `json:"hidden"`
	Waiting    bool         `json:"waiting,omitempty"`
	Updated    time.Time    `json:"updated"`
}

// PlayerView is a roster entry with its presentation attributes resolved.
type PlayerView struct {
	roster.Player

	DisplayName string `json:"display_name"`
	EloText     string `json:"elo_text"`
	ColorHex    string `json:"color_hex"`
	Flag        string `json:"flag,omitempty"`
	StartLabel  string `json:"start_label"`
}

// BuildState resolves display attributes for players on mapName.
func BuildState(players []roster.Player, mapName string, now time.Time) State {
	st := State{
		MapName:    mapName,
		MapDisplay: MapDisplayName(mapName),
		Players:    make([]PlayerView, 0, len(players)),
		Updated:    now,
	}
	for _, p := range players {
		st.Players = append(st.Players, newPlayerView(p, mapName))
	}
	return st
}

func newPlayerView(p roster.Player, mapName string) PlayerView {
	v := PlayerView{
		Player:      p,
		DisplayName: DecodeName(p.Name),
		EloText:     "N/A",
		ColorHex:    unknownColor,
		StartLabel:  StartLabel(mapName, p.StartPosition),
	}
	if v.DisplayName == "" {
		v.DisplayName = "Unknown"
	}
	if p.Elo != nil {
		v.EloText = strconv.FormatFloat(*p.Elo, 'f', 0, 64)
	}
	if p.Color != nil {
		if hex, ok := colorHex[*p.Color]; ok {
			v.ColorHex = hex
		}
	}
	if p.Faction != nil {
		v.Flag = factionFlag[*p.Faction]
	}
	return v
}

// MapDisplayName returns the friendly name of a map key. Raw keys are never
// shown.
func MapDisplayName(mapName string) string {
	if info, ok := maps[mapName]; ok {
		return info.display
	}
	return unknownMap
}

// StartLabel returns the map-specific label of a start position, or the
// position number.
func StartLabel(mapName string, pos int) string {
	if info, ok := maps[mapName]; ok && pos >= 0 && pos < len(info.positions) {
		return info.positions[pos]
	}
	return strconv.Itoa(pos)
}

// DecodeName turns octal escapes such as \314\265 back into the bytes they
// stand for. If the result is not valid UTF-8 the name is returned as-is.
func DecodeName(name string) string {
	if !octalEscape.MatchString(name) {
		return name
	}
	decoded := octalEscape.ReplaceAllStringFunc(name, func(m string) string {
		n, err := strconv.ParseUint(m[1:], 8, 16)
		if err != nil || n > 0xFF {
			return m
		}
		return string([]byte{byte(n)})
	})
	if !utf8.ValidString(decoded) {
		return name
	}
	return decoded
}
