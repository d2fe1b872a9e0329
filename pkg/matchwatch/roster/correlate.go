package roster

// Find returns the index of the first match whose players include steamID,
// or -1 when none does.
func (l MatchList) Find(steamID Identifier) int {
	for i, m := range l.Matches {
		for _, id := range m.Identifiers() {
			if id.Equal(steamID) {
				return i
			}
		}
	}
	return -1
}

// Correlate locates the first match containing steamID and projects one
// Player per entry of its names array. It returns nil when no match holds
// the id; callers treat that as nothing to display.
func Correlate(list MatchList, steamID Identifier) []Player {
	idx := list.Find(steamID)
	if idx < 0 {
		return nil
	}
	return list.Matches[idx].Roster()
}

// Roster projects the match's parallel arrays into roster entries, one per
// name, in the service's player order.
func (m Match) Roster() []Player {
	ids := m.Identifiers()
	players := make([]Player, len(m.Names))
	for i := range m.Names {
		p := Player{
			Name:          stringAt(m.Names, i),
			Team:          intAt(m.Teams, i),
			Elo:           floatAt(m.Elos, i),
			Color:         intAt(m.Colors, i),
			Faction:       intAt(m.Factions, i),
			StartPosition: i,
		}
		if i < len(ids) && !ids[i].IsZero() {
			id := ids[i]
			p.SteamID = &id
		}
		players[i] = p
	}
	return players
}
