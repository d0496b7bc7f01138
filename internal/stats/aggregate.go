package stats

// Aggregate computes one PlayerStats per known player, in the order the players
// are given, including players without matches. Participants that do not
// resolve to a known player are skipped. Match status is not inspected; callers
// pass the matches they want counted.
func Aggregate(matches []Match, players []Player) []PlayerStats {
	index := make(map[Identity]int, len(players))
	out := make([]PlayerStats, 0, len(players))
	for _, p := range players {
		id := p.Identity()
		if _, seen := index[id]; seen {
			continue
		}
		index[id] = len(out)
		out = append(out, PlayerStats{ID: p.ID, Name: p.Name, Kind: p.Kind})
	}

	for _, m := range matches {
		for slot, ref := range m.Slots {
			id, ok := ref.Identity()
			if !ok {
				continue
			}
			i, known := index[id]
			if !known {
				continue
			}
			s := &out[i]
			s.TotalMatches++
			if TeamOf(slot) == m.WinnerTeam {
				s.Wins++
			} else {
				s.Losses++
			}
			s.WinRate = winRate(s.Wins, s.TotalMatches)
		}
	}
	return out
}

// ForPlayer aggregates a single player.
func ForPlayer(matches []Match, p Player) PlayerStats {
	return Aggregate(matches, []Player{p})[0]
}

// Played drops players without matches.
func Played(all []PlayerStats) []PlayerStats {
	out := make([]PlayerStats, 0, len(all))
	for _, s := range all {
		if s.TotalMatches > 0 {
			out = append(out, s)
		}
	}
	return out
}

func winRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}
