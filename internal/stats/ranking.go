package stats

import (
	"cmp"
	"slices"
)

// QualificationThreshold is the number of matches a player needs before being
// ranked among qualified players.
const QualificationThreshold = 3

// Qualified reports whether s has played enough matches to rank by win rate.
func (s PlayerStats) Qualified() bool {
	return s.TotalMatches >= QualificationThreshold
}

// Compare orders a before b when a ranks higher: qualified players first, then
// higher win rate, then more wins. Anything else compares equal.
func Compare(a, b PlayerStats) int {
	if a.Qualified() != b.Qualified() {
		if a.Qualified() {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(b.WinRate, a.WinRate); c != 0 {
		return c
	}
	return cmp.Compare(b.Wins, a.Wins)
}

// Rank returns a sorted copy of all. Equal entries keep their input order.
func Rank(all []PlayerStats) []PlayerStats {
	ranked := slices.Clone(all)
	slices.SortStableFunc(ranked, Compare)
	return ranked
}

// Position returns the one-based rank of the player with the given identity in
// an already ranked list, or 0 if absent.
func Position(ranked []PlayerStats, id Identity) int {
	for i, s := range ranked {
		if s.Kind == id.Kind && s.ID == id.ID {
			return i + 1
		}
	}
	return 0
}
