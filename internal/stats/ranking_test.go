package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(all []PlayerStats) []string {
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.ID
	}
	return out
}

func TestRank_QualificationThreshold(t *testing.T) {
	a := PlayerStats{ID: "a", TotalMatches: 2, Wins: 2, WinRate: 100}
	b := PlayerStats{ID: "b", TotalMatches: 5, Wins: 4, Losses: 1, WinRate: 80}

	ranked := Rank([]PlayerStats{a, b})

	assert.Equal(t, []string{"b", "a"}, ids(ranked))
}

func TestRank_WinRateThenWins(t *testing.T) {
	all := []PlayerStats{
		{ID: "low", TotalMatches: 4, Wins: 1, WinRate: 25},
		{ID: "few-wins", TotalMatches: 4, Wins: 2, WinRate: 50},
		{ID: "many-wins", TotalMatches: 10, Wins: 5, WinRate: 50},
		{ID: "top", TotalMatches: 3, Wins: 3, WinRate: 100},
	}

	ranked := Rank(all)

	assert.Equal(t, []string{"top", "many-wins", "few-wins", "low"}, ids(ranked))
}

func TestRank_StableForTies(t *testing.T) {
	all := []PlayerStats{
		{ID: "first", TotalMatches: 3, Wins: 2, WinRate: 200.0 / 3},
		{ID: "second", TotalMatches: 3, Wins: 2, WinRate: 200.0 / 3},
		{ID: "third", TotalMatches: 0},
		{ID: "fourth", TotalMatches: 0},
	}

	ranked := Rank(all)

	assert.Equal(t, []string{"first", "second", "third", "fourth"}, ids(ranked))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	all := []PlayerStats{{ID: "a"}, {ID: "b", TotalMatches: 3, Wins: 3, WinRate: 100}}

	_ = Rank(all)

	assert.Equal(t, "a", all[0].ID)
}

func TestRank_UnqualifiedNeverAboveQualified(t *testing.T) {
	all := []PlayerStats{
		{ID: "u1", TotalMatches: 1, Wins: 1, WinRate: 100},
		{ID: "q1", TotalMatches: 3, WinRate: 0, Losses: 3},
		{ID: "u2", TotalMatches: 2, Wins: 1, WinRate: 50},
		{ID: "q2", TotalMatches: 6, Wins: 3, WinRate: 50},
	}

	ranked := Rank(all)

	seenUnqualified := false
	for _, s := range ranked {
		if !s.Qualified() {
			seenUnqualified = true
			continue
		}
		assert.False(t, seenUnqualified, "qualified player %s ranked below an unqualified one", s.ID)
	}
	assert.Equal(t, []string{"q2", "q1", "u1", "u2"}, ids(ranked))
}

func TestPosition(t *testing.T) {
	ranked := []PlayerStats{{ID: "a", Kind: KindPermanent}, {ID: "b", Kind: KindTemporary}}

	assert.Equal(t, 2, Position(ranked, Identity{Kind: KindTemporary, ID: "b"}))
	assert.Equal(t, 0, Position(ranked, Identity{Kind: KindPermanent, ID: "b"}))
}
