package stats

import (
	"cmp"
	"slices"
)

// TopPlayersLimit caps the podium list of a season summary.
const TopPlayersLimit = 10

// SeasonSummary is the standings of a single season.
type SeasonSummary struct {
	Season       Season        `json:"season"`
	TotalMatches int           `json:"total_matches"`
	Standings    []PlayerStats `json:"standings"`
	TopPlayers   []PlayerStats `json:"top_players"`
}

// Summarize computes the standings of one season from its own matches only.
func Summarize(season Season, matches []Match, players []Player) SeasonSummary {
	own := InSeason(matches, season.ID)
	ranked := Rank(Aggregate(own, players))
	top := Played(ranked)
	if len(top) > TopPlayersLimit {
		top = top[:TopPlayersLimit]
	}
	return SeasonSummary{
		Season:       season,
		TotalMatches: len(own),
		Standings:    ranked,
		TopPlayers:   top,
	}
}

// History summarizes every season independently, newest start date first.
func History(seasons []Season, matches []Match, players []Player) []SeasonSummary {
	ordered := slices.Clone(seasons)
	slices.SortStableFunc(ordered, func(a, b Season) int {
		return cmp.Compare(b.StartDate.Unix(), a.StartDate.Unix())
	})
	out := make([]SeasonSummary, 0, len(ordered))
	for _, s := range ordered {
		out = append(out, Summarize(s, matches, players))
	}
	return out
}
