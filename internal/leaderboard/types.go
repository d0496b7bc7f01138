package leaderboard

import (
	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/match"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/mauv0809/mus-league/internal/season"
	"github.com/mauv0809/mus-league/internal/stats"
)

// Service computes standings on every read. Nothing derived is stored.
type Service struct {
	matches match.MatchStore
	players club.ClubStore
	seasons season.SeasonStore
	metrics metrics.Metrics
}

// Board is a ranked leaderboard for one scope.
type Board struct {
	Scope  stats.Selector      `json:"scope"`
	Season *stats.Season       `json:"season,omitempty"`
	Stats  []stats.PlayerStats `json:"stats"`
}

// Card is a single player's standing within a scope.
type Card struct {
	Scope  stats.Selector    `json:"scope"`
	Stats  stats.PlayerStats `json:"stats"`
	Rank   int               `json:"rank"`
	Ranked int               `json:"ranked"`
	Trend  stats.Trend       `json:"trend"`
}

// snapshot is everything a computation reads, loaded once per request.
type snapshot struct {
	matches []stats.Match
	players []stats.Player
	seasons []stats.Season
}
