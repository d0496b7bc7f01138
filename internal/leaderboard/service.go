package leaderboard

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/match"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/mauv0809/mus-league/internal/season"
	"github.com/mauv0809/mus-league/internal/stats"
)

// New creates a leaderboard Service.
func New(matches match.MatchStore, players club.ClubStore, seasons season.SeasonStore, metrics metrics.Metrics) *Service {
	return &Service{
		matches: matches,
		players: players,
		seasons: seasons,
		metrics: metrics,
	}
}

// load reads the inputs of a computation. A source that fails to load is
// logged and treated as empty, so a read never fails on partial data.
func (s *Service) load(ctx context.Context) snapshot {
	var snap snapshot
	var err error
	if snap.matches, err = s.matches.ListValidated(ctx); err != nil {
		log.Error("Failed to load validated matches", "error", err)
		snap.matches = nil
	}
	if snap.players, err = s.players.KnownPlayers(ctx); err != nil {
		log.Error("Failed to load players", "error", err)
		snap.players = nil
	}
	if snap.seasons, err = s.seasons.List(ctx); err != nil {
		log.Error("Failed to load seasons", "error", err)
		snap.seasons = nil
	}
	return snap
}

func seasonByID(seasons []stats.Season, id string) *stats.Season {
	for i := range seasons {
		if seasons[i].ID == id {
			return &seasons[i]
		}
	}
	return nil
}

func (snap snapshot) rank(sel stats.Selector) ([]stats.PlayerStats, *stats.Season) {
	var scoped *stats.Season
	if id, filtered := stats.Resolve(sel, snap.seasons); filtered {
		scoped = seasonByID(snap.seasons, id)
	}
	matches := stats.Scope(sel, stats.OnlyValidated(snap.matches), snap.seasons)
	return stats.Rank(stats.Aggregate(matches, snap.players)), scoped
}

// Leaderboard ranks every known player over the matches sel selects. Players
// without matches in scope are left out of the result.
func (s *Service) Leaderboard(ctx context.Context, sel stats.Selector) (Board, error) {
	ranked, scoped := s.load(ctx).rank(sel)
	s.metrics.IncLeaderboardComputed(scopeLabel(sel))
	log.Debug("Leaderboard computed", "scope", sel, "players", len(ranked))
	return Board{
		Scope:  sel,
		Season: scoped,
		Stats:  stats.Played(ranked),
	}, nil
}

// scopeLabel keeps metric cardinality bounded by folding season ids.
func scopeLabel(sel stats.Selector) string {
	if sel == stats.SelectorAll || sel == stats.SelectorCurrent {
		return string(sel)
	}
	return "season"
}

// SeasonHistory summarizes every season on its own, newest first.
func (s *Service) SeasonHistory(ctx context.Context) ([]stats.SeasonSummary, error) {
	snap := s.load(ctx)
	return stats.History(snap.seasons, stats.OnlyValidated(snap.matches), snap.players), nil
}

// SeasonSummary summarizes a single season.
func (s *Service) SeasonSummary(ctx context.Context, seasonID string) (stats.SeasonSummary, error) {
	snap := s.load(ctx)
	season := seasonByID(snap.seasons, seasonID)
	if season == nil {
		return stats.SeasonSummary{}, fmt.Errorf("season %s: %w", seasonID, apperr.ErrNotFound)
	}
	return stats.Summarize(*season, stats.OnlyValidated(snap.matches), snap.players), nil
}

// PlayerCard returns the standing of one player. Rank is zero when the player
// has no matches in scope.
func (s *Service) PlayerCard(ctx context.Context, id stats.Identity, sel stats.Selector) (Card, error) {
	snap := s.load(ctx)
	ranked, _ := snap.rank(sel)
	played := stats.Played(ranked)
	for _, ps := range ranked {
		if ps.Kind != id.Kind || ps.ID != id.ID {
			continue
		}
		return Card{
			Scope:  sel,
			Stats:  ps,
			Rank:   stats.Position(played, id),
			Ranked: len(played),
			Trend:  ps.Trend(),
		}, nil
	}
	return Card{}, fmt.Errorf("player %s: %w", id.ID, apperr.ErrNotFound)
}

// ShareText renders the leaderboard for sel as a chat message.
func (s *Service) ShareText(ctx context.Context, sel stats.Selector) (string, error) {
	board, err := s.Leaderboard(ctx, sel)
	if err != nil {
		return "", err
	}
	return stats.ShareText(Title(board), board.Stats), nil
}

// Title names the scope of a board for display.
func Title(b Board) string {
	switch {
	case b.Season != nil:
		return "Mus League · " + b.Season.Name
	case b.Scope == stats.SelectorAll || b.Scope == stats.SelectorCurrent:
		return "Mus League · All time"
	default:
		return "Mus League · " + string(b.Scope)
	}
}
