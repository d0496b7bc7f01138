package notifier

import (
	"time"

	"github.com/mauv0809/mus-league/internal/stats"
)

// MatchResult is a match with its participants resolved to display names.
type MatchResult struct {
	ID            string
	Team1         [2]string
	Team2         [2]string
	WinnerTeam    int
	Team1Score    int
	Team2Score    int
	SeasonName    string
	PlayedAt      time.Time
	AutoValidated bool
	// Pending lists the names of participants that still have to confirm.
	Pending []string
}

// PlayerCard is a single player's standing for display.
type PlayerCard struct {
	Stats  stats.PlayerStats
	Rank   int
	Ranked int
}

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// Match lifecycle
	SendMatchSubmitted(result MatchResult, dryRun bool) error
	SendMatchValidated(result MatchResult, dryRun bool) error
	// Standings
	SendLeaderboard(title string, stats []stats.PlayerStats, dryRun bool) error
	SendSeasonSummary(summary stats.SeasonSummary, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(title string, stats []stats.PlayerStats) (any, error)
	FormatPlayerStatsResponse(card PlayerCard) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
