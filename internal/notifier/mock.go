package notifier

import (
	"sync"

	"github.com/mauv0809/mus-league/internal/stats"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchSubmittedCalls []MatchResult
	SendMatchValidatedCalls []MatchResult
	SendLeaderboardCalls    [][]stats.PlayerStats
	SendSeasonSummaryCalls  []stats.SeasonSummary

	// Spies
	SendMatchValidatedFunc           func(result MatchResult, dryRun bool) error
	SendSeasonSummaryFunc            func(summary stats.SeasonSummary, dryRun bool) error
	FormatLeaderboardResponseFunc    func(title string, stats []stats.PlayerStats) (any, error)
	FormatPlayerStatsResponseFunc    func(card PlayerCard) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	LastLeaderboardResponse    any
	LastPlayerStatsResponse    any
	LastPlayerNotFoundResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchSubmittedCalls = nil
	m.SendMatchValidatedCalls = nil
	m.SendLeaderboardCalls = nil
	m.SendSeasonSummaryCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastPlayerStatsResponse = nil
	m.LastPlayerNotFoundResponse = nil
}

func (m *Mock) SendMatchSubmitted(result MatchResult, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchSubmittedCalls = append(m.SendMatchSubmittedCalls, result)
	return nil
}

func (m *Mock) SendMatchValidated(result MatchResult, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchValidatedCalls = append(m.SendMatchValidatedCalls, result)
	if m.SendMatchValidatedFunc != nil {
		return m.SendMatchValidatedFunc(result, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(title string, stats []stats.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, stats)
	return nil
}

func (m *Mock) SendSeasonSummary(summary stats.SeasonSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSeasonSummaryCalls = append(m.SendSeasonSummaryCalls, summary)
	if m.SendSeasonSummaryFunc != nil {
		return m.SendSeasonSummaryFunc(summary, dryRun)
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(title string, stats []stats.PlayerStats) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(title, stats)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatPlayerStatsResponse(card PlayerCard) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerStatsResponseFunc != nil {
		resp, err := m.FormatPlayerStatsResponseFunc(card)
		m.LastPlayerStatsResponse = resp
		return resp, err
	}
	return "formatted_player_stats", nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerNotFoundResponseFunc != nil {
		resp, err := m.FormatPlayerNotFoundResponseFunc(query)
		m.LastPlayerNotFoundResponse = resp
		return resp, err
	}
	return "formatted_player_not_found", nil
}

// ValidatedCalls returns a copy of the recorded SendMatchValidated calls.
func (m *Mock) ValidatedCalls() []MatchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MatchResult(nil), m.SendMatchValidatedCalls...)
}
