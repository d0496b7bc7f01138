package match

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/mus-league/internal/stats"
)

var _ MatchStore = (*MockStore)(nil)

// MockStore is a mock implementation of MatchStore for testing.
type MockStore struct {
	mu sync.Mutex

	InsertFunc         func(m Match) error
	GetFunc            func(id string) (Match, error)
	ListFunc           func(f Filter) ([]Match, error)
	ListValidatedFunc  func() ([]stats.Match, error)
	ReplaceFunc        func(m Match) error
	TransitionFunc     func(id string, from, to stats.Status) error
	MarkValidatedFunc  func(matchID, playerID string) (bool, error)
	PendingBeforeFunc  func(cutoff time.Time) ([]Match, error)
	InsertCalls        []Match
	TransitionCalls    []string
	ListValidatedCalls int
}

func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls = nil
	m.TransitionCalls = nil
	m.ListValidatedCalls = 0
}

func (m *MockStore) Insert(_ context.Context, match Match) error {
	m.mu.Lock()
	m.InsertCalls = append(m.InsertCalls, match)
	m.mu.Unlock()
	if m.InsertFunc != nil {
		return m.InsertFunc(match)
	}
	return nil
}

func (m *MockStore) Get(_ context.Context, id string) (Match, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return Match{Match: stats.Match{ID: id}}, nil
}

func (m *MockStore) List(_ context.Context, f Filter) ([]Match, error) {
	if m.ListFunc != nil {
		return m.ListFunc(f)
	}
	return nil, nil
}

func (m *MockStore) ListValidated(_ context.Context) ([]stats.Match, error) {
	m.mu.Lock()
	m.ListValidatedCalls++
	m.mu.Unlock()
	if m.ListValidatedFunc != nil {
		return m.ListValidatedFunc()
	}
	return nil, nil
}

func (m *MockStore) Replace(_ context.Context, match Match) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(match)
	}
	return nil
}

func (m *MockStore) Transition(_ context.Context, id string, from, to stats.Status) error {
	m.mu.Lock()
	m.TransitionCalls = append(m.TransitionCalls, id+":"+string(to))
	m.mu.Unlock()
	if m.TransitionFunc != nil {
		return m.TransitionFunc(id, from, to)
	}
	return nil
}

func (m *MockStore) MarkValidated(_ context.Context, matchID, playerID string) (bool, error) {
	if m.MarkValidatedFunc != nil {
		return m.MarkValidatedFunc(matchID, playerID)
	}
	return false, nil
}

func (m *MockStore) PendingBefore(_ context.Context, cutoff time.Time) ([]Match, error) {
	if m.PendingBeforeFunc != nil {
		return m.PendingBeforeFunc(cutoff)
	}
	return nil, nil
}
