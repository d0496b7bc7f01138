package season

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/mus-league/internal/stats"
)

var _ SeasonStore = (*MockStore)(nil)

// MockStore is a mock implementation of SeasonStore for testing.
type MockStore struct {
	mu sync.Mutex

	CreateFunc func(name string, start time.Time) (stats.Season, error)
	CloseFunc  func(id string) (stats.Season, error)
	GetFunc    func(id string) (stats.Season, error)
	ActiveFunc func() (*stats.Season, error)
	ListFunc   func() ([]stats.Season, error)

	CloseCalls []string
}

func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Create(_ context.Context, name string, start time.Time) (stats.Season, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(name, start)
	}
	return stats.Season{Name: name, StartDate: start, IsActive: true}, nil
}

func (m *MockStore) Close(_ context.Context, id string) (stats.Season, error) {
	m.mu.Lock()
	m.CloseCalls = append(m.CloseCalls, id)
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc(id)
	}
	return stats.Season{ID: id}, nil
}

func (m *MockStore) Get(_ context.Context, id string) (stats.Season, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return stats.Season{ID: id}, nil
}

func (m *MockStore) Active(_ context.Context) (*stats.Season, error) {
	if m.ActiveFunc != nil {
		return m.ActiveFunc()
	}
	return nil, nil
}

func (m *MockStore) List(_ context.Context) ([]stats.Season, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}
