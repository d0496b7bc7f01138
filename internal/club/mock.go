package club

import (
	"context"
	"sync"

	"github.com/mauv0809/mus-league/internal/stats"
)

var _ ClubStore = (*MockStore)(nil)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use. Unset funcs return zero values.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	RegisterFunc               func(in RegisterInput) (Profile, error)
	GetProfileFunc             func(id string) (Profile, error)
	ListProfilesFunc           func(status ProfileStatus) ([]Profile, error)
	ListSelectablePlayersFunc  func() ([]Profile, error)
	ApproveFunc                func(id string) error
	RejectFunc                 func(id string) error
	SetAdminFunc               func(actorID, id string, admin bool) error
	SetActivePlayerFunc        func(actorID, id string, active bool) error
	SetCanLoginFunc            func(actorID, id string, canLogin bool) error
	RenameFunc                 func(id, name string) error
	DeleteUserFunc             func(actorID, id, superAdminEmail string) (SeasonPlayer, error)
	CreateSeasonPlayerFunc     func(in SeasonPlayerInput) (SeasonPlayer, error)
	GetSeasonPlayerFunc        func(id string) (SeasonPlayer, error)
	ListSeasonPlayersFunc      func(seasonID string) ([]SeasonPlayer, error)
	SearchSeasonPlayersFunc    func(query string) ([]SeasonPlayer, error)
	ReactivateSeasonPlayerFunc func(id, seasonID string) (SeasonPlayer, error)
	SetSeasonPlayerActiveFunc  func(id string, active bool) error
	KnownPlayersFunc           func() ([]stats.Player, error)

	// Call records
	ApproveCalls      []string
	RejectCalls       []string
	DeleteUserCalls   []string
	KnownPlayersCalls int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApproveCalls = nil
	m.RejectCalls = nil
	m.DeleteUserCalls = nil
	m.KnownPlayersCalls = 0
}

func (m *MockStore) Register(_ context.Context, in RegisterInput) (Profile, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(in)
	}
	return Profile{}, nil
}

func (m *MockStore) GetProfile(_ context.Context, id string) (Profile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(id)
	}
	return Profile{}, nil
}

func (m *MockStore) ListProfiles(_ context.Context, status ProfileStatus) ([]Profile, error) {
	if m.ListProfilesFunc != nil {
		return m.ListProfilesFunc(status)
	}
	return nil, nil
}

func (m *MockStore) ListSelectablePlayers(_ context.Context) ([]Profile, error) {
	if m.ListSelectablePlayersFunc != nil {
		return m.ListSelectablePlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) Approve(_ context.Context, id string) error {
	m.mu.Lock()
	m.ApproveCalls = append(m.ApproveCalls, id)
	m.mu.Unlock()
	if m.ApproveFunc != nil {
		return m.ApproveFunc(id)
	}
	return nil
}

func (m *MockStore) Reject(_ context.Context, id string) error {
	m.mu.Lock()
	m.RejectCalls = append(m.RejectCalls, id)
	m.mu.Unlock()
	if m.RejectFunc != nil {
		return m.RejectFunc(id)
	}
	return nil
}

func (m *MockStore) SetAdmin(_ context.Context, actorID, id string, admin bool) error {
	if m.SetAdminFunc != nil {
		return m.SetAdminFunc(actorID, id, admin)
	}
	return nil
}

func (m *MockStore) SetActivePlayer(_ context.Context, actorID, id string, active bool) error {
	if m.SetActivePlayerFunc != nil {
		return m.SetActivePlayerFunc(actorID, id, active)
	}
	return nil
}

func (m *MockStore) SetCanLogin(_ context.Context, actorID, id string, canLogin bool) error {
	if m.SetCanLoginFunc != nil {
		return m.SetCanLoginFunc(actorID, id, canLogin)
	}
	return nil
}

func (m *MockStore) Rename(_ context.Context, id, name string) error {
	if m.RenameFunc != nil {
		return m.RenameFunc(id, name)
	}
	return nil
}

func (m *MockStore) DeleteUser(_ context.Context, actorID, id, superAdminEmail string) (SeasonPlayer, error) {
	m.mu.Lock()
	m.DeleteUserCalls = append(m.DeleteUserCalls, id)
	m.mu.Unlock()
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(actorID, id, superAdminEmail)
	}
	return SeasonPlayer{}, nil
}

func (m *MockStore) CreateSeasonPlayer(_ context.Context, in SeasonPlayerInput) (SeasonPlayer, error) {
	if m.CreateSeasonPlayerFunc != nil {
		return m.CreateSeasonPlayerFunc(in)
	}
	return SeasonPlayer{}, nil
}

func (m *MockStore) GetSeasonPlayer(_ context.Context, id string) (SeasonPlayer, error) {
	if m.GetSeasonPlayerFunc != nil {
		return m.GetSeasonPlayerFunc(id)
	}
	return SeasonPlayer{}, nil
}

func (m *MockStore) ListSeasonPlayers(_ context.Context, seasonID string) ([]SeasonPlayer, error) {
	if m.ListSeasonPlayersFunc != nil {
		return m.ListSeasonPlayersFunc(seasonID)
	}
	return nil, nil
}

func (m *MockStore) SearchSeasonPlayers(_ context.Context, query string) ([]SeasonPlayer, error) {
	if m.SearchSeasonPlayersFunc != nil {
		return m.SearchSeasonPlayersFunc(query)
	}
	return nil, nil
}

func (m *MockStore) ReactivateSeasonPlayer(_ context.Context, id, seasonID string) (SeasonPlayer, error) {
	if m.ReactivateSeasonPlayerFunc != nil {
		return m.ReactivateSeasonPlayerFunc(id, seasonID)
	}
	return SeasonPlayer{}, nil
}

func (m *MockStore) SetSeasonPlayerActive(_ context.Context, id string, active bool) error {
	if m.SetSeasonPlayerActiveFunc != nil {
		return m.SetSeasonPlayerActiveFunc(id, active)
	}
	return nil
}

func (m *MockStore) KnownPlayers(_ context.Context) ([]stats.Player, error) {
	m.mu.Lock()
	m.KnownPlayersCalls++
	m.mu.Unlock()
	if m.KnownPlayersFunc != nil {
		return m.KnownPlayersFunc()
	}
	return nil, nil
}
