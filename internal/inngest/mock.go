package inngest

import (
	"context"
	"net/http"
	"sync"
)

var _ InngestClient = (*Mock)(nil)

// Mock records workflow events instead of sending them.
type Mock struct {
	mu sync.Mutex

	Disabled             bool
	SendSeasonClosedFunc func(seasonID string, dryRun bool) error
	SeasonClosedCalls    []string
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Serve() http.Handler {
	return http.NotFoundHandler()
}

func (m *Mock) Enabled() bool {
	return !m.Disabled
}

func (m *Mock) SendSeasonClosed(_ context.Context, seasonID string, dryRun bool) error {
	m.mu.Lock()
	m.SeasonClosedCalls = append(m.SeasonClosedCalls, seasonID)
	m.mu.Unlock()
	if m.SendSeasonClosedFunc != nil {
		return m.SendSeasonClosedFunc(seasonID, dryRun)
	}
	return nil
}
