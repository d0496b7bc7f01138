package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesSubmitted    int
	statusChanges       map[string]int
	autoValidated       int
	leaderboards        map[string]int
	events              map[string]int
	processingDurations []float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		statusChanges:       make(map[string]int),
		leaderboards:        make(map[string]int),
		events:              make(map[string]int),
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesSubmitted++
}

func (m *Mock) IncMatchStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusChanges[status]++
}

func (m *Mock) AddAutoValidated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoValidated += n
}

func (m *Mock) IncLeaderboardComputed(scope string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaderboards[scope]++
}

func (m *Mock) IncEventsPublished(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event]++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesSubmitted returns the number of times IncMatchesSubmitted was called.
func (m *Mock) MatchesSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesSubmitted
}

// StatusChanges returns how often IncMatchStatus was called with status.
func (m *Mock) StatusChanges(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusChanges[status]
}

func (m *Mock) AutoValidated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.autoValidated
}

func (m *Mock) LeaderboardsComputed(scope string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leaderboards[scope]
}

func (m *Mock) EventsPublished(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[event]
}

// ProcessingDurations returns the observed durations.
func (m *Mock) ProcessingDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.processingDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

var _ MetricsStore = (*MockStore)(nil)

// MockStore keeps persisted counters in memory.
type MockStore struct {
	mu       sync.Mutex
	counters map[string]int
	GetAllFn func() (map[string]int, error)
}

func NewMockStore() *MockStore {
	return &MockStore{counters: make(map[string]int)}
}

func (m *MockStore) Increment(key string) {
	m.Add(key, 1)
}

func (m *MockStore) Add(key string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key] += n
}

func (m *MockStore) GetAll() (map[string]int, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out, nil
}
