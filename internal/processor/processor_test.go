package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/inngest"
	"github.com/mauv0809/mus-league/internal/match"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/pubsub"
	"github.com/mauv0809/mus-league/internal/season"
	"github.com/mauv0809/mus-league/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMatches struct {
	byID       map[string]match.Match
	expired    []string
	expireErr  error
	windowSeen time.Duration
}

func (f *fakeMatches) ExpirePending(_ context.Context, window time.Duration) ([]string, error) {
	f.windowSeen = window
	for _, id := range f.expired {
		m := f.byID[id]
		m.Status = stats.StatusValidated
		f.byID[id] = m
	}
	return f.expired, f.expireErr
}

func (f *fakeMatches) Get(_ context.Context, id string) (match.Match, error) {
	m, ok := f.byID[id]
	if !ok {
		return match.Match{}, errors.New("not found")
	}
	return m, nil
}

func (f *fakeMatches) List(_ context.Context, flt match.Filter) ([]match.Match, error) {
	var out []match.Match
	for _, m := range f.byID {
		if flt.Status == "" || m.Status == flt.Status {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeStandings map[string]stats.SeasonSummary

func (f fakeStandings) SeasonSummary(_ context.Context, id string) (stats.SeasonSummary, error) {
	s, ok := f[id]
	if !ok {
		return stats.SeasonSummary{}, errors.New("no such season")
	}
	return s, nil
}

type harness struct {
	proc      *Processor
	matches   *fakeMatches
	notifier  *notifier.Mock
	pubsub    *pubsub.MockPubSubClient
	workflows *inngest.Mock
	metrics   *metrics.Mock
	counters  *metrics.MockStore
}

func newHarness(online bool) *harness {
	now := time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC)
	slots := [4]stats.SlotRef{{PlayerID: "p1"}, {PlayerID: "p2"}, {PlayerID: "p3"}, {TempPlayerID: "g1"}}
	h := &harness{
		matches: &fakeMatches{byID: map[string]match.Match{
			"old": {
				Match:       stats.Match{ID: "old", Slots: slots, WinnerTeam: 1, Team1Score: 3, Status: stats.StatusPending, SeasonID: "s1"},
				CreatedAt:   now.Add(-48 * time.Hour),
				Validations: []match.Validation{{PlayerID: "p1", Validated: true}, {PlayerID: "p2"}, {PlayerID: "p3"}},
			},
			"new": {
				Match:     stats.Match{ID: "new", Slots: slots, WinnerTeam: 2, Status: stats.StatusPending},
				CreatedAt: now.Add(-time.Hour),
			},
		}},
		notifier:  notifier.NewMock(),
		pubsub:    pubsub.NewMock(),
		workflows: inngest.NewMock(),
		metrics:   metrics.NewMock(),
		counters:  metrics.NewMockStore(),
	}
	h.pubsub.Offline = !online
	h.workflows.Disabled = !online

	players := club.NewMock()
	players.KnownPlayersFunc = func() ([]stats.Player, error) {
		return []stats.Player{
			stats.Permanent("p1", "Ane"),
			stats.Permanent("p2", "Bittor"),
			stats.Permanent("p3", "Caro"),
			stats.Temporary("g1", "Koldo", "s1"),
		}, nil
	}
	seasons := season.NewMock()
	seasons.GetFunc = func(id string) (stats.Season, error) { return stats.Season{ID: id, Name: "Autumn"}, nil }

	h.proc = New(Deps{
		Matches:   h.matches,
		Players:   players,
		Seasons:   seasons,
		Standings: fakeStandings{"s1": {Season: stats.Season{ID: "s1", Name: "Autumn"}, TotalMatches: 4}},
		Notifier:  h.notifier,
		PubSub:    h.pubsub,
		Workflows: h.workflows,
		Metrics:   h.metrics,
		Counters:  h.counters,
	})
	h.proc.now = func() time.Time { return now }
	return h
}

func TestAutoValidate_DryRunOnlyReports(t *testing.T) {
	h := newHarness(true)

	n, err := h.proc.AutoValidate(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the match older than the window")
	assert.Zero(t, h.matches.windowSeen, "nothing is expired in dry-run mode")
	assert.Empty(t, h.pubsub.Calls())
	assert.Len(t, h.metrics.ProcessingDurations(), 1)
}

func TestAutoValidate_PublishesWhenOnline(t *testing.T) {
	h := newHarness(true)
	h.matches.expired = []string{"old"}

	n, err := h.proc.AutoValidate(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, DefaultAutoValidateAfter, h.matches.windowSeen)
	calls := h.pubsub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, pubsub.EventMatchValidated, calls[0].Topic)
	assert.Equal(t, pubsub.MatchEvent{MatchID: "old", AutoValidated: true}, calls[0].Data)
	assert.Empty(t, h.notifier.ValidatedCalls(), "the consumer notifies")

	counters, err := h.counters.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 1, counters[CounterAutoValidateRuns])
	assert.Equal(t, 1, counters[CounterMatchesAutoValidated])
}

func TestAutoValidate_NotifiesInlineWhenOffline(t *testing.T) {
	h := newHarness(false)
	h.matches.expired = []string{"old"}

	_, err := h.proc.AutoValidate(context.Background(), false)
	require.NoError(t, err)

	assert.Empty(t, h.pubsub.Calls())
	calls := h.notifier.ValidatedCalls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].AutoValidated)
	assert.Equal(t, [2]string{"Ane", "Bittor"}, calls[0].Team1)
	assert.Equal(t, [2]string{"Caro", "Koldo"}, calls[0].Team2)
	assert.Equal(t, "Autumn", calls[0].SeasonName)
}

func TestAutoValidate_FallsBackWhenPublishFails(t *testing.T) {
	h := newHarness(true)
	h.matches.expired = []string{"old"}
	h.pubsub.SendMessageFunc = func(pubsub.EventType, any) error { return errors.New("unavailable") }

	_, err := h.proc.AutoValidate(context.Background(), false)
	require.NoError(t, err)

	assert.Len(t, h.notifier.ValidatedCalls(), 1)
}

func TestAutoValidate_Error(t *testing.T) {
	h := newHarness(true)
	h.matches.expireErr = errors.New("db down")

	_, err := h.proc.AutoValidate(context.Background(), false)

	assert.Error(t, err)
}

func TestOnMatchSubmitted(t *testing.T) {
	h := newHarness(false)

	require.NoError(t, h.proc.MatchSubmitted(context.Background(), "old", false))

	require.Len(t, h.notifier.SendMatchSubmittedCalls, 1)
	assert.Equal(t, []string{"Bittor", "Caro"}, h.notifier.SendMatchSubmittedCalls[0].Pending)
}

func TestOnMatchValidated_IgnoresUnvalidated(t *testing.T) {
	h := newHarness(false)

	require.NoError(t, h.proc.OnMatchValidated(context.Background(), "new", false, false))
	assert.Empty(t, h.notifier.ValidatedCalls())

	assert.Error(t, h.proc.OnMatchValidated(context.Background(), "missing", false, false))
}

func TestSeasonClosed_PrefersWorkflow(t *testing.T) {
	h := newHarness(true)

	require.NoError(t, h.proc.SeasonClosed(context.Background(), "s1", false))

	assert.Equal(t, []string{"s1"}, h.workflows.SeasonClosedCalls)
	assert.Empty(t, h.pubsub.Calls())
	assert.Empty(t, h.notifier.SendSeasonSummaryCalls)
}

func TestSeasonClosed_WorkflowFailureUsesPubSub(t *testing.T) {
	h := newHarness(true)
	h.workflows.SendSeasonClosedFunc = func(string, bool) error { return errors.New("inngest down") }

	require.NoError(t, h.proc.SeasonClosed(context.Background(), "s1", false))

	calls := h.pubsub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, pubsub.EventSeasonClosed, calls[0].Topic)
}

func TestSeasonClosed_InlineWhenOffline(t *testing.T) {
	h := newHarness(false)

	require.NoError(t, h.proc.SeasonClosed(context.Background(), "s1", false))

	require.Len(t, h.notifier.SendSeasonSummaryCalls, 1)
	assert.Equal(t, 4, h.notifier.SendSeasonSummaryCalls[0].TotalMatches)
	assert.Error(t, h.proc.OnSeasonClosed(context.Background(), "missing", false))
}

func TestSeasonClosed_DryRunStaysLocal(t *testing.T) {
	h := newHarness(true)

	require.NoError(t, h.proc.SeasonClosed(context.Background(), "s1", true))

	assert.Empty(t, h.workflows.SeasonClosedCalls)
	assert.Empty(t, h.pubsub.Calls())
	assert.Len(t, h.notifier.SendSeasonSummaryCalls, 1)
}
