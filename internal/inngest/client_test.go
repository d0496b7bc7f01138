package inngest

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStandings struct {
	summaries map[string]stats.SeasonSummary
}

func (f fakeStandings) SeasonSummary(_ context.Context, id string) (stats.SeasonSummary, error) {
	s, ok := f.summaries[id]
	if !ok {
		return stats.SeasonSummary{}, apperr.ErrNotFound
	}
	return s, nil
}

func TestSeasonClosedData(t *testing.T) {
	d := seasonClosedData(map[string]any{"season_id": "s1", "dry_run": true})
	assert.Equal(t, SeasonClosedData{SeasonID: "s1", DryRun: true}, d)

	assert.Empty(t, seasonClosedData(map[string]any{"season_id": 42}).SeasonID)
}

func TestSeasonClosedSteps(t *testing.T) {
	n := notifier.NewMock()
	c := &client{
		standings: fakeStandings{summaries: map[string]stats.SeasonSummary{
			"s1": {Season: stats.Season{ID: "s1", Name: "Spring"}, TotalMatches: 7},
		}},
		notifier: n,
	}
	ctx := context.Background()

	summary, err := c.buildSummary(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 7, summary.TotalMatches)
	require.NoError(t, c.notify(summary, true))
	require.Len(t, n.SendSeasonSummaryCalls, 1)
	assert.Equal(t, "Spring", n.SendSeasonSummaryCalls[0].Season.Name)

	_, err = c.buildSummary(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestNotify_PropagatesErrors(t *testing.T) {
	n := notifier.NewMock()
	n.SendSeasonSummaryFunc = func(stats.SeasonSummary, bool) error { return errors.New("slack down") }
	c := &client{notifier: n}

	assert.Error(t, c.notify(stats.SeasonSummary{}, false))
}
