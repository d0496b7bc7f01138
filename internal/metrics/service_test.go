package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestService_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.IncMatchesSubmitted()
	svc.IncMatchStatus("validated")
	svc.IncMatchStatus("validated")
	svc.IncMatchStatus("rejected")
	svc.AddAutoValidated(3)
	svc.IncLeaderboardComputed("current")
	svc.IncEventsPublished("match-validated")
	svc.IncSlackNotifSent()

	body := scrape(t, reg)

	assert.Contains(t, body, "mus_matches_submitted_total 1")
	assert.Contains(t, body, `mus_match_status_changes_total{status="validated"} 2`)
	assert.Contains(t, body, `mus_match_status_changes_total{status="rejected"} 1`)
	assert.Contains(t, body, "mus_matches_auto_validated_total 3")
	assert.Contains(t, body, `mus_leaderboards_computed_total{scope="current"} 1`)
	assert.Contains(t, body, `mus_events_published_total{event="match-validated"} 1`)
	assert.Contains(t, body, "mus_slack_notifications_sent_total 1")
}

func TestService_StartupAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.SetStartupTime(1.5)
	svc.ObserveProcessingDuration(0.2)

	body := scrape(t, reg)

	assert.Contains(t, body, "mus_startup_duration_seconds 1.5")
	assert.Contains(t, body, "mus_background_job_duration_seconds_count 1")
}
