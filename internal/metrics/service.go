package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mus_matches_submitted_total",
			Help: "The total number of matches recorded.",
		}),
		MatchStatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mus_match_status_changes_total",
			Help: "Match lifecycle transitions by resulting status.",
		}, []string{"status"}),
		AutoValidated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mus_matches_auto_validated_total",
			Help: "Pending matches validated after the dispute window expired.",
		}),
		LeaderboardsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mus_leaderboards_computed_total",
			Help: "Leaderboard computations by season scope.",
		}, []string{"scope"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mus_events_published_total",
			Help: "Domain events published by type.",
		}, []string{"event"}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mus_background_job_duration_seconds",
			Help:    "The duration of background lifecycle jobs.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mus_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mus_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mus_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesSubmitted,
		s.MatchStatusChanges,
		s.AutoValidated,
		s.LeaderboardsComputed,
		s.EventsPublished,
		s.ProcessingDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesSubmitted() {
	s.MatchesSubmitted.Inc()
}

func (s *Service) IncMatchStatus(status string) {
	s.MatchStatusChanges.WithLabelValues(status).Inc()
}

func (s *Service) AddAutoValidated(n int) {
	s.AutoValidated.Add(float64(n))
}

func (s *Service) IncLeaderboardComputed(scope string) {
	s.LeaderboardsComputed.WithLabelValues(scope).Inc()
}

func (s *Service) IncEventsPublished(event string) {
	s.EventsPublished.WithLabelValues(event).Inc()
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
