package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	MatchesSubmitted     prometheus.Counter
	MatchStatusChanges   *prometheus.CounterVec
	AutoValidated        prometheus.Counter
	LeaderboardsComputed *prometheus.CounterVec
	EventsPublished      *prometheus.CounterVec
	ProcessingDuration   prometheus.Histogram
	SlackNotifSent       prometheus.Counter
	SlackNotifFailed     prometheus.Counter
	StartupTimeSeconds   prometheus.Gauge
}
