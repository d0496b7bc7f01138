package http

import (
	"database/sql"
	"net/http"

	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/config"
	"github.com/mauv0809/mus-league/internal/inngest"
	"github.com/mauv0809/mus-league/internal/leaderboard"
	"github.com/mauv0809/mus-league/internal/match"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/processor"
	"github.com/mauv0809/mus-league/internal/pubsub"
	"github.com/mauv0809/mus-league/internal/season"
)

type Server struct {
	DB             *sql.DB
	Players        club.ClubStore
	Seasons        season.SeasonStore
	Matches        *match.Service
	Leaderboard    *leaderboard.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	workflows      inngest.InngestClient
}

// Deps groups what NewServer wires into the routes.
type Deps struct {
	DB             *sql.DB
	Players        club.ClubStore
	Seasons        season.SeasonStore
	Matches        *match.Service
	Leaderboard    *leaderboard.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	PubSub         pubsub.PubSubClient
	// Workflows may be nil when Inngest is not configured.
	Workflows inngest.InngestClient
}
