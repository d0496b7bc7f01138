package processor

import (
	"time"

	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/inngest"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/mauv0809/mus-league/internal/pubsub"
	"github.com/mauv0809/mus-league/internal/season"
)

// DefaultAutoValidateAfter is how long a pending match waits for disputes.
const DefaultAutoValidateAfter = 24 * time.Hour

// Persisted counter keys.
const (
	CounterAutoValidateRuns     = "auto_validate_runs"
	CounterMatchesAutoValidated = "matches_auto_validated"
	CounterSeasonsClosed        = "seasons_closed"
)

// Processor drives the background side of the match lifecycle: expiring
// pending matches and announcing state changes.
type Processor struct {
	matches   Matches
	players   club.ClubStore
	seasons   season.SeasonStore
	standings Standings
	notifier  Notifier
	pubsub    pubsub.PubSubClient
	workflows inngest.InngestClient
	metrics   metrics.Metrics
	counters  metrics.MetricsStore
	window    time.Duration
	now       func() time.Time
}

// Deps are the collaborators of a Processor. Workflows may be nil.
type Deps struct {
	Matches   Matches
	Players   club.ClubStore
	Seasons   season.SeasonStore
	Standings Standings
	Notifier  Notifier
	PubSub    pubsub.PubSubClient
	Workflows inngest.InngestClient
	Metrics   metrics.Metrics
	Counters  metrics.MetricsStore
	// AutoValidateAfter defaults to DefaultAutoValidateAfter.
	AutoValidateAfter time.Duration
}
