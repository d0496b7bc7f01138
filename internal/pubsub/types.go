package pubsub

import (
	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/mus-league/internal/metrics"
)

type client struct {
	client   *pubsub.Client
	metrics  metrics.Metrics
	teardown func()
}

// noop drops every message. It stands in when no GCP project is configured.
type noop struct{}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventMatchSubmitted EventType = "match-submitted"
	EventMatchValidated EventType = "match-validated"
	EventSeasonClosed   EventType = "season-closed"
)

// MatchEvent is the payload of match events.
type MatchEvent struct {
	MatchID       string `msgpack:"match_id"`
	AutoValidated bool   `msgpack:"auto_validated"`
	DryRun        bool   `msgpack:"dry_run"`
}

// SeasonEvent is the payload of season events.
type SeasonEvent struct {
	SeasonID string `msgpack:"season_id"`
	DryRun   bool   `msgpack:"dry_run"`
}
