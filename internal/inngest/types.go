package inngest

import (
	"context"

	"github.com/inngest/inngestgo"
	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/stats"
)

// Event names.
const (
	EventSeasonClosed = "mus/season.closed"
)

// Standings builds season summaries for the workflows.
type Standings interface {
	SeasonSummary(ctx context.Context, seasonID string) (stats.SeasonSummary, error)
}

type client struct {
	inngestClient inngestgo.Client
	standings     Standings
	notifier      notifier.Notifier
}

// SeasonClosedData is the payload of EventSeasonClosed.
type SeasonClosedData struct {
	SeasonID string `json:"season_id"`
	DryRun   bool   `json:"dry_run"`
}
