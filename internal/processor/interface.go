package processor

import (
	"context"
	"time"

	"github.com/mauv0809/mus-league/internal/match"
	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/stats"
)

// Matches is the part of the match service the processor drives.
type Matches interface {
	ExpirePending(ctx context.Context, window time.Duration) ([]string, error)
	Get(ctx context.Context, id string) (match.Match, error)
	List(ctx context.Context, f match.Filter) ([]match.Match, error)
}

// Standings builds season summaries.
type Standings interface {
	SeasonSummary(ctx context.Context, seasonID string) (stats.SeasonSummary, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
