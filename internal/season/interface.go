package season

import (
	"context"
	"time"

	"github.com/mauv0809/mus-league/internal/stats"
)

// SeasonStore manages seasons. At most one season is active at a time.
type SeasonStore interface {
	Create(ctx context.Context, name string, start time.Time) (stats.Season, error)
	Close(ctx context.Context, id string) (stats.Season, error)
	Get(ctx context.Context, id string) (stats.Season, error)
	Active(ctx context.Context) (*stats.Season, error)
	List(ctx context.Context) ([]stats.Season, error)
}
