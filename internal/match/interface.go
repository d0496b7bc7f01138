package match

import (
	"context"
	"time"

	"github.com/mauv0809/mus-league/internal/stats"
)

// MatchStore persists matches and their participant validations.
type MatchStore interface {
	Insert(ctx context.Context, m Match) error
	Get(ctx context.Context, id string) (Match, error)
	List(ctx context.Context, f Filter) ([]Match, error)
	ListValidated(ctx context.Context) ([]stats.Match, error)
	// Replace overwrites the result of a match that is still editable and
	// resets it to pending with fresh validations.
	Replace(ctx context.Context, m Match) error
	// Transition moves a match between statuses in a single guarded update.
	// A match that is no longer in the from status yields a conflict.
	Transition(ctx context.Context, id string, from, to stats.Status) error
	// MarkValidated confirms a participant and reports whether every
	// participant has now confirmed.
	MarkValidated(ctx context.Context, matchID, playerID string) (bool, error)
	PendingBefore(ctx context.Context, cutoff time.Time) ([]Match, error)
}
