package club

import (
	"context"

	"github.com/mauv0809/mus-league/internal/stats"
)

// ClubStore is the player directory: registered profiles and season guests.
type ClubStore interface {
	Register(ctx context.Context, in RegisterInput) (Profile, error)
	GetProfile(ctx context.Context, id string) (Profile, error)
	ListProfiles(ctx context.Context, status ProfileStatus) ([]Profile, error)
	ListSelectablePlayers(ctx context.Context) ([]Profile, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	SetAdmin(ctx context.Context, actorID, id string, admin bool) error
	SetActivePlayer(ctx context.Context, actorID, id string, active bool) error
	SetCanLogin(ctx context.Context, actorID, id string, canLogin bool) error
	Rename(ctx context.Context, id, name string) error
	DeleteUser(ctx context.Context, actorID, id, superAdminEmail string) (SeasonPlayer, error)

	CreateSeasonPlayer(ctx context.Context, in SeasonPlayerInput) (SeasonPlayer, error)
	GetSeasonPlayer(ctx context.Context, id string) (SeasonPlayer, error)
	ListSeasonPlayers(ctx context.Context, seasonID string) ([]SeasonPlayer, error)
	SearchSeasonPlayers(ctx context.Context, query string) ([]SeasonPlayer, error)
	ReactivateSeasonPlayer(ctx context.Context, id, seasonID string) (SeasonPlayer, error)
	SetSeasonPlayerActive(ctx context.Context, id string, active bool) error

	// KnownPlayers is every identity the aggregator may count: approved
	// profiles followed by all season guests.
	KnownPlayers(ctx context.Context) ([]stats.Player, error)
}
