package match

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/mus-league/internal/stats"
)

// store handles match persistence.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Validation records whether a registered participant confirmed the result.
type Validation struct {
	PlayerID    string     `json:"player_id"`
	Validated   bool       `json:"validated"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
}

// Match is a recorded game with its bookkeeping.
type Match struct {
	stats.Match
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Validations []Validation `json:"validations,omitempty"`
}

// Involves reports whether the registered player sits in any slot.
func (m Match) Involves(playerID string) bool {
	for _, ref := range m.Slots {
		if ref.PlayerID != "" && ref.PlayerID == playerID {
			return true
		}
	}
	return false
}

// PendingValidations lists participants that have not confirmed yet.
func (m Match) PendingValidations() []string {
	var out []string
	for _, v := range m.Validations {
		if !v.Validated {
			out = append(out, v.PlayerID)
		}
	}
	return out
}

// Score limits for a single game.
const (
	MinScore = 0
	MaxScore = 40
)

// NewMatch is the payload to record or edit a match.
type NewMatch struct {
	Slots      [4]stats.SlotRef `json:"slots"`
	WinnerTeam int              `json:"winner_team" validate:"oneof=1 2"`
	Team1Score int              `json:"team1_score" validate:"gte=0,lte=40"`
	Team2Score int              `json:"team2_score" validate:"gte=0,lte=40"`
	PlayedAt   time.Time        `json:"played_at"`
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Status   stats.Status
	SeasonID string
	PlayerID string
	Limit    int
}

// Actor is the account performing an operation.
type Actor struct {
	ID      string
	IsAdmin bool
}
