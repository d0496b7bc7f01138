package club

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/mus-league/internal/stats"
)

// store handles all database operations for players.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ProfileStatus is the registration state of an account.
type ProfileStatus string

const (
	StatusPending  ProfileStatus = "pending"
	StatusApproved ProfileStatus = "approved"
	StatusRejected ProfileStatus = "rejected"
)

// Profile is a registered account. Approved profiles are the permanent players.
type Profile struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email,omitempty"`
	Status         ProfileStatus `json:"status"`
	IsAdmin        bool          `json:"is_admin"`
	IsActivePlayer bool          `json:"is_active_player"`
	CanLogin       bool          `json:"can_login"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (p Profile) AsPlayer() stats.Player {
	return stats.Permanent(p.ID, p.Name)
}

// SeasonPlayer is a guest who played in a season without an account.
type SeasonPlayer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SeasonID  string    `json:"season_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (p SeasonPlayer) AsPlayer() stats.Player {
	return stats.Temporary(p.ID, p.Name, p.SeasonID)
}

// RegisterInput is the payload for a new account.
type RegisterInput struct {
	Name  string `json:"name" validate:"required,max=60"`
	Email string `json:"email" validate:"omitempty,email"`
}

// SeasonPlayerInput is the payload for a new guest.
type SeasonPlayerInput struct {
	Name     string `json:"name" validate:"required,max=60"`
	SeasonID string `json:"season_id" validate:"required"`
}

// SearchLimit caps guest search results.
const SearchLimit = 5
