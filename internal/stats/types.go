package stats

import "time"

// PlayerKind discriminates the two player variants.
type PlayerKind string

const (
	KindPermanent PlayerKind = "permanent"
	KindTemporary PlayerKind = "temporary"
)

// Identity is the key a player is tracked under during aggregation.
// Permanent and temporary ids live in separate namespaces.
type Identity struct {
	Kind PlayerKind
	ID   string
}

// Player is either a registered (permanent) player or a season-scoped guest.
// SeasonID is only set for temporary players.
type Player struct {
	Kind     PlayerKind `json:"kind"`
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	SeasonID string     `json:"season_id,omitempty"`
}

// Permanent builds a registered player.
func Permanent(id, name string) Player {
	return Player{Kind: KindPermanent, ID: id, Name: name}
}

// Temporary builds a guest player bound to a season.
func Temporary(id, name, seasonID string) Player {
	return Player{Kind: KindTemporary, ID: id, Name: name, SeasonID: seasonID}
}

func (p Player) Identity() Identity {
	return Identity{Kind: p.Kind, ID: p.ID}
}

// Ref returns the match slot reference pointing at this player.
func (p Player) Ref() SlotRef {
	if p.Kind == KindTemporary {
		return SlotRef{TempPlayerID: p.ID}
	}
	return SlotRef{PlayerID: p.ID}
}

// SlotRef is one of the four seats of a match. At most one of the ids is set;
// both empty means the seat is unfilled.
type SlotRef struct {
	PlayerID     string `json:"player_id,omitempty"`
	TempPlayerID string `json:"temp_player_id,omitempty"`
}

// Empty reports whether the seat references nobody.
func (r SlotRef) Empty() bool {
	return r.PlayerID == "" && r.TempPlayerID == ""
}

// Identity resolves the seat. A permanent reference wins if both are set.
func (r SlotRef) Identity() (Identity, bool) {
	switch {
	case r.PlayerID != "":
		return Identity{Kind: KindPermanent, ID: r.PlayerID}, true
	case r.TempPlayerID != "":
		return Identity{Kind: KindTemporary, ID: r.TempPlayerID}, true
	default:
		return Identity{}, false
	}
}

// Status is the lifecycle state of a match.
type Status string

const (
	StatusPending   Status = "pending"
	StatusValidated Status = "validated"
	StatusRejected  Status = "rejected"
	StatusCanceled  Status = "canceled"
)

// Match is the result record the aggregator reads. Slots 0 and 1 form team 1,
// slots 2 and 3 form team 2.
type Match struct {
	ID         string     `json:"id"`
	Slots      [4]SlotRef `json:"slots"`
	WinnerTeam int        `json:"winner_team"`
	Team1Score int        `json:"team1_score"`
	Team2Score int        `json:"team2_score"`
	Status     Status     `json:"status"`
	SeasonID   string     `json:"season_id,omitempty"`
	PlayedAt   time.Time  `json:"played_at"`
}

// TeamOf returns the team (1 or 2) a zero-based slot index belongs to.
func TeamOf(slot int) int {
	if slot < 2 {
		return 1
	}
	return 2
}

// Participants returns the resolved identities of the filled slots, keyed by slot index.
func (m Match) Participants() map[int]Identity {
	out := make(map[int]Identity, len(m.Slots))
	for i, ref := range m.Slots {
		if id, ok := ref.Identity(); ok {
			out[i] = id
		}
	}
	return out
}

// Season groups matches and temporary players in time.
type Season struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

// PlayerStats is the derived per-player view. It is never persisted.
type PlayerStats struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Kind         PlayerKind `json:"kind"`
	TotalMatches int        `json:"total_matches"`
	Wins         int        `json:"wins"`
	Losses       int        `json:"losses"`
	WinRate      float64    `json:"win_rate"`
}

// Trend buckets a win rate for display.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendFlat Trend = "flat"
	TrendDown Trend = "down"
)

func (s PlayerStats) Trend() Trend {
	switch {
	case s.TotalMatches == 0:
		return TrendFlat
	case s.WinRate >= 60:
		return TrendUp
	case s.WinRate <= 40:
		return TrendDown
	default:
		return TrendFlat
	}
}
