package handlers

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/match"
	"github.com/mauv0809/mus-league/internal/processor"
	"github.com/mauv0809/mus-league/internal/stats"
)

// Points given to the winning team when the request leaves both scores out.
const defaultWinningScore = 3

type matchRequest struct {
	Slots      [4]stats.SlotRef `json:"slots"`
	WinnerTeam int              `json:"winner_team"`
	Team1Score *int             `json:"team1_score"`
	Team2Score *int             `json:"team2_score"`
	PlayedAt   *time.Time       `json:"played_at"`
}

// toNewMatch applies request defaults: team 1 wins, the winner scores 3 and
// the loser 0, and the game was played now.
func (req matchRequest) toNewMatch() match.NewMatch {
	in := match.NewMatch{Slots: req.Slots, WinnerTeam: req.WinnerTeam}
	if in.WinnerTeam == 0 {
		in.WinnerTeam = 1
	}
	switch {
	case req.Team1Score == nil && req.Team2Score == nil:
		if in.WinnerTeam == 1 {
			in.Team1Score = defaultWinningScore
		} else {
			in.Team2Score = defaultWinningScore
		}
	default:
		if req.Team1Score != nil {
			in.Team1Score = *req.Team1Score
		}
		if req.Team2Score != nil {
			in.Team2Score = *req.Team2Score
		}
	}
	if req.PlayedAt != nil {
		in.PlayedAt = *req.PlayedAt
	}
	return in
}

func decodeMatch(r *http.Request) (match.NewMatch, error) {
	var req matchRequest
	if err := decodeJSON(r, &req); err != nil {
		return match.NewMatch{}, err
	}
	return req.toNewMatch(), nil
}

func requireActor(w http.ResponseWriter, r *http.Request) (match.Actor, bool) {
	actor, ok := ActorFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return match.Actor{}, false
	}
	return actor, true
}

// announce hands a status change to the processor. Delivery problems never
// fail the request that caused them.
func announce(r *http.Request, proc *processor.Processor, m match.Match) {
	dryRun := IsDryRunFromContext(r)
	var err error
	switch m.Status {
	case stats.StatusPending:
		err = proc.MatchSubmitted(r.Context(), m.ID, dryRun)
	case stats.StatusValidated:
		err = proc.MatchValidated(r.Context(), m.ID, dryRun)
	default:
		return
	}
	if err != nil {
		log.Error("Failed to announce match", "error", err, "match_id", m.ID, "status", m.Status)
	}
}

// ListMatchesHandler lists matches, filtered by ?status=, ?season=, ?player= and ?limit=.
func ListMatchesHandler(matches *match.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := match.Filter{
			Status:   stats.Status(q.Get("status")),
			SeasonID: q.Get("season"),
			PlayerID: q.Get("player"),
			Limit:    queryInt(r, "limit"),
		}
		switch f.Status {
		case "", stats.StatusPending, stats.StatusValidated, stats.StatusRejected, stats.StatusCanceled:
		default:
			WriteError(w, apperr.Invalid(apperr.FieldError{Field: "status", Message: "is not a match status"}))
			return
		}
		list, err := matches.List(r.Context(), f)
		if err != nil {
			WriteError(w, err)
			return
		}
		if list == nil {
			list = []match.Match{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetMatchHandler(matches *match.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := matches.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func CreateMatchHandler(matches *match.Service, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		in, err := decodeMatch(r)
		if err != nil {
			WriteError(w, err)
			return
		}
		m, err := matches.Create(r.Context(), actor, in)
		if err != nil {
			WriteError(w, err)
			return
		}
		announce(r, proc, m)
		writeJSON(w, http.StatusCreated, m)
	}
}

func EditMatchHandler(matches *match.Service, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		in, err := decodeMatch(r)
		if err != nil {
			WriteError(w, err)
			return
		}
		m, err := matches.Edit(r.Context(), actor, r.PathValue("id"), in)
		if err != nil {
			WriteError(w, err)
			return
		}
		announce(r, proc, m)
		writeJSON(w, http.StatusOK, m)
	}
}

// ValidateMatchHandler confirms the caller's own participation.
func ValidateMatchHandler(matches *match.Service, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		m, err := matches.ValidateParticipation(r.Context(), actor, r.PathValue("id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		if m.Status == stats.StatusValidated {
			announce(r, proc, m)
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func AdminValidateMatchHandler(matches *match.Service, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		m, err := matches.AdminValidate(r.Context(), actor, r.PathValue("id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		log.Info("Match validated by admin", "match_id", m.ID, "admin", actor.ID)
		announce(r, proc, m)
		writeJSON(w, http.StatusOK, m)
	}
}

func RejectMatchHandler(matches *match.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		m, err := matches.Reject(r.Context(), actor, r.PathValue("id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		log.Info("Match rejected", "match_id", m.ID, "admin", actor.ID)
		writeJSON(w, http.StatusOK, m)
	}
}

func CancelMatchHandler(matches *match.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requireActor(w, r)
		if !ok {
			return
		}
		m, err := matches.Cancel(r.Context(), actor, r.PathValue("id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		log.Info("Match canceled", "match_id", m.ID, "by", actor.ID)
		writeJSON(w, http.StatusOK, m)
	}
}
