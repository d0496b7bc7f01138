package handlers

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/season"
)

// ListPlayersHandler lists the players that can be picked for a match:
// approved active profiles and the active guests of the current season.
func ListPlayersHandler(players club.ClubStore, seasons season.SeasonStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := players.ListSelectablePlayers(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		if profiles == nil {
			profiles = []club.Profile{}
		}
		resp := struct {
			Players       []club.Profile      `json:"players"`
			SeasonPlayers []club.SeasonPlayer `json:"season_players"`
		}{Players: profiles, SeasonPlayers: []club.SeasonPlayer{}}

		active, err := seasons.Active(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		if active != nil {
			guests, err := players.ListSeasonPlayers(r.Context(), active.ID)
			if err != nil {
				WriteError(w, err)
				return
			}
			for _, g := range guests {
				if g.IsActive {
					resp.SeasonPlayers = append(resp.SeasonPlayers, g)
				}
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func RegisterHandler(players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.RegisterInput
		if err := decodeJSON(r, &in); err != nil {
			WriteError(w, err)
			return
		}
		p, err := players.Register(r.Context(), in)
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func GetProfileHandler(players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := players.GetProfile(r.Context(), r.PathValue("id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// ListUsersHandler lists accounts for moderation, optionally by status.
func ListUsersHandler(players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := club.ProfileStatus(r.URL.Query().Get("status"))
		switch status {
		case "", club.StatusPending, club.StatusApproved, club.StatusRejected:
		default:
			WriteError(w, apperr.Invalid(apperr.FieldError{Field: "status", Message: "must be one of pending approved rejected"}))
			return
		}
		profiles, err := players.ListProfiles(r.Context(), status)
		if err != nil {
			WriteError(w, err)
			return
		}
		if profiles == nil {
			profiles = []club.Profile{}
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

func ApproveUserHandler(players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := players.Approve(r.Context(), id); err != nil {
			WriteError(w, err)
			return
		}
		log.Info("Approved user", "id", id)
		respondWithProfile(w, r, players, id)
	}
}

func RejectUserHandler(players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := players.Reject(r.Context(), id); err != nil {
			WriteError(w, err)
			return
		}
		log.Info("Rejected user", "id", id)
		respondWithProfile(w, r, players, id)
	}
}

type userFlags struct {
	IsAdmin        *bool `json:"is_admin"`
	IsActivePlayer *bool `json:"is_active_player"`
	CanLogin       *bool `json:"can_login"`
}

// UpdateUserFlagsHandler toggles admin, suspension and login flags. Only the
// flags present in the body are changed.
func UpdateUserFlagsHandler(players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r)
		id := r.PathValue("id")

		var flags userFlags
		if err := decodeJSON(r, &flags); err != nil {
			WriteError(w, err)
			return
		}
		if flags.IsAdmin != nil {
			if err := players.SetAdmin(r.Context(), actor.ID, id, *flags.IsAdmin); err != nil {
				WriteError(w, err)
				return
			}
		}
		if flags.IsActivePlayer != nil {
			if err := players.SetActivePlayer(r.Context(), actor.ID, id, *flags.IsActivePlayer); err != nil {
				WriteError(w, err)
				return
			}
		}
		if flags.CanLogin != nil {
			if err := players.SetCanLogin(r.Context(), actor.ID, id, *flags.CanLogin); err != nil {
				WriteError(w, err)
				return
			}
		}
		respondWithProfile(w, r, players, id)
	}
}

func RenameUserHandler(players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var body struct {
			Name string `json:"name"`
		}
		if err := decodeJSON(r, &body); err != nil {
			WriteError(w, err)
			return
		}
		if err := players.Rename(r.Context(), id, body.Name); err != nil {
			WriteError(w, err)
			return
		}
		respondWithProfile(w, r, players, id)
	}
}

// DeleteUserHandler retires an account. The response is the guest that now
// holds the account's match history.
func DeleteUserHandler(players club.ClubStore, superAdminEmail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r)
		guest, err := players.DeleteUser(r.Context(), actor.ID, r.PathValue("id"), superAdminEmail)
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, guest)
	}
}

func respondWithProfile(w http.ResponseWriter, r *http.Request, players club.ClubStore, id string) {
	p, err := players.GetProfile(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListSeasonPlayersHandler lists guests of a season (?season=), or searches
// every guest by name when ?q= is given.
func ListSeasonPlayersHandler(players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			guests []club.SeasonPlayer
			err    error
		)
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			guests, err = players.SearchSeasonPlayers(r.Context(), q)
		} else {
			guests, err = players.ListSeasonPlayers(r.Context(), r.URL.Query().Get("season"))
		}
		if err != nil {
			WriteError(w, err)
			return
		}
		if guests == nil {
			guests = []club.SeasonPlayer{}
		}
		writeJSON(w, http.StatusOK, guests)
	}
}

// CreateSeasonPlayerHandler adds a guest. Without season_id the guest joins
// the active season.
func CreateSeasonPlayerHandler(players club.ClubStore, seasons season.SeasonStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.SeasonPlayerInput
		if err := decodeJSON(r, &in); err != nil {
			WriteError(w, err)
			return
		}
		if in.SeasonID == "" {
			id, err := activeSeasonID(r, seasons)
			if err != nil {
				WriteError(w, err)
				return
			}
			in.SeasonID = id
		}
		p, err := players.CreateSeasonPlayer(r.Context(), in)
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func ReactivateSeasonPlayerHandler(players club.ClubStore, seasons season.SeasonStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SeasonID string `json:"season_id"`
		}
		if err := decodeJSON(r, &body); err != nil {
			WriteError(w, err)
			return
		}
		if body.SeasonID == "" {
			id, err := activeSeasonID(r, seasons)
			if err != nil {
				WriteError(w, err)
				return
			}
			body.SeasonID = id
		}
		p, err := players.ReactivateSeasonPlayer(r.Context(), r.PathValue("id"), body.SeasonID)
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func SetSeasonPlayerActiveHandler(players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var body struct {
			Active *bool `json:"active"`
		}
		if err := decodeJSON(r, &body); err != nil {
			WriteError(w, err)
			return
		}
		if body.Active == nil {
			WriteError(w, apperr.Invalid(apperr.FieldError{Field: "active", Message: "is required"}))
			return
		}
		if err := players.SetSeasonPlayerActive(r.Context(), id, *body.Active); err != nil {
			WriteError(w, err)
			return
		}
		p, err := players.GetSeasonPlayer(r.Context(), id)
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func activeSeasonID(r *http.Request, seasons season.SeasonStore) (string, error) {
	active, err := seasons.Active(r.Context())
	if err != nil {
		return "", err
	}
	if active == nil {
		return "", apperr.ErrNoActiveSeason
	}
	return active.ID, nil
}
