package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/leaderboard"
	"github.com/mauv0809/mus-league/internal/processor"
	"github.com/mauv0809/mus-league/internal/season"
	"github.com/mauv0809/mus-league/internal/stats"
)

func ListSeasonsHandler(seasons season.SeasonStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := seasons.List(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		if list == nil {
			list = []stats.Season{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// parseStartDate accepts a plain date or an RFC 3339 timestamp. Empty means now.
func parseStartDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperr.Invalid(apperr.FieldError{Field: "start_date", Message: "must be YYYY-MM-DD or RFC 3339"})
	}
	return t, nil
}

// CreateSeasonHandler opens a new season. The season it replaces is announced
// as closed.
func CreateSeasonHandler(seasons season.SeasonStore, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in season.CreateInput
		if err := decodeJSON(r, &in); err != nil {
			WriteError(w, err)
			return
		}
		start, err := parseStartDate(in.StartDate)
		if err != nil {
			WriteError(w, err)
			return
		}
		previous, err := seasons.Active(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		created, err := seasons.Create(r.Context(), in.Name, start)
		if err != nil {
			WriteError(w, err)
			return
		}
		if previous != nil {
			if err := proc.SeasonClosed(r.Context(), previous.ID, IsDryRunFromContext(r)); err != nil {
				log.Error("Failed to announce closed season", "error", err, "season_id", previous.ID)
			}
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func CloseSeasonHandler(seasons season.SeasonStore, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		closed, err := seasons.Close(r.Context(), r.PathValue("id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		if err := proc.SeasonClosed(r.Context(), closed.ID, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce closed season", "error", err, "season_id", closed.ID)
		}
		writeJSON(w, http.StatusOK, closed)
	}
}

// SeasonHistoryHandler returns the standings of every season, newest first.
func SeasonHistoryHandler(boards *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := boards.SeasonHistory(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		if history == nil {
			history = []stats.SeasonSummary{}
		}
		writeJSON(w, http.StatusOK, history)
	}
}

func SeasonSummaryHandler(boards *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := boards.SeasonSummary(r.Context(), r.PathValue("id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
