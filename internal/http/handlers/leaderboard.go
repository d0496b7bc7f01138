package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/leaderboard"
	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/stats"
)

func selectorFrom(r *http.Request) stats.Selector {
	return stats.ParseSelector(r.URL.Query().Get("season"))
}

// LeaderboardHandler serves the ranked standings for ?season= (all, current or a season id).
func LeaderboardHandler(boards *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := boards.Leaderboard(r.Context(), selectorFrom(r))
		if err != nil {
			WriteError(w, err)
			return
		}
		if board.Stats == nil {
			board.Stats = []stats.PlayerStats{}
		}
		writeJSON(w, http.StatusOK, board)
	}
}

// ShareLeaderboardHandler returns the standings as a plain-text chat message.
func ShareLeaderboardHandler(boards *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := boards.ShareText(r.Context(), selectorFrom(r))
		if err != nil {
			WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, text)
	}
}

// PostLeaderboardHandler posts the standings to the league channel.
func PostLeaderboardHandler(boards *leaderboard.Service, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := boards.Leaderboard(r.Context(), selectorFrom(r))
		if err != nil {
			WriteError(w, err)
			return
		}
		if err := notifier.SendLeaderboard(leaderboard.Title(board), board.Stats, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to post leaderboard", "error", err)
			http.Error(w, "Failed to post leaderboard", http.StatusBadGateway)
			return
		}
		w.Write([]byte("OK"))
	}
}

// PlayerCardHandler serves one player's standing. The kind path segment is
// "permanent" or "temporary".
func PlayerCardHandler(boards *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := stats.PlayerKind(r.PathValue("kind"))
		if kind != stats.KindPermanent && kind != stats.KindTemporary {
			WriteError(w, apperr.Invalid(apperr.FieldError{Field: "kind", Message: "must be permanent or temporary"}))
			return
		}
		card, err := boards.PlayerCard(r.Context(), stats.Identity{Kind: kind, ID: r.PathValue("id")}, selectorFrom(r))
		if err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, card)
	}
}
