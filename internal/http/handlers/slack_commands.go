package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/leaderboard"
	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/stats"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

func respondWithFormatted(w http.ResponseWriter, msg any, err error) {
	if err != nil {
		http.Error(w, "Failed to format response", http.StatusInternalServerError)
		log.Error("Failed to format slack response", "error", err)
		return
	}
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	respondWithSlackMsg(w, slackMsg)
}

// parsePlayerStatsText splits "<name> [all|current|<season id>]". A trailing
// "all" or "current" selects the scope; everything else is the name.
func parsePlayerStatsText(text string) (string, stats.Selector) {
	parts := strings.Fields(text)
	if len(parts) > 1 {
		last := stats.ParseSelector(parts[len(parts)-1])
		if last == stats.SelectorAll || last == stats.SelectorCurrent {
			return strings.Join(parts[:len(parts)-1], " "), last
		}
	}
	return strings.Join(parts, " "), stats.SelectorAll
}

// LeaderboardCommandHandler answers /leaderboard [all|current|<season id>].
func LeaderboardCommandHandler(boards *leaderboard.Service, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		sel := stats.ParseSelector(r.FormValue("text"))
		board, err := boards.Leaderboard(r.Context(), sel)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to compute leaderboard", "error", err, "scope", sel)
			return
		}
		msg, err := notifier.FormatLeaderboardResponse(leaderboard.Title(board), board.Stats)
		respondWithFormatted(w, msg, err)
	}
}

// PlayerStatsCommandHandler answers /player-stats <name> [all|current],
// matching the name loosely against every known player.
func PlayerStatsCommandHandler(players club.ClubStore, boards *leaderboard.Service, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		name, sel := parsePlayerStatsText(r.FormValue("text"))
		if name == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		log.Info("Received player stats command", "player", name, "scope", sel)

		known, err := players.KnownPlayers(r.Context())
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to load players", "error", err)
			return
		}
		player, ok := club.BestName(name, known)
		if !ok {
			msg, err := notifier.FormatPlayerNotFoundResponse(name)
			respondWithFormatted(w, msg, err)
			return
		}

		card, err := boards.PlayerCard(r.Context(), player.Identity(), sel)
		if err != nil {
			log.Warn("Could not find player stats", "player", player.Name, "error", err)
			msg, err := notifier.FormatPlayerNotFoundResponse(name)
			respondWithFormatted(w, msg, err)
			return
		}
		msg, err := notifier.FormatPlayerStatsResponse(notifierCard(card))
		respondWithFormatted(w, msg, err)
	}
}

func notifierCard(card leaderboard.Card) notifier.PlayerCard {
	return notifier.PlayerCard{Stats: card.Stats, Rank: card.Rank, Ranked: card.Ranked}
}
