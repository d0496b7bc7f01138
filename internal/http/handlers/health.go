package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/config"
)

// Pinger is the part of *sql.DB the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status    string  `json:"status"`
	Database  string  `json:"database"`
	LatencyMS float64 `json:"latency_ms"`
}

func HealthCheckHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Debug("Received health check request")
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		start := time.Now()
		err := db.PingContext(ctx)
		resp := healthResponse{
			Status:    "ok",
			Database:  "ok",
			LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
		}
		if err != nil {
			log.Error("Database health check failed", "error", err)
			resp.Status = "degraded"
			resp.Database = "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type settingsResponse struct {
	RememberSessionDays int             `json:"remember_session_days"`
	Features            map[string]bool `json:"features"`
}

// SettingsHandler exposes the client-facing configuration.
func SettingsHandler(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settingsResponse{
			RememberSessionDays: cfg.Session.RememberDays,
			Features: map[string]bool{
				"season_players": cfg.Features.SeasonPlayers,
			},
		})
	}
}
