package http

import (
	"net/http"

	"github.com/mauv0809/mus-league/internal/config"
	"github.com/mauv0809/mus-league/internal/http/handlers"
)

func NewServer(d Deps, cfg config.Config) *Server {
	server := &Server{
		DB:             d.DB,
		Players:        d.Players,
		Seasons:        d.Seasons,
		Matches:        d.Matches,
		Leaderboard:    d.Leaderboard,
		Metrics:        d.Metrics,
		MetricsHandler: d.MetricsHandler,
		Counters:       d.Counters,
		Cfg:            cfg,
		Notifier:       d.Notifier,
		Processor:      d.Processor,
		Router:         http.NewServeMux(),
		pubsub:         d.PubSub,
		workflows:      d.Workflows,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(h, paramsMiddleware, s.user(), requireAdmin)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(s.DB), paramsMiddleware))
	s.Router.Handle("GET /settings", Chain(handlers.SettingsHandler(s.Cfg), paramsMiddleware))
	s.Router.Handle("GET /counters", Chain(handlers.CountersHandler(s.Counters), paramsMiddleware))

	// players
	s.Router.Handle("GET /players", Chain(handlers.ListPlayersHandler(s.Players, s.Seasons), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(handlers.RegisterHandler(s.Players), paramsMiddleware))
	s.Router.Handle("GET /players/{id}", Chain(handlers.GetProfileHandler(s.Players), paramsMiddleware))

	// standings
	s.Router.Handle("GET /leaderboard", Chain(handlers.LeaderboardHandler(s.Leaderboard), paramsMiddleware))
	s.Router.Handle("GET /leaderboard/share", Chain(handlers.ShareLeaderboardHandler(s.Leaderboard), paramsMiddleware))
	s.Router.Handle("GET /leaderboard/players/{kind}/{id}", Chain(handlers.PlayerCardHandler(s.Leaderboard), paramsMiddleware))
	s.Router.Handle("POST /leaderboard/post", s.admin(handlers.PostLeaderboardHandler(s.Leaderboard, s.Notifier)))

	// seasons
	s.Router.Handle("GET /seasons", Chain(handlers.ListSeasonsHandler(s.Seasons), paramsMiddleware))
	s.Router.Handle("GET /seasons/history", Chain(handlers.SeasonHistoryHandler(s.Leaderboard), paramsMiddleware))
	s.Router.Handle("GET /seasons/{id}/summary", Chain(handlers.SeasonSummaryHandler(s.Leaderboard), paramsMiddleware))
	s.Router.Handle("POST /seasons", s.admin(handlers.CreateSeasonHandler(s.Seasons, s.Processor)))
	s.Router.Handle("POST /seasons/{id}/close", s.admin(handlers.CloseSeasonHandler(s.Seasons, s.Processor)))

	// matches
	s.Router.Handle("GET /matches", Chain(handlers.ListMatchesHandler(s.Matches), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(handlers.GetMatchHandler(s.Matches), paramsMiddleware))
	s.Router.Handle("POST /matches", s.user(handlers.CreateMatchHandler(s.Matches, s.Processor)))
	s.Router.Handle("PUT /matches/{id}", s.user(handlers.EditMatchHandler(s.Matches, s.Processor)))
	s.Router.Handle("POST /matches/{id}/validate", s.user(handlers.ValidateMatchHandler(s.Matches, s.Processor)))
	s.Router.Handle("POST /matches/{id}/cancel", s.user(handlers.CancelMatchHandler(s.Matches)))
	s.Router.Handle("POST /matches/{id}/admin-validate", s.admin(handlers.AdminValidateMatchHandler(s.Matches, s.Processor)))
	s.Router.Handle("POST /matches/{id}/reject", s.admin(handlers.RejectMatchHandler(s.Matches)))

	// moderation
	s.Router.Handle("GET /admin/users", s.admin(handlers.ListUsersHandler(s.Players)))
	s.Router.Handle("POST /admin/users/{id}/approve", s.admin(handlers.ApproveUserHandler(s.Players)))
	s.Router.Handle("POST /admin/users/{id}/reject", s.admin(handlers.RejectUserHandler(s.Players)))
	s.Router.Handle("PATCH /admin/users/{id}", s.admin(handlers.UpdateUserFlagsHandler(s.Players)))
	s.Router.Handle("PUT /admin/users/{id}/name", s.admin(handlers.RenameUserHandler(s.Players)))
	s.Router.Handle("DELETE /admin/users/{id}", s.admin(handlers.DeleteUserHandler(s.Players, s.Cfg.SuperAdmin)))

	// guests
	s.Router.Handle("GET /season-players", Chain(handlers.ListSeasonPlayersHandler(s.Players), paramsMiddleware))
	if s.Cfg.Features.SeasonPlayers {
		s.Router.Handle("POST /season-players", s.admin(handlers.CreateSeasonPlayerHandler(s.Players, s.Seasons)))
		s.Router.Handle("POST /season-players/{id}/reactivate", s.admin(handlers.ReactivateSeasonPlayerHandler(s.Players, s.Seasons)))
		s.Router.Handle("PUT /season-players/{id}/active", s.admin(handlers.SetSeasonPlayerActiveHandler(s.Players)))
	}

	// jobs and event consumers
	s.Router.Handle("POST /auto-validate", Chain(handlers.AutoValidateHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /events/match-submitted", Chain(handlers.MatchSubmittedHandler(s.Processor, s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /events/match-validated", Chain(handlers.MatchValidatedHandler(s.Processor, s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /events/season-closed", Chain(handlers.SeasonClosedHandler(s.Processor, s.pubsub), paramsMiddleware))

	// slack
	verify := slackVerifier(s.Cfg.Slack.SigningSecret)
	s.Router.Handle("POST /slack/command/leaderboard", Chain(handlers.LeaderboardCommandHandler(s.Leaderboard, s.Notifier), paramsMiddleware, verify))
	s.Router.Handle("POST /slack/command/player-stats", Chain(handlers.PlayerStatsCommandHandler(s.Players, s.Leaderboard, s.Notifier), paramsMiddleware, verify))

	if s.workflows != nil && s.workflows.Enabled() {
		s.Router.Handle("/api/inngest", s.workflows.Serve())
	}
}

// user resolves the calling account before h runs.
func (s *Server) user(h http.Handler) http.Handler {
	return Chain(h, paramsMiddleware, actorMiddleware(s.Players, s.Cfg.SuperAdmin))
}

// admin is user plus an admin check.
func (s *Server) admin(h http.Handler) http.Handler {
	return Chain(h, paramsMiddleware, actorMiddleware(s.Players, s.Cfg.SuperAdmin), requireAdmin)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
