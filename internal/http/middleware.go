package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/http/handlers"
	"github.com/mauv0809/mus-league/internal/match"
	"github.com/slack-go/slack"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// UserHeader carries the id of the calling account. Sign-in happens in front
// of this service; it only resolves the id to a profile.
const UserHeader = "X-User-ID"

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
// Verbose only raises the level of the request's own logger, which handlers
// read back with log.FromContext; the process-wide level is left alone.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.Default().With("method", r.Method, "path", r.URL.Path)
		if r.URL.Query().Get("verbose") == "true" {
			logger.SetLevel(log.DebugLevel)
		}
		logger.Info("incoming request", "url", r.URL.String())

		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), handlers.DryRunKey, isDryRun)
		ctx = log.WithContext(ctx, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorMiddleware resolves the UserHeader to an approved profile that may sign
// in. Requests without the header continue anonymously.
func actorMiddleware(players club.ClubStore, superAdminEmail string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(UserHeader))
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			profile, err := players.GetProfile(r.Context(), id)
			if errors.Is(err, apperr.ErrNotFound) {
				http.Error(w, "Unknown user", http.StatusUnauthorized)
				return
			}
			if err != nil {
				handlers.WriteError(w, err)
				return
			}
			if profile.Status != club.StatusApproved || !profile.CanLogin {
				log.Warn("Refused request from blocked account", "user_id", id, "status", profile.Status)
				http.Error(w, "Account is not allowed to sign in", http.StatusForbidden)
				return
			}
			actor := match.Actor{
				ID:      profile.ID,
				IsAdmin: profile.IsAdmin || isSuperAdmin(profile, superAdminEmail),
			}
			next.ServeHTTP(w, r.WithContext(handlers.WithActor(r.Context(), actor)))
		})
	}
}

func isSuperAdmin(p club.Profile, superAdminEmail string) bool {
	return superAdminEmail != "" && strings.EqualFold(p.Email, superAdminEmail)
}

// requireAdmin only lets admins through. It must run after actorMiddleware.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := handlers.ActorFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !actor.IsAdmin {
			http.Error(w, "Admins only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// slackVerifier checks the request signature Slack attaches to slash commands.
func slackVerifier(signingSecret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signingSecret == "" {
				log.Error("SLACK_SIGNING_SECRET not set, refusing slash command")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			verifier, err := slack.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				log.Warn("Invalid Slack signature headers", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusInternalServerError)
				return
			}
			r.Body = io.NopCloser(bytes.NewBuffer(body))
			if _, err := verifier.Write(body); err != nil {
				http.Error(w, "Failed to verify request", http.StatusInternalServerError)
				return
			}
			if err := verifier.Ensure(); err != nil {
				log.Warn("Slack signature mismatch", "error", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
