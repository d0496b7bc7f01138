package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/match"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
	ActorKey  ContextKey = "actor"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// WithActor stores the authenticated account on the context.
func WithActor(ctx context.Context, actor match.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// ActorFromContext returns the account performing the request, if any.
func ActorFromContext(r *http.Request) (match.Actor, bool) {
	actor, ok := r.Context().Value(ActorKey).(match.Actor)
	return actor, ok && actor.ID != ""
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// statusFor maps the shared error vocabulary onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrAlreadyExists),
		errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrNotPending),
		errors.Is(err, apperr.ErrNoActiveSeason):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError reports err to the client. Unexpected errors are logged and
// their details hidden.
func WriteError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error(), Fields: apperr.FieldErrors(err)}
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body into v. Malformed bodies are invalid input.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return apperr.Invalid(apperr.FieldError{Field: "body", Message: "could not be read"})
	}
	if err := json.Unmarshal(body, v); err != nil {
		log.FromContext(r.Context()).Debug("Rejected request body", "error", err, "body", string(body))
		return apperr.Invalid(apperr.FieldError{Field: "body", Message: "must be valid JSON"})
	}
	return nil
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
