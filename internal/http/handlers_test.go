package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/config"
	"github.com/mauv0809/mus-league/internal/database"
	"github.com/mauv0809/mus-league/internal/http/handlers"
	"github.com/mauv0809/mus-league/internal/leaderboard"
	"github.com/mauv0809/mus-league/internal/match"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/processor"
	"github.com/mauv0809/mus-league/internal/pubsub"
	"github.com/mauv0809/mus-league/internal/season"
	"github.com/mauv0809/mus-league/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSlackSigningSecret = "test-signing-secret"

type testEnv struct {
	server   *Server
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
	players  []club.Profile
	admin    club.Profile
}

// setupTestServer initializes a new server with a test database and mock clients.
// Ane, Bittor, Caro and Dani are approved players; Eneko is an approved admin.
func setupTestServer(t *testing.T, slackSigningSecret string) (*testEnv, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	cfg := config.Config{
		Slack:    config.SlackConfig{SigningSecret: slackSigningSecret},
		Features: config.FeatureFlags{SeasonPlayers: true},
		Session:  config.SessionConfig{RememberDays: 30},
	}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	players := club.New(db)
	seasons := season.New(db)
	matchStore := match.New(db)
	matches := match.NewService(matchStore, seasons, players, metricsSvc)
	boards := leaderboard.New(matchStore, players, seasons, metricsSvc)
	counters := metrics.New(db)

	env := &testEnv{notifier: notifier.NewMock(), pubsub: pubsub.NewMock()}
	env.pubsub.Offline = true

	proc := processor.New(processor.Deps{
		Matches:   matches,
		Players:   players,
		Seasons:   seasons,
		Standings: boards,
		Notifier:  env.notifier,
		PubSub:    env.pubsub,
		Metrics:   metricsSvc,
		Counters:  counters,
	})

	env.server = NewServer(Deps{
		DB:             db,
		Players:        players,
		Seasons:        seasons,
		Matches:        matches,
		Leaderboard:    boards,
		Metrics:        metricsSvc,
		MetricsHandler: metrics.NewMetricsHandler(reg),
		Counters:       counters,
		Notifier:       env.notifier,
		Processor:      proc,
		PubSub:         env.pubsub,
	}, cfg)

	ctx := context.Background()
	for _, name := range []string{"Ane", "Bittor", "Caro", "Dani", "Eneko"} {
		p, err := players.Register(ctx, club.RegisterInput{Name: name})
		require.NoError(t, err)
		require.NoError(t, players.Approve(ctx, p.ID))
		env.players = append(env.players, p)
	}
	env.admin = env.players[4]
	require.NoError(t, players.SetAdmin(ctx, "setup", env.admin.ID, true))

	return env, teardown
}

// do sends a JSON request as the given user (empty for anonymous).
func (e *testEnv) do(t *testing.T, method, target, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set(UserHeader, userID)
	}
	rr := httptest.NewRecorder()
	e.server.Router.ServeHTTP(rr, req)
	return rr
}

// openSeason starts a season. An optional date orders seasons that are
// created within the same second.
func (e *testEnv) openSeason(t *testing.T, name string, startDate ...string) stats.Season {
	t.Helper()
	body := map[string]string{"name": name}
	if len(startDate) > 0 {
		body["start_date"] = startDate[0]
	}
	rr := e.do(t, "POST", "/seasons", e.admin.ID, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var s stats.Season
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	return s
}

func (e *testEnv) matchBody(winner int) map[string]any {
	slots := make([]map[string]string, 4)
	for i := range slots {
		slots[i] = map[string]string{"player_id": e.players[i].ID}
	}
	return map[string]any{"slots": slots, "winner_team": winner}
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := form.Encode()
	req, err := http.NewRequest("POST", targetURL, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func pushRequest(t *testing.T, target string, event any) *http.Request {
	t.Helper()
	data, err := pubsub.Encode(event)
	require.NoError(t, err)
	wrapper := map[string]any{
		"subscription": "projects/test/subscriptions/mus",
		"message":      map[string]string{"data": base64.StdEncoding.EncodeToString(data)},
	}
	b, err := json.Marshal(wrapper)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", target, bytes.NewReader(b))
	require.NoError(t, err)
	return req
}

func TestParamsMiddleware_VerboseIsScopedToTheRequest(t *testing.T) {
	globalLevel := log.GetLevel()

	var verboseLevel, quietLevel log.Level
	var dryRun bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("verbose") == "true" {
			verboseLevel = log.FromContext(r.Context()).GetLevel()
			// the process-wide level stays where it was
			quietLevel = log.GetLevel()
			dryRun = handlers.IsDryRunFromContext(r)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	h := Chain(inner, paramsMiddleware)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health?verbose=true&dry_run=true", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, log.DebugLevel, verboseLevel)
	assert.Equal(t, globalLevel, quietLevel)
	assert.True(t, dryRun)
	assert.Equal(t, globalLevel, log.GetLevel())
}

func TestHealthCheckHandler(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()

	rr := env.do(t, "GET", "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	body := decode[map[string]any](t, rr)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Contains(t, body, "latency_ms")
}

func TestSettingsHandler(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()

	rr := env.do(t, "GET", "/settings", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"remember_session_days":30,"features":{"season_players":true}}`, rr.Body.String())
}

func TestAuthorization(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()

	t.Run("anonymous match submission", func(t *testing.T) {
		rr := env.do(t, "POST", "/matches", "", env.matchBody(1))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rr := env.do(t, "POST", "/matches", "nobody", env.matchBody(1))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("non-admin opening a season", func(t *testing.T) {
		rr := env.do(t, "POST", "/seasons", env.players[0].ID, map[string]string{"name": "Nope"})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("blocked account", func(t *testing.T) {
		require.NoError(t, env.server.Players.SetCanLogin(context.Background(), env.admin.ID, env.players[3].ID, false))
		rr := env.do(t, "GET", "/matches", env.players[3].ID, nil)
		assert.Equal(t, http.StatusOK, rr.Code, "public routes ignore the header")
		rr = env.do(t, "POST", "/matches", env.players[3].ID, env.matchBody(1))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestCreateMatch_Errors(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	ane := env.players[0].ID

	rr := env.do(t, "POST", "/matches", ane, env.matchBody(1))
	assert.Equal(t, http.StatusConflict, rr.Code, "no active season")

	env.openSeason(t, "Autumn")

	body := env.matchBody(1)
	body["team1_score"] = 1
	body["team2_score"] = 3
	rr = env.do(t, "POST", "/matches", ane, body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[errorBody](t, rr)
	require.NotEmpty(t, resp.Fields)
	assert.Equal(t, "winner_team", resp.Fields[0].Field)

	req, err := http.NewRequest("POST", "/matches", strings.NewReader("{not json"))
	require.NoError(t, err)
	req.Header.Set(UserHeader, ane)
	rec := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type errorBody struct {
	Error  string `json:"error"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func TestMatchLifecycle(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	env.openSeason(t, "Autumn")

	rr := env.do(t, "POST", "/matches", env.players[0].ID, env.matchBody(2))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[match.Match](t, rr)
	assert.Equal(t, stats.StatusPending, created.Status)
	assert.Equal(t, 0, created.Team1Score)
	assert.Equal(t, 3, created.Team2Score, "the winner gets the default score")

	require.Len(t, env.notifier.SendMatchSubmittedCalls, 1)
	assert.ElementsMatch(t, []string{"Bittor", "Caro", "Dani"}, env.notifier.SendMatchSubmittedCalls[0].Pending)

	for _, p := range env.players[1:4] {
		rr = env.do(t, "POST", "/matches/"+created.ID+"/validate", p.ID, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	validated := decode[match.Match](t, rr)
	assert.Equal(t, stats.StatusValidated, validated.Status)

	calls := env.notifier.ValidatedCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, [2]string{"Caro", "Dani"}, calls[0].Team2)
	assert.Equal(t, "Autumn", calls[0].SeasonName)

	rr = env.do(t, "GET", "/leaderboard?season=current", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	board := decode[leaderboard.Board](t, rr)
	require.NotNil(t, board.Season)
	assert.Equal(t, "Autumn", board.Season.Name)
	require.Len(t, board.Stats, 4, "Eneko did not play")
	assert.Equal(t, "Caro", board.Stats[0].Name)
	assert.Equal(t, 1, board.Stats[0].Wins)

	rr = env.do(t, "POST", "/matches/"+created.ID+"/cancel", env.players[0].ID, nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "validated matches stay validated")

	rr = env.do(t, "GET", "/matches?status=validated", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]match.Match](t, rr), 1)

	rr = env.do(t, "GET", "/matches?status=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminMatchActions(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	env.openSeason(t, "Autumn")

	submit := func() match.Match {
		rr := env.do(t, "POST", "/matches", env.players[0].ID, env.matchBody(1))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		return decode[match.Match](t, rr)
	}

	first := submit()
	rr := env.do(t, "POST", "/matches/"+first.ID+"/admin-validate", env.players[1].ID, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = env.do(t, "POST", "/matches/"+first.ID+"/admin-validate", env.admin.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, stats.StatusValidated, decode[match.Match](t, rr).Status)
	assert.Len(t, env.notifier.ValidatedCalls(), 1)

	second := submit()
	rr = env.do(t, "POST", "/matches/"+second.ID+"/reject", env.admin.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, stats.StatusRejected, decode[match.Match](t, rr).Status)

	edit := env.matchBody(2)
	edit["team1_score"] = 2
	edit["team2_score"] = 3
	rr = env.do(t, "PUT", "/matches/"+second.ID, env.players[2].ID, edit)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	edited := decode[match.Match](t, rr)
	assert.Equal(t, stats.StatusPending, edited.Status, "editing reopens a rejected match")
	assert.Equal(t, 2, edited.WinnerTeam)

	rr = env.do(t, "POST", "/matches/"+second.ID+"/cancel", env.players[3].ID, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code, "only the creator or an admin")
	rr = env.do(t, "POST", "/matches/"+second.ID+"/cancel", env.players[0].ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, stats.StatusCanceled, decode[match.Match](t, rr).Status)

	rr = env.do(t, "GET", "/matches/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSeasons(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()

	autumn := env.openSeason(t, "Autumn", "2025-09-01")
	assert.Empty(t, env.notifier.SendSeasonSummaryCalls, "nothing was open before")

	winter := env.openSeason(t, "Winter", "2025-12-01T00:00:00Z")
	require.Len(t, env.notifier.SendSeasonSummaryCalls, 1)
	assert.Equal(t, autumn.ID, env.notifier.SendSeasonSummaryCalls[0].Season.ID)

	rr := env.do(t, "GET", "/seasons", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]stats.Season](t, rr)
	require.Len(t, list, 2)
	assert.Equal(t, winter.ID, list[0].ID)

	rr = env.do(t, "POST", "/seasons/"+winter.ID+"/close", env.admin.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, env.notifier.SendSeasonSummaryCalls, 2)

	rr = env.do(t, "POST", "/seasons/"+winter.ID+"/close", env.admin.ID, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, "GET", "/seasons/history", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]stats.SeasonSummary](t, rr), 2)

	rr = env.do(t, "GET", "/seasons/missing/summary", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, "POST", "/seasons", env.admin.ID, map[string]string{"name": "Spring", "start_date": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLeaderboardShare(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	env.openSeason(t, "Autumn")

	rr := env.do(t, "POST", "/matches", env.players[0].ID, env.matchBody(1))
	require.Equal(t, http.StatusCreated, rr.Code)
	m := decode[match.Match](t, rr)
	rr = env.do(t, "POST", "/matches/"+m.ID+"/admin-validate", env.admin.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, "GET", "/leaderboard/share", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rr.Body.String(), "Ane: 1/1 (100%)")

	rr = env.do(t, "GET", "/leaderboard/players/permanent/"+env.players[2].ID, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	card := decode[leaderboard.Card](t, rr)
	assert.Equal(t, 0, card.Stats.Wins)
	assert.Equal(t, 1, card.Stats.Losses)
	assert.Equal(t, stats.TrendDown, card.Trend)

	rr = env.do(t, "GET", "/leaderboard/players/robot/x", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, "POST", "/leaderboard/post?dry_run=true", env.admin.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, env.notifier.SendLeaderboardCalls, 1)
	assert.Len(t, env.notifier.SendLeaderboardCalls[0], 4)
}

func TestUserModeration(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()

	rr := env.do(t, "POST", "/players", "", map[string]string{"name": "Fermin", "email": "fermin@example.com"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	pending := decode[club.Profile](t, rr)
	assert.Equal(t, club.StatusPending, pending.Status)

	rr = env.do(t, "POST", "/players", "", map[string]string{"name": "Copy", "email": "FERMIN@example.com"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, "GET", "/admin/users?status=pending", env.admin.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]club.Profile](t, rr), 1)

	rr = env.do(t, "POST", "/admin/users/"+pending.ID+"/approve", env.admin.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, club.StatusApproved, decode[club.Profile](t, rr).Status)

	rr = env.do(t, "POST", "/admin/users/"+pending.ID+"/approve", env.admin.ID, nil)
	assert.Equal(t, http.StatusConflict, rr.Code, "only pending accounts can be approved")

	rr = env.do(t, "PATCH", "/admin/users/"+env.admin.ID, env.admin.ID, map[string]bool{"is_admin": false})
	assert.Equal(t, http.StatusForbidden, rr.Code, "admins cannot demote themselves")

	rr = env.do(t, "PATCH", "/admin/users/"+pending.ID, env.admin.ID, map[string]bool{"is_active_player": false})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[club.Profile](t, rr).IsActivePlayer)

	rr = env.do(t, "PUT", "/admin/users/"+pending.ID+"/name", env.admin.ID, map[string]string{"name": "  Fermín  "})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Fermín", decode[club.Profile](t, rr).Name)

	rr = env.do(t, "DELETE", "/admin/users/"+env.admin.ID, env.admin.ID, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSeasonPlayers(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()

	rr := env.do(t, "POST", "/season-players", env.admin.ID, map[string]string{"name": "Koldo"})
	assert.Equal(t, http.StatusConflict, rr.Code, "guests join the active season")

	autumn := env.openSeason(t, "Autumn")
	rr = env.do(t, "POST", "/season-players", env.admin.ID, map[string]string{"name": "Koldo"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	koldo := decode[club.SeasonPlayer](t, rr)
	assert.Equal(t, autumn.ID, koldo.SeasonID)

	rr = env.do(t, "GET", "/players", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	listed := decode[struct {
		Players       []club.Profile      `json:"players"`
		SeasonPlayers []club.SeasonPlayer `json:"season_players"`
	}](t, rr)
	assert.Len(t, listed.Players, 5)
	require.Len(t, listed.SeasonPlayers, 1)

	winter := env.openSeason(t, "Winter")
	rr = env.do(t, "POST", "/season-players/"+koldo.ID+"/reactivate", env.admin.ID, map[string]string{})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	copied := decode[club.SeasonPlayer](t, rr)
	assert.Equal(t, winter.ID, copied.SeasonID)
	assert.NotEqual(t, koldo.ID, copied.ID)

	rr = env.do(t, "GET", "/season-players?q=kol", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]club.SeasonPlayer](t, rr), 2)

	rr = env.do(t, "PUT", "/season-players/"+copied.ID+"/active", env.admin.ID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = env.do(t, "PUT", "/season-players/"+copied.ID+"/active", env.admin.ID, map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[club.SeasonPlayer](t, rr).IsActive)
}

func TestAutoValidateHandler_DryRun(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()

	rr := env.do(t, "POST", "/auto-validate?dry_run=true", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"validated":0,"dry_run":true}`, rr.Body.String())
}

func TestPushHandlers(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()
	env.openSeason(t, "Autumn")

	rr := env.do(t, "POST", "/matches", env.players[0].ID, env.matchBody(1))
	require.Equal(t, http.StatusCreated, rr.Code)
	m := decode[match.Match](t, rr)
	env.notifier.Reset()

	t.Run("pending match is not announced as validated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rec, pushRequest(t, "/events/match-validated", pubsub.MatchEvent{MatchID: m.ID}))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, env.notifier.ValidatedCalls())
	})

	t.Run("submitted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rec, pushRequest(t, "/events/match-submitted", pubsub.MatchEvent{MatchID: m.ID}))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, env.notifier.SendMatchSubmittedCalls, 1)
	})

	t.Run("validated", func(t *testing.T) {
		rr := env.do(t, "POST", "/matches/"+m.ID+"/admin-validate?dry_run=true", env.admin.ID, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		env.notifier.Reset()

		rec := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rec, pushRequest(t, "/events/match-validated", pubsub.MatchEvent{MatchID: m.ID, AutoValidated: true}))
		assert.Equal(t, http.StatusOK, rec.Code)
		calls := env.notifier.ValidatedCalls()
		require.Len(t, calls, 1)
		assert.True(t, calls[0].AutoValidated)
	})

	t.Run("unknown match is retried", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rec, pushRequest(t, "/events/match-validated", pubsub.MatchEvent{MatchID: "missing"}))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("malformed wrapper", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/events/season-closed", strings.NewReader(`{"message":{"data":"%%%"}}`))
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLeaderboardCommandHandler(t *testing.T) {
	env, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()
	var gotTitle string
	env.notifier.FormatLeaderboardResponseFunc = func(title string, ranked []stats.PlayerStats) (any, error) {
		gotTitle = title
		return slack.Message{}, nil
	}

	form := url.Values{}
	form.Set("text", "current")
	req := createSlackCommandRequest(t, "/slack/command/leaderboard", form, testSlackSigningSecret)
	rr := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Mus League · All time", gotTitle, "current falls back to all without an active season")
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	env, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()
	var gotCard notifier.PlayerCard
	env.notifier.FormatPlayerStatsResponseFunc = func(card notifier.PlayerCard) (any, error) {
		gotCard = card
		return slack.Message{}, nil
	}
	var notFound string
	env.notifier.FormatPlayerNotFoundResponseFunc = func(query string) (any, error) {
		notFound = query
		return slack.Message{}, nil
	}

	t.Run("handles found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "bitor")
		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Bittor", gotCard.Stats.Name)
		assert.Zero(t, gotCard.Rank, "no matches played yet")
	})

	t.Run("handles not found player", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Zzyzx")
		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Zzyzx", notFound)
	})

	t.Run("handles missing player name", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/player-stats", url.Values{}, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects request with invalid signature", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Ane")
		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		req.Header.Set("X-Slack-Signature", "v0=invalid-signature")

		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with missing signature", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Ane")
		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		req.Header.Del("X-Slack-Signature")

		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with outdated timestamp", func(t *testing.T) {
		form := url.Values{}
		form.Set("text", "Ane")
		req := createSlackCommandRequest(t, "/slack/command/player-stats", form, testSlackSigningSecret)
		req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Add(-6*time.Minute).Unix(), 10))

		rr := httptest.NewRecorder()
		env.server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestSlackCommands_RequireSigningSecret(t *testing.T) {
	env, teardown := setupTestServer(t, "")
	defer teardown()

	req := createSlackCommandRequest(t, "/slack/command/leaderboard", url.Values{}, "whatever")
	rr := httptest.NewRecorder()
	env.server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code, "slash commands need a signing secret")
}
