package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/mauv0809/mus-league/internal/season"
	"github.com/mauv0809/mus-league/internal/stats"
)

// Service implements the match lifecycle on top of a MatchStore.
type Service struct {
	store   MatchStore
	seasons season.SeasonStore
	players club.ClubStore
	metrics metrics.Metrics
	now     func() time.Time
}

// NewService creates a match Service.
func NewService(store MatchStore, seasons season.SeasonStore, players club.ClubStore, metrics metrics.Metrics) *Service {
	return &Service{
		store:   store,
		seasons: seasons,
		players: players,
		metrics: metrics,
		now:     time.Now,
	}
}

// Create records a pending match in the active season. When the creator plays
// in it, their own participation counts as confirmed.
func (s *Service) Create(ctx context.Context, actor Actor, in NewMatch) (Match, error) {
	active, err := s.seasons.Active(ctx)
	if err != nil {
		return Match{}, fmt.Errorf("load active season: %w", err)
	}
	if active == nil {
		return Match{}, apperr.ErrNoActiveSeason
	}
	if err := s.check(ctx, in); err != nil {
		return Match{}, err
	}

	now := s.now().UTC().Truncate(time.Second)
	m := Match{
		Match: stats.Match{
			ID:         uuid.NewString(),
			Slots:      in.Slots,
			WinnerTeam: in.WinnerTeam,
			Team1Score: in.Team1Score,
			Team2Score: in.Team2Score,
			Status:     stats.StatusPending,
			SeasonID:   active.ID,
			PlayedAt:   playedAt(in.PlayedAt, now),
		},
		CreatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.Validations = initialValidations(m, actor.ID)

	if err := s.store.Insert(ctx, m); err != nil {
		return Match{}, err
	}
	s.metrics.IncMatchesSubmitted()
	log.Info("Match submitted", "match_id", m.ID, "season_id", m.SeasonID, "created_by", actor.ID)

	// a match made only of the creator and guests needs nobody else
	if len(m.PendingValidations()) == 0 {
		if err := s.store.Transition(ctx, m.ID, stats.StatusPending, stats.StatusValidated); err != nil {
			return Match{}, err
		}
		s.metrics.IncMatchStatus(string(stats.StatusValidated))
	}
	return s.store.Get(ctx, m.ID)
}

func initialValidations(m Match, creatorID string) []Validation {
	var out []Validation
	for _, ref := range m.Slots {
		if ref.PlayerID == "" {
			continue
		}
		out = append(out, Validation{PlayerID: ref.PlayerID, Validated: ref.PlayerID == creatorID})
	}
	return out
}

func playedAt(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t.UTC().Truncate(time.Second)
}

// check validates a match payload: four distinct resolvable players, scores in
// range, and a winner consistent with the scores.
func (s *Service) check(ctx context.Context, in NewMatch) error {
	if err := apperr.Validate(in); err != nil {
		return err
	}

	var fields []apperr.FieldError
	seen := make(map[stats.Identity]bool, len(in.Slots))
	for i, ref := range in.Slots {
		field := fmt.Sprintf("slots[%d]", i)
		if ref.PlayerID != "" && ref.TempPlayerID != "" {
			fields = append(fields, apperr.FieldError{Field: field, Message: "must reference exactly one player"})
			continue
		}
		id, ok := ref.Identity()
		if !ok {
			fields = append(fields, apperr.FieldError{Field: field, Message: "is required"})
			continue
		}
		if seen[id] {
			fields = append(fields, apperr.FieldError{Field: field, Message: "player selected more than once"})
			continue
		}
		seen[id] = true
		if msg, err := s.checkPlayer(ctx, id); err != nil {
			return err
		} else if msg != "" {
			fields = append(fields, apperr.FieldError{Field: field, Message: msg})
		}
	}

	if in.Team1Score != in.Team2Score {
		leader := 1
		if in.Team2Score > in.Team1Score {
			leader = 2
		}
		if in.WinnerTeam != leader {
			fields = append(fields, apperr.FieldError{Field: "winner_team", Message: "must be the team with the higher score"})
		}
	}
	return apperr.Invalid(fields...)
}

// checkPlayer returns a user-facing message when id cannot play.
func (s *Service) checkPlayer(ctx context.Context, id stats.Identity) (string, error) {
	switch id.Kind {
	case stats.KindPermanent:
		p, err := s.players.GetProfile(ctx, id.ID)
		if errors.Is(err, apperr.ErrNotFound) {
			return "unknown player", nil
		}
		if err != nil {
			return "", err
		}
		if p.Status != club.StatusApproved {
			return "player is not approved", nil
		}
		if !p.IsActivePlayer {
			return "player is suspended", nil
		}
	case stats.KindTemporary:
		g, err := s.players.GetSeasonPlayer(ctx, id.ID)
		if errors.Is(err, apperr.ErrNotFound) {
			return "unknown guest", nil
		}
		if err != nil {
			return "", err
		}
		if !g.IsActive {
			return "guest is inactive", nil
		}
	}
	return "", nil
}

// ValidateParticipation confirms the actor's own seat in a pending match.
func (s *Service) ValidateParticipation(ctx context.Context, actor Actor, id string) (Match, error) {
	complete, err := s.store.MarkValidated(ctx, id, actor.ID)
	if err != nil {
		return Match{}, err
	}
	if complete {
		s.metrics.IncMatchStatus(string(stats.StatusValidated))
		log.Info("Match validated by all participants", "match_id", id)
	}
	return s.store.Get(ctx, id)
}

// AdminValidate validates a pending match directly.
func (s *Service) AdminValidate(ctx context.Context, actor Actor, id string) (Match, error) {
	return s.adminTransition(ctx, actor, id, stats.StatusValidated)
}

// Reject discards a pending match.
func (s *Service) Reject(ctx context.Context, actor Actor, id string) (Match, error) {
	return s.adminTransition(ctx, actor, id, stats.StatusRejected)
}

func (s *Service) adminTransition(ctx context.Context, actor Actor, id string, to stats.Status) (Match, error) {
	if !actor.IsAdmin {
		return Match{}, fmt.Errorf("only admins can mark a match %s: %w", to, apperr.ErrForbidden)
	}
	if err := s.store.Transition(ctx, id, stats.StatusPending, to); err != nil {
		return Match{}, err
	}
	s.metrics.IncMatchStatus(string(to))
	return s.store.Get(ctx, id)
}

// Cancel withdraws a pending match. Only its creator or an admin may do so.
func (s *Service) Cancel(ctx context.Context, actor Actor, id string) (Match, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return Match{}, err
	}
	if !actor.IsAdmin && m.CreatedBy != actor.ID {
		return Match{}, fmt.Errorf("only the creator or an admin can cancel: %w", apperr.ErrForbidden)
	}
	if err := s.store.Transition(ctx, id, stats.StatusPending, stats.StatusCanceled); err != nil {
		return Match{}, err
	}
	s.metrics.IncMatchStatus(string(stats.StatusCanceled))
	return s.store.Get(ctx, id)
}

// Edit rewrites a match that is not validated or canceled. The match returns
// to pending and every participant except the editor has to confirm it again.
func (s *Service) Edit(ctx context.Context, actor Actor, id string, in NewMatch) (Match, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return Match{}, err
	}
	if !actor.IsAdmin && m.CreatedBy != actor.ID && !m.Involves(actor.ID) {
		return Match{}, fmt.Errorf("only participants, the creator or an admin can edit: %w", apperr.ErrForbidden)
	}
	if m.Status == stats.StatusValidated || m.Status == stats.StatusCanceled {
		return Match{}, fmt.Errorf("match %s is %s: %w", id, m.Status, apperr.ErrConflict)
	}
	if err := s.check(ctx, in); err != nil {
		return Match{}, err
	}

	m.Slots = in.Slots
	m.WinnerTeam = in.WinnerTeam
	m.Team1Score = in.Team1Score
	m.Team2Score = in.Team2Score
	m.PlayedAt = playedAt(in.PlayedAt, m.PlayedAt)
	m.Validations = initialValidations(m, actor.ID)
	if err := s.store.Replace(ctx, m); err != nil {
		return Match{}, err
	}
	log.Info("Match edited, validations reset", "match_id", id, "by", actor.ID)

	if len(m.PendingValidations()) == 0 {
		if err := s.store.Transition(ctx, m.ID, stats.StatusPending, stats.StatusValidated); err != nil {
			return Match{}, err
		}
		s.metrics.IncMatchStatus(string(stats.StatusValidated))
	}
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Match, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Match, error) {
	return s.store.List(ctx, f)
}

// ExpirePending validates pending matches that nobody disputed within the
// window and returns the ids it validated.
func (s *Service) ExpirePending(ctx context.Context, window time.Duration) ([]string, error) {
	stale, err := s.store.PendingBefore(ctx, s.now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("list stale pending matches: %w", err)
	}
	var done []string
	for _, m := range stale {
		err := s.store.Transition(ctx, m.ID, stats.StatusPending, stats.StatusValidated)
		if errors.Is(err, apperr.ErrNotPending) {
			// someone resolved it in the meantime
			continue
		}
		if err != nil {
			log.Error("Failed to auto-validate match", "error", err, "match_id", m.ID)
			continue
		}
		s.metrics.IncMatchStatus(string(stats.StatusValidated))
		done = append(done, m.ID)
	}
	if len(done) > 0 {
		s.metrics.AddAutoValidated(len(done))
		log.Info("Auto-validated stale matches", "count", len(done), "window", window)
	}
	return done, nil
}
