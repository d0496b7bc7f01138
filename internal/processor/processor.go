package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/match"
	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/pubsub"
	"github.com/mauv0809/mus-league/internal/stats"
)

// New creates a new Processor.
func New(d Deps) *Processor {
	window := d.AutoValidateAfter
	if window <= 0 {
		window = DefaultAutoValidateAfter
	}
	return &Processor{
		matches:   d.Matches,
		players:   d.Players,
		seasons:   d.Seasons,
		standings: d.Standings,
		notifier:  d.Notifier,
		pubsub:    d.PubSub,
		workflows: d.Workflows,
		metrics:   d.Metrics,
		counters:  d.Counters,
		window:    window,
		now:       time.Now,
	}
}

// AutoValidate validates every pending match older than the dispute window
// and announces each one. It returns how many matches were (or, in dry-run
// mode, would be) validated.
func (p *Processor) AutoValidate(ctx context.Context, dryRun bool) (int, error) {
	log.Info("Starting auto-validation", "window", p.window, "dry_run", dryRun)
	startTime := time.Now()
	defer func() {
		p.metrics.ObserveProcessingDuration(time.Since(startTime).Seconds())
	}()

	if dryRun {
		stale, err := p.stalePending(ctx)
		if err != nil {
			return 0, err
		}
		for _, m := range stale {
			log.Info("[Dry Run] Would auto-validate match", "match_id", m.ID, "created_at", m.CreatedAt)
		}
		return len(stale), nil
	}

	ids, err := p.matches.ExpirePending(ctx, p.window)
	if err != nil {
		log.Error("Failed to expire pending matches", "error", err)
		return 0, err
	}
	p.counters.Increment(CounterAutoValidateRuns)
	if len(ids) == 0 {
		log.Info("No matches to auto-validate.")
		return 0, nil
	}
	p.counters.Add(CounterMatchesAutoValidated, len(ids))
	for _, id := range ids {
		if err := p.announceValidated(ctx, id, true, false); err != nil {
			log.Error("Failed to announce auto-validated match", "error", err, "match_id", id)
		}
	}
	log.Info("Auto-validation finished.", "count", len(ids))
	return len(ids), nil
}

func (p *Processor) stalePending(ctx context.Context) ([]match.Match, error) {
	pending, err := p.matches.List(ctx, match.Filter{Status: stats.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("list pending matches: %w", err)
	}
	cutoff := p.now().Add(-p.window)
	var stale []match.Match
	for _, m := range pending {
		if m.CreatedAt.Before(cutoff) {
			stale = append(stale, m)
		}
	}
	return stale, nil
}

// MatchSubmitted announces a newly recorded match.
func (p *Processor) MatchSubmitted(ctx context.Context, matchID string, dryRun bool) error {
	if p.publish(pubsub.EventMatchSubmitted, pubsub.MatchEvent{MatchID: matchID}, dryRun) {
		return nil
	}
	return p.OnMatchSubmitted(ctx, matchID, dryRun)
}

// MatchValidated announces a match that now counts towards the standings.
func (p *Processor) MatchValidated(ctx context.Context, matchID string, dryRun bool) error {
	return p.announceValidated(ctx, matchID, false, dryRun)
}

func (p *Processor) announceValidated(ctx context.Context, matchID string, auto, dryRun bool) error {
	if p.publish(pubsub.EventMatchValidated, pubsub.MatchEvent{MatchID: matchID, AutoValidated: auto}, dryRun) {
		return nil
	}
	return p.OnMatchValidated(ctx, matchID, auto, dryRun)
}

// SeasonClosed announces the end of a season. The summary is produced by the
// workflow engine when configured, then by a Pub/Sub consumer, and inline
// otherwise.
func (p *Processor) SeasonClosed(ctx context.Context, seasonID string, dryRun bool) error {
	if !dryRun {
		p.counters.Increment(CounterSeasonsClosed)
	}
	if !dryRun && p.workflows != nil && p.workflows.Enabled() {
		err := p.workflows.SendSeasonClosed(ctx, seasonID, dryRun)
		if err == nil {
			return nil
		}
		log.Warn("Workflow unavailable, falling back", "error", err, "season_id", seasonID)
	}
	if p.publish(pubsub.EventSeasonClosed, pubsub.SeasonEvent{SeasonID: seasonID}, dryRun) {
		return nil
	}
	return p.OnSeasonClosed(ctx, seasonID, dryRun)
}

// publish hands an event to Pub/Sub and reports whether a consumer will pick
// it up. Dry runs are never published.
func (p *Processor) publish(topic pubsub.EventType, data any, dryRun bool) bool {
	if dryRun || p.pubsub == nil || !p.pubsub.Enabled() {
		return false
	}
	if err := p.pubsub.SendMessage(topic, data); err != nil {
		log.Error("Failed to publish event, handling inline", "error", err, "topic", topic)
		return false
	}
	return true
}

// OnMatchSubmitted posts the pending match and who still has to confirm it.
func (p *Processor) OnMatchSubmitted(ctx context.Context, matchID string, dryRun bool) error {
	m, err := p.matches.Get(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load match %s: %w", matchID, err)
	}
	if m.Status != stats.StatusPending {
		log.Debug("Match no longer pending, skipping submission notice", "match_id", matchID, "status", m.Status)
		return nil
	}
	return p.notifier.SendMatchSubmitted(p.describe(ctx, m, false), dryRun)
}

// OnMatchValidated posts a validated result.
func (p *Processor) OnMatchValidated(ctx context.Context, matchID string, auto, dryRun bool) error {
	m, err := p.matches.Get(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load match %s: %w", matchID, err)
	}
	if m.Status != stats.StatusValidated {
		log.Warn("Ignoring validation event for unvalidated match", "match_id", matchID, "status", m.Status)
		return nil
	}
	return p.notifier.SendMatchValidated(p.describe(ctx, m, auto), dryRun)
}

// OnSeasonClosed posts the final standings of a season.
func (p *Processor) OnSeasonClosed(ctx context.Context, seasonID string, dryRun bool) error {
	summary, err := p.standings.SeasonSummary(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("summarize season %s: %w", seasonID, err)
	}
	return p.notifier.SendSeasonSummary(summary, dryRun)
}

// describe resolves participants to display names. Unknown participants are
// shown as "?".
func (p *Processor) describe(ctx context.Context, m match.Match, auto bool) notifier.MatchResult {
	names := make(map[stats.Identity]string)
	players, err := p.players.KnownPlayers(ctx)
	if err != nil {
		log.Error("Failed to load player names", "error", err, "match_id", m.ID)
	}
	for _, pl := range players {
		names[pl.Identity()] = pl.Name
	}
	name := func(ref stats.SlotRef) string {
		if id, ok := ref.Identity(); ok {
			if n, ok := names[id]; ok {
				return n
			}
		}
		return "?"
	}

	r := notifier.MatchResult{
		ID:            m.ID,
		Team1:         [2]string{name(m.Slots[0]), name(m.Slots[1])},
		Team2:         [2]string{name(m.Slots[2]), name(m.Slots[3])},
		WinnerTeam:    m.WinnerTeam,
		Team1Score:    m.Team1Score,
		Team2Score:    m.Team2Score,
		PlayedAt:      m.PlayedAt,
		AutoValidated: auto,
	}
	for _, id := range m.PendingValidations() {
		r.Pending = append(r.Pending, name(stats.SlotRef{PlayerID: id}))
	}
	if m.SeasonID != "" {
		if s, err := p.seasons.Get(ctx, m.SeasonID); err == nil {
			r.SeasonName = s.Name
		}
	}
	return r
}
