package inngest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/mauv0809/mus-league/internal/config"
	"github.com/mauv0809/mus-league/internal/notifier"
	"github.com/mauv0809/mus-league/internal/stats"
)

// NewClient builds the inngest SDK client from configuration.
func NewClient(cfg config.InngestConfig) (inngestgo.Client, error) {
	dev := cfg.Dev
	opts := inngestgo.ClientOpts{
		AppID: cfg.AppID,
		Dev:   &dev,
	}
	if cfg.SigningKey != "" {
		opts.SigningKey = &cfg.SigningKey
	}
	if cfg.EventKey != "" {
		opts.EventKey = &cfg.EventKey
	}
	c, err := inngestgo.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create inngest client: %w", err)
	}
	return c, nil
}

// New registers the workflows on inngestClient.
func New(inngestClient inngestgo.Client, standings Standings, notifier notifier.Notifier) (InngestClient, error) {
	c := &client{
		inngestClient: inngestClient,
		standings:     standings,
		notifier:      notifier,
	}
	if _, err := c.createSeasonClosedFunction(); err != nil {
		return nil, err
	}
	return c, nil
}

func (i *client) createSeasonClosedFunction() (inngestgo.ServableFunction, error) {
	opts := inngestgo.FunctionOpts{
		ID:   "season-closed-summary",
		Name: "Post final season standings",
	}
	f, err := inngestgo.CreateFunction(
		i.inngestClient,
		opts,
		inngestgo.EventTrigger(EventSeasonClosed, nil),
		func(ctx context.Context, input inngestgo.Input[map[string]any]) (any, error) {
			data := seasonClosedData(input.Event.Data)
			if data.SeasonID == "" {
				return nil, fmt.Errorf("event %s without season_id", EventSeasonClosed)
			}

			// Steps are retried independently on failure.
			summary, err := step.Run(ctx, "build-summary", func(ctx context.Context) (stats.SeasonSummary, error) {
				return i.buildSummary(ctx, data.SeasonID)
			})
			if err != nil {
				return nil, err
			}

			_, err = step.Run(ctx, "notify", func(ctx context.Context) (bool, error) {
				return true, i.notify(summary, data.DryRun)
			})
			if err != nil {
				return nil, err
			}
			return summary.TotalMatches, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create function %s: %w", opts.ID, err)
	}
	return f, nil
}

func seasonClosedData(raw map[string]any) SeasonClosedData {
	var d SeasonClosedData
	d.SeasonID, _ = raw["season_id"].(string)
	d.DryRun, _ = raw["dry_run"].(bool)
	return d
}

func (i *client) buildSummary(ctx context.Context, seasonID string) (stats.SeasonSummary, error) {
	summary, err := i.standings.SeasonSummary(ctx, seasonID)
	if err != nil {
		return stats.SeasonSummary{}, fmt.Errorf("summarize season %s: %w", seasonID, err)
	}
	log.Info("Built season summary", "season_id", seasonID, "matches", summary.TotalMatches)
	return summary, nil
}

func (i *client) notify(summary stats.SeasonSummary, dryRun bool) error {
	return i.notifier.SendSeasonSummary(summary, dryRun)
}

func (i *client) Serve() http.Handler {
	return i.inngestClient.Serve()
}

func (i *client) Enabled() bool { return true }

// SendSeasonClosed starts the season-closed-summary workflow.
func (i *client) SendSeasonClosed(ctx context.Context, seasonID string, dryRun bool) error {
	id, err := i.inngestClient.Send(ctx, inngestgo.Event{
		Name: EventSeasonClosed,
		Data: map[string]any{"season_id": seasonID, "dry_run": dryRun},
	})
	if err != nil {
		log.Error("Failed to send inngest event", "error", err, "event", EventSeasonClosed)
		return fmt.Errorf("send %s: %w", EventSeasonClosed, err)
	}
	log.Info("Sent inngest event", "event", EventSeasonClosed, "id", id, "season_id", seasonID)
	return nil
}
