package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/config"
	"github.com/mauv0809/mus-league/internal/database"
	"github.com/mauv0809/mus-league/internal/match"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/mauv0809/mus-league/internal/season"
	"github.com/mauv0809/mus-league/internal/stats"
	"github.com/spf13/cobra"
)

var (
	numMatches int
	numGuests  int
	seasonName string
)

var seedNames = []string{"Ane", "Bittor", "Carmen", "Dani", "Eneko", "Garazi", "Iker", "Josune"}

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Fill the configured database with a demo season",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seed(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().IntVar(&numMatches, "matches", 200, "Number of matches to record")
	rootCmd.Flags().IntVar(&numGuests, "guests", 2, "Number of guest players in the season")
	rootCmd.Flags().StringVar(&seasonName, "season", "", "Name of the season to open (defaults to one based on today)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context) error {
	log.Info("Starting database seeder...")
	cfg := config.Load()
	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken,
		database.Options{SkipMigrations: cfg.SkipMigrations})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer teardown()

	players := club.New(db)
	seasons := season.New(db)
	matches := match.NewService(match.New(db), seasons, players, metrics.NewService())

	roster := make([]stats.Player, 0, len(seedNames)+numGuests)
	var admin match.Actor
	for i, name := range seedNames {
		p, err := players.Register(ctx, club.RegisterInput{Name: name})
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		if err := players.Approve(ctx, p.ID); err != nil {
			return fmt.Errorf("approve %s: %w", name, err)
		}
		if i == 0 {
			admin = match.Actor{ID: p.ID, IsAdmin: true}
		}
		roster = append(roster, p.AsPlayer())
	}
	log.Info("Registered players", "count", len(seedNames))

	if seasonName == "" {
		seasonName = "Seeded " + time.Now().Format("2006-01")
	}
	start := time.Now().AddDate(0, 0, -90).UTC()
	s, err := seasons.Create(ctx, seasonName, start)
	if err != nil {
		return fmt.Errorf("open season: %w", err)
	}
	log.Info("Opened season", "season_id", s.ID, "name", s.Name)

	for i := 0; i < numGuests; i++ {
		g, err := players.CreateSeasonPlayer(ctx, club.SeasonPlayerInput{
			Name:     fmt.Sprintf("Guest %d", i+1),
			SeasonID: s.ID,
		})
		if err != nil {
			return fmt.Errorf("create guest: %w", err)
		}
		roster = append(roster, g.AsPlayer())
	}

	startTime := time.Now()
	for i := 0; i < numMatches; i++ {
		in := randomMatch(roster, start)
		m, err := matches.Create(ctx, admin, in)
		if err != nil {
			return fmt.Errorf("record match %d: %w", i, err)
		}
		// most games get confirmed, a few stay pending
		if m.Status == stats.StatusPending && rand.Intn(10) > 0 {
			if _, err := matches.AdminValidate(ctx, admin, m.ID); err != nil {
				return fmt.Errorf("validate match %s: %w", m.ID, err)
			}
		}
		if (i+1)%50 == 0 {
			log.Info("Recorded matches", "completed", i+1, "total", numMatches)
		}
	}

	log.Info("Successfully seeded demo season.", "matches", numMatches, "duration", time.Since(startTime))
	return nil
}

// randomMatch draws four distinct players and a plausible score.
func randomMatch(roster []stats.Player, since time.Time) match.NewMatch {
	picked := rand.Perm(len(roster))[:4]
	var in match.NewMatch
	for i, idx := range picked {
		in.Slots[i] = roster[idx].Ref()
	}
	in.WinnerTeam = 1 + rand.Intn(2)
	win, lose := 3, rand.Intn(3)
	if in.WinnerTeam == 1 {
		in.Team1Score, in.Team2Score = win, lose
	} else {
		in.Team1Score, in.Team2Score = lose, win
	}
	span := time.Since(since)
	in.PlayedAt = since.Add(time.Duration(rand.Int63n(int64(span))))
	return in
}
