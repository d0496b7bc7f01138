package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/club"
	"github.com/mauv0809/mus-league/internal/config"
	"github.com/mauv0809/mus-league/internal/database"
	server "github.com/mauv0809/mus-league/internal/http"
	"github.com/mauv0809/mus-league/internal/inngest"
	"github.com/mauv0809/mus-league/internal/leaderboard"
	"github.com/mauv0809/mus-league/internal/match"
	"github.com/mauv0809/mus-league/internal/metrics"
	"github.com/mauv0809/mus-league/internal/notifier/slack"
	"github.com/mauv0809/mus-league/internal/processor"
	"github.com/mauv0809/mus-league/internal/pubsub"
	"github.com/mauv0809/mus-league/internal/scheduler"
	"github.com/mauv0809/mus-league/internal/season"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken,
		database.Options{SkipMigrations: cfg.SkipMigrations})
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	log.Info("Database initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	counters := metrics.New(db)

	clubStore := club.New(db)
	seasonStore := season.New(db)
	matchStore := match.New(db)
	matches := match.NewService(matchStore, seasonStore, clubStore, metricsSvc)
	boards := leaderboard.New(matchStore, clubStore, seasonStore, metricsSvc)

	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)

	pubsubClient, err := pubsub.New(context.Background(), cfg.ProjectID, metricsSvc)
	if err != nil {
		log.Fatalf("Failed to initialize pubsub: %s", err)
	}
	defer pubsubClient.Close()

	var workflows inngest.InngestClient
	if cfg.Inngest.Enabled() {
		inngestProvider, err := inngest.NewClient(cfg.Inngest)
		if err != nil {
			log.Fatalf("Failed to initialize inngest: %s", err)
		}
		workflows, err = inngest.New(inngestProvider, boards, notifier)
		if err != nil {
			log.Fatalf("Failed to register inngest functions: %s", err)
		}
	} else {
		log.Info("INNGEST_APP_ID not set, season workflows run in-process")
	}

	proc := processor.New(processor.Deps{
		Matches:           matches,
		Players:           clubStore,
		Seasons:           seasonStore,
		Standings:         boards,
		Notifier:          notifier,
		PubSub:            pubsubClient,
		Workflows:         workflows,
		Metrics:           metricsSvc,
		Counters:          counters,
		AutoValidateAfter: cfg.AutoValidate.After,
	})

	var sched *scheduler.Scheduler
	if !cfg.AutoValidate.Disabled {
		sched = scheduler.New(proc, cfg.AutoValidate.Schedule)
		if err := sched.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %s", err)
		}
		log.Info("Next auto-validation run", "at", sched.Next())
	}

	s := server.NewServer(server.Deps{
		DB:             db,
		Players:        clubStore,
		Seasons:        seasonStore,
		Matches:        matches,
		Leaderboard:    boards,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Notifier:       notifier,
		Processor:      proc,
		PubSub:         pubsubClient,
		Workflows:      workflows,
	}, cfg)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
		if sched != nil {
			sched.Stop(ctx)
		}
	}

	log.Info("Server process shutting down")
}
