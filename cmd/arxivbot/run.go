package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"arxivbot/internal/config"
	"arxivbot/internal/fetcher"
	"arxivbot/internal/logger"
	"arxivbot/internal/poster"
	"arxivbot/internal/scheduler"
	"arxivbot/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the dispatch loop until interrupted (default)",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closer.Close() }()

	creds, err := config.LoadCredentials(cfg.Credentials, cfg.Platform)
	if err != nil {
		log.Error("load credentials", "path", cfg.Credentials, "error", err)
		return err
	}

	client := newHTTPClient(cfg)

	p, err := newPoster(cfg, creds, client)
	if err != nil {
		log.Error("create poster", "platform", cfg.Platform, "error", err)
		return err
	}

	store, err := storage.Open(cfg.State)
	if err != nil {
		log.Error("open state", "driver", cfg.State.Driver, "path", cfg.State.Path, "error", err)
		return err
	}
	defer func() { _ = store.Close() }()
	if db, ok := store.(*storage.SQLite); ok {
		log.Debug("state database ready", "path", cfg.State.Path, "schema_version", db.SchemaVersion())
	}

	sched := scheduler.New(cfg.Sources, store, fetcher.New(client), newSynthesizer(), p, log)
	sched.SetTweetInterval(cfg.TweetIntervalDuration())
	if err := sched.SetCycleSchedule(cfg.CycleScheduleSpec()); err != nil {
		log.Error("cycle schedule", "error", err)
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting bot", "platform", cfg.Platform, "sources", len(cfg.Sources), "state", cfg.State.Driver)
	sched.Run(ctx)
	log.Info("bot stopped")
	return nil
}

func newPoster(cfg *config.Config, creds *config.Credentials, client *http.Client) (scheduler.Poster, error) {
	switch cfg.Platform {
	case config.PlatformTelegram:
		tg, err := poster.NewTelegram(creds.TelegramToken, creds.TelegramChatID, client)
		if err != nil {
			return nil, err
		}
		return tg, nil
	default:
		return poster.NewTwitterFromCredentials(*creds, cfg.HTTPTimeoutDuration()), nil
	}
}

