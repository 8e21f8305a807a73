package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"lifedash/config"
	"lifedash/internal/api"
	"lifedash/internal/clients/elevenlabs"
	"lifedash/internal/logger"
	"lifedash/internal/notify"
	"lifedash/internal/scheduler"
	"lifedash/internal/service"
	"lifedash/internal/storage"
)

func main() {
	// Optional .env; plain environment variables apply otherwise.
	_ = godotenv.Load()

	log := logger.New("lifedash")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}
	defer store.Close()

	if err := store.Seed(); err != nil {
		log.Fatal().Err(err).Msg("seed storage")
	}

	var announcer service.Announcer = service.NoopAnnouncer{}
	if cfg.ElevenAPIKey != "" && cfg.ElevenVoiceID != "" {
		tts := elevenlabs.NewClient(cfg.ElevenAPIKey, cfg.ElevenVoiceID, elevenlabs.VoiceSettings{
			Stability:       cfg.ElevenStability,
			SimilarityBoost: cfg.ElevenSimilarity,
			Style:           cfg.ElevenStyle,
		})
		announcer = service.NewVoiceAnnouncer(tts, filepath.Join(cfg.DataDir, "announcements"), log)
		log.Info().Msg("voice announcements enabled")
	}

	var sender service.Sender
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Error().Err(err).Msg("telegram channel unavailable")
		} else {
			sender = tg
			log.Info().Int64("chat_id", cfg.TelegramChatID).Msg("telegram delivery enabled")
		}
	}

	notifications := service.NewNotificationService()
	reminders := service.NewReminderService(log, notifications, announcer, sender)
	widgets := service.NewWidgetService(store)
	agenda := service.NewAgendaService(log, widgets, reminders, cfg.Timezone, nil)

	// Initial pipeline run: derive, arm timers, show the startup digest.
	if err := agenda.Refresh(); err != nil {
		log.Fatal().Err(err).Msg("initial derivation")
	}
	agenda.PublishDigest()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(cfg, log, agenda)
	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Error().Err(err).Msg("scheduler error")
		}
	}()

	server := api.New(api.Options{
		Widgets:       widgets,
		Agenda:        agenda,
		Notifications: notifications,
		Logger:        log,
		BearerToken:   cfg.BearerToken,
	})
	go func() {
		if err := server.Serve(ctx, cfg.ListenAddr); err != nil {
			log.Error().Err(err).Msg("api server error")
		}
	}()

	log.Info().Msg("lifedash started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")

	cancel()
	sched.Stop()
	reminders.CancelAll()

	log.Info().Msg("lifedash stopped")
}
