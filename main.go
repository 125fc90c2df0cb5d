package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/salaahTracker/internal/aladhan"
	"github.com/pathakanu/salaahTracker/internal/auth"
	"github.com/pathakanu/salaahTracker/internal/config"
	"github.com/pathakanu/salaahTracker/internal/database"
	"github.com/pathakanu/salaahTracker/internal/notifier"
	"github.com/pathakanu/salaahTracker/internal/reminder"
	"github.com/pathakanu/salaahTracker/internal/server"
	"github.com/pathakanu/salaahTracker/internal/store"
	"github.com/pathakanu/salaahTracker/internal/telegram"
	"github.com/pathakanu/salaahTracker/internal/twilio"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger := newLogger(cfg)

	db, err := database.New(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init failed")
	}
	st := store.New(db)

	prayerTimes := aladhan.New(cfg.HTTPTimeout, logger,
		aladhan.WithBaseURL(cfg.PrayerAPIURL),
		aladhan.WithMethod(cfg.PrayerMethod),
	)

	telegramClient := telegram.New(cfg.TelegramBotToken, cfg.TelegramAPIEndpoint, cfg.HTTPTimeout, logger)
	if telegramClient.Configured() {
		if err := telegramClient.Connect(); err != nil {
			logger.Warn().Err(err).Msg("telegram handshake failed; retrying on first send")
		}
	}
	twilioClient := twilio.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber, cfg.HTTPTimeout, logger)
	dispatcher := notifier.NewDispatcher(notifier.New(telegramClient, twilioClient, logger), cfg.HTTPTimeout, logger)

	engine := reminder.New(prayerTimes, st, dispatcher, cfg.ReminderWindowMinutes, logger)
	scheduler := reminder.NewScheduler(engine, cfg.ReminderCity, cfg.ReminderCountry, cfg.ReminderCron, cfg.LocalTimezone, logger)
	if err := scheduler.StartScheduler(); err != nil {
		logger.Fatal().Err(err).Msg("scheduler start")
	}

	revoker := newRevoker(cfg, logger)
	api := server.New(st, engine, revoker, cfg.JWTSecret, cfg.LocalTimezone, logger,
		server.WithTriggerToken(cfg.ReminderTriggerToken),
	)
	if cfg.ReminderTriggerToken == "" {
		logger.Warn().Msg("REMINDER_TRIGGER_TOKEN not set; /api/reminders/check is unauthenticated")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	waitForShutdown(srv, scheduler, engine, logger)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Development() {
		gin.SetMode(gin.DebugMode)
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Str("app", "salaahTracker").Logger()
	}
	gin.SetMode(gin.ReleaseMode)
	return zerolog.New(os.Stdout).With().Timestamp().Str("app", "salaahTracker").Logger()
}

func newRevoker(cfg *config.Config, logger zerolog.Logger) auth.Revoker {
	if cfg.RedisAddress == "" {
		logger.Info().Msg("REDIS_ADDRESS not set; logged-out sessions are tracked in memory")
		return auth.NewMemoryRevoker()
	}

	r := auth.NewRedisRevoker(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		logger.Warn().Err(err).Str("address", cfg.RedisAddress).Msg("redis unreachable at startup; revocation checks will retry per request")
	}
	return r
}

func waitForShutdown(srv *http.Server, scheduler *reminder.Scheduler, engine *reminder.Engine, logger zerolog.Logger) {
	stopCtx := make(chan os.Signal, 1)
	signal.Notify(stopCtx, syscall.SIGINT, syscall.SIGTERM)
	<-stopCtx
	logger.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	scheduler.StopScheduler()
	engine.Wait()
}
