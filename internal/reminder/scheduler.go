package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSpec polls every five minutes, matching the widest reminder window.
const DefaultSpec = "*/5 * * * *"

// Scheduler periodically runs reminder cycles for one location.
type Scheduler struct {
	engine  *Engine
	city    string
	country string
	spec    string
	cron    *cron.Cron
	logger  zerolog.Logger
}

// NewScheduler prepares a cron-driven poller. It does nothing until Start.
func NewScheduler(engine *Engine, city, country, spec string, loc *time.Location, logger zerolog.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		engine:  engine,
		city:    strings.TrimSpace(city),
		country: strings.TrimSpace(country),
		spec:    spec,
		logger:  logger.With().Str("component", "scheduler").Logger(),
	}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(&s.logger))),
	)
	return s
}

// Enabled reports whether a location was configured.
func (s *Scheduler) Enabled() bool {
	return s.city != "" && s.country != ""
}

// StartScheduler registers the polling job and starts the cron loop.
func (s *Scheduler) StartScheduler() error {
	if !s.Enabled() {
		s.logger.Warn().Msg("REMINDER_CITY/REMINDER_COUNTRY not set; reminder polling disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Str("city", s.city).Str("country", s.country).Msg("reminder polling started")
	return nil
}

// StopScheduler stops the cron loop and waits for a running cycle to finish.
func (s *Scheduler) StopScheduler() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce executes a single reminder cycle and logs its result.
func (s *Scheduler) RunOnce() {
	cycleID := uuid.NewString()
	started := time.Now()
	result := s.engine.Check(context.Background(), s.city, s.country)
	s.logger.Info().
		Str("cycle_id", cycleID).
		Dur("elapsed", time.Since(started)).
		Str("result", result).
		Msg("reminder cycle finished")
}
