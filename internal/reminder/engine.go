package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pathakanu/salaahTracker/internal/notifier"
	"github.com/pathakanu/salaahTracker/internal/prayer"
	"github.com/rs/zerolog"
)

// NothingNeeded is the cycle result when no threshold produced a reminder.
const NothingNeeded = "No reminders needed right now."

// ScheduleSource provides the current day's timetable for a location.
type ScheduleSource interface {
	Schedule(ctx context.Context, city, country string) (*prayer.Schedule, error)
}

// RecipientStore lists the chat ids that still owe a prayer on a date.
type RecipientStore interface {
	ListUncompletedChatIDs(ctx context.Context, prayerName, date string) ([]string, error)
}

// Engine decides which reminders are due and hands them to the dispatcher.
type Engine struct {
	schedules  ScheduleSource
	recipients RecipientStore
	dispatcher *notifier.Dispatcher
	window     int
	now        func() time.Time
	logger     zerolog.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock replaces the engine's notion of now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine. window is the matching width in minutes for every
// threshold and is clamped to [1, prayer.MaxWindow]; 1 means exact-minute matching.
func New(schedules ScheduleSource, recipients RecipientStore, dispatcher *notifier.Dispatcher, window int, logger zerolog.Logger, opts ...Option) *Engine {
	if window < 1 {
		window = 1
	}
	if window > prayer.MaxWindow {
		window = prayer.MaxWindow
	}
	e := &Engine{
		schedules:  schedules,
		recipients: recipients,
		dispatcher: dispatcher,
		window:     window,
		now:        time.Now,
		logger:     logger.With().Str("component", "reminder").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunCycle evaluates every threshold for the location once and returns a
// human-readable log of what was sent. Completion is checked against today's
// calendar date.
func (e *Engine) RunCycle(ctx context.Context, city, country string, today time.Time) string {
	s, err := e.schedules.Schedule(ctx, city, country)
	if err != nil {
		return fetchFailed(city, country)
	}
	return e.evaluate(ctx, s, s.Now(e.now()), today.Format(time.DateOnly))
}

// Check runs a cycle for the date that is current in the location's own zone.
func (e *Engine) Check(ctx context.Context, city, country string) string {
	s, err := e.schedules.Schedule(ctx, city, country)
	if err != nil {
		return fetchFailed(city, country)
	}
	now := s.Now(e.now())
	return e.evaluate(ctx, s, now, now.Format(time.DateOnly))
}

// Wait blocks until reminders dispatched so far have been delivered or failed.
func (e *Engine) Wait() {
	e.dispatcher.Wait()
}

func (e *Engine) evaluate(ctx context.Context, s *prayer.Schedule, now time.Time, date string) string {
	var lines []string
	for _, threshold := range prayer.Thresholds {
		upcoming, ok := s.Upcoming(threshold, now, e.window)
		if !ok {
			continue
		}
		prior, ok := prayer.PriorPrayer(upcoming)
		if !ok {
			continue
		}

		chatIDs, err := e.recipients.ListUncompletedChatIDs(ctx, prior.String(), date)
		if err != nil {
			e.logger.Error().Err(err).Str("prayer", prior.String()).Str("date", date).Msg("list reminder recipients")
			lines = append(lines, fmt.Sprintf("Could not load recipients for %s: %v", prior, err))
			continue
		}

		message := threshold.Message(prior, upcoming)
		for _, chatID := range chatIDs {
			e.dispatcher.Dispatch(chatID, message)
		}

		e.logger.Info().
			Str("threshold", threshold.String()).
			Str("prayer", prior.String()).
			Str("upcoming", upcoming.String()).
			Int("recipients", len(chatIDs)).
			Msg("reminders dispatched")
		lines = append(lines, fmt.Sprintf("Sent %s reminder for %s to %d user(s).", threshold, prior, len(chatIDs)))
	}

	if len(lines) == 0 {
		return NothingNeeded
	}
	return strings.Join(lines, "\n")
}

func fetchFailed(city, country string) string {
	return fmt.Sprintf("Could not fetch prayer times for %s, %s.", strings.TrimSpace(city), strings.TrimSpace(country))
}
