package prayer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingTiming is returned when a schedule is built without every event.
var ErrMissingTiming = errors.New("missing prayer timing")

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses a 24-hour "HH:MM" value. Anything after the first space,
// such as a "(AST)" zone annotation, is discarded.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	clean := strings.TrimSpace(raw)
	if i := strings.IndexByte(clean, ' '); i >= 0 {
		clean = clean[:i]
	}
	parsed, err := time.Parse("15:04", clean)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", raw, err)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// Schedule is one day's timetable for a location. It is immutable once built.
type Schedule struct {
	timings  [len(Events)]TimeOfDay
	timezone string
	location *time.Location
}

// NewSchedule builds a schedule from a full set of timings and an IANA timezone.
func NewSchedule(timings map[Event]TimeOfDay, timezone string) (*Schedule, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	s := &Schedule{timezone: timezone, location: loc}
	for _, e := range Events {
		t, ok := timings[e]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingTiming, e)
		}
		s.timings[e] = t
	}
	return s, nil
}

// Timezone returns the IANA name the timings are authoritative in.
func (s *Schedule) Timezone() string { return s.timezone }

// Location returns the schedule's time zone.
func (s *Schedule) Location() *time.Location { return s.location }

// Time returns the wall-clock time of e.
func (s *Schedule) Time(e Event) TimeOfDay { return s.timings[e] }

// Now converts t into the schedule's zone. The offset is computed for the instant
// itself, so daylight-saving changes are applied on every call.
func (s *Schedule) Now(t time.Time) time.Time {
	return t.In(s.location)
}

// At returns the instant of e on the calendar day of day, as seen in the
// schedule's zone.
func (s *Schedule) At(e Event, day time.Time) time.Time {
	local := day.In(s.location)
	tod := s.timings[e]
	return time.Date(local.Year(), local.Month(), local.Day(), tod.Hour, tod.Minute, 0, 0, s.location)
}

// MinutesUntil returns the whole minutes from now to event, truncated toward zero.
// Negative values mean the event has already passed.
func MinutesUntil(event, now time.Time) int {
	return int(event.Sub(now) / time.Minute)
}
