package prayer

import (
	"fmt"
	"time"
)

// Threshold is a reminder tier, expressed in minutes before an event.
type Threshold int

const (
	Info    Threshold = 20
	Warning Threshold = 10
	Urgent  Threshold = 5
)

// Thresholds are evaluated in this order on every cycle.
var Thresholds = [...]Threshold{Info, Warning, Urgent}

// MaxWindow is the widest matching window that keeps thresholds from overlapping.
const MaxWindow = 5

var templates = map[Threshold]string{
	Info:    "🕌 Reminder: %[2]s starts in 20 minutes. If you haven't prayed %[1]s yet, there is still time.",
	Warning: "⚠️ Only 10 minutes left until %[2]s. Don't forget to pray %[1]s!",
	Urgent:  "🚨 URGENT: %[2]s is in 5 minutes! Pray %[1]s now before its time ends.",
}

func (t Threshold) String() string {
	return fmt.Sprintf("%dm", int(t))
}

// Message formats the threshold's reminder for a closing prayer and the event
// that closes it.
func (t Threshold) Message(prior, upcoming Event) string {
	tmpl, ok := templates[t]
	if !ok {
		return fmt.Sprintf("Reminder: %s is in %d minutes. Have you prayed %s?", upcoming, int(t), prior)
	}
	return fmt.Sprintf(tmpl, prior, upcoming)
}

// Due reports whether an event minutesAway from now falls in the threshold's
// window of width minutes: t-width < minutesAway <= t. Events that have passed
// are never due.
func (t Threshold) Due(minutesAway, width int) bool {
	if minutesAway <= 0 {
		return false
	}
	return minutesAway > int(t)-width && minutesAway <= int(t)
}

// Upcoming returns the first event, in timetable order, that is due for
// threshold t at now. ok is false when no event is due.
func (s *Schedule) Upcoming(t Threshold, now time.Time, width int) (event Event, ok bool) {
	for _, e := range Events {
		at := s.At(e, now)
		if at.Before(now) {
			continue
		}
		if t.Due(MinutesUntil(at, now), width) {
			return e, true
		}
	}
	return 0, false
}
