package prayer

import "strings"

// Event is a named point in the daily prayer timetable.
type Event int

const (
	Fajr Event = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
)

// Events lists every timetable event in chronological order.
var Events = [...]Event{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// Prayers lists the five ritual prayers a user can mark complete.
var Prayers = [...]Event{Fajr, Dhuhr, Asr, Maghrib, Isha}

var eventNames = [...]string{
	Fajr:    "Fajr",
	Sunrise: "Sunrise",
	Dhuhr:   "Dhuhr",
	Asr:     "Asr",
	Maghrib: "Maghrib",
	Isha:    "Isha",
}

func (e Event) String() string {
	if e < Fajr || e > Isha {
		return "Unknown"
	}
	return eventNames[e]
}

// ParseEvent resolves a timetable event by name, ignoring case.
func ParseEvent(name string) (Event, bool) {
	for _, e := range Events {
		if strings.EqualFold(eventNames[e], strings.TrimSpace(name)) {
			return e, true
		}
	}
	return 0, false
}

// IsPrayer reports whether e is one of the five ritual prayers.
func (e Event) IsPrayer() bool {
	return e != Sunrise && e >= Fajr && e <= Isha
}

// priorPrayers maps an upcoming event to the prayer whose window closes at it.
// Nothing closes at Dhuhr or Fajr.
var priorPrayers = map[Event]Event{
	Sunrise: Fajr,
	Asr:     Dhuhr,
	Maghrib: Asr,
	Isha:    Maghrib,
}

// PriorPrayer returns the prayer whose window is closing as upcoming approaches.
// ok is false when no prayer ends at upcoming.
func PriorPrayer(upcoming Event) (prior Event, ok bool) {
	prior, ok = priorPrayers[upcoming]
	return prior, ok
}
