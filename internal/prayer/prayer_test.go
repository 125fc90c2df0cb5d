package prayer

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func riyadhSchedule(t *testing.T) *Schedule {
	t.Helper()
	return scheduleWith(t, nil)
}

// scheduleWith returns the Riyadh timetable with some events moved.
func scheduleWith(t *testing.T, overrides map[Event]TimeOfDay) *Schedule {
	t.Helper()
	timings := map[Event]TimeOfDay{
		Fajr:    {5, 0},
		Sunrise: {6, 20},
		Dhuhr:   {12, 0},
		Asr:     {15, 20},
		Maghrib: {18, 0},
		Isha:    {19, 30},
	}
	for e, tod := range overrides {
		timings[e] = tod
	}
	s, err := NewSchedule(timings, "Asia/Riyadh")
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}
	return s
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	cases := map[string]TimeOfDay{
		"05:23":        {5, 23},
		"05:23 (AST)":  {5, 23},
		" 18:07 (+03)": {18, 7},
		"00:00":        {0, 0},
		"23:59 (EEST)": {23, 59},
	}
	for input, want := range cases {
		got, err := ParseTimeOfDay(input)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q) error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseTimeOfDay(%q) = %v, want %v", input, got, want)
		}
	}

	for _, bad := range []string{"", "5pm", "25:00", "(AST) 05:00"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Fatalf("ParseTimeOfDay(%q) expected error", bad)
		}
	}
}

func TestNewScheduleRequiresEveryEvent(t *testing.T) {
	t.Parallel()

	_, err := NewSchedule(map[Event]TimeOfDay{Fajr: {5, 0}}, "UTC")
	if !errors.Is(err, ErrMissingTiming) {
		t.Fatalf("expected ErrMissingTiming, got %v", err)
	}
	if _, err := NewSchedule(nil, "Not/AZone"); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}

func TestPriorPrayerTable(t *testing.T) {
	t.Parallel()

	want := map[Event]Event{
		Sunrise: Fajr,
		Asr:     Dhuhr,
		Maghrib: Asr,
		Isha:    Maghrib,
	}
	for upcoming, prior := range want {
		got, ok := PriorPrayer(upcoming)
		if !ok || got != prior {
			t.Fatalf("PriorPrayer(%s) = %s, %v; want %s", upcoming, got, ok, prior)
		}
	}
	for _, none := range []Event{Dhuhr, Fajr} {
		if _, ok := PriorPrayer(none); ok {
			t.Fatalf("PriorPrayer(%s) should have no mapping", none)
		}
	}
}

func TestParseEvent(t *testing.T) {
	t.Parallel()

	if e, ok := ParseEvent("maghrib"); !ok || e != Maghrib {
		t.Fatalf("ParseEvent(maghrib) = %v, %v", e, ok)
	}
	if _, ok := ParseEvent("Tahajjud"); ok {
		t.Fatalf("ParseEvent should reject unknown names")
	}
	if Sunrise.IsPrayer() || !Isha.IsPrayer() {
		t.Fatalf("IsPrayer mismatch")
	}
}

func TestMinutesUntilTruncates(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 1, 17, 40, 0, 0, time.UTC)
	cases := []struct {
		now  time.Time
		want int
	}{
		{base, 20},
		{base.Add(30 * time.Second), 19},
		{base.Add(-59 * time.Second), 20},
		{base.Add(20 * time.Minute), 0},
		{base.Add(20*time.Minute + 30*time.Second), 0},
		{base.Add(22 * time.Minute), -2},
	}
	event := base.Add(20 * time.Minute)
	for _, tc := range cases {
		if got := MinutesUntil(event, tc.now); got != tc.want {
			t.Fatalf("MinutesUntil(%s, %s) = %d, want %d", event.Format(time.TimeOnly), tc.now.Format(time.TimeOnly), got, tc.want)
		}
	}
}

func TestThresholdDueWindows(t *testing.T) {
	t.Parallel()

	cases := []struct {
		threshold Threshold
		minutes   int
		width     int
		want      bool
	}{
		{Info, 20, 1, true},
		{Info, 19, 1, false},
		{Info, 19, 5, true},
		{Info, 16, 5, true},
		{Info, 15, 5, false},
		{Warning, 10, 5, true},
		{Warning, 6, 5, true},
		{Warning, 5, 5, false},
		{Urgent, 5, 5, true},
		{Urgent, 1, 5, true},
		{Urgent, 0, 5, false},
		{Urgent, -3, 5, false},
		{Urgent, 4, 1, false},
	}
	for _, tc := range cases {
		if got := tc.threshold.Due(tc.minutes, tc.width); got != tc.want {
			t.Fatalf("%s.Due(%d, %d) = %v, want %v", tc.threshold, tc.minutes, tc.width, got, tc.want)
		}
	}
}

func TestUpcomingMatchesOneEvent(t *testing.T) {
	t.Parallel()
	s := riyadhSchedule(t)
	loc := s.Location()

	now := time.Date(2025, 3, 1, 17, 40, 0, 0, loc)
	e, ok := s.Upcoming(Info, now, 1)
	if !ok || e != Maghrib {
		t.Fatalf("Upcoming(20m) at 17:40 = %s, %v; want Maghrib", e, ok)
	}
	if _, ok := s.Upcoming(Warning, now, 5); ok {
		t.Fatalf("no event should be 10 minutes away at 17:40")
	}

	now = time.Date(2025, 3, 1, 6, 0, 0, 0, loc)
	if e, ok := s.Upcoming(Info, now, 5); !ok || e != Sunrise {
		t.Fatalf("Upcoming(20m) at 06:00 = %s, %v; want Sunrise", e, ok)
	}
}

func TestUpcomingBreaksTiesInTimetableOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		times map[Event]TimeOfDay
		now   TimeOfDay
		want  Event
		later Event
	}{
		{
			name:  "Dhuhr before Asr",
			times: map[Event]TimeOfDay{Dhuhr: {12, 0}, Asr: {12, 2}},
			now:   TimeOfDay{11, 42},
			want:  Dhuhr,
			later: Asr,
		},
		{
			name:  "Asr before Maghrib",
			times: map[Event]TimeOfDay{Asr: {15, 20}, Maghrib: {15, 22}},
			now:   TimeOfDay{15, 2},
			want:  Asr,
			later: Maghrib,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := scheduleWith(t, tc.times)
			now := time.Date(2025, 3, 1, tc.now.Hour, tc.now.Minute, 0, 0, s.Location())

			for _, e := range []Event{tc.want, tc.later} {
				if !Info.Due(MinutesUntil(s.At(e, now), now), MaxWindow) {
					t.Fatalf("%s should be inside the 20m window at %02d:%02d", e, tc.now.Hour, tc.now.Minute)
				}
			}
			if e, ok := s.Upcoming(Info, now, MaxWindow); !ok || e != tc.want {
				t.Fatalf("Upcoming(20m) = %s, %v; want %s", e, ok, tc.want)
			}
		})
	}
}

func TestUpcomingIgnoresPastEvents(t *testing.T) {
	t.Parallel()
	s := riyadhSchedule(t)

	// 19:33 is after Isha; nothing wraps to tomorrow's Fajr.
	now := time.Date(2025, 3, 1, 19, 33, 0, 0, s.Location())
	for _, th := range Thresholds {
		if e, ok := s.Upcoming(th, now, MaxWindow); ok {
			t.Fatalf("%s matched past event %s", th, e)
		}
	}
}

func TestUpcomingUsesScheduleZone(t *testing.T) {
	t.Parallel()
	s := riyadhSchedule(t)

	// 14:40 UTC is 17:40 in Riyadh.
	now := time.Date(2025, 3, 1, 14, 40, 0, 0, time.UTC)
	e, ok := s.Upcoming(Info, s.Now(now), 1)
	if !ok || e != Maghrib {
		t.Fatalf("Upcoming from UTC instant = %s, %v; want Maghrib", e, ok)
	}
}

func TestThresholdMessagesNamePrayers(t *testing.T) {
	t.Parallel()

	for _, th := range Thresholds {
		msg := th.Message(Asr, Maghrib)
		if !strings.Contains(msg, "Asr") || !strings.Contains(msg, "Maghrib") {
			t.Fatalf("%s message missing names: %q", th, msg)
		}
	}
	if Info.Message(Asr, Maghrib) == Urgent.Message(Asr, Maghrib) {
		t.Fatalf("expected distinct tones per threshold")
	}
	if !strings.Contains(Urgent.Message(Fajr, Sunrise), "URGENT") {
		t.Fatalf("urgent message should carry urgent tone")
	}
}
