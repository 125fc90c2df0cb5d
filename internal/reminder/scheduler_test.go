package reminder

import (
	"testing"
	"time"

	"github.com/pathakanu/salaahTracker/internal/prayer"
	"github.com/rs/zerolog"
)

func TestSchedulerDisabledWithoutLocation(t *testing.T) {
	t.Parallel()
	e := newTestEngine(fixedSchedules{}, brokenRecipients{}, &recordingNotifier{}, 1, time.Now)
	s := NewScheduler(e, "", "Saudi Arabia", "", nil, zerolog.Nop())

	if s.Enabled() {
		t.Fatalf("scheduler without a city should be disabled")
	}
	if err := s.StartScheduler(); err != nil {
		t.Fatalf("StartScheduler returned error: %v", err)
	}
	s.StopScheduler()
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	t.Parallel()
	e := newTestEngine(fixedSchedules{}, brokenRecipients{}, &recordingNotifier{}, 1, time.Now)
	s := NewScheduler(e, "Jeddah", "Saudi Arabia", "every now and then", time.UTC, zerolog.Nop())

	if err := s.StartScheduler(); err == nil {
		t.Fatalf("expected an error for an invalid cron spec")
	}
}

func TestSchedulerRunOnceDispatches(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	seedUsers(t, st, 2)

	now := riyadh(t, 17, 40)
	rec := &recordingNotifier{}
	e := newTestEngine(fixedSchedules{schedule: testSchedule(t, prayer.TimeOfDay{Hour: 18})}, st, rec, 1, func() time.Time { return now })
	s := NewScheduler(e, "Jeddah", "Saudi Arabia", DefaultSpec, time.UTC, zerolog.Nop())

	s.RunOnce()
	e.Wait()

	if sent := rec.messages(); len(sent) != 2 {
		t.Fatalf("expected 2 reminders from one poll, got %+v", sent)
	}
}
