package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/i474232898/weather-voice-notes/internal/delivery"
	"github.com/i474232898/weather-voice-notes/internal/pipeline"
)

type fakeRunner struct {
	calls int
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, req pipeline.RunRequest) (pipeline.RunResult, error) {
	f.calls++
	if f.err != nil {
		return pipeline.RunResult{}, f.err
	}
	return pipeline.RunResult{Delivery: &delivery.Outcome{Success: true, Detail: "sent"}}, nil
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := New(nil)
	t.Cleanup(s.Stop)
	return s
}

func TestSetRejectsBadTime(t *testing.T) {
	s := newTestScheduler(t)

	for _, bad := range []string{"25:00", "7:30", "07:60", "0730", ""} {
		err := s.Set(Config{
			Enabled:     true,
			Time:        bad,
			Channel:     delivery.ChannelEmail,
			Destination: "a@b.com",
		})
		if !errors.Is(err, ErrInvalidSchedule) {
			t.Errorf("time %q: expected ErrInvalidSchedule, got %v", bad, err)
		}
	}
}

func TestSetInvalidLeavesPreviousUntouched(t *testing.T) {
	s := newTestScheduler(t)

	good := Config{
		Enabled:     true,
		Time:        "07:30",
		Channel:     delivery.ChannelEmail,
		Destination: "a@b.com",
		City:        "Paris",
	}
	if err := s.Set(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := s.Set(Config{
		Enabled:     true,
		Time:        "25:00",
		Channel:     delivery.ChannelEmail,
		Destination: "a@b.com",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	cfg := s.Get()
	if cfg == nil {
		t.Fatal("previous schedule must survive a failed update")
	}
	if cfg.Time != "07:30" || cfg.City != "Paris" {
		t.Errorf("previous schedule changed: %+v", cfg)
	}
}

func TestSetValidatesDestinationPerChannel(t *testing.T) {
	s := newTestScheduler(t)

	err := s.Set(Config{
		Enabled:     true,
		Time:        "07:30",
		Channel:     delivery.ChannelSMS,
		Destination: "abc",
	})
	if !errors.Is(err, delivery.ErrInvalidDestination) {
		t.Fatalf("expected ErrInvalidDestination, got %v", err)
	}

	err = s.Set(Config{
		Enabled:     true,
		Time:        "07:30",
		Channel:     delivery.Channel("pigeon"),
		Destination: "a@b.com",
	})
	if !errors.Is(err, delivery.ErrUnsupportedChannel) {
		t.Fatalf("expected ErrUnsupportedChannel, got %v", err)
	}
}

func TestSetNormalizesPhoneAndDefaultsCity(t *testing.T) {
	s := newTestScheduler(t)

	err := s.Set(Config{
		Enabled:     true,
		Time:        "08:00",
		Channel:     delivery.ChannelSMS,
		Destination: "1234567890",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := s.Get()
	if cfg == nil {
		t.Fatal("schedule must be active")
	}
	if cfg.Destination != "+1234567890" {
		t.Errorf("destination not normalized: %q", cfg.Destination)
	}
	if cfg.City != "London" {
		t.Errorf("expected default city London, got %q", cfg.City)
	}
}

func TestEnableThenDisableClearsSchedule(t *testing.T) {
	s := newTestScheduler(t)

	err := s.Set(Config{
		Enabled:     true,
		Time:        "07:30",
		Channel:     delivery.ChannelEmail,
		Destination: "a@b.com",
		City:        "Paris",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Get() == nil {
		t.Fatal("schedule must be active after enable")
	}

	if err := s.Set(Config{Enabled: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Get() != nil {
		t.Fatal("schedule must be nil after disable")
	}
	if jobs := s.scheduler.Jobs(); len(jobs) != 0 {
		t.Fatalf("no timer may remain active, found %d jobs", len(jobs))
	}
}

func TestRunFailureKeepsSchedule(t *testing.T) {
	r := &fakeRunner{err: errors.New("synthesis unavailable")}
	s := New(r)
	t.Cleanup(s.Stop)

	err := s.Set(Config{
		Enabled:     true,
		Time:        "07:30",
		Channel:     delivery.ChannelEmail,
		Destination: "a@b.com",
		City:        "Paris",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.run()

	if r.calls != 1 {
		t.Fatalf("expected one run attempt, got %d", r.calls)
	}
	cfg := s.Get()
	if cfg == nil || cfg.Time != "07:30" {
		t.Fatalf("a failed run must not disable the schedule, got %+v", cfg)
	}
	if jobs := s.scheduler.Jobs(); len(jobs) != 1 {
		t.Fatalf("the daily timer must survive a failed run, found %d jobs", len(jobs))
	}
}

func TestRunAtMostOncePerDay(t *testing.T) {
	r := &fakeRunner{}
	s := New(r)
	t.Cleanup(s.Stop)

	err := s.Set(Config{
		Enabled:     true,
		Time:        "07:30",
		Channel:     delivery.ChannelEmail,
		Destination: "a@b.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.run()
	s.run()

	if r.calls != 1 {
		t.Fatalf("a second trigger on the same day must be skipped, got %d runs", r.calls)
	}
}

func TestReplaceKeepsSingleJob(t *testing.T) {
	s := newTestScheduler(t)

	for _, at := range []string{"07:30", "08:15", "21:00"} {
		err := s.Set(Config{
			Enabled:     true,
			Time:        at,
			Channel:     delivery.ChannelEmail,
			Destination: "a@b.com",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if jobs := s.scheduler.Jobs(); len(jobs) != 1 {
		t.Fatalf("expected exactly one active job, found %d", len(jobs))
	}
	if cfg := s.Get(); cfg == nil || cfg.Time != "21:00" {
		t.Errorf("expected latest schedule to win, got %+v", cfg)
	}
}
