package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-voice-notes/internal/delivery"
	"github.com/i474232898/weather-voice-notes/internal/pipeline"
)

// ErrInvalidSchedule is returned when a schedule config fails validation.
var ErrInvalidSchedule = errors.New("invalid schedule")

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// runTimeout bounds one scheduled pipeline run.
const runTimeout = 3 * time.Minute

// Config is the single recurring voice note job: fire daily at Time and
// deliver to Destination over Channel. It lives only in process memory.
type Config struct {
	Enabled     bool             `json:"enabled"`
	Time        string           `json:"time"` // 24-hour "HH:MM", local time
	Channel     delivery.Channel `json:"deliveryMethod"`
	Destination string           `json:"contactInfo"`
	City        string           `json:"city"`
}

// Runner executes one end-to-end voice note run. *pipeline.Pipeline is the
// production implementation.
type Runner interface {
	Run(ctx context.Context, req pipeline.RunRequest) (pipeline.RunResult, error)
}

// Scheduler owns the single schedule slot. All mutation goes through Set, so
// at most one timer is ever active.
type Scheduler struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	cfg       *Config
	lastRun   string // date of the last executed trigger, "2006-01-02"

	runner Runner
}

// New creates a Scheduler and starts its underlying job runner. No job is
// installed until Set enables one.
func New(r Runner) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	s.StartAsync()
	return &Scheduler{
		scheduler: s,
		runner:    r,
	}
}

// Set validates and installs a new schedule, replacing any previous one as a
// single operation. Validation failure leaves the previous schedule running.
// A disabled config stops and clears the schedule.
func (s *Scheduler) Set(cfg Config) error {
	if !cfg.Enabled {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.scheduler.Clear()
		s.cfg = nil
		log.Println("auto notifications disabled and scheduled job stopped")
		return nil
	}

	if !timeOfDayRe.MatchString(cfg.Time) {
		return fmt.Errorf("%w: time %q must be HH:MM (24-hour)", ErrInvalidSchedule, cfg.Time)
	}
	channel, err := delivery.ParseChannel(string(cfg.Channel))
	if err != nil {
		return err
	}
	cfg.Channel = channel

	dest, err := delivery.ValidateDestination(cfg.Channel, cfg.Destination)
	if err != nil {
		return err
	}
	cfg.Destination = dest

	if cfg.City == "" {
		cfg.City = "London"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler.Clear()
	if _, err := s.scheduler.Every(1).Day().At(cfg.Time).Do(s.run); err != nil {
		s.cfg = nil
		return fmt.Errorf("schedule job: %w", err)
	}
	s.cfg = &cfg

	log.Printf("auto notifications enabled for %s at %s via %s", cfg.City, cfg.Time, cfg.Channel)
	return nil
}

// Get returns a snapshot of the current schedule, or nil when disabled.
func (s *Scheduler) Get() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg == nil {
		return nil
	}
	cfg := *s.cfg
	return &cfg
}

// Stop halts the underlying job runner. Used on shutdown.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// run executes one scheduled pipeline run. Failures are logged and never
// touch the schedule; tomorrow's trigger fires regardless.
func (s *Scheduler) run() {
	s.mu.Lock()
	if s.cfg == nil {
		s.mu.Unlock()
		return
	}
	cfg := *s.cfg

	// At-most-once per calendar day, in case the timer misfires twice.
	today := time.Now().Format("2006-01-02")
	if s.lastRun == today {
		s.mu.Unlock()
		log.Printf("scheduled run for %s already executed, skipping", today)
		return
	}
	s.lastRun = today
	s.mu.Unlock()

	log.Printf("running scheduled voice note for %s via %s", cfg.City, cfg.Channel)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	result, err := s.runner.Run(ctx, pipeline.RunRequest{
		City:        cfg.City,
		Channel:     cfg.Channel,
		Destination: cfg.Destination,
		Deliver:     true,
	})
	if err != nil {
		log.Printf("ERROR: scheduled voice note failed: %v", err)
		return
	}

	log.Printf("scheduled voice note delivered: %s", result.Delivery.Detail)
}
