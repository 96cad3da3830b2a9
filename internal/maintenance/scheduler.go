// Package maintenance runs periodic database housekeeping on a cron schedule.
package maintenance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// jobTimeout bounds a single optimize run.
const jobTimeout = 5 * time.Minute

// Optimizer refreshes database statistics. *database.DB satisfies it.
type Optimizer interface {
	Optimize(ctx context.Context) error
}

// Status describes the scheduler for the CLI and logs.
type Status struct {
	Running  bool       `json:"running"`
	Schedule string     `json:"schedule"`
	NextRun  *time.Time `json:"next_run,omitempty"`
	LastRun  *time.Time `json:"last_run,omitempty"`
	LastErr  string     `json:"last_error,omitempty"`
}

// Scheduler runs Optimize on a cron schedule.
type Scheduler struct {
	db          Optimizer
	cron        *cron.Cron
	cronEntryID cron.EntryID
	schedule    string
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	running     bool
	lastRun     *time.Time
	lastErr     error
}

// NewScheduler creates a scheduler over db. It does nothing until Start.
func NewScheduler(db Optimizer) *Scheduler {
	return &Scheduler{
		db:   db,
		cron: cron.New(),
	}
}

// Start schedules the optimize job. An empty or "off" schedule leaves the
// scheduler stopped and reports false. Standard five-field specs and
// descriptors such as @daily are accepted.
func (s *Scheduler) Start(schedule string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return true, nil
	}

	schedule = strings.TrimSpace(schedule)
	if schedule == "" || strings.EqualFold(schedule, "off") {
		log.Info().Msg("Database maintenance disabled")
		return false, nil
	}

	id, err := s.cron.AddFunc(schedule, s.run)
	if err != nil {
		return false, fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.cronEntryID = id
	s.schedule = schedule
	s.running = true
	s.cron.Start()

	log.Info().
		Str("schedule", schedule).
		Time("next_run", s.cron.Entry(id).Next).
		Msg("Database maintenance scheduled")

	return true, nil
}

// Stop removes the job and waits for a running optimize to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.cron.Remove(s.cronEntryID)
	s.cronEntryID = 0
	s.running = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Debug().Msg("Database maintenance stopped")
}

// RunNow runs the optimize job synchronously.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.optimize(ctx)
}

// Status returns the current scheduler state.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		Running:  s.running,
		Schedule: s.schedule,
		LastRun:  s.lastRun,
	}
	if s.lastErr != nil {
		status.LastErr = s.lastErr.Error()
	}
	if s.cronEntryID != 0 {
		if entry := s.cron.Entry(s.cronEntryID); !entry.Next.IsZero() {
			next := entry.Next
			status.NextRun = &next
		}
	}
	return status
}

func (s *Scheduler) run() {
	s.mu.RLock()
	parent := s.ctx
	s.mu.RUnlock()
	if parent == nil || parent.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()

	if err := s.optimize(ctx); err != nil {
		log.Warn().Err(err).Msg("Scheduled database maintenance failed")
	}
}

func (s *Scheduler) optimize(ctx context.Context) error {
	start := time.Now()
	err := s.db.Optimize(ctx)

	s.mu.Lock()
	s.lastRun = &start
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		return err
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("Database optimized")
	return nil
}
