// Package scheduler implements background job scheduling for periodic tasks
// such as leaderboard cache rebuilds and the midnight quote rollover.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job defines the interface that all scheduled jobs must implement.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job.
	// The context is cancelled when the scheduler is stopping.
	Run(ctx context.Context) error
}

// Schedule defines when a job should run.
type Schedule interface {
	// Next returns the next time the job should run after the given time.
	Next(t time.Time) time.Time

	// String returns a human-readable representation of the schedule.
	String() string
}

// JobResult contains the result of a job execution.
type JobResult struct {
	JobName     string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Success     bool
	Error       error
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Scheduler manages and executes scheduled jobs. Each job runs on its own
// goroutine driven by a timer; overlapping runs of the same job are
// impossible because the next timer is armed only after Run returns.
type Scheduler struct {
	mu sync.Mutex

	logger *logger.Logger

	jobs    []*scheduledJob
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	lastRuns map[string]JobResult
}

// scheduledJob wraps a Job with its schedule.
type scheduledJob struct {
	job      Job
	schedule Schedule
}

// New creates a new Scheduler.
func New(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Default()
	}
	return &Scheduler{
		logger:   log.With(logger.Component("scheduler")),
		lastRuns: make(map[string]JobResult),
	}
}

// Register adds a job with its schedule. Registration after Start is an
// error.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil || schedule == nil {
		return fmt.Errorf("scheduler: job and schedule are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler: cannot register %q while running", job.Name())
	}

	for _, sj := range s.jobs {
		if sj.job.Name() == job.Name() {
			return fmt.Errorf("scheduler: job %q already registered", job.Name())
		}
	}

	s.jobs = append(s.jobs, &scheduledJob{job: job, schedule: schedule})
	return nil
}

// Start launches the run loops. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler: already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, sj := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(runCtx, sj)
	}

	s.logger.Info("scheduler started", logger.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels the run loops and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// LastRun returns the most recent result for a job name.
func (s *Scheduler) LastRun(jobName string) (JobResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.lastRuns[jobName]
	return result, ok
}

func (s *Scheduler) runLoop(ctx context.Context, sj *scheduledJob) {
	defer s.wg.Done()

	log := s.logger.With(logger.String("job", sj.job.Name()))
	log.Info("job scheduled", logger.String("schedule", sj.schedule.String()))

	timer := time.NewTimer(time.Until(sj.schedule.Next(time.Now())))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.execute(ctx, sj.job, log)
			timer.Reset(time.Until(sj.schedule.Next(time.Now())))
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job, log *logger.Logger) {
	started := time.Now().UTC()

	err := s.safeRun(ctx, job)

	result := JobResult{
		JobName:     job.Name(),
		StartedAt:   started,
		CompletedAt: time.Now().UTC(),
		Success:     err == nil,
		Error:       err,
	}
	result.Duration = result.CompletedAt.Sub(result.StartedAt)

	s.mu.Lock()
	s.lastRuns[job.Name()] = result
	s.mu.Unlock()

	if err != nil {
		log.Error("job failed", logger.Err(err), logger.Duration("duration", result.Duration))
		return
	}
	log.Info("job completed", logger.Duration("duration", result.Duration))
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job panicked: %v", p)
		}
	}()
	return job.Run(ctx)
}
