package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// Job is the work executed on each tick
type Job func(ctx context.Context)

// Scheduler runs a job once a week at a fixed weekday and hour in a fixed
// timezone, outside the request path. A disabled scheduler is a no-op.
type Scheduler struct {
	loc     *time.Location
	weekday time.Weekday
	hour    int
	job     Job
	enabled bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a weekly scheduler
func New(loc *time.Location, weekday time.Weekday, hour int, enabled bool, job Job) *Scheduler {
	return &Scheduler{
		loc:     loc,
		weekday: weekday,
		hour:    hour,
		job:     job,
		enabled: enabled,
	}
}

// Start launches the timer goroutine. Ticks keep firing until Stop or the
// parent context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.enabled {
		log.Println("Scheduler disabled")
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		for {
			next := s.nextRun(time.Now().In(s.loc))
			timer := time.NewTimer(time.Until(next))

			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				s.runJob(ctx)
			}
		}
	}()

	log.Printf("Scheduler started: %s at %02d:00 (%s)", s.weekday, s.hour, s.loc)
}

// Stop cancels the timer goroutine and waits for an in-flight job to finish
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}

// runJob executes one tick, recovering so a panicking job cannot kill the loop
func (s *Scheduler) runJob(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Scheduled job panicked: %v", r)
		}
	}()
	s.job(ctx)
}

// nextRun computes the next weekday/hour occurrence strictly after now
func (s *Scheduler) nextRun(now time.Time) time.Time {
	now = now.In(s.loc)

	daysAhead := (int(s.weekday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, s.loc)
	candidate = candidate.AddDate(0, 0, daysAhead)

	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
