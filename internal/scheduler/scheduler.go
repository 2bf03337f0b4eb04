// Package scheduler drives the daily sweep that turns due scheduled
// transactions into ledger entries.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/liviogabriel1/FinanTech-Dash/internal/models"
	"github.com/liviogabriel1/FinanTech-Dash/internal/recurrence"
)

// ErrSweepInProgress is returned by Sweep when another sweep holds the lock.
var ErrSweepInProgress = errors.New("sweep already in progress")

// Store is the persistence the sweep needs.
type Store interface {
	FindDue(ctx context.Context, now time.Time) ([]*models.ScheduledTransaction, error)
	Materialize(ctx context.Context, s *models.ScheduledTransaction, next time.Time) (*models.Transaction, error)
}

// Reporter receives the report of every sweep that had work to do.
type Reporter interface {
	Report(ctx context.Context, r *SweepReport) error
}

type Options struct {
	Location        *time.Location
	RunHour         int
	RunMinute       int
	Workers         int
	AlignQualifiers bool
	Reporter        Reporter
	Metrics         *Metrics
	// Now defaults to time.Now.
	Now func() time.Time
}

// Failure records one schedule that could not be materialized.
type Failure struct {
	ScheduleID uuid.UUID
	Title      string
	Err        error
}

type SweepReport struct {
	// At is the reference time schedules were compared against.
	At           time.Time
	StartedAt    time.Time
	FinishedAt   time.Time
	Due          int
	Materialized int
	Skipped      int
	Failed       int
	Failures     []Failure
}

type Scheduler struct {
	store    Store
	opts     Options
	running  sync.Mutex
	notifyCh chan struct{}
	wg       sync.WaitGroup
}

func New(store Store, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scheduler{
		store:    store,
		opts:     opts,
		notifyCh: make(chan struct{}, 1),
	}
}

// Notify requests an immediate sweep. Non-blocking if one is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NextRun returns the first trigger time strictly after t.
func (s *Scheduler) NextRun(t time.Time) time.Time {
	local := t.In(s.opts.Location)
	next := time.Date(local.Year(), local.Month(), local.Day(),
		s.opts.RunHour, s.opts.RunMinute, 0, 0, s.opts.Location)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1,
			s.opts.RunHour, s.opts.RunMinute, 0, 0, s.opts.Location)
	}
	return next
}

// Start runs the trigger loop until ctx is cancelled. A sweep that has begun
// is allowed to finish before Start returns.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Scheduler started",
		"timezone", s.opts.Location.String(),
		"run_at", fmt.Sprintf("%02d:%02d", s.opts.RunHour, s.opts.RunMinute),
	)

	for {
		now := s.opts.Now()
		next := s.NextRun(now)
		slog.Debug("Next sweep scheduled", "at", next)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.wg.Wait()
			slog.Info("Scheduler stopped")
			return
		case <-timer.C:
			s.trigger(ctx, "schedule")
		case <-s.notifyCh:
			timer.Stop()
			s.trigger(ctx, "notify")
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context, source string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.Sweep(context.WithoutCancel(ctx)); err != nil {
			if errors.Is(err, ErrSweepInProgress) {
				slog.Warn("Sweep skipped, previous sweep still running", "trigger", source)
				return
			}
			slog.Error("Sweep failed", "trigger", source, "error", err)
		}
	}()
}

// Sweep materializes everything due at the current time.
func (s *Scheduler) Sweep(ctx context.Context) (*SweepReport, error) {
	return s.SweepAt(ctx, s.opts.Now())
}

// SweepAt materializes every schedule due at now. Each schedule is handled
// on its own: a failure is logged and counted and the schedule stays due.
// Cancelling ctx does not interrupt a sweep that has started.
func (s *Scheduler) SweepAt(ctx context.Context, now time.Time) (*SweepReport, error) {
	if !s.running.TryLock() {
		s.opts.Metrics.sweepOverlapped()
		return nil, ErrSweepInProgress
	}
	defer s.running.Unlock()

	ctx = context.WithoutCancel(ctx)
	s.opts.Metrics.sweepStarted()

	report := &SweepReport{At: now, StartedAt: s.opts.Now()}
	due, err := s.store.FindDue(ctx, now)
	if err != nil {
		s.opts.Metrics.sweepFinished(resultError, nil)
		return nil, fmt.Errorf("failed to find due schedules: %w", err)
	}
	report.Due = len(due)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.opts.Workers)
	for _, sched := range due {
		sched := sched
		g.Go(func() error {
			err := s.materialize(ctx, sched)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Materialized++
			case errors.Is(err, models.ErrScheduleGone):
				report.Skipped++
				slog.Info("Schedule no longer due, skipped", "schedule_id", sched.ID)
			default:
				report.Failed++
				report.Failures = append(report.Failures, Failure{ScheduleID: sched.ID, Title: sched.Title, Err: err})
				slog.Error("Failed to materialize schedule", "schedule_id", sched.ID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = s.opts.Now()
	s.opts.Metrics.sweepFinished(resultOK, report)

	slog.Info("Sweep finished",
		"at", now,
		"due", report.Due,
		"materialized", report.Materialized,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)

	if s.opts.Reporter != nil && (report.Due > 0 || report.Failed > 0) {
		if err := s.opts.Reporter.Report(ctx, report); err != nil {
			slog.Warn("Failed to send sweep report", "error", err)
		}
	}
	return report, nil
}

// materialize writes one occurrence and advances the schedule. A panic is
// turned into an error so the rest of the sweep continues.
func (s *Scheduler) materialize(ctx context.Context, sched *models.ScheduledTransaction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	next := s.advance(sched)
	occ, err := s.store.Materialize(ctx, sched, next)
	if err != nil {
		return err
	}

	slog.Debug("Materialized schedule",
		"schedule_id", sched.ID,
		"transaction_id", occ.ID,
		"date", occ.Date,
		"next_run_date", next,
	)
	return nil
}

// advance computes the schedule's next run date in the scheduler's location.
func (s *Scheduler) advance(sched *models.ScheduledTransaction) time.Time {
	current := sched.NextRunDate.In(s.opts.Location)
	if s.opts.AlignQualifiers {
		return recurrence.Aligned(current, sched.Frequency, sched.DayOfMonth, sched.DayOfWeek)
	}
	return recurrence.Next(current, sched.Frequency)
}
