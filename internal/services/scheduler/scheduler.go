// Package scheduler runs the minute tick that commits due schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// ScheduleSource is the part of the schedule store the tick needs.
type ScheduleSource interface {
	ListActiveWithCredentials(ctx context.Context) ([]models.ScheduledJob, error)
	MarkRun(ctx context.Context, userID string, at time.Time) error
}

// Executor performs a single commit job.
type Executor interface {
	Execute(ctx context.Context, job models.CommitJob) models.CommitResult
}

// Prober reports whether GitHub is reachable.
type Prober interface {
	Probe(ctx context.Context) error
}

// Config controls tick timing and resilience.
type Config struct {
	Spec          string        // cron expression, evaluated in UTC
	JobTimeout    time.Duration // per commit job
	ProbeTimeout  time.Duration
	FetchAttempts int           // total attempts to list schedules
	FetchBackoff  time.Duration // first delay between attempts, doubled each time
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		Spec:          "* * * * *",
		JobTimeout:    30 * time.Second,
		ProbeTimeout:  5 * time.Second,
		FetchAttempts: 3,
		FetchBackoff:  2 * time.Second,
	}
}

// TickReport summarizes one tick.
type TickReport struct {
	TickID     string
	At         time.Time
	Skipped    bool // GitHub unreachable or schedules could not be loaded
	SkipReason string
	Evaluated  int
	Due        int
	Succeeded  int
	Failed     int
}

// Service owns the cron driver and the tick logic.
type Service struct {
	cfg      Config
	source   ScheduleSource
	executor Executor
	prober   Prober

	mu     sync.Mutex
	c      *cron.Cron
	cancel context.CancelFunc
}

// New creates a new Service. Zero-valued config fields fall back to DefaultConfig.
func New(cfg Config, source ScheduleSource, executor Executor, prober Prober) *Service {
	def := DefaultConfig()
	if cfg.Spec == "" {
		cfg.Spec = def.Spec
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = def.ProbeTimeout
	}
	if cfg.FetchAttempts <= 0 {
		cfg.FetchAttempts = def.FetchAttempts
	}
	if cfg.FetchBackoff <= 0 {
		cfg.FetchBackoff = def.FetchBackoff
	}
	return &Service{cfg: cfg, source: source, executor: executor, prober: prober}
}

// IsDue reports whether schedule fires at now: the wall clock in the schedule's
// timezone, to the minute, equals its schedule time.
func IsDue(now time.Time, s models.Schedule) bool {
	loc, _ := models.ResolveLocation(s.Timezone)
	return now.In(loc).Format("15:04") == s.ScheduleTime
}

// Start registers the tick with cron. Ticks never overlap: a tick still running
// when the next one fires causes that one to be skipped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil
	}

	tickCtx, cancel := context.WithCancel(ctx)
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := c.AddFunc(s.cfg.Spec, func() { s.RunTick(tickCtx, time.Now()) }); err != nil {
		cancel()
		return fmt.Errorf("invalid scheduler spec %q: %w", s.cfg.Spec, err)
	}

	s.c, s.cancel = c, cancel
	c.Start()
	log.WithField("spec", s.cfg.Spec).Info("scheduler started")
	return nil
}

// Stop cancels the running tick and waits for it to return, or for ctx to expire.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c, cancel := s.c, s.cancel
	s.c, s.cancel = nil, nil
	s.mu.Unlock()
	if c == nil {
		return
	}

	cancel()
	select {
	case <-c.Stop().Done():
		log.Info("scheduler stopped")
	case <-ctx.Done():
		log.Warn("scheduler stop timed out waiting for the running tick")
	}
}

// RunTick evaluates every active schedule against now and executes the due ones
// sequentially. now is captured once by the caller so every row sees the same instant.
func (s *Service) RunTick(ctx context.Context, now time.Time) TickReport {
	report := TickReport{TickID: uuid.NewString(), At: now}
	logger := log.WithField("tick", report.TickID)

	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	err := s.prober.Probe(probeCtx)
	cancel()
	if err != nil {
		report.Skipped, report.SkipReason = true, "github unreachable"
		logger.WithError(err).Warn("scheduler: GitHub unreachable, skipping tick")
		return report
	}

	jobs, err := s.fetch(ctx, logger)
	if err != nil {
		report.Skipped, report.SkipReason = true, "schedules unavailable"
		logger.WithError(err).Error("scheduler: failed to load schedules, aborting tick")
		return report
	}

	for _, sj := range jobs {
		if ctx.Err() != nil {
			logger.Warn("scheduler: shutting down, abandoning remaining schedules")
			break
		}
		report.Evaluated++
		if !IsDue(now, sj.Schedule) {
			continue
		}
		report.Due++
		if s.runOne(ctx, now, sj, logger) {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if report.Due > 0 {
		logger.WithFields(log.Fields{
			"evaluated": report.Evaluated,
			"due":       report.Due,
			"succeeded": report.Succeeded,
			"failed":    report.Failed,
		}).Info("scheduler: tick complete")
	}
	return report
}

var errNoCredential = errors.New("no access token stored for user")

func (s *Service) fetch(ctx context.Context, logger *log.Entry) ([]models.ScheduledJob, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.FetchBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.cfg.FetchAttempts-1)), ctx)

	var jobs []models.ScheduledJob
	err := backoff.RetryNotify(func() error {
		var err error
		jobs, err = s.source.ListActiveWithCredentials(ctx)
		return err
	}, policy, func(err error, wait time.Duration) {
		logger.WithError(err).WithField("retry_in", wait).Warn("scheduler: schedule fetch failed, retrying")
	})
	return jobs, err
}

// runOne executes one due schedule and records the run on success. Any failure,
// including a panic, stays contained to this schedule.
func (s *Service) runOne(ctx context.Context, now time.Time, sj models.ScheduledJob, tickLogger *log.Entry) (ok bool) {
	logger := tickLogger.WithFields(log.Fields{
		"user_id":  sj.Schedule.UserID,
		"repo":     sj.Schedule.TargetRepo,
		"strategy": sj.Schedule.ContentStrategy,
	})

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("scheduler: job panicked: %v", rec)
			ok = false
		}
	}()

	if sj.Credential.Token == "" {
		logger.WithError(errNoCredential).Warn("scheduler: skipping schedule")
		return false
	}
	repo, err := models.ParseRepoName(sj.Schedule.TargetRepo)
	if err != nil {
		logger.WithError(err).Warn("scheduler: skipping schedule with invalid repository")
		return false
	}

	jobCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	res := s.executor.Execute(jobCtx, models.CommitJob{
		Credential:    sj.Credential,
		Repo:          repo,
		Strategy:      models.ParseContentStrategy(string(sj.Schedule.ContentStrategy)),
		ActorUsername: sj.Credential.Username,
	})
	if !res.Success {
		logger.WithFields(log.Fields{"kind": res.ErrorKind, "detail": res.ErrorDetail}).Warn("scheduler: commit failed")
		return false
	}

	// last_run_at is informational; a failed write does not undo the commit.
	if err := s.source.MarkRun(ctx, sj.Schedule.UserID, now); err != nil {
		logger.WithError(err).Error("scheduler: failed to record run")
	}
	logger.Info("scheduler: commit pushed")
	return true
}

var cronLogger = cron.PrintfLogger(log.StandardLogger())
