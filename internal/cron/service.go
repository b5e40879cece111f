package cron

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/pdv-backend/pkg/logger"
	"github.com/angelmondragon/pdv-backend/pkg/metrics"
)

const defaultInterval = 15 * time.Minute

// Scopes name where a runner's jobs apply.
const (
	// ScopeLocal jobs touch state held by this process, like the memory cart store.
	ScopeLocal = "local"
	// ScopeShared jobs read shared state and run on one instance per cycle.
	ScopeShared = "shared"
)

// ServiceParams configure the job runner.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.JobMetrics
	Scope    string
	Interval time.Duration
}

// Service runs the register's housekeeping jobs every interval. Each job gets
// at most one interval to finish so a stuck job cannot overlap the next cycle
// or outlive the lock guarding it.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.JobMetrics
	scope    string
	interval time.Duration
}

// NewService builds a job runner.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	if params.Registry.Empty() {
		return nil, fmt.Errorf("no jobs registered")
	}
	scope := strings.TrimSpace(params.Scope)
	if scope == "" {
		scope = ScopeLocal
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		registry: params.Registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		scope:    scope,
		interval: interval,
	}, nil
}

// Run executes a cycle immediately, then one per interval until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"job_scope": s.scope,
		"jobs":      strings.Join(s.registry.Names(), ","),
	})
	s.logg.Info(ctx, "housekeeping runner started")

	s.cycle(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "housekeeping runner stopped")
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Service) cycle(ctx context.Context) {
	if _, err := s.runCycle(ctx); err != nil {
		s.logg.Error(ctx, "housekeeping cycle failed", err)
	}
}

// runCycle runs every job once and reports which failed. A held lock skips
// the whole cycle.
func (s *Service) runCycle(ctx context.Context) (failed []string, err error) {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire %s job lock: %w", s.scope, err)
	}
	if !locked {
		s.logg.Info(ctx, "job lock held elsewhere; skipping housekeeping cycle")
		return nil, nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release job lock", relErr)
		}
	}()

	for _, job := range s.registry.Jobs() {
		if err := s.runJob(ctx, job); err != nil {
			failed = append(failed, job.Name())
		}
	}
	summary := s.logg.WithField(ctx, "failed_jobs", strings.Join(failed, ","))
	if len(failed) > 0 {
		s.logg.Warn(summary, "housekeeping cycle finished with failures")
	} else {
		s.logg.Info(summary, "housekeeping cycle complete")
	}
	return failed, nil
}

func (s *Service) runJob(ctx context.Context, job Job) (err error) {
	name := job.Name()
	jobCtx := s.logg.WithFields(ctx, map[string]any{"job": name, "event": "pos.job"})
	jobCtx, cancel := context.WithTimeout(jobCtx, s.interval)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}
		duration := time.Since(start)
		s.metrics.ObserveDuration(name, duration)
		doneCtx := s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
		if err != nil {
			s.logg.Error(doneCtx, "job failed", err)
			s.metrics.IncFailure(name)
			return
		}
		s.logg.Info(doneCtx, "job completed")
		s.metrics.IncSuccess(name)
	}()

	return job.Run(jobCtx)
}
