package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RateLimitCleaner purges rate limit records outside the window
type RateLimitCleaner interface {
	CleanupExpiredRateLimits(ctx context.Context) (int64, error)
}

// CronService manages scheduled background jobs
type CronService struct {
	cron     *cron.Cron
	cleaner  RateLimitCleaner
	interval time.Duration
	logger   *logrus.Logger
}

// NewCronService creates a new CronService. The rate limit cleanup job runs
// once per interval.
func NewCronService(cleaner RateLimitCleaner, interval time.Duration, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:     cron.New(),
		cleaner:  cleaner,
		interval: interval,
		logger:   logger,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("invalid cleanup interval %s", s.interval)
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.cleanupRateLimitsJob); err != nil {
		return fmt.Errorf("failed to schedule rate limit cleanup job: %w", err)
	}
	s.logger.WithField("schedule", spec).Info("Scheduled: rate limit cleanup")

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) cleanupRateLimitsJob() {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.cleaner.CleanupExpiredRateLimits(ctx)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to clean up rate limit records")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"removed":     removed,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("[CRON] Rate limit records cleaned up")
}

// RunCleanupNow runs the rate limit cleanup job immediately
func (s *CronService) RunCleanupNow() {
	s.cleanupRateLimitsJob()
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
