package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RenewalRunner processes subscriptions whose billing period has ended.
type RenewalRunner interface {
	ProcessRenewals(ctx context.Context) error
}

// PromotionSweeper expires promotional slots whose window has passed.
type PromotionSweeper interface {
	SweepExpired(ctx context.Context) error
}

// BillingJobsConfig holds timing for the periodic billing jobs
type BillingJobsConfig struct {
	// RenewalInterval is how often due subscriptions are renewed
	RenewalInterval time.Duration
	// SweepInterval is how often expired promotions are swept
	SweepInterval time.Duration
	// JobTimeout bounds a single run of either job
	JobTimeout time.Duration
}

// DefaultBillingJobsConfig returns the default job timing
func DefaultBillingJobsConfig() BillingJobsConfig {
	return BillingJobsConfig{
		RenewalInterval: time.Hour,
		SweepInterval:   15 * time.Minute,
		JobTimeout:      5 * time.Minute,
	}
}

// BillingJobs runs subscription renewals and promotion sweeps on a
// timer. Both jobs are idempotent so an overlapping restart is safe.
type BillingJobs struct {
	config   BillingJobsConfig
	renewals RenewalRunner
	sweeper  PromotionSweeper
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewBillingJobs creates the periodic billing job runner
func NewBillingJobs(config BillingJobsConfig, renewals RenewalRunner, sweeper PromotionSweeper, logger *zap.Logger) *BillingJobs {
	if config.RenewalInterval <= 0 {
		config.RenewalInterval = DefaultBillingJobsConfig().RenewalInterval
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultBillingJobsConfig().SweepInterval
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultBillingJobsConfig().JobTimeout
	}
	return &BillingJobs{
		config:   config,
		renewals: renewals,
		sweeper:  sweeper,
		logger:   logger,
	}
}

// Start launches the job loops. Calling Start on a running instance is
// a no-op.
func (j *BillingJobs) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.isRunning {
		return
	}
	j.isRunning = true

	ctx, j.cancel = context.WithCancel(ctx)

	j.wg.Add(2)
	go j.loop(ctx, "subscription renewals", j.config.RenewalInterval, j.runRenewals)
	go j.loop(ctx, "promotion sweep", j.config.SweepInterval, j.runSweep)

	j.logger.Info("billing jobs started",
		zap.Duration("renewal_interval", j.config.RenewalInterval),
		zap.Duration("sweep_interval", j.config.SweepInterval))
}

// Stop cancels the loops and waits for in-flight runs to finish
func (j *BillingJobs) Stop() {
	j.mu.Lock()
	if !j.isRunning {
		j.mu.Unlock()
		return
	}
	j.isRunning = false
	cancel := j.cancel
	j.mu.Unlock()

	cancel()
	j.wg.Wait()
	j.logger.Info("billing jobs stopped")
}

func (j *BillingJobs) loop(ctx context.Context, name string, interval time.Duration, run func(context.Context) error) {
	defer j.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, j.config.JobTimeout)
			if err := run(runCtx); err != nil {
				j.logger.Error("billing job failed",
					zap.String("job", name),
					zap.Error(err))
			}
			cancel()
		}
	}
}

func (j *BillingJobs) runRenewals(ctx context.Context) error {
	return j.renewals.ProcessRenewals(ctx)
}

func (j *BillingJobs) runSweep(ctx context.Context) error {
	return j.sweeper.SweepExpired(ctx)
}

// RunOnce executes both jobs immediately, outside the timer. Used at
// startup to catch up after downtime.
func (j *BillingJobs) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, j.config.JobTimeout)
	defer cancel()

	if err := j.renewals.ProcessRenewals(runCtx); err != nil {
		j.logger.Error("billing job failed", zap.String("job", "subscription renewals"), zap.Error(err))
	}
	if err := j.sweeper.SweepExpired(runCtx); err != nil {
		j.logger.Error("billing job failed", zap.String("job", "promotion sweep"), zap.Error(err))
	}
}
