package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
)

// Common errors
var (
	ErrInvalidConfig       = errors.New("scheduler: invalid configuration")
	ErrSchedulerNotRunning = errors.New("scheduler: not running")
)

// OrderSyncer runs one sync cycle for a marketplace
type OrderSyncer interface {
	SyncOrders(ctx context.Context, mp marketplace.Marketplace, from, to *time.Time) error
}

// AutoSyncSchedulerConfig holds configuration for the auto-sync scheduler
type AutoSyncSchedulerConfig struct {
	// CheckInterval is how often stored configs are checked for a due sync
	CheckInterval time.Duration
	// SyncTimeout bounds a single marketplace sync cycle
	SyncTimeout time.Duration
}

// DefaultAutoSyncSchedulerConfig returns default configuration
func DefaultAutoSyncSchedulerConfig() AutoSyncSchedulerConfig {
	return AutoSyncSchedulerConfig{
		CheckInterval: time.Minute,
		SyncTimeout:   5 * time.Minute,
	}
}

// Validate validates the configuration
func (c *AutoSyncSchedulerConfig) Validate() error {
	if c.CheckInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.SyncTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// AutoSyncScheduler periodically checks marketplace configurations and runs a
// sync cycle for every active config whose auto-sync interval has elapsed
// since its last completed cycle. A failure in one marketplace never blocks
// the others; sync outcomes land on the config itself.
type AutoSyncScheduler struct {
	config  AutoSyncSchedulerConfig
	configs marketplace.ConfigRepository
	syncer  OrderSyncer
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewAutoSyncScheduler creates a new auto-sync scheduler
func NewAutoSyncScheduler(
	config AutoSyncSchedulerConfig,
	configs marketplace.ConfigRepository,
	syncer OrderSyncer,
	logger *zap.Logger,
) (*AutoSyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &AutoSyncScheduler{
		config:  config,
		configs: configs,
		syncer:  syncer,
		logger:  logger,
	}, nil
}

// Start starts the scheduler loop
func (s *AutoSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("auto-sync scheduler started",
		zap.Duration("check_interval", s.config.CheckInterval),
		zap.Duration("sync_timeout", s.config.SyncTimeout))

	return nil
}

// Stop gracefully stops the scheduler
func (s *AutoSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("auto-sync scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("auto-sync scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *AutoSyncScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunDueSyncs(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunDueSyncs runs one scheduling pass: every stored config that is due gets
// a sync cycle. Exported so one pass can be triggered directly in tests.
func (s *AutoSyncScheduler) RunDueSyncs(ctx context.Context) {
	configs, err := s.configs.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to load marketplace configs", zap.Error(err))
		return
	}

	now := time.Now()
	for i := range configs {
		cfg := &configs[i]
		if !cfg.SyncDue(now) {
			continue
		}
		s.syncOne(ctx, cfg)
	}
}

func (s *AutoSyncScheduler) syncOne(ctx context.Context, cfg *marketplace.Config) {
	syncCtx, cancel := context.WithTimeout(ctx, s.config.SyncTimeout)
	defer cancel()

	// Bound the fetch window by the configured sync start.
	from := cfg.Sync.SyncOrdersFrom
	if cfg.Sync.LastSyncAt != nil && cfg.Sync.LastSyncAt.After(from) {
		from = *cfg.Sync.LastSyncAt
	}
	to := time.Now()

	if err := s.syncer.SyncOrders(syncCtx, cfg.Marketplace, &from, &to); err != nil {
		s.logger.Warn("scheduled sync failed",
			zap.String("marketplace", cfg.Marketplace.String()),
			zap.Error(err))
		return
	}

	s.logger.Debug("scheduled sync completed",
		zap.String("marketplace", cfg.Marketplace.String()))
}
