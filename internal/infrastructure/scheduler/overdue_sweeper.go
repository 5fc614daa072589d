package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PaymentSweeper marks overdue loan installments as missed.
type PaymentSweeper interface {
	SweepOverduePayments(ctx context.Context) (int, error)
}

// Config holds overdue sweeper settings
type Config struct {
	Enabled  bool
	Interval time.Duration
}

// DefaultConfig returns the default sweeper configuration
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Interval: time.Hour,
	}
}

// OverdueSweeper periodically sweeps scheduled installments whose due
// date has passed. One sweep runs immediately on start, then on every
// interval tick.
type OverdueSweeper struct {
	config  Config
	sweeper PaymentSweeper
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewOverdueSweeper creates a new OverdueSweeper
func NewOverdueSweeper(config Config, sweeper PaymentSweeper, logger *zap.Logger) *OverdueSweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	return &OverdueSweeper{
		config:  config,
		sweeper: sweeper,
		logger:  logger,
	}
}

// Start starts the sweep loop
func (s *OverdueSweeper) Start(ctx context.Context) error {
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
	go s.runLoop(ctx)

	s.logger.Info("Overdue payment sweeper started",
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop stops the sweep loop, waiting up to the context deadline
func (s *OverdueSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Overdue payment sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *OverdueSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	s.sweep(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *OverdueSweeper) sweep(ctx context.Context) {
	swept, err := s.sweeper.SweepOverduePayments(ctx)
	if err != nil {
		s.logger.Error("Overdue payment sweep failed",
			zap.Int("swept", swept),
			zap.Error(err),
		)
		return
	}
	if swept > 0 {
		s.logger.Info("Overdue payments swept", zap.Int("count", swept))
	}
}
