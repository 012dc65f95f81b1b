// Package scheduler periodically re-verifies payments awaiting confirmation.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chainsafe/payment-verifier/internal/metrics"
	"github.com/chainsafe/payment-verifier/pkg/config"
	"github.com/chainsafe/payment-verifier/pkg/lock"
	"github.com/chainsafe/payment-verifier/pkg/payment"
)

// PaymentLister lists payments due for verification.
type PaymentLister interface {
	ListPaymentsByStatus(ctx context.Context, status payment.Status, limit int) ([]*payment.Payment, error)
}

// Verifier runs one verification pass for a payment.
type Verifier interface {
	Verify(ctx context.Context, paymentID string) *payment.VerificationResult
}

// Scheduler polls unconfirmed payments. Payments in needs_review are left for
// manual resolution and are only re-checked through the on-demand verify call.
type Scheduler struct {
	store    PaymentLister
	verifier Verifier
	locker   lock.Locker
	cfg      config.SchedulerConfig
	logger   *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new Scheduler
func New(store PaymentLister, verifier Verifier, locker lock.Locker, cfg config.SchedulerConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		verifier: verifier,
		locker:   locker,
		cfg:      cfg,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the polling loop in the background.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		s.logger.Info("Started verification scheduler",
			zap.Duration("interval", s.cfg.Interval),
			zap.Int("batch_size", s.cfg.BatchSize),
			zap.Int("concurrency", s.cfg.Concurrency))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), s.cfg.IterationTimeout)
				go func() {
					select {
					case <-s.stopCh:
						cancel()
					case <-ctx.Done():
					}
				}()
				if err := s.RunOnce(ctx); err != nil {
					s.logger.Error("Verification iteration failed", zap.Error(err))
				}
				cancel()
			case <-s.stopCh:
				s.logger.Info("Stopping verification scheduler")
				return
			}
		}
	}()
}

// Stop stops the polling loop and waits for the running iteration. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// RunOnce verifies one batch of unconfirmed payments, oldest check first.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	metrics.SchedulerTicks.Inc()
	start := time.Now()

	due, err := s.store.ListPaymentsByStatus(ctx, payment.StatusUnconfirmed, s.cfg.BatchSize)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("scheduler", "list").Inc()
		return fmt.Errorf("failed to list unconfirmed payments: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(max(s.cfg.Concurrency, 1))
	for _, p := range due {
		if ctx.Err() != nil {
			break
		}
		id := p.ID
		g.Go(func() error {
			s.verify(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Debug("Verification iteration completed",
		zap.Int("payments", len(due)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (s *Scheduler) verify(ctx context.Context, paymentID string) {
	unlock, ok, err := s.locker.TryLock(ctx, paymentID)
	if err != nil {
		s.logger.Warn("Failed to lock payment", zap.String("payment_id", paymentID), zap.Error(err))
		metrics.SchedulerPaymentsProcessed.WithLabelValues("lock_error").Inc()
		return
	}
	if !ok {
		metrics.SchedulerPaymentsProcessed.WithLabelValues("skipped").Inc()
		return
	}
	defer unlock()

	res := s.verifier.Verify(ctx, paymentID)
	metrics.SchedulerPaymentsProcessed.WithLabelValues(string(res.Status)).Inc()
	if res.Status != payment.StatusPending {
		s.logger.Info("Payment verification concluded",
			zap.String("payment_id", paymentID),
			zap.String("status", string(res.Status)),
			zap.String("message", res.Error))
	}
}
