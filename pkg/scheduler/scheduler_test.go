package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/payment-verifier/pkg/config"
	"github.com/chainsafe/payment-verifier/pkg/lock"
	"github.com/chainsafe/payment-verifier/pkg/payment"
)

type fakeLister struct {
	payments []*payment.Payment
	err      error

	mu       sync.Mutex
	statuses []payment.Status
	limits   []int
}

func (f *fakeLister) ListPaymentsByStatus(_ context.Context, status payment.Status, limit int) ([]*payment.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
	f.limits = append(f.limits, limit)
	return f.payments, f.err
}

type fakeVerifier struct {
	delay time.Duration

	mu       sync.Mutex
	verified []string
	running  atomic.Int32
	peak     atomic.Int32
}

func (f *fakeVerifier) Verify(_ context.Context, id string) *payment.VerificationResult {
	n := f.running.Add(1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(f.delay)
	f.running.Add(-1)

	f.mu.Lock()
	f.verified = append(f.verified, id)
	f.mu.Unlock()
	return payment.Pending("Transaction not mined yet")
}

func (f *fakeVerifier) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.verified...)
	sort.Strings(out)
	return out
}

func payments(ids ...string) []*payment.Payment {
	out := make([]*payment.Payment, len(ids))
	for i, id := range ids {
		out[i] = &payment.Payment{ID: id, Status: payment.StatusUnconfirmed}
	}
	return out
}

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:          true,
		Interval:         10 * time.Millisecond,
		BatchSize:        25,
		Concurrency:      2,
		IterationTimeout: time.Second,
	}
}

func TestRunOnce_VerifiesUnconfirmedBatch(t *testing.T) {
	lister := &fakeLister{payments: payments("a", "b", "c", "d", "e")}
	verifier := &fakeVerifier{delay: 10 * time.Millisecond}
	s := New(lister, verifier, lock.NewLocalLocker(), testConfig(), zap.NewNop())

	require.NoError(t, s.RunOnce(context.Background()))

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, verifier.ids())
	assert.Equal(t, []payment.Status{payment.StatusUnconfirmed}, lister.statuses)
	assert.Equal(t, []int{25}, lister.limits)
	assert.LessOrEqual(t, verifier.peak.Load(), int32(2), "concurrency is bounded")
}

func TestRunOnce_SkipsLockedPayments(t *testing.T) {
	locker := lock.NewLocalLocker()
	unlock, ok, err := locker.TryLock(context.Background(), "b")
	require.NoError(t, err)
	require.True(t, ok)
	defer unlock()

	lister := &fakeLister{payments: payments("a", "b", "c")}
	verifier := &fakeVerifier{}
	s := New(lister, verifier, locker, testConfig(), zap.NewNop())

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, []string{"a", "c"}, verifier.ids())
}

func TestRunOnce_ListError(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	verifier := &fakeVerifier{}
	s := New(lister, verifier, lock.NewLocalLocker(), testConfig(), zap.NewNop())

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Empty(t, verifier.ids())
}

func TestStartStop(t *testing.T) {
	lister := &fakeLister{payments: payments("a")}
	verifier := &fakeVerifier{}
	s := New(lister, verifier, lock.NewLocalLocker(), testConfig(), zap.NewNop())

	s.Start()
	require.Eventually(t, func() bool {
		return len(verifier.ids()) >= 2
	}, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	after := len(verifier.ids())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, len(verifier.ids()), "no iterations run after Stop")

	assert.NotPanics(t, s.Stop)
}
