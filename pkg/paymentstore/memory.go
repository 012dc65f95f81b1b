package paymentstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chainsafe/payment-verifier/pkg/payment"
)

// MemoryStore is an in-process Store. It is owned by whoever constructs it and
// is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	payments map[string]*payment.Payment
	sessions map[string]*payment.Session
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		payments: make(map[string]*payment.Payment),
		sessions: make(map[string]*payment.Session),
		now:      time.Now,
	}
}

func (s *MemoryStore) CreatePayment(_ context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[p.ID]; ok {
		return ErrPaymentExists
	}
	if p.TxHash != "" && s.txHashInUseLocked(p.ID, p.TxHash) {
		return ErrTxHashInUse
	}
	cp := clonePayment(p)
	now := s.now().UTC()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = now
	}
	cp.Tolerance = cp.EffectiveTolerance()
	s.payments[p.ID] = cp
	return nil
}

func (s *MemoryStore) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return clonePayment(p), nil
}

func (s *MemoryStore) ListPayments(_ context.Context, opts ListOptions) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*payment.Payment
	for _, p := range s.payments {
		if opts.PayeeID != "" && p.PayeeID != opts.PayeeID {
			continue
		}
		all = append(all, clonePayment(p))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return page(all, opts.Offset, opts.limit()), nil
}

func (s *MemoryStore) ListPaymentsByStatus(_ context.Context, status payment.Status, limit int) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*payment.Payment
	for _, p := range s.payments {
		if p.Status == status {
			matched = append(matched, clonePayment(p))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch {
		case a.LastVerifiedAt == nil && b.LastVerifiedAt != nil:
			return true
		case a.LastVerifiedAt != nil && b.LastVerifiedAt == nil:
			return false
		case a.LastVerifiedAt != nil && !a.LastVerifiedAt.Equal(*b.LastVerifiedAt):
			return a.LastVerifiedAt.Before(*b.LastVerifiedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return page(matched, 0, limit), nil
}

func (s *MemoryStore) UpdatePayment(_ context.Context, id string, upd payment.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return ErrPaymentNotFound
	}
	if upd.Status != nil {
		p.Status = *upd.Status
		if p.Status != payment.StatusConfirmed && upd.Outcome == nil {
			p.ConfirmedAt = nil
		}
	}
	if upd.IncrementRetry {
		p.RetryCount++
	}
	if upd.LastVerifiedAt != nil {
		t := *upd.LastVerifiedAt
		p.LastVerifiedAt = &t
	}
	if upd.Flags != nil {
		if len(*upd.Flags) == 0 {
			p.Flags = nil
		} else {
			p.Flags = append(payment.Flags(nil), (*upd.Flags)...)
		}
	}
	if o := upd.Outcome; o != nil {
		p.ConfirmedAt = copyTime(o.ConfirmedAt)
		p.BlockNumber = o.BlockNumber
		p.Confirmations = o.Confirmations
		p.GasUsed = o.GasUsed
	}
	p.UpdatedAt = s.now().UTC()
	return nil
}

func (s *MemoryStore) SubmitTransaction(_ context.Context, id, fromAddress, txHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return ErrPaymentNotFound
	}
	if p.Status != payment.StatusPending {
		return ErrPaymentNotPending
	}
	if s.txHashInUseLocked(id, txHash) {
		return ErrTxHashInUse
	}
	p.Status = payment.StatusUnconfirmed
	p.FromAddress = fromAddress
	p.TxHash = txHash
	p.UpdatedAt = s.now().UTC()
	return nil
}

func (s *MemoryStore) CreateSession(_ context.Context, sess *payment.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (*payment.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) DeleteActiveSessions(_ context.Context, paymentID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.PaymentID == paymentID && sess.ExpiresAt.After(now) {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *MemoryStore) LatestSession(_ context.Context, paymentID string) (*payment.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *payment.Session
	for _, sess := range s.sessions {
		if sess.PaymentID != paymentID {
			continue
		}
		if latest == nil || sess.CreatedAt.After(latest.CreatedAt) {
			latest = sess
		}
	}
	if latest == nil {
		return nil, ErrSessionNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *MemoryStore) txHashInUseLocked(id, txHash string) bool {
	for otherID, other := range s.payments {
		if otherID != id && strings.EqualFold(other.TxHash, txHash) {
			return true
		}
	}
	return false
}

func page(in []*payment.Payment, offset, limit int) []*payment.Payment {
	if offset >= len(in) {
		return []*payment.Payment{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	out := make([]*payment.Payment, len(in))
	for i, p := range in {
		out[i] = clonePayment(p)
	}
	return out
}

func clonePayment(p *payment.Payment) *payment.Payment {
	cp := *p
	if p.Flags != nil {
		cp.Flags = append(payment.Flags(nil), p.Flags...)
	}
	cp.ConfirmedAt = copyTime(p.ConfirmedAt)
	cp.LastVerifiedAt = copyTime(p.LastVerifiedAt)
	return &cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
