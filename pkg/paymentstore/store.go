// Package paymentstore persists payments and payment sessions.
package paymentstore

import (
	"context"
	"errors"
	"time"

	"github.com/chainsafe/payment-verifier/pkg/payment"
)

var (
	// ErrPaymentNotFound is returned when a payment lookup finds no matching record.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentExists is returned when creating a payment whose id is already stored.
	ErrPaymentExists = errors.New("payment already exists")
	// ErrSessionNotFound is returned when a session lookup finds no matching record.
	ErrSessionNotFound = errors.New("payment session not found")
	// ErrPaymentNotPending is returned when a transaction is submitted for a payment that already has one.
	ErrPaymentNotPending = errors.New("payment is not pending")
	// ErrTxHashInUse is returned when a transaction hash is already bound to another payment.
	ErrTxHashInUse = errors.New("transaction hash already used by another payment")
)

// Store defines the payment record store.
type Store interface {
	PaymentStore
	SessionStore
}

// PaymentStore defines payment persistence.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p *payment.Payment) error
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	ListPayments(ctx context.Context, opts ListOptions) ([]*payment.Payment, error)
	// ListPaymentsByStatus returns up to limit payments in status, least recently verified first.
	ListPaymentsByStatus(ctx context.Context, status payment.Status, limit int) ([]*payment.Payment, error)
	UpdatePayment(ctx context.Context, id string, upd payment.Update) error
	// SubmitTransaction moves a pending payment to unconfirmed, binding the sender and tx hash.
	SubmitTransaction(ctx context.Context, id, fromAddress, txHash string) error
}

// SessionStore defines payment session persistence.
type SessionStore interface {
	CreateSession(ctx context.Context, s *payment.Session) error
	GetSession(ctx context.Context, id string) (*payment.Session, error)
	// DeleteActiveSessions removes the payment's sessions that have not expired at now.
	DeleteActiveSessions(ctx context.Context, paymentID string, now time.Time) error
	// LatestSession returns the most recently created session of the payment.
	LatestSession(ctx context.Context, paymentID string) (*payment.Session, error)
}

// ListOptions filters and pages ListPayments. Results are newest first.
type ListOptions struct {
	PayeeID string
	Limit   int
	Offset  int
}

const defaultListLimit = 50

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return defaultListLimit
	}
	return o.Limit
}
