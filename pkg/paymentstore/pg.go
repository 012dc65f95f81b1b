package paymentstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chainsafe/payment-verifier/pkg/payment"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the payment store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreatePayment(ctx context.Context, p *payment.Payment) error {
	_, err := s.db.NewInsert().
		Model(toPaymentDao(p)).
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrPaymentExists
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (s *pgStore) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	dao := new(PaymentDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return toPayment(dao), nil
}

func (s *pgStore) ListPayments(ctx context.Context, opts ListOptions) ([]*payment.Payment, error) {
	var daos []PaymentDao
	q := s.db.NewSelect().
		Model(&daos).
		OrderExpr("created_at DESC").
		Limit(opts.limit()).
		Offset(opts.Offset)
	if opts.PayeeID != "" {
		q = q.Where("payee_id = ?", opts.PayeeID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return toPayments(daos), nil
}

func (s *pgStore) ListPaymentsByStatus(ctx context.Context, status payment.Status, limit int) ([]*payment.Payment, error) {
	var daos []PaymentDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("status = ?", string(status)).
		OrderExpr("last_verified_at ASC NULLS FIRST, created_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s payments: %w", status, err)
	}
	return toPayments(daos), nil
}

func (s *pgStore) UpdatePayment(ctx context.Context, id string, upd payment.Update) error {
	q := s.db.NewUpdate().
		Model((*PaymentDao)(nil)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id)

	if upd.Status != nil {
		q = q.Set("status = ?", string(*upd.Status))
		// confirmed_at only accompanies the confirmed status
		if *upd.Status != payment.StatusConfirmed && upd.Outcome == nil {
			q = q.Set("confirmed_at = NULL")
		}
	}
	if upd.IncrementRetry {
		q = q.Set("retry_count = retry_count + 1")
	}
	if upd.LastVerifiedAt != nil {
		q = q.Set("last_verified_at = ?", *upd.LastVerifiedAt)
	}
	if upd.Flags != nil {
		if len(*upd.Flags) == 0 {
			q = q.Set("flags = NULL")
		} else {
			raw, err := json.Marshal(*upd.Flags)
			if err != nil {
				return fmt.Errorf("failed to encode flags: %w", err)
			}
			q = q.Set("flags = ?::jsonb", string(raw))
		}
	}
	if o := upd.Outcome; o != nil {
		q = q.Set("confirmed_at = ?", o.ConfirmedAt).
			Set("block_number = ?", int64(o.BlockNumber)).
			Set("confirmations = ?", int64(o.Confirmations)).
			Set("gas_used = ?", optional(o.GasUsed))
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return requireAffected(res, ErrPaymentNotFound)
}

func (s *pgStore) SubmitTransaction(ctx context.Context, id, fromAddress, txHash string) error {
	res, err := s.db.NewUpdate().
		Model((*PaymentDao)(nil)).
		Set("status = ?", string(payment.StatusUnconfirmed)).
		Set("from_wallet_address = ?", fromAddress).
		Set("tx_hash = ?", txHash).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("status = ?", string(payment.StatusPending)).
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrTxHashInUse
		}
		return fmt.Errorf("failed to submit transaction: %w", err)
	}

	if err = requireAffected(res, ErrPaymentNotPending); errors.Is(err, ErrPaymentNotPending) {
		exists, existsErr := s.db.NewSelect().
			Model((*PaymentDao)(nil)).
			Where("id = ?", id).
			Exists(ctx)
		if existsErr != nil {
			return fmt.Errorf("failed to check payment exists: %w", existsErr)
		}
		if !exists {
			return ErrPaymentNotFound
		}
	}
	return err
}

func (s *pgStore) CreateSession(ctx context.Context, sess *payment.Session) error {
	_, err := s.db.NewInsert().
		Model(toSessionDao(sess)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *pgStore) GetSession(ctx context.Context, id string) (*payment.Session, error) {
	dao := new(SessionDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return toSession(dao), nil
}

func (s *pgStore) DeleteActiveSessions(ctx context.Context, paymentID string, now time.Time) error {
	_, err := s.db.NewDelete().
		Model((*SessionDao)(nil)).
		Where("payment_id = ?", paymentID).
		Where("expires_at > ?", now).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete active sessions: %w", err)
	}
	return nil
}

func (s *pgStore) LatestSession(ctx context.Context, paymentID string) (*payment.Session, error) {
	dao := new(SessionDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("payment_id = ?", paymentID).
		OrderExpr("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get latest session: %w", err)
	}
	return toSession(dao), nil
}

func toPayments(daos []PaymentDao) []*payment.Payment {
	out := make([]*payment.Payment, len(daos))
	for i := range daos {
		out[i] = toPayment(&daos[i])
	}
	return out
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
