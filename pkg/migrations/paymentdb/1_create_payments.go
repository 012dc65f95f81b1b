package paymentdb

import (
	"context"

	"github.com/uptrace/bun"

	mghelper "github.com/chainsafe/payment-verifier/pkg/pgutil/migrations"
	"github.com/chainsafe/payment-verifier/pkg/paymentstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := mghelper.CreateSchema(ctx, tx, &paymentstore.PaymentDao{}); err != nil {
				return err
			}
			if err := mghelper.CreateModelIndexes(ctx, tx, &paymentstore.PaymentDao{}, "payee_id", "created_at"); err != nil {
				return err
			}
			return mghelper.CreateCompositeIndex(ctx, tx, &paymentstore.PaymentDao{},
				"idx_payments_status_last_verified_at", "status", "last_verified_at")
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return mghelper.DropTables(ctx, db, &paymentstore.PaymentDao{})
	})
}
