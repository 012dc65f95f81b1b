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
			_, err := tx.NewCreateTable().
				Model(&paymentstore.SessionDao{}).
				IfNotExists().
				ForeignKey(`("payment_id") REFERENCES "payments" ("id") ON DELETE CASCADE`).
				Exec(ctx)
			if err != nil {
				return err
			}
			return mghelper.CreateCompositeIndex(ctx, tx, &paymentstore.SessionDao{},
				"idx_payment_sessions_payment_id_created_at", "payment_id", "created_at")
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return mghelper.DropTables(ctx, db, &paymentstore.SessionDao{})
	})
}
