package paymentstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/chainsafe/payment-verifier/pkg/payment"
)

// PaymentDao is a data access object that maps directly to the 'payments' table in PostgreSQL.
type PaymentDao struct {
	bun.BaseModel  `bun:"table:payments,alias:p"`
	ID             string          `bun:"id,pk,type:uuid"`
	Amount         string          `bun:"amount,notnull,type:numeric(78,0)"`
	Network        string          `bun:"network,notnull,type:varchar(32)"`
	ChainID        int64           `bun:"chain_id,notnull"`
	NativeSymbol   string          `bun:"native_symbol,notnull,type:varchar(16)"`
	ToAddress      string          `bun:"to_wallet_address,notnull,type:varchar(42)"`
	FromAddress    *string         `bun:"from_wallet_address,type:varchar(42)"`
	Asset          *string         `bun:"asset,type:varchar(32)"`
	TxHash         *string         `bun:"tx_hash,unique,type:varchar(66)"`
	Status         string          `bun:"status,notnull,type:varchar(16)"`
	Nonce          string          `bun:"nonce,notnull,type:varchar(64)"`
	PayeeID        *string         `bun:"payee_id,type:varchar(255)"`
	PayeeEmail     *string         `bun:"payee_email,type:varchar(255)"`
	ClientEmail    *string         `bun:"client_email,type:varchar(255)"`
	Confirmations  int64           `bun:"confirmations,notnull,default:0"`
	BlockNumber    *int64          `bun:"block_number"`
	GasUsed        *string         `bun:"gas_used,type:varchar(78)"`
	RetryCount     int             `bun:"retry_count,notnull,default:0"`
	Tolerance      decimal.Decimal `bun:"tolerance,notnull,type:numeric(10,6)"`
	Flags          payment.Flags   `bun:"flags,nullzero,type:jsonb"`
	CreatedAt      time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
	ExpiresAt      time.Time       `bun:"expires_at,notnull"`
	ConfirmedAt    *time.Time      `bun:"confirmed_at"`
	LastVerifiedAt *time.Time      `bun:"last_verified_at"`
}

// SessionDao maps to the 'payment_sessions' table.
type SessionDao struct {
	bun.BaseModel `bun:"table:payment_sessions,alias:ps"`
	ID            string    `bun:"id,pk,type:uuid"`
	PaymentID     string    `bun:"payment_id,notnull,type:uuid"`
	Nonce         string    `bun:"nonce,notnull,type:varchar(64)"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
	ExpiresAt     time.Time `bun:"expires_at,notnull"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toPaymentDao(p *payment.Payment) *PaymentDao {
	dao := &PaymentDao{
		ID:             p.ID,
		Amount:         p.Amount,
		Network:        p.Network,
		ChainID:        p.ChainID,
		NativeSymbol:   p.NativeSymbol,
		ToAddress:      p.ToAddress,
		FromAddress:    optional(p.FromAddress),
		Asset:          optional(p.Asset),
		TxHash:         optional(p.TxHash),
		Status:         string(p.Status),
		Nonce:          p.Nonce,
		PayeeID:        optional(p.PayeeID),
		PayeeEmail:     optional(p.PayeeEmail),
		ClientEmail:    optional(p.ClientEmail),
		Confirmations:  int64(p.Confirmations),
		GasUsed:        optional(p.GasUsed),
		RetryCount:     p.RetryCount,
		Tolerance:      p.EffectiveTolerance(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		ExpiresAt:      p.ExpiresAt,
		ConfirmedAt:    p.ConfirmedAt,
		LastVerifiedAt: p.LastVerifiedAt,
	}
	if len(p.Flags) > 0 {
		dao.Flags = p.Flags
	}
	if p.BlockNumber > 0 {
		bn := int64(p.BlockNumber)
		dao.BlockNumber = &bn
	}
	return dao
}

func toPayment(dao *PaymentDao) *payment.Payment {
	p := &payment.Payment{
		ID:             dao.ID,
		Amount:         dao.Amount,
		Network:        dao.Network,
		ChainID:        dao.ChainID,
		NativeSymbol:   dao.NativeSymbol,
		ToAddress:      dao.ToAddress,
		FromAddress:    deref(dao.FromAddress),
		Asset:          deref(dao.Asset),
		TxHash:         deref(dao.TxHash),
		Status:         payment.Status(dao.Status),
		Nonce:          dao.Nonce,
		PayeeID:        deref(dao.PayeeID),
		PayeeEmail:     deref(dao.PayeeEmail),
		ClientEmail:    deref(dao.ClientEmail),
		Confirmations:  uint64(dao.Confirmations),
		GasUsed:        deref(dao.GasUsed),
		RetryCount:     dao.RetryCount,
		Tolerance:      dao.Tolerance,
		Flags:          dao.Flags,
		CreatedAt:      dao.CreatedAt,
		UpdatedAt:      dao.UpdatedAt,
		ExpiresAt:      dao.ExpiresAt,
		ConfirmedAt:    dao.ConfirmedAt,
		LastVerifiedAt: dao.LastVerifiedAt,
	}
	if dao.BlockNumber != nil {
		p.BlockNumber = uint64(*dao.BlockNumber)
	}
	return p
}

func toSessionDao(s *payment.Session) *SessionDao {
	return &SessionDao{
		ID:        s.ID,
		PaymentID: s.PaymentID,
		Nonce:     s.Nonce,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func toSession(dao *SessionDao) *payment.Session {
	return &payment.Session{
		ID:        dao.ID,
		PaymentID: dao.PaymentID,
		Nonce:     dao.Nonce,
		CreatedAt: dao.CreatedAt,
		ExpiresAt: dao.ExpiresAt,
	}
}
