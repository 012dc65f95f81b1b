package payment

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the verification state of a payment.
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnconfirmed Status = "unconfirmed"
	StatusConfirmed   Status = "confirmed"
	StatusNeedsReview Status = "needs_review"
	StatusFailed      Status = "failed"
)

// DefaultTolerance is the accepted relative deviation between expected and actual amounts (1%).
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Reexaminable reports whether the verification engine accepts a payment in this status.
func (s Status) Reexaminable() bool {
	switch s {
	case StatusUnconfirmed, StatusNeedsReview, StatusConfirmed:
		return true
	default:
		return false
	}
}

// Payment is a request for a transfer of Amount of an asset on a network to ToAddress.
type Payment struct {
	ID             string
	Amount         string // integer string in the asset's smallest unit
	Network        string
	ChainID        int64
	NativeSymbol   string
	ToAddress      string
	FromAddress    string // empty until a payer submits a transaction
	Asset          string // token symbol; empty means the chain's native asset
	TxHash         string
	Status         Status
	Nonce          string
	PayeeID        string
	PayeeEmail     string
	ClientEmail    string
	Confirmations  uint64
	BlockNumber    uint64
	GasUsed        string
	RetryCount     int
	Tolerance      decimal.Decimal
	Flags          Flags
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ExpiresAt      time.Time
	ConfirmedAt    *time.Time
	LastVerifiedAt *time.Time
}

// IsNativeAsset reports whether the payment expects the chain's native asset.
func (p *Payment) IsNativeAsset() bool {
	return strings.TrimSpace(p.Asset) == ""
}

// AssetSymbol returns the upper-cased, trimmed asset designator.
func (p *Payment) AssetSymbol() string {
	return strings.ToUpper(strings.TrimSpace(p.Asset))
}

// EffectiveTolerance returns the payment tolerance, falling back to DefaultTolerance when unset.
func (p *Payment) EffectiveTolerance() decimal.Decimal {
	if p.Tolerance.IsPositive() {
		return p.Tolerance
	}
	return DefaultTolerance
}

// Expired reports whether the payment request is past its expiry at now.
func (p *Payment) Expired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}

// Session binds a signing nonce and a validity window to a payment.
type Session struct {
	ID        string
	PaymentID string
	Nonce     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Outcome holds the chain evidence written when a verification run concludes.
type Outcome struct {
	ConfirmedAt   *time.Time
	BlockNumber   uint64
	Confirmations uint64
	GasUsed       string
}

// Update is a partial payment mutation. Nil fields are left untouched.
type Update struct {
	Status         *Status
	IncrementRetry bool
	LastVerifiedAt *time.Time
	// Flags replaces the stored flags; a non-nil empty slice clears them.
	Flags   *Flags
	Outcome *Outcome
}
