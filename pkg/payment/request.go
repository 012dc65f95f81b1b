package payment

import "time"

// Expiry presets accepted by CreateRequest.
const (
	ExpiryOneHour    = "1_hour"
	ExpiryOneDay     = "24_hours"
	ExpirySevenDays  = "7_days"
	ExpiryThirtyDays = "30_days"
	ExpiryCustom     = "custom"
)

// MaxCustomExpiry bounds custom_expiration.
const MaxCustomExpiry = 365 * 24 * time.Hour

// ExpiryDurations maps the fixed expiry presets to their duration.
var ExpiryDurations = map[string]time.Duration{
	ExpiryOneHour:    time.Hour,
	ExpiryOneDay:     24 * time.Hour,
	ExpirySevenDays:  7 * 24 * time.Hour,
	ExpiryThirtyDays: 30 * 24 * time.Hour,
}

// CreateRequest is a payee's request for a new payment.
type CreateRequest struct {
	Amount       string   `json:"amount" validate:"required,number"`
	ToAddress    string   `json:"to_address" validate:"required,eth_addr"`
	Network      string   `json:"network" validate:"required"`
	Asset        string   `json:"asset"`
	ExpiresIn    string   `json:"expires_in" validate:"omitempty,oneof=1_hour 24_hours 7_days 30_days custom"`
	CustomExpiry int64    `json:"custom_expiration" validate:"omitempty,gt=0,lte=31536000"` // seconds, at most MaxCustomExpiry
	Tolerance    *float64 `json:"tolerance" validate:"omitempty,gte=0,lt=1"`
	PayeeEmail   string   `json:"payee_email" validate:"omitempty,email"`
	ClientEmail  string   `json:"client_email" validate:"omitempty,email"`

	// PayeeID is taken from the authenticated request, never from the body.
	PayeeID string `json:"-"`
}

// CreateResponse identifies a newly created payment.
type CreateResponse struct {
	ID             string    `json:"id"`
	PaymentLink    string    `json:"payment_link,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
	Warnings       []string  `json:"warnings,omitempty"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// View is what a payer sees of a pending payment.
type View struct {
	ID           string    `json:"id"`
	Amount       string    `json:"amount"`
	Network      string    `json:"network"`
	ChainID      int64     `json:"chain_id"`
	NativeSymbol string    `json:"native_symbol"`
	Asset        string    `json:"asset,omitempty"`
	ToAddress    string    `json:"to_address"`
	ExpiresAt    time.Time `json:"expires_at"`
	ExpiresIn    int64     `json:"expires_in"` // seconds
}

// SessionResponse carries the nonce a payer signs to submit a transaction.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
	ToAddress string    `json:"to_address"`
	Amount    string    `json:"amount"`
	Network   string    `json:"network"`
	ChainID   int64     `json:"chain_id"`
}

// SubmitRequest binds a transaction to a payment through a signed session nonce.
type SubmitRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	TxHash    string `json:"tx_hash" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// SubmitResponse acknowledges a submitted transaction.
type SubmitResponse struct {
	PaymentID   string `json:"payment_id"`
	Status      Status `json:"status"`
	FromAddress string `json:"from_address"`
	TxHash      string `json:"tx_hash"`
}

// StatusView is the verification state of a payment as reported to clients.
type StatusView struct {
	ID             string     `json:"id"`
	Amount         string     `json:"amount"`
	Network        string     `json:"network"`
	Asset          string     `json:"asset,omitempty"`
	ToAddress      string     `json:"to_address"`
	FromAddress    string     `json:"from_address,omitempty"`
	Status         Status     `json:"status"`
	TxHash         string     `json:"tx_hash,omitempty"`
	Confirmations  uint64     `json:"confirmations"`
	BlockNumber    uint64     `json:"block_number,omitempty"`
	RetryCount     int        `json:"retry_count"`
	Flags          []string   `json:"flags"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	LastVerifiedAt *time.Time `json:"last_verified_at,omitempty"`
}

// NewStatusView projects a payment onto its client-facing status.
func NewStatusView(p *Payment) *StatusView {
	flags := p.Flags.Strings()
	if flags == nil {
		flags = []string{}
	}
	return &StatusView{
		ID:             p.ID,
		Amount:         p.Amount,
		Network:        p.Network,
		Asset:          p.Asset,
		ToAddress:      p.ToAddress,
		FromAddress:    p.FromAddress,
		Status:         p.Status,
		TxHash:         p.TxHash,
		Confirmations:  p.Confirmations,
		BlockNumber:    p.BlockNumber,
		RetryCount:     p.RetryCount,
		Flags:          flags,
		CreatedAt:      p.CreatedAt,
		ExpiresAt:      p.ExpiresAt,
		ConfirmedAt:    p.ConfirmedAt,
		LastVerifiedAt: p.LastVerifiedAt,
	}
}

// NetworkInfo summarises a supported network and its tokens.
type NetworkInfo struct {
	Key                   string      `json:"key"`
	Name                  string      `json:"name"`
	ChainID               int64       `json:"chain_id"`
	NativeSymbol          string      `json:"native_symbol"`
	Testnet               bool        `json:"testnet"`
	RequiredConfirmations uint64      `json:"required_confirmations"`
	RecommendedStablecoin string      `json:"recommended_stablecoin,omitempty"`
	Tokens                []TokenInfo `json:"tokens"`
}

// TokenInfo summarises a token contract on a network.
type TokenInfo struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Decimals    uint8  `json:"decimals"`
	Liquidity   string `json:"liquidity"`
	Recommended bool   `json:"recommended"`
}
