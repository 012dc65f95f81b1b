package payment

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies a verification flag.
type Kind string

const (
	KindNativeTokenTransfer        Kind = "native_token_transfer"
	KindERC20TokenTransfer         Kind = "erc20_token_transfer"
	KindExpectedToken              Kind = "expected_token"
	KindUnsupportedToken           Kind = "unsupported_token"
	KindNoTokenTransferDetected    Kind = "no_token_transfer_detected"
	KindTokenSymbolMismatch        Kind = "token_symbol_mismatch"
	KindAmountMismatch             Kind = "amount_mismatch"
	KindRecipientMismatch          Kind = "recipient_mismatch"
	KindSenderMismatch             Kind = "sender_mismatch"
	KindTimestampOutsideSession    Kind = "timestamp_outside_session"
	KindBlockchainTxFailed         Kind = "blockchain_tx_failed"
	KindTxNotFoundMultipleAttempts Kind = "tx_not_found_multiple_attempts"
	KindLongPending                Kind = "long_pending"
	KindRequiresManualReview       Kind = "requires_manual_review"
)

// Flag is a diagnostic annotation attached to a payment during verification.
// Kinds without a payload are flags on their own; the remaining variants are
// the struct types below.
type Flag interface {
	Kind() Kind
	String() string
	isFlag()
}

func (k Kind) Kind() Kind     { return k }
func (k Kind) String() string { return string(k) }
func (Kind) isFlag()          {}

// ExpectedToken records the token symbol the payment asked for.
type ExpectedToken struct {
	Symbol string `json:"symbol"`
}

func (ExpectedToken) Kind() Kind { return KindExpectedToken }
func (f ExpectedToken) String() string {
	return fmt.Sprintf("expected_token: %s", f.Symbol)
}
func (ExpectedToken) isFlag() {}

// UnsupportedToken marks an asset that has no contract configured on the network.
type UnsupportedToken struct {
	Symbol  string `json:"symbol"`
	Network string `json:"network"`
}

func (UnsupportedToken) Kind() Kind { return KindUnsupportedToken }
func (f UnsupportedToken) String() string {
	return fmt.Sprintf("unsupported_token: %s not configured on %s", f.Symbol, f.Network)
}
func (UnsupportedToken) isFlag() {}

// TokenSymbolMismatch records a transfer of a token whose on-chain symbol differs from the expected one.
type TokenSymbolMismatch struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (TokenSymbolMismatch) Kind() Kind { return KindTokenSymbolMismatch }
func (f TokenSymbolMismatch) String() string {
	return fmt.Sprintf("token_symbol_mismatch: expected %s, got %s", f.Expected, f.Actual)
}
func (TokenSymbolMismatch) isFlag() {}

// AmountMismatch records a transferred amount outside the payment tolerance.
// Expected and Actual are integer strings in the smallest unit.
type AmountMismatch struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Decimals int32  `json:"decimals"`
	Symbol   string `json:"symbol,omitempty"`
}

func (AmountMismatch) Kind() Kind { return KindAmountMismatch }
func (f AmountMismatch) String() string {
	unit := ""
	if f.Symbol != "" {
		unit = " " + f.Symbol
	}
	return fmt.Sprintf("amount_mismatch: expected %s%s, got %s%s",
		FormatUnits(f.Expected, f.Decimals), unit, FormatUnits(f.Actual, f.Decimals), unit)
}
func (AmountMismatch) isFlag() {}

// RecipientMismatch records funds sent to an address other than the payment recipient.
type RecipientMismatch struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (RecipientMismatch) Kind() Kind { return KindRecipientMismatch }
func (f RecipientMismatch) String() string {
	return fmt.Sprintf("recipient_mismatch: expected %s, got %s", f.Expected, f.Actual)
}
func (RecipientMismatch) isFlag() {}

// SenderMismatch records funds sent from an address other than the claimed sender.
type SenderMismatch struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

func (SenderMismatch) Kind() Kind { return KindSenderMismatch }
func (f SenderMismatch) String() string {
	return fmt.Sprintf("sender_mismatch: expected %s, got %s", f.Expected, f.Actual)
}
func (SenderMismatch) isFlag() {}

// TimestampOutsideSession records a block time outside the payment session window.
type TimestampOutsideSession struct {
	TxTime       time.Time `json:"tx_time"`
	SessionStart time.Time `json:"session_start"`
	SessionEnd   time.Time `json:"session_end"`
}

func (TimestampOutsideSession) Kind() Kind { return KindTimestampOutsideSession }
func (f TimestampOutsideSession) String() string {
	return fmt.Sprintf("timestamp_outside_session: tx at %s, session %s to %s",
		f.TxTime.UTC().Format(time.RFC3339), f.SessionStart.UTC().Format(time.RFC3339), f.SessionEnd.UTC().Format(time.RFC3339))
}
func (TimestampOutsideSession) isFlag() {}

// Flags is an ordered list of verification flags.
type Flags []Flag

// Has reports whether a flag of the given kind is present.
func (fs Flags) Has(kind Kind) bool {
	for _, f := range fs {
		if f.Kind() == kind {
			return true
		}
	}
	return false
}

// Kinds returns the kind of every flag, in order.
func (fs Flags) Kinds() []Kind {
	kinds := make([]Kind, len(fs))
	for i, f := range fs {
		kinds[i] = f.Kind()
	}
	return kinds
}

// Strings renders every flag for display.
func (fs Flags) Strings() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	return out
}

type flagRecord struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MarshalJSON encodes flags as [{"kind": ..., "data": {...}}].
func (fs Flags) MarshalJSON() ([]byte, error) {
	records := make([]flagRecord, 0, len(fs))
	for _, f := range fs {
		rec := flagRecord{Kind: f.Kind()}
		if _, bare := f.(Kind); !bare {
			data, err := json.Marshal(f)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal %s flag: %w", f.Kind(), err)
			}
			rec.Data = data
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// UnmarshalJSON decodes flags written by MarshalJSON. Unknown kinds are kept as bare kinds.
func (fs *Flags) UnmarshalJSON(b []byte) error {
	var records []flagRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return err
	}
	out := make(Flags, 0, len(records))
	for _, rec := range records {
		f, err := decodeFlag(rec)
		if err != nil {
			return err
		}
		out = append(out, f)
	}
	*fs = out
	return nil
}

func decodeFlag(rec flagRecord) (Flag, error) {
	switch rec.Kind {
	case KindExpectedToken:
		return decodeAs[ExpectedToken](rec)
	case KindUnsupportedToken:
		return decodeAs[UnsupportedToken](rec)
	case KindTokenSymbolMismatch:
		return decodeAs[TokenSymbolMismatch](rec)
	case KindAmountMismatch:
		return decodeAs[AmountMismatch](rec)
	case KindRecipientMismatch:
		return decodeAs[RecipientMismatch](rec)
	case KindSenderMismatch:
		return decodeAs[SenderMismatch](rec)
	case KindTimestampOutsideSession:
		return decodeAs[TimestampOutsideSession](rec)
	default:
		return rec.Kind, nil
	}
}

func decodeAs[T Flag](rec flagRecord) (Flag, error) {
	var f T
	if len(rec.Data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(rec.Data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s flag: %w", rec.Kind, err)
	}
	return f, nil
}

// FormatUnits renders an integer amount string with the given number of decimals.
// Unparseable input is returned unchanged.
func FormatUnits(amount string, decimals int32) string {
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return amount
	}
	return decimal.NewFromBigInt(v, -decimals).String()
}
