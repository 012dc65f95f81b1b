package payment

import "time"

// VerificationResult is the outcome of a single verification run.
type VerificationResult struct {
	Success   bool       `json:"success"`
	Status    Status     `json:"status"`
	Error     string     `json:"error,omitempty"`
	TxDetails *TxDetails `json:"tx_details,omitempty"`
	Flags     Flags      `json:"flags,omitempty"`
}

// TxDetails is a snapshot of the chain data a verification run relied on.
type TxDetails struct {
	BlockNumber   uint64         `json:"block_number"`
	Confirmations uint64         `json:"confirmations"`
	Timestamp     time.Time      `json:"timestamp"`
	GasUsed       string         `json:"gas_used,omitempty"`
	TokenTransfer *TokenTransfer `json:"token_transfer,omitempty"`
}

// TokenTransfer describes a detected fungible-token transfer.
type TokenTransfer struct {
	Token    string `json:"token"`
	From     string `json:"from"`
	To       string `json:"to"`
	Amount   string `json:"amount"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
}

// Pending builds a non-terminal result asking the caller to retry later.
func Pending(msg string) *VerificationResult {
	return &VerificationResult{Status: StatusPending, Error: msg}
}

// Failure builds an unsuccessful result with the given status.
func Failure(status Status, msg string, flags Flags) *VerificationResult {
	return &VerificationResult{Status: status, Error: msg, Flags: flags}
}
