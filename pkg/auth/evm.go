package auth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrMalformedSignature is returned for signatures that are not 65 hex-encoded bytes.
var ErrMalformedSignature = errors.New("malformed signature")

// VerifyEIP191Signature recovers the address that personal_sign'ed message.
// The signature is hex with or without 0x; v may be 0/1 or 27/28.
func VerifyEIP191Signature(message, signature string) (common.Address, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return common.Address{}, err
	}

	pub, err := crypto.SigToPub(EIP191Hash(message).Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// EIP191Hash is the personal_sign digest of message.
func EIP191Hash(message string) common.Hash {
	return common.BytesToHash(accounts.TextHash([]byte(message)))
}

func decodeSignature(signature string) ([]byte, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedSignature, crypto.SignatureLength, len(sig))
	}
	if v := sig[crypto.RecoveryIDOffset]; v == 27 || v == 28 {
		sig[crypto.RecoveryIDOffset] = v - 27
	}
	return sig, nil
}

// ValidateEVMAddress reports whether address is 0x followed by 40 hex digits.
func ValidateEVMAddress(address string) bool {
	return strings.HasPrefix(address, "0x") && common.IsHexAddress(address)
}

// NormalizeAddress returns the EIP-55 checksummed form of address.
func NormalizeAddress(address string) string {
	return common.HexToAddress(address).Hex()
}
