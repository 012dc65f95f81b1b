// Package ethtest builds ERC-20 receipts and contract responses for tests.
package ethtest

import (
	"bytes"
	"context"
	"errors"
	"math/big"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainsafe/payment-verifier/pkg/ethereum/contracts"
)

// ErrReverted is returned by TokenContract for tokens configured to fail metadata calls.
var ErrReverted = errors.New("execution reverted")

func erc20ABI() *abi.ABI {
	parsed, err := contracts.ERC20MetaData.GetAbi()
	if err != nil {
		panic(err)
	}
	return parsed
}

// TransferLog builds the log an ERC-20 Transfer event emits.
func TransferLog(token, from, to common.Address, value *big.Int) *types.Log {
	parsed := erc20ABI()
	ev := parsed.Events["Transfer"]
	data, err := ev.Inputs.NonIndexed().Pack(value)
	if err != nil {
		panic(err)
	}
	return &types.Log{
		Address: token,
		Topics: []common.Hash{
			ev.ID,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: data,
	}
}

// Receipt wraps logs in a receipt with the given execution status.
func Receipt(status uint64, blockNumber uint64, gasUsed uint64, logs ...*types.Log) *types.Receipt {
	return &types.Receipt{
		Status:      status,
		BlockNumber: new(big.Int).SetUint64(blockNumber),
		GasUsed:     gasUsed,
		Logs:        logs,
	}
}

// Token describes how TokenContract answers metadata calls for one address.
type Token struct {
	Decimals uint8
	Symbol   string
	Revert   bool
}

// TokenContract is a bind.ContractCaller answering decimals() and symbol().
type TokenContract map[common.Address]Token

// CodeAt reports non-empty code for every configured token.
func (tc TokenContract) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	if _, ok := tc[account]; ok {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

// CallContract packs the configured metadata for the called method.
func (tc TokenContract) CallContract(_ context.Context, msg goethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if msg.To == nil {
		return nil, ErrReverted
	}
	tok, ok := tc[*msg.To]
	if !ok {
		return nil, nil
	}
	if tok.Revert || len(msg.Data) < 4 {
		return nil, ErrReverted
	}

	parsed := erc20ABI()
	for name, m := range parsed.Methods {
		if !bytes.Equal(m.ID, msg.Data[:4]) {
			continue
		}
		switch name {
		case "decimals":
			return m.Outputs.Pack(tok.Decimals)
		case "symbol":
			return m.Outputs.Pack(tok.Symbol)
		case "name":
			return m.Outputs.Pack(tok.Symbol)
		}
	}
	return nil, ErrReverted
}
