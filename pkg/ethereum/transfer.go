package ethereum

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainsafe/payment-verifier/pkg/ethereum/contracts"
	"github.com/chainsafe/payment-verifier/pkg/payment"
)

const (
	fallbackDecimals = 18
	fallbackSymbol   = "UNKNOWN"
)

// TransferSource is the node access the transfer detector needs. *Client satisfies it.
type TransferSource interface {
	bind.ContractCaller
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// DetectTokenTransfer scans the receipt logs of txHash for an ERC-20 Transfer event.
// token and recipient narrow the match when non-nil. It returns nil when the
// receipt is missing, reverted, or holds no matching transfer.
func DetectTokenTransfer(ctx context.Context, src TransferSource, txHash common.Hash, token, recipient *common.Address) (*payment.TokenTransfer, error) {
	receipt, err := src.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt: %w", err)
	}
	if receipt == nil || receipt.Status != types.ReceiptStatusSuccessful {
		return nil, nil
	}

	filterer, err := contracts.NewERC20Filterer(common.Address{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to bind erc20 filterer: %w", err)
	}

	for _, lg := range receipt.Logs {
		if lg == nil {
			continue
		}
		ev, err := filterer.ParseTransfer(*lg)
		if err != nil {
			continue
		}
		if token != nil && lg.Address != *token {
			continue
		}
		if recipient != nil && ev.To != *recipient {
			continue
		}

		decimals, symbol := tokenMetadata(ctx, src, lg.Address)
		return &payment.TokenTransfer{
			Token:    lg.Address.Hex(),
			From:     ev.From.Hex(),
			To:       ev.To.Hex(),
			Amount:   ev.Value.String(),
			Decimals: decimals,
			Symbol:   symbol,
		}, nil
	}
	return nil, nil
}

// tokenMetadata reads decimals and symbol, falling back to 18 and UNKNOWN.
func tokenMetadata(ctx context.Context, caller bind.ContractCaller, address common.Address) (uint8, string) {
	decimals, symbol := uint8(fallbackDecimals), fallbackSymbol

	erc20, err := contracts.NewERC20Caller(address, caller)
	if err != nil {
		return decimals, symbol
	}
	opts := &bind.CallOpts{Context: ctx}
	if d, err := erc20.Decimals(opts); err == nil {
		decimals = d
	}
	if s, err := erc20.Symbol(opts); err == nil && s != "" {
		symbol = s
	}
	return decimals, symbol
}
