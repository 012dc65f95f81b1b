package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/payment-verifier/pkg/ethereum/ethtest"
)

type fakeTransferSource struct {
	ethtest.TokenContract
	receipt *types.Receipt
	err     error
}

func (f *fakeTransferSource) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return f.receipt, f.err
}

var (
	usdc     = common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	dai      = common.HexToAddress("0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb")
	payer    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	payee    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	stranger = common.HexToAddress("0x3333333333333333333333333333333333333333")
	txHash   = common.HexToHash("0xabc")
)

func TestDetectTokenTransfer(t *testing.T) {
	tokens := ethtest.TokenContract{
		usdc: {Decimals: 6, Symbol: "USDC"},
		dai:  {Decimals: 18, Symbol: "DAI"},
	}
	garbage := &types.Log{Address: usdc, Topics: []common.Hash{common.HexToHash("0x01")}}

	tests := []struct {
		name      string
		receipt   *types.Receipt
		token     *common.Address
		recipient *common.Address
		wantToken common.Address
		wantTo    common.Address
		wantNil   bool
	}{
		{
			name:    "missing receipt",
			wantNil: true,
		},
		{
			name:    "reverted receipt",
			receipt: ethtest.Receipt(types.ReceiptStatusFailed, 10, 21000, ethtest.TransferLog(usdc, payer, payee, big.NewInt(5))),
			wantNil: true,
		},
		{
			name:      "undecodable logs are skipped",
			receipt:   ethtest.Receipt(types.ReceiptStatusSuccessful, 10, 50000, garbage, ethtest.TransferLog(usdc, payer, payee, big.NewInt(5))),
			wantToken: usdc,
			wantTo:    payee,
		},
		{
			name: "filters by token contract",
			receipt: ethtest.Receipt(types.ReceiptStatusSuccessful, 10, 50000,
				ethtest.TransferLog(dai, payer, payee, big.NewInt(7)),
				ethtest.TransferLog(usdc, payer, payee, big.NewInt(5))),
			token:     &usdc,
			wantToken: usdc,
			wantTo:    payee,
		},
		{
			name: "filters by recipient",
			receipt: ethtest.Receipt(types.ReceiptStatusSuccessful, 10, 50000,
				ethtest.TransferLog(usdc, payer, stranger, big.NewInt(7)),
				ethtest.TransferLog(usdc, payer, payee, big.NewInt(5))),
			recipient: &payee,
			wantToken: usdc,
			wantTo:    payee,
		},
		{
			name:      "no match",
			receipt:   ethtest.Receipt(types.ReceiptStatusSuccessful, 10, 50000, ethtest.TransferLog(dai, payer, payee, big.NewInt(7))),
			token:     &usdc,
			wantNil:   true,
			recipient: &payee,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeTransferSource{TokenContract: tokens, receipt: tt.receipt}

			got, err := DetectTokenTransfer(context.Background(), src, txHash, tt.token, tt.recipient)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantToken.Hex(), got.Token)
			assert.Equal(t, tt.wantTo.Hex(), got.To)
			assert.Equal(t, payer.Hex(), got.From)
		})
	}
}

func TestDetectTokenTransfer_ResolvesMetadata(t *testing.T) {
	src := &fakeTransferSource{
		TokenContract: ethtest.TokenContract{usdc: {Decimals: 6, Symbol: "USDC"}},
		receipt:       ethtest.Receipt(types.ReceiptStatusSuccessful, 10, 50000, ethtest.TransferLog(usdc, payer, payee, big.NewInt(1_000_000))),
	}

	got, err := DetectTokenTransfer(context.Background(), src, txHash, &usdc, &payee)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1000000", got.Amount)
	assert.Equal(t, uint8(6), got.Decimals)
	assert.Equal(t, "USDC", got.Symbol)
}

func TestDetectTokenTransfer_MetadataFallback(t *testing.T) {
	src := &fakeTransferSource{
		TokenContract: ethtest.TokenContract{usdc: {Revert: true}},
		receipt:       ethtest.Receipt(types.ReceiptStatusSuccessful, 10, 50000, ethtest.TransferLog(usdc, payer, payee, big.NewInt(42))),
	}

	got, err := DetectTokenTransfer(context.Background(), src, txHash, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint8(18), got.Decimals)
	assert.Equal(t, "UNKNOWN", got.Symbol)
	assert.Equal(t, "42", got.Amount)
}

func TestDetectTokenTransfer_ReceiptError(t *testing.T) {
	src := &fakeTransferSource{err: errors.New("boom")}

	_, err := DetectTokenTransfer(context.Background(), src, txHash, nil, nil)
	require.Error(t, err)
}
