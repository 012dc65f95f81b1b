package verifier

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/payment-verifier/pkg/config"
	"github.com/chainsafe/payment-verifier/pkg/ethereum"
	"github.com/chainsafe/payment-verifier/pkg/ethereum/ethtest"
	"github.com/chainsafe/payment-verifier/pkg/network"
	"github.com/chainsafe/payment-verifier/pkg/payment"
	"github.com/chainsafe/payment-verifier/pkg/paymentstore"
)

var (
	testNow   = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	payeeAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
	payerAddr = common.HexToAddress("0x2222222222222222222222222222222222222222")
	otherAddr = common.HexToAddress("0x3333333333333333333333333333333333333333")
	usdcAddr  = common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	daiAddr   = common.HexToAddress("0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb")
	testHash  = "0x00000000000000000000000000000000000000000000000000000000000000aa"
	oneEther  = "1000000000000000000"
	txBlock   = uint64(100)
	blockTime = testNow.Add(-30 * time.Minute)
)

// mockNodeClient serves canned chain data.
type mockNodeClient struct {
	ethtest.TokenContract

	tx         *ethereum.Transaction
	txErr      error
	receipt    *types.Receipt
	receiptErr error
	head       uint64
	headErr    error
	block      *ethereum.Block
	blockErr   error
	panicHead  bool
	closed     bool
}

func (m *mockNodeClient) TransactionByHash(context.Context, common.Hash) (*ethereum.Transaction, error) {
	return m.tx, m.txErr
}

func (m *mockNodeClient) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return m.receipt, m.receiptErr
}

func (m *mockNodeClient) BlockNumber(context.Context) (uint64, error) {
	if m.panicHead {
		panic("unexpected node response")
	}
	return m.head, m.headErr
}

func (m *mockNodeClient) BlockByNumber(context.Context, uint64) (*ethereum.Block, error) {
	return m.block, m.blockErr
}

func (m *mockNodeClient) Close() { m.closed = true }

// recordingStore counts mutations on top of the in-memory store.
type recordingStore struct {
	*paymentstore.MemoryStore
	updates int
}

func (s *recordingStore) UpdatePayment(ctx context.Context, id string, u payment.Update) error {
	s.updates++
	return s.MemoryStore.UpdatePayment(ctx, id, u)
}

type fixture struct {
	store      *recordingStore
	client     *mockNodeClient
	engine     *Engine
	dials      int
	factoryErr error
}

func testRegistry() *network.Registry {
	return network.NewRegistry(map[string]*network.Network{
		"testchain": {
			Name:                  "Test Chain",
			ChainID:               31337,
			NativeSymbol:          "ETH",
			RPCURLs:               []string{"http://localhost:8545"},
			RequiredConfirmations: 3,
			Tokens: map[string]network.Token{
				"usdc": {Symbol: "USDC", Address: usdcAddr.Hex(), Decimals: 6},
			},
		},
	})
}

func testVerificationConfig() config.VerificationConfig {
	return config.VerificationConfig{
		StaleAfter:             24 * time.Hour,
		StaleRetryThreshold:    100,
		NotFoundRetryThreshold: 20,
		DefaultTolerance:       0.01,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: &recordingStore{MemoryStore: paymentstore.NewMemoryStore()},
		client: &mockNodeClient{
			TokenContract: ethtest.TokenContract{
				usdcAddr: {Decimals: 6, Symbol: "USDC"},
				daiAddr:  {Decimals: 18, Symbol: "DAI"},
			},
			head:  txBlock + 5,
			block: &ethereum.Block{Number: hexutil.Uint64(txBlock), Timestamp: hexutil.Uint64(blockTime.Unix())},
		},
	}
	factory := func(context.Context, *network.Network) (NodeClient, error) {
		f.dials++
		if f.factoryErr != nil {
			return nil, f.factoryErr
		}
		return f.client, nil
	}
	f.engine = New(f.store, testRegistry(), factory, testVerificationConfig(), zap.NewNop(),
		WithClock(func() time.Time { return testNow }))
	return f
}

func (f *fixture) addPayment(t *testing.T, mutate func(p *payment.Payment)) *payment.Payment {
	t.Helper()
	p := &payment.Payment{
		ID:           uuid.NewString(),
		Amount:       oneEther,
		Network:      "testchain",
		ChainID:      31337,
		NativeSymbol: "ETH",
		ToAddress:    "0x1111111111111111111111111111111111111111",
		FromAddress:  payerAddr.Hex(),
		TxHash:       testHash,
		Status:       payment.StatusUnconfirmed,
		Nonce:        "nonce",
		Tolerance:    decimal.RequireFromString("0.01"),
		CreatedAt:    testNow.Add(-time.Hour),
		UpdatedAt:    testNow.Add(-time.Hour),
		ExpiresAt:    testNow.Add(23 * time.Hour),
	}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, f.store.CreatePayment(context.Background(), p))
	return p
}

func (f *fixture) addSession(t *testing.T, paymentID string, start, end time.Time) {
	t.Helper()
	require.NoError(t, f.store.CreateSession(context.Background(), &payment.Session{
		ID: uuid.NewString(), PaymentID: paymentID, Nonce: "n", CreatedAt: start, ExpiresAt: end,
	}))
}

func (f *fixture) reload(t *testing.T, id string) *payment.Payment {
	t.Helper()
	p, err := f.store.GetPayment(context.Background(), id)
	require.NoError(t, err)
	return p
}

// mineNative serves a mined native transfer of value to recipient.
func (f *fixture) mineNative(value string, to common.Address) {
	v, _ := new(big.Int).SetString(value, 10)
	f.client.tx = &ethereum.Transaction{
		Hash:        common.HexToHash(testHash),
		From:        payerAddr,
		To:          &to,
		Value:       (*hexutil.Big)(v),
		BlockNumber: (*hexutil.Big)(new(big.Int).SetUint64(txBlock)),
	}
	f.client.receipt = ethtest.Receipt(types.ReceiptStatusSuccessful, txBlock, 21000)
}

// mineToken serves a mined contract call emitting the given logs.
func (f *fixture) mineToken(logs ...*types.Log) {
	f.client.tx = &ethereum.Transaction{
		Hash:        common.HexToHash(testHash),
		From:        payerAddr,
		To:          &usdcAddr,
		Value:       (*hexutil.Big)(new(big.Int)),
		BlockNumber: (*hexutil.Big)(new(big.Int).SetUint64(txBlock)),
	}
	f.client.receipt = ethtest.Receipt(types.ReceiptStatusSuccessful, txBlock, 52000, logs...)
}

func tokenPayment(p *payment.Payment) {
	p.Asset = "USDC"
	p.Amount = "1000000"
}

func TestVerify_PaymentNotFound(t *testing.T) {
	f := newFixture(t)

	res := f.engine.Verify(context.Background(), uuid.NewString())
	assert.False(t, res.Success)
	assert.Equal(t, payment.StatusFailed, res.Status)
	assert.Equal(t, MsgPaymentNotFound, res.Error)
	assert.Zero(t, f.store.updates)
}

func TestVerify_NonReexaminableStatusIsNoop(t *testing.T) {
	for _, status := range []payment.Status{payment.StatusPending, payment.StatusFailed} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			p := f.addPayment(t, func(p *payment.Payment) { p.Status = status })

			res := f.engine.Verify(context.Background(), p.ID)
			assert.True(t, res.Success)
			assert.Equal(t, status, res.Status)
			assert.Equal(t, "Payment still in "+string(status)+" state", res.Error)
			assert.Zero(t, f.store.updates)
			assert.Zero(t, f.dials)
		})
	}
}

func TestVerify_StaleEscalation(t *testing.T) {
	f := newFixture(t)
	p := f.addPayment(t, func(p *payment.Payment) {
		p.CreatedAt = testNow.Add(-25 * time.Hour)
		p.RetryCount = 101
	})

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusNeedsReview, res.Status)
	assert.Equal(t, MsgStalePayment, res.Error)
	assert.Zero(t, f.dials, "no chain query is made")

	got := f.reload(t, p.ID)
	assert.Equal(t, payment.StatusNeedsReview, got.Status)
	assert.Equal(t, []payment.Kind{payment.KindLongPending, payment.KindRequiresManualReview}, got.Flags.Kinds())
	assert.Equal(t, 101, got.RetryCount)
}

func TestVerify_StaleNeedsBothConditions(t *testing.T) {
	f := newFixture(t)
	old := f.addPayment(t, func(p *payment.Payment) { p.CreatedAt = testNow.Add(-48 * time.Hour) })
	f.mineNative(oneEther, payeeAddr)

	res := f.engine.Verify(context.Background(), old.ID)
	assert.Equal(t, payment.StatusConfirmed, res.Status)
}

func TestVerify_ClientConstructionFailure(t *testing.T) {
	f := newFixture(t)
	f.factoryErr = errors.New("dial tcp: connection refused")
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusPending, res.Status)
	assert.Equal(t, MsgClientUnavailable, res.Error)
	assert.Zero(t, f.store.updates)
	assert.Zero(t, f.reload(t, p.ID).RetryCount)
}

func TestVerify_ProviderUnavailable(t *testing.T) {
	f := newFixture(t)
	f.client.txErr = errors.New("all endpoints failed")
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusPending, res.Status)
	assert.Equal(t, MsgProviderUnavailable, res.Error)
	assert.Equal(t, 1, f.reload(t, p.ID).RetryCount)
	assert.True(t, f.client.closed)
}

func TestVerify_BlockNumberFailureIsTransient(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	f.client.headErr = context.DeadlineExceeded
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusPending, res.Status)
	assert.Equal(t, MsgProviderUnavailable, res.Error)
	assert.Equal(t, 1, f.reload(t, p.ID).RetryCount)
	assert.Equal(t, payment.StatusUnconfirmed, f.reload(t, p.ID).Status)
}

func TestVerify_TransactionNotFound(t *testing.T) {
	f := newFixture(t)
	p := f.addPayment(t, func(p *payment.Payment) { p.RetryCount = 20 })

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusPending, res.Status)
	assert.Equal(t, MsgTxNotFound, res.Error)
	assert.Equal(t, 21, f.reload(t, p.ID).RetryCount)
	assert.True(t, f.client.closed)

	res = f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusNeedsReview, res.Status)
	assert.Equal(t, MsgTxNotFoundEscalated, res.Error)
	assert.True(t, res.Flags.Has(payment.KindTxNotFoundMultipleAttempts))

	got := f.reload(t, p.ID)
	assert.Equal(t, payment.StatusNeedsReview, got.Status)
	assert.Equal(t, 22, got.RetryCount)

	// escalation is stable under repeated invocation
	res = f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusNeedsReview, res.Status)
	got = f.reload(t, p.ID)
	assert.Equal(t, payment.StatusNeedsReview, got.Status)
	assert.Equal(t, 23, got.RetryCount)
}

func TestVerify_NotMined(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	f.client.tx.BlockNumber = nil
	f.client.receipt = nil
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusPending, res.Status)
	assert.Equal(t, MsgTxNotMined, res.Error)
	assert.Empty(t, res.Flags)

	got := f.reload(t, p.ID)
	assert.Equal(t, 1, got.RetryCount)
	assert.Nil(t, got.Flags)
	assert.Equal(t, payment.StatusUnconfirmed, got.Status)
}

func TestVerify_ReceiptErrorTreatedAsNotMined(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	f.client.receipt = nil
	f.client.receiptErr = errors.New("timeout")
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusPending, res.Status)
	assert.Equal(t, MsgTxNotMined, res.Error)
}

func TestVerify_OnChainFailureIsTerminal(t *testing.T) {
	f := newFixture(t)
	f.mineNative("1", otherAddr)
	f.client.receipt.Status = types.ReceiptStatusFailed
	f.client.head = txBlock // below the required depth
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.False(t, res.Success)
	assert.Equal(t, payment.StatusFailed, res.Status)
	assert.Equal(t, MsgTxFailed, res.Error)

	got := f.reload(t, p.ID)
	assert.Equal(t, payment.StatusFailed, got.Status)
	assert.Equal(t, []payment.Kind{payment.KindBlockchainTxFailed}, got.Flags.Kinds())
	assert.Zero(t, got.RetryCount)
}

func TestVerify_WaitsForNetworkConfirmations(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	f.client.head = txBlock + 1
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusPending, res.Status)
	assert.Equal(t, "Waiting for confirmations: 2/3", res.Error)
	assert.Equal(t, 1, f.reload(t, p.ID).RetryCount)

	f.client.head = txBlock + 2
	res = f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusConfirmed, res.Status)
	assert.Equal(t, uint64(3), res.TxDetails.Confirmations)
}

func TestVerify_BlockNotFound(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	f.client.block = nil
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusNeedsReview, res.Status)
	assert.Equal(t, MsgBlockNotFound, res.Error)
}

func TestVerify_NativeExactMatch(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	p := f.addPayment(t, nil)
	f.addSession(t, p.ID, blockTime.Add(-5*time.Minute), blockTime.Add(5*time.Minute))

	res := f.engine.Verify(context.Background(), p.ID)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, payment.StatusConfirmed, res.Status)
	assert.Equal(t, []payment.Kind{payment.KindNativeTokenTransfer}, res.Flags.Kinds())
	require.NotNil(t, res.TxDetails)
	assert.Equal(t, txBlock, res.TxDetails.BlockNumber)
	assert.Equal(t, uint64(6), res.TxDetails.Confirmations)
	assert.Equal(t, "21000", res.TxDetails.GasUsed)
	assert.True(t, res.TxDetails.Timestamp.Equal(blockTime))
	assert.True(t, f.client.closed)

	got := f.reload(t, p.ID)
	assert.Equal(t, payment.StatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	assert.True(t, got.ConfirmedAt.Equal(testNow))
	assert.Equal(t, txBlock, got.BlockNumber)
	assert.Equal(t, "21000", got.GasUsed)
}

func TestVerify_ConfirmedRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	p := f.addPayment(t, nil)

	first := f.engine.Verify(context.Background(), p.ID)
	require.Equal(t, payment.StatusConfirmed, first.Status)
	confirmedAt := f.reload(t, p.ID).ConfirmedAt
	require.NotNil(t, confirmedAt)

	later := testNow.Add(time.Hour)
	f.engine.now = func() time.Time { return later }
	second := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusConfirmed, second.Status)

	got := f.reload(t, p.ID)
	require.NotNil(t, got.ConfirmedAt)
	assert.True(t, got.ConfirmedAt.Equal(*confirmedAt))
	require.NotNil(t, got.LastVerifiedAt)
	assert.True(t, got.LastVerifiedAt.Equal(later))
}

func TestVerify_AmountToleranceBoundary(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		mismatch bool
	}{
		{name: "exact", actual: "1000000", mismatch: false},
		{name: "exactly tolerance below", actual: "990000", mismatch: false},
		{name: "exactly tolerance above", actual: "1010000", mismatch: false},
		{name: "one unit past tolerance", actual: "989999", mismatch: true},
		{name: "one unit over tolerance", actual: "1010001", mismatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			actual, _ := new(big.Int).SetString(tt.actual, 10)
			f.mineToken(ethtest.TransferLog(usdcAddr, payerAddr, payeeAddr, actual))
			p := f.addPayment(t, tokenPayment)

			res := f.engine.Verify(context.Background(), p.ID)
			assert.Equal(t, tt.mismatch, res.Flags.Has(payment.KindAmountMismatch))
			if tt.mismatch {
				assert.Equal(t, payment.StatusNeedsReview, res.Status)
				return
			}
			assert.Equal(t, payment.StatusConfirmed, res.Status)
		})
	}
}

func TestVerify_AmountMismatchDetail(t *testing.T) {
	f := newFixture(t)
	f.mineNative("500000000000000000", payeeAddr)
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusNeedsReview, res.Status)

	got := f.reload(t, p.ID)
	require.Len(t, got.Flags, 2)
	assert.Equal(t, payment.AmountMismatch{
		Expected: oneEther,
		Actual:   "500000000000000000",
		Decimals: 18,
		Symbol:   "ETH",
	}, got.Flags[1])
	assert.Nil(t, got.ConfirmedAt)
}

func TestVerify_TokenTransfer(t *testing.T) {
	f := newFixture(t)
	f.mineToken(
		ethtest.TransferLog(daiAddr, payerAddr, payeeAddr, big.NewInt(7)),
		ethtest.TransferLog(usdcAddr, payerAddr, payeeAddr, big.NewInt(1_000_000)),
	)
	p := f.addPayment(t, tokenPayment)

	res := f.engine.Verify(context.Background(), p.ID)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, payment.StatusConfirmed, res.Status)
	assert.Equal(t, payment.Flags{payment.KindERC20TokenTransfer, payment.ExpectedToken{Symbol: "USDC"}}, res.Flags)

	require.NotNil(t, res.TxDetails.TokenTransfer)
	tt := res.TxDetails.TokenTransfer
	assert.Equal(t, usdcAddr.Hex(), tt.Token)
	assert.Equal(t, "1000000", tt.Amount)
	assert.Equal(t, uint8(6), tt.Decimals)
	assert.Equal(t, "USDC", tt.Symbol)
}

func TestVerify_TokenWrongRecipientFails(t *testing.T) {
	f := newFixture(t)
	f.mineToken(ethtest.TransferLog(usdcAddr, payerAddr, otherAddr, big.NewInt(1_000_000)))
	p := f.addPayment(t, tokenPayment)
	// a session violation would otherwise only ask for review
	f.addSession(t, p.ID, testNow.Add(-5*time.Minute), testNow)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusFailed, res.Status)
	assert.True(t, res.Flags.Has(payment.KindRecipientMismatch))
	assert.True(t, res.Flags.Has(payment.KindTimestampOutsideSession))

	got := f.reload(t, p.ID)
	assert.Equal(t, payment.StatusFailed, got.Status)
	assert.Nil(t, got.ConfirmedAt)
}

func TestVerify_TokenTransferMissing(t *testing.T) {
	f := newFixture(t)
	f.mineToken(ethtest.TransferLog(daiAddr, payerAddr, payeeAddr, big.NewInt(1_000_000)))
	p := f.addPayment(t, tokenPayment)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusNeedsReview, res.Status)
	assert.Equal(t, "Expected USDC transfer not found in transaction logs", res.Error)
	assert.True(t, res.Flags.Has(payment.KindNoTokenTransferDetected))
	assert.Equal(t, payment.StatusNeedsReview, f.reload(t, p.ID).Status)
}

func TestVerify_UnsupportedToken(t *testing.T) {
	t.Run("transfer to recipient found", func(t *testing.T) {
		f := newFixture(t)
		f.mineToken(ethtest.TransferLog(daiAddr, payerAddr, payeeAddr, big.NewInt(5)))
		p := f.addPayment(t, func(p *payment.Payment) {
			p.Asset = "dai"
			p.Amount = "5"
		})

		res := f.engine.Verify(context.Background(), p.ID)
		assert.Equal(t, payment.StatusConfirmed, res.Status)
		assert.True(t, res.Flags.Has(payment.KindUnsupportedToken))
		assert.False(t, res.Flags.Has(payment.KindTokenSymbolMismatch))
	})

	t.Run("nothing detected", func(t *testing.T) {
		f := newFixture(t)
		f.mineToken(ethtest.TransferLog(daiAddr, payerAddr, otherAddr, big.NewInt(5)))
		p := f.addPayment(t, func(p *payment.Payment) { p.Asset = "DAI" })

		res := f.engine.Verify(context.Background(), p.ID)
		assert.Equal(t, payment.StatusNeedsReview, res.Status)
		assert.Equal(t, "DAI token not supported on testchain or transfer not detected", res.Error)
		assert.Equal(t, []payment.Kind{
			payment.KindERC20TokenTransfer,
			payment.KindExpectedToken,
			payment.KindUnsupportedToken,
			payment.KindNoTokenTransferDetected,
		}, res.Flags.Kinds())
	})
}

func TestVerify_TokenSymbolMismatchIsInformational(t *testing.T) {
	f := newFixture(t)
	f.client.TokenContract[usdcAddr] = ethtest.Token{Decimals: 6, Symbol: "USDbC"}
	f.mineToken(ethtest.TransferLog(usdcAddr, payerAddr, payeeAddr, big.NewInt(1_000_000)))
	p := f.addPayment(t, tokenPayment)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusConfirmed, res.Status)
	assert.Contains(t, res.Flags, payment.Flag(payment.TokenSymbolMismatch{Expected: "USDC", Actual: "USDbC"}))
}

func TestVerify_SenderMismatchIsInformational(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	p := f.addPayment(t, func(p *payment.Payment) { p.FromAddress = otherAddr.Hex() })

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusConfirmed, res.Status)
	assert.True(t, res.Flags.Has(payment.KindSenderMismatch))
}

func TestVerify_SenderCheckSkippedWithoutExpectedSender(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	p := f.addPayment(t, func(p *payment.Payment) { p.FromAddress = "" })

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusConfirmed, res.Status)
	assert.False(t, res.Flags.Has(payment.KindSenderMismatch))
}

func TestVerify_SessionWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		buffer  time.Duration
		outside bool
	}{
		{name: "inside", start: blockTime.Add(-time.Minute), end: blockTime.Add(time.Minute)},
		{name: "on the boundary", start: blockTime, end: blockTime},
		{name: "after expiry", start: blockTime.Add(-10 * time.Minute), end: blockTime.Add(-time.Minute), outside: true},
		{name: "before creation", start: blockTime.Add(time.Minute), end: blockTime.Add(5 * time.Minute), outside: true},
		{
			name:   "after expiry within buffer",
			start:  blockTime.Add(-10 * time.Minute),
			end:    blockTime.Add(-time.Minute),
			buffer: 2 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.engine.cfg.SessionBuffer = tt.buffer
			f.mineNative(oneEther, payeeAddr)
			p := f.addPayment(t, nil)
			f.addSession(t, p.ID, tt.start, tt.end)

			res := f.engine.Verify(context.Background(), p.ID)
			assert.Equal(t, tt.outside, res.Flags.Has(payment.KindTimestampOutsideSession))
			if tt.outside {
				assert.Equal(t, payment.StatusNeedsReview, res.Status)
				return
			}
			assert.Equal(t, payment.StatusConfirmed, res.Status)
		})
	}
}

func TestVerify_UsesLatestSession(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	p := f.addPayment(t, nil)
	f.addSession(t, p.ID, blockTime.Add(-10*time.Minute), blockTime.Add(10*time.Minute))
	f.addSession(t, p.ID, blockTime.Add(time.Minute), blockTime.Add(6*time.Minute))

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusNeedsReview, res.Status)
	assert.True(t, res.Flags.Has(payment.KindTimestampOutsideSession))
}

func TestVerify_NeedsReviewCanBeRechecked(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	p := f.addPayment(t, func(p *payment.Payment) {
		p.Status = payment.StatusNeedsReview
		p.Flags = payment.Flags{payment.KindTxNotFoundMultipleAttempts}
	})

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusConfirmed, res.Status)
	got := f.reload(t, p.ID)
	assert.Equal(t, []payment.Kind{payment.KindNativeTokenTransfer}, got.Flags.Kinds())
}

func TestVerify_ContractCreationHasNoRecipient(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	f.client.tx.To = nil
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusFailed, res.Status)
	assert.Contains(t, res.Flags, payment.Flag(payment.RecipientMismatch{Expected: p.ToAddress, Actual: ""}))
}

func TestVerify_PanicDegradesToPending(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	f.client.panicHead = true
	p := f.addPayment(t, nil)

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusPending, res.Status)
	assert.Equal(t, MsgInternalError, res.Error)
	assert.True(t, f.client.closed)
	assert.Equal(t, 1, f.reload(t, p.ID).RetryCount)
}

func TestVerify_InvalidAmountDegradesToPending(t *testing.T) {
	f := newFixture(t)
	f.mineNative(oneEther, payeeAddr)
	p := f.addPayment(t, func(p *payment.Payment) { p.Amount = "1.5" })

	res := f.engine.Verify(context.Background(), p.ID)
	assert.Equal(t, payment.StatusPending, res.Status)
	assert.Equal(t, MsgInternalError, res.Error)
	assert.Equal(t, 1, f.reload(t, p.ID).RetryCount)
}

func TestExceedsTolerance(t *testing.T) {
	expected := big.NewInt(1999)
	tol := decimal.RequireFromString("0.01")
	// floor(19.99) = 19
	assert.False(t, exceedsTolerance(expected, big.NewInt(1980), tol))
	assert.True(t, exceedsTolerance(expected, big.NewInt(1979), tol))
}

func TestConfirmationsAt(t *testing.T) {
	assert.Equal(t, uint64(1), confirmationsAt(100, 100))
	assert.Equal(t, uint64(6), confirmationsAt(105, 100))
	assert.Equal(t, uint64(0), confirmationsAt(99, 100))
}
