// Package verifier decides whether a submitted transaction satisfies a payment request.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chainsafe/payment-verifier/internal/metrics"
	"github.com/chainsafe/payment-verifier/pkg/config"
	"github.com/chainsafe/payment-verifier/pkg/ethereum"
	"github.com/chainsafe/payment-verifier/pkg/network"
	"github.com/chainsafe/payment-verifier/pkg/payment"
	"github.com/chainsafe/payment-verifier/pkg/paymentstore"
)

// Result messages.
const (
	MsgPaymentNotFound       = "Payment not found"
	MsgClientUnavailable     = "Failed to create provider"
	MsgProviderUnavailable   = "Provider temporarily unavailable"
	MsgTxNotFound            = "Transaction not found"
	MsgTxNotFoundEscalated   = "Transaction not found after multiple attempts"
	MsgTxNotMined            = "Transaction not mined yet"
	MsgTxFailed              = "Transaction failed on blockchain"
	MsgBlockNotFound         = "Block not found for transaction."
	MsgStalePayment          = "Payment requires manual review after extended pending period"
	MsgUpdateFailed          = "Failed to update payment status"
	MsgInternalError         = "Internal server error"
	msgWaitingConfirmations  = "Waiting for confirmations: %d/%d"
	msgStillInState          = "Payment still in %s state"
	msgTokenTransferNotFound = "Expected %s transfer not found in transaction logs"
	msgTokenNotSupported     = "%s token not supported on %s or transfer not detected"
)

// Store is the record store access the engine needs.
type Store interface {
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	UpdatePayment(ctx context.Context, id string, u payment.Update) error
	LatestSession(ctx context.Context, paymentID string) (*payment.Session, error)
}

// NodeClient is the chain access used during one verification run.
type NodeClient interface {
	bind.ContractCaller
	TransactionByHash(ctx context.Context, hash common.Hash) (*ethereum.Transaction, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number uint64) (*ethereum.Block, error)
	Close()
}

// ClientFactory opens a NodeClient for a network. The engine closes it when the run ends.
type ClientFactory func(ctx context.Context, n *network.Network) (NodeClient, error)

// NewClientFactory returns a ClientFactory backed by failover ethereum clients.
func NewClientFactory(cfg config.RPCConfig, logger *zap.Logger) ClientFactory {
	return func(ctx context.Context, n *network.Network) (NodeClient, error) {
		client, err := ethereum.NewClient(ctx, n.Key, n.RPCURLs,
			ethereum.WithLogger(logger),
			ethereum.WithCallTimeout(cfg.CallTimeout),
			ethereum.WithFailoverLogging(cfg.LogFailover),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// nodeError marks a failure talking to the chain, as opposed to a local fault.
type nodeError struct {
	op  string
	err error
}

func (e *nodeError) Error() string { return fmt.Sprintf("failed to %s: %v", e.op, e.err) }
func (e *nodeError) Unwrap() error { return e.err }

// Engine runs verification passes over payments.
type Engine struct {
	store     Store
	networks  *network.Registry
	newClient ClientFactory
	cfg       config.VerificationConfig
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates a verification engine.
func New(store Store, networks *network.Registry, newClient ClientFactory, cfg config.VerificationConfig, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		networks:  networks,
		newClient: newClient,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Verify runs one verification pass for the payment. It never fails: every
// outcome, including internal faults, is reported through the result.
func (e *Engine) Verify(ctx context.Context, paymentID string) (res *payment.VerificationResult) {
	start := time.Now()
	networkKey := "unknown"
	logger := e.logger.With(zap.String("payment_id", paymentID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Verification panicked", zap.Any("panic", r))
			metrics.ErrorsTotal.WithLabelValues("verifier", "panic").Inc()
			e.bumpRetry(ctx, paymentID)
			res = payment.Pending(MsgInternalError)
		}
		metrics.VerificationsTotal.WithLabelValues(networkKey, string(res.Status)).Inc()
		metrics.VerificationDuration.WithLabelValues(networkKey).Observe(time.Since(start).Seconds())
	}()

	p, err := e.store.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, paymentstore.ErrPaymentNotFound) {
			return payment.Failure(payment.StatusFailed, MsgPaymentNotFound, nil)
		}
		logger.Error("Failed to load payment", zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("verifier", "store").Inc()
		return payment.Pending(MsgInternalError)
	}
	networkKey = p.Network

	if !p.Status.Reexaminable() {
		return &payment.VerificationResult{
			Success: true,
			Status:  p.Status,
			Error:   fmt.Sprintf(msgStillInState, p.Status),
		}
	}

	if e.isStale(p) {
		flags := payment.Flags{payment.KindLongPending, payment.KindRequiresManualReview}
		e.conclude(ctx, logger, p.ID, payment.StatusNeedsReview, flags, false)
		logger.Warn("Payment escalated for manual review", zap.Int("retry_count", p.RetryCount))
		return payment.Failure(payment.StatusNeedsReview, MsgStalePayment, flags)
	}

	n, err := e.networks.Get(p.Network)
	if err != nil {
		logger.Error("Payment references an unknown network", zap.String("network", p.Network), zap.Error(err))
		return payment.Pending(MsgClientUnavailable)
	}
	client, err := e.newClient(ctx, n)
	if err != nil {
		logger.Error("Failed to create node client", zap.String("network", p.Network), zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("verifier", "client").Inc()
		return payment.Pending(MsgClientUnavailable)
	}
	defer client.Close()

	res, err = e.examine(ctx, logger, p, n, client)
	if err != nil {
		e.bumpRetry(ctx, p.ID)
		var nodeErr *nodeError
		if errors.As(err, &nodeErr) {
			logger.Warn("Node unavailable during verification", zap.Error(err))
			metrics.ErrorsTotal.WithLabelValues("verifier", "node").Inc()
			return payment.Pending(MsgProviderUnavailable)
		}
		logger.Error("Verification failed", zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("verifier", "internal").Inc()
		return payment.Pending(MsgInternalError)
	}
	return res
}

func (e *Engine) isStale(p *payment.Payment) bool {
	return e.now().Sub(p.CreatedAt) > e.cfg.StaleAfter && p.RetryCount > e.cfg.StaleRetryThreshold
}

func (e *Engine) examine(
	ctx context.Context,
	logger *zap.Logger,
	p *payment.Payment,
	n *network.Network,
	client NodeClient,
) (*payment.VerificationResult, error) {
	hash := common.HexToHash(p.TxHash)

	var (
		tx      *ethereum.Transaction
		receipt *types.Receipt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if tx, err = client.TransactionByHash(gctx, hash); err != nil {
			return &nodeError{op: "fetch transaction", err: err}
		}
		return nil
	})
	g.Go(func() error {
		r, err := client.TransactionReceipt(gctx, hash)
		if err != nil {
			logger.Debug("Receipt unavailable", zap.Error(err))
			return nil
		}
		receipt = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if tx == nil {
		if p.RetryCount > e.cfg.NotFoundRetryThreshold {
			flags := payment.Flags{payment.KindTxNotFoundMultipleAttempts}
			e.conclude(ctx, logger, p.ID, payment.StatusNeedsReview, flags, true)
			return payment.Failure(payment.StatusNeedsReview, MsgTxNotFoundEscalated, flags), nil
		}
		return e.retry(ctx, p.ID, MsgTxNotFound), nil
	}

	if !tx.Mined() || receipt == nil {
		return e.retry(ctx, p.ID, MsgTxNotMined), nil
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		flags := payment.Flags{payment.KindBlockchainTxFailed}
		e.conclude(ctx, logger, p.ID, payment.StatusFailed, flags, false)
		return payment.Failure(payment.StatusFailed, MsgTxFailed, flags), nil
	}

	head, err := client.BlockNumber(ctx)
	if err != nil {
		return nil, &nodeError{op: "fetch block number", err: err}
	}
	txBlock := tx.BlockNum()
	confirmations := confirmationsAt(head, txBlock)
	if confirmations < n.RequiredConfirmations {
		return e.retry(ctx, p.ID, fmt.Sprintf(msgWaitingConfirmations, confirmations, n.RequiredConfirmations)), nil
	}

	block, err := client.BlockByNumber(ctx, txBlock)
	if err != nil {
		return nil, &nodeError{op: "fetch block", err: err}
	}
	if block == nil {
		return payment.Failure(payment.StatusNeedsReview, MsgBlockNotFound, nil), nil
	}
	txTime := time.Unix(int64(block.Timestamp), 0).UTC()

	expected, ok := new(big.Int).SetString(p.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid payment amount %q", p.Amount)
	}

	var (
		flags    payment.Flags
		actual   *big.Int
		transfer *payment.TokenTransfer
		to, from string
		decimals = int32(18)
		unit     = n.NativeSymbol
	)

	if p.IsNativeAsset() {
		flags = append(flags, payment.KindNativeTokenTransfer)
		actual = tx.ValueInt()
		from = tx.From.Hex()
		if tx.To != nil {
			to = tx.To.Hex()
		}
	} else {
		symbol := p.AssetSymbol()
		flags = append(flags, payment.KindERC20TokenTransfer, payment.ExpectedToken{Symbol: symbol})

		var missing string
		transfer, missing, err = e.findTransfer(ctx, client, receipt, hash, n, p, &flags)
		if err != nil {
			return nil, err
		}
		if transfer == nil {
			flags = append(flags, payment.KindNoTokenTransferDetected)
			e.conclude(ctx, logger, p.ID, payment.StatusNeedsReview, flags, false)
			return payment.Failure(payment.StatusNeedsReview, missing, flags), nil
		}

		if !strings.EqualFold(transfer.Symbol, symbol) {
			flags = append(flags, payment.TokenSymbolMismatch{Expected: symbol, Actual: transfer.Symbol})
		}
		if actual, ok = new(big.Int).SetString(transfer.Amount, 10); !ok {
			return nil, fmt.Errorf("invalid transfer amount %q", transfer.Amount)
		}
		to, from = transfer.To, transfer.From
		decimals, unit = int32(transfer.Decimals), transfer.Symbol
	}

	if exceedsTolerance(expected, actual, p.EffectiveTolerance()) {
		flags = append(flags, payment.AmountMismatch{
			Expected: expected.String(),
			Actual:   actual.String(),
			Decimals: decimals,
			Symbol:   unit,
		})
	}
	if !strings.EqualFold(to, p.ToAddress) {
		flags = append(flags, payment.RecipientMismatch{Expected: p.ToAddress, Actual: to})
	}
	if p.FromAddress != "" && !strings.EqualFold(from, p.FromAddress) {
		flags = append(flags, payment.SenderMismatch{Expected: p.FromAddress, Actual: from})
	}

	if f := e.checkSession(ctx, logger, p.ID, txTime); f != nil {
		flags = append(flags, f)
	}

	status := resolveStatus(flags)
	now := e.now()
	var confirmedAt *time.Time
	if status == payment.StatusConfirmed {
		confirmedAt = &now
		if p.Status == payment.StatusConfirmed && p.ConfirmedAt != nil {
			confirmedAt = p.ConfirmedAt
		}
	}
	gasUsed := strconv.FormatUint(receipt.GasUsed, 10)
	update := payment.Update{
		Status:         &status,
		LastVerifiedAt: &now,
		Flags:          &flags,
		Outcome: &payment.Outcome{
			ConfirmedAt:   confirmedAt,
			BlockNumber:   txBlock,
			Confirmations: confirmations,
			GasUsed:       gasUsed,
		},
	}
	if err := e.store.UpdatePayment(ctx, p.ID, update); err != nil {
		logger.Error("Failed to persist verification outcome", zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("verifier", "store").Inc()
		return payment.Pending(MsgUpdateFailed), nil
	}

	logger.Info("Payment verified",
		zap.String("status", string(status)),
		zap.Uint64("block_number", txBlock),
		zap.Uint64("confirmations", confirmations),
		zap.Strings("flags", flags.Strings()))

	res := &payment.VerificationResult{
		Success: true,
		Status:  status,
		TxDetails: &payment.TxDetails{
			BlockNumber:   txBlock,
			Confirmations: confirmations,
			Timestamp:     txTime,
			GasUsed:       gasUsed,
			TokenTransfer: transfer,
		},
	}
	if len(flags) > 0 {
		res.Flags = flags
	}
	return res, nil
}

// findTransfer locates the token transfer for a named asset. A configured token
// is matched by contract, preferring a transfer to the payment recipient; an
// unconfigured one is matched by recipient alone. The returned message explains
// a missing transfer.
func (e *Engine) findTransfer(
	ctx context.Context,
	client NodeClient,
	receipt *types.Receipt,
	hash common.Hash,
	n *network.Network,
	p *payment.Payment,
	flags *payment.Flags,
) (*payment.TokenTransfer, string, error) {
	src := minedReceipt{ContractCaller: client, receipt: receipt}
	symbol := p.AssetSymbol()
	recipient := common.HexToAddress(p.ToAddress)

	tok, ok := n.TokenBySymbol(symbol)
	if !ok {
		tok, ok = n.LookupToken(p.Asset)
	}
	if !ok {
		*flags = append(*flags, payment.UnsupportedToken{Symbol: symbol, Network: n.Key})
		transfer, err := ethereum.DetectTokenTransfer(ctx, src, hash, nil, &recipient)
		if err != nil {
			return nil, "", err
		}
		return transfer, fmt.Sprintf(msgTokenNotSupported, symbol, p.Network), nil
	}

	contract := common.HexToAddress(tok.Address)
	transfer, err := ethereum.DetectTokenTransfer(ctx, src, hash, &contract, &recipient)
	if err == nil && transfer == nil {
		transfer, err = ethereum.DetectTokenTransfer(ctx, src, hash, &contract, nil)
	}
	if err != nil {
		return nil, "", err
	}
	return transfer, fmt.Sprintf(msgTokenTransferNotFound, symbol), nil
}

// minedReceipt serves the receipt already fetched for this run.
type minedReceipt struct {
	bind.ContractCaller
	receipt *types.Receipt
}

func (m minedReceipt) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return m.receipt, nil
}

func (e *Engine) checkSession(ctx context.Context, logger *zap.Logger, paymentID string, txTime time.Time) payment.Flag {
	session, err := e.store.LatestSession(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, paymentstore.ErrSessionNotFound) {
			logger.Warn("Failed to load payment session, skipping timing check", zap.Error(err))
		}
		return nil
	}

	windowStart := session.CreatedAt.Add(-e.cfg.SessionBuffer)
	windowEnd := session.ExpiresAt.Add(e.cfg.SessionBuffer)
	if txTime.Before(windowStart) || txTime.After(windowEnd) {
		return payment.TimestampOutsideSession{
			TxTime:       txTime,
			SessionStart: session.CreatedAt,
			SessionEnd:   session.ExpiresAt,
		}
	}
	return nil
}

// retry records a non-conclusive run and asks the caller to try again later.
func (e *Engine) retry(ctx context.Context, paymentID, msg string) *payment.VerificationResult {
	now := e.now()
	if err := e.store.UpdatePayment(ctx, paymentID, payment.Update{IncrementRetry: true, LastVerifiedAt: &now}); err != nil {
		e.logger.Warn("Failed to record verification retry", zap.String("payment_id", paymentID), zap.Error(err))
	}
	return payment.Pending(msg)
}

// bumpRetry is the best-effort retry increment of the failure paths.
func (e *Engine) bumpRetry(ctx context.Context, paymentID string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Retry increment panicked", zap.String("payment_id", paymentID), zap.Any("panic", r))
		}
	}()
	now := e.now()
	if err := e.store.UpdatePayment(ctx, paymentID, payment.Update{IncrementRetry: true, LastVerifiedAt: &now}); err != nil {
		e.logger.Warn("Failed to increment retry count", zap.String("payment_id", paymentID), zap.Error(err))
	}
}

// conclude persists an escalation or terminal status reached before the full check ran.
func (e *Engine) conclude(ctx context.Context, logger *zap.Logger, paymentID string, status payment.Status, flags payment.Flags, incrementRetry bool) {
	now := e.now()
	u := payment.Update{
		Status:         &status,
		IncrementRetry: incrementRetry,
		LastVerifiedAt: &now,
		Flags:          &flags,
	}
	if err := e.store.UpdatePayment(ctx, paymentID, u); err != nil {
		logger.Error("Failed to persist verification status",
			zap.String("status", string(status)), zap.Error(err))
	}
}

func confirmationsAt(head, txBlock uint64) uint64 {
	if head < txBlock {
		return 0
	}
	return head - txBlock + 1
}

// exceedsTolerance reports whether |actual - expected| > floor(expected * tolerance).
func exceedsTolerance(expected, actual *big.Int, tolerance decimal.Decimal) bool {
	allowed := decimal.NewFromBigInt(expected, 0).Mul(tolerance).Floor().BigInt()
	diff := new(big.Int).Sub(actual, expected)
	return diff.Abs(diff).Cmp(allowed) > 0
}

func resolveStatus(flags payment.Flags) payment.Status {
	switch {
	case flags.Has(payment.KindRecipientMismatch):
		return payment.StatusFailed
	case flags.Has(payment.KindTimestampOutsideSession):
		return payment.StatusNeedsReview
	case flags.Has(payment.KindAmountMismatch):
		return payment.StatusNeedsReview
	default:
		return payment.StatusConfirmed
	}
}
