// Package service implements the payment request workflows: creating payment
// requests, opening signing sessions, binding submitted transactions and
// running on-demand verification.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/payment-verifier/pkg/app/errors"
	"github.com/chainsafe/payment-verifier/pkg/auth"
	"github.com/chainsafe/payment-verifier/pkg/config"
	"github.com/chainsafe/payment-verifier/pkg/lock"
	"github.com/chainsafe/payment-verifier/pkg/network"
	"github.com/chainsafe/payment-verifier/pkg/payment"
	"github.com/chainsafe/payment-verifier/pkg/paymentstore"
)

var (
	ErrInvalidPaymentID       = errors.New("invalid payment id")
	ErrPaymentUnavailable     = errors.New("payment is not valid or expired")
	ErrPaymentNotPending      = errors.New("payment is not pending")
	ErrPaymentExpired         = errors.New("payment link expired")
	ErrSessionExpired         = errors.New("session expired")
	ErrInvalidSignature       = errors.New("invalid signature")
	ErrInvalidTxHash          = errors.New("invalid transaction hash")
	ErrVerificationInProgress = errors.New("verification already in progress")
)

const (
	nonceSize     = 16
	defaultExpiry = payment.ExpiryOneDay
	maxListLimit  = 200
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Store is the narrow data-access interface needed by the payment service
//
//go:generate mockery --name Store --output mocks --outpkg mocks --filename mock_store.go --with-expecter
type Store interface {
	CreatePayment(ctx context.Context, p *payment.Payment) error
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	ListPayments(ctx context.Context, opts paymentstore.ListOptions) ([]*payment.Payment, error)
	SubmitTransaction(ctx context.Context, id, fromAddress, txHash string) error
	CreateSession(ctx context.Context, s *payment.Session) error
	GetSession(ctx context.Context, id string) (*payment.Session, error)
	DeleteActiveSessions(ctx context.Context, paymentID string, now time.Time) error
}

// Verifier runs a single verification pass over a payment.
type Verifier interface {
	Verify(ctx context.Context, paymentID string) *payment.VerificationResult
}

// Service defines the interface for the payment workflows
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	CreatePayment(ctx context.Context, req *payment.CreateRequest) (*payment.CreateResponse, error)
	GetPayment(ctx context.Context, id string) (*payment.View, error)
	StartSession(ctx context.Context, paymentID string) (*payment.SessionResponse, error)
	SubmitPayment(ctx context.Context, req *payment.SubmitRequest) (*payment.SubmitResponse, error)
	PaymentStatus(ctx context.Context, id string) (*payment.StatusView, error)
	ListPayments(ctx context.Context, payeeID string, limit, offset int) ([]*payment.StatusView, error)
	VerifyPayment(ctx context.Context, id string) (*payment.VerificationResult, error)
	Networks(ctx context.Context) []*payment.NetworkInfo
	ValidateToken(ctx context.Context, networkKey, token string) (*network.TokenValidation, error)
}

type paymentService struct {
	store            Store
	networks         *network.Registry
	verifier         Verifier
	locker           lock.Locker
	cfg              config.PaymentsConfig
	defaultTolerance decimal.Decimal
	logger           *zap.Logger
	now              func() time.Time
}

// Option customises the payment service.
type Option func(*paymentService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *paymentService) { s.now = now }
}

// NewService creates a new payment Service
func NewService(
	store Store,
	networks *network.Registry,
	verifier Verifier,
	locker lock.Locker,
	cfg config.PaymentsConfig,
	defaultTolerance float64,
	logger *zap.Logger,
	opts ...Option,
) Service {
	s := &paymentService{
		store:            store,
		networks:         networks,
		verifier:         verifier,
		locker:           locker,
		cfg:              cfg,
		defaultTolerance: decimal.NewFromFloat(defaultTolerance),
		logger:           logger,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePayment validates and stores a new pending payment request
func (s *paymentService) CreatePayment(ctx context.Context, req *payment.CreateRequest) (*payment.CreateResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, validationMessage(err))
	}

	net, err := s.networks.Get(req.Network)
	if err != nil {
		return nil, apperrors.BadRequestError(err, fmt.Sprintf("unsupported network: %s", req.Network))
	}

	asset := ""
	var validation *network.TokenValidation
	if strings.TrimSpace(req.Asset) != "" {
		token, ok := net.LookupToken(strings.TrimSpace(req.Asset))
		if !ok {
			return nil, apperrors.BadRequestError(nil, fmt.Sprintf("%s is not supported on %s", req.Asset, net.Name))
		}
		asset = token.Symbol
		validation, err = s.networks.ValidatePaymentToken(net.Key, asset)
		if err != nil {
			return nil, apperrors.GeneralError(err)
		}
	}

	expiry, err := expiryDuration(req.ExpiresIn, req.CustomExpiry)
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}

	tolerance := s.defaultTolerance
	if req.Tolerance != nil {
		tolerance = decimal.NewFromFloat(*req.Tolerance)
	}

	nonce, err := newNonce()
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}

	now := s.now().UTC()
	p := &payment.Payment{
		ID:           uuid.NewString(),
		Amount:       normalizeAmount(req.Amount),
		Network:      net.Key,
		ChainID:      net.ChainID,
		NativeSymbol: net.NativeSymbol,
		ToAddress:    auth.NormalizeAddress(req.ToAddress),
		Asset:        asset,
		Status:       payment.StatusPending,
		Nonce:        nonce,
		PayeeID:      req.PayeeID,
		PayeeEmail:   req.PayeeEmail,
		ClientEmail:  req.ClientEmail,
		Tolerance:    tolerance,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(expiry),
	}
	if err := s.store.CreatePayment(ctx, p); err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to create payment: %w", err))
	}

	resp := &payment.CreateResponse{
		ID:        p.ID,
		ExpiresAt: p.ExpiresAt,
	}
	if s.cfg.LinkBaseURL != "" {
		resp.PaymentLink = strings.TrimRight(s.cfg.LinkBaseURL, "/") + "/pay/" + p.ID
	}
	if validation != nil {
		resp.Warnings = validation.Warnings
		resp.Recommendation = validation.Recommendation
	}
	return resp, nil
}

// GetPayment returns the payer view of a pending, unexpired payment
func (s *paymentService) GetPayment(ctx context.Context, id string) (*payment.View, error) {
	p, err := s.loadPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if p.Status != payment.StatusPending || p.Expired(now) {
		return nil, apperrors.BadRequestError(ErrPaymentUnavailable, "Payment is not valid or expired")
	}

	return &payment.View{
		ID:           p.ID,
		Amount:       p.Amount,
		Network:      p.Network,
		ChainID:      p.ChainID,
		NativeSymbol: p.NativeSymbol,
		Asset:        p.Asset,
		ToAddress:    p.ToAddress,
		ExpiresAt:    p.ExpiresAt,
		ExpiresIn:    int64(p.ExpiresAt.Sub(now) / time.Second),
	}, nil
}

// StartSession replaces the payment's active sessions with a fresh signing session
func (s *paymentService) StartSession(ctx context.Context, paymentID string) (*payment.SessionResponse, error) {
	p, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if p.Status != payment.StatusPending {
		return nil, apperrors.BadRequestError(ErrPaymentNotPending, "Payment is not pending")
	}
	if p.Expired(now) {
		return nil, apperrors.BadRequestError(ErrPaymentExpired, "Payment link expired")
	}

	if err := s.store.DeleteActiveSessions(ctx, p.ID, now); err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to reset sessions: %w", err))
	}

	nonce, err := newNonce()
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	sess := &payment.Session{
		ID:        uuid.NewString(),
		PaymentID: p.ID,
		Nonce:     nonce,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL()),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to create session: %w", err))
	}

	return &payment.SessionResponse{
		SessionID: sess.ID,
		Nonce:     sess.Nonce,
		ExpiresAt: sess.ExpiresAt,
		ToAddress: p.ToAddress,
		Amount:    p.Amount,
		Network:   p.Network,
		ChainID:   p.ChainID,
	}, nil
}

// SubmitPayment binds a transaction to the session's payment once the nonce signature checks out
func (s *paymentService) SubmitPayment(ctx context.Context, req *payment.SubmitRequest) (*payment.SubmitResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, validationMessage(err))
	}
	if !txHashPattern.MatchString(req.TxHash) {
		return nil, apperrors.BadRequestError(ErrInvalidTxHash, "Invalid transaction hash format")
	}

	sess, err := s.store.GetSession(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, paymentstore.ErrSessionNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "Invalid session")
		}
		return nil, apperrors.GeneralError(err)
	}
	if sess.Expired(s.now()) {
		return nil, apperrors.GoneError(ErrSessionExpired, "Session expired")
	}

	from, err := auth.VerifyEIP191Signature(sess.Nonce, req.Signature)
	if err != nil {
		return nil, apperrors.BadRequestError(fmt.Errorf("%w: %v", ErrInvalidSignature, err), "Invalid signature")
	}

	err = s.store.SubmitTransaction(ctx, sess.PaymentID, from.Hex(), strings.ToLower(req.TxHash))
	switch {
	case err == nil:
	case errors.Is(err, paymentstore.ErrPaymentNotFound):
		return nil, apperrors.ResourceNotFoundError(err, "Payment not found")
	case errors.Is(err, paymentstore.ErrPaymentNotPending):
		return nil, apperrors.BadRequestError(err, "Only pending payments can be submitted")
	case errors.Is(err, paymentstore.ErrTxHashInUse):
		return nil, apperrors.ConflictError(err, "Transaction hash already used by another payment")
	default:
		return nil, apperrors.GeneralError(fmt.Errorf("failed to submit transaction: %w", err))
	}

	return &payment.SubmitResponse{
		PaymentID:   sess.PaymentID,
		Status:      payment.StatusUnconfirmed,
		FromAddress: from.Hex(),
		TxHash:      strings.ToLower(req.TxHash),
	}, nil
}

// PaymentStatus reports the stored verification state of a payment
func (s *paymentService) PaymentStatus(ctx context.Context, id string) (*payment.StatusView, error) {
	p, err := s.loadPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	return payment.NewStatusView(p), nil
}

// ListPayments lists the payee's payments, newest first
func (s *paymentService) ListPayments(ctx context.Context, payeeID string, limit, offset int) ([]*payment.StatusView, error) {
	if limit < 0 || offset < 0 {
		return nil, apperrors.BadRequestError(nil, "limit and offset must not be negative")
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	payments, err := s.store.ListPayments(ctx, paymentstore.ListOptions{
		PayeeID: payeeID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to list payments: %w", err))
	}

	views := make([]*payment.StatusView, 0, len(payments))
	for _, p := range payments {
		views = append(views, payment.NewStatusView(p))
	}
	return views, nil
}

// VerifyPayment runs one verification pass while holding the payment's lock
func (s *paymentService) VerifyPayment(ctx context.Context, id string) (*payment.VerificationResult, error) {
	if _, err := s.loadPayment(ctx, id); err != nil {
		return nil, err
	}

	unlock, ok, err := s.locker.TryLock(ctx, id)
	if err != nil {
		return nil, apperrors.DependencyFailureError(err, "Failed to acquire verification lock")
	}
	if !ok {
		return nil, apperrors.ConflictError(ErrVerificationInProgress, "Verification already in progress")
	}
	defer unlock()

	return s.verifier.Verify(ctx, id), nil
}

// Networks lists every registered network with its tokens
func (s *paymentService) Networks(_ context.Context) []*payment.NetworkInfo {
	keys := s.networks.Keys()
	out := make([]*payment.NetworkInfo, 0, len(keys))
	for _, key := range keys {
		n, err := s.networks.Get(key)
		if err != nil {
			continue
		}
		info := &payment.NetworkInfo{
			Key:                   n.Key,
			Name:                  n.Name,
			ChainID:               n.ChainID,
			NativeSymbol:          n.NativeSymbol,
			Testnet:               n.Testnet,
			RequiredConfirmations: n.RequiredConfirmations,
			RecommendedStablecoin: n.RecommendedStablecoin,
			Tokens:                []payment.TokenInfo{},
		}
		for _, t := range n.AllTokens() {
			info.Tokens = append(info.Tokens, payment.TokenInfo{
				Symbol:      t.Symbol,
				Name:        t.Name,
				Address:     t.Address,
				Decimals:    t.Decimals,
				Liquidity:   string(t.Liquidity),
				Recommended: t.Recommended,
			})
		}
		out = append(out, info)
	}
	return out
}

// ValidateToken assesses a token for payments on the network
func (s *paymentService) ValidateToken(_ context.Context, networkKey, token string) (*network.TokenValidation, error) {
	v, err := s.networks.ValidatePaymentToken(networkKey, token)
	if err != nil {
		if errors.Is(err, network.ErrUnknownNetwork) {
			return nil, apperrors.ResourceNotFoundError(err, fmt.Sprintf("unsupported network: %s", networkKey))
		}
		return nil, apperrors.GeneralError(err)
	}
	return v, nil
}

func (s *paymentService) loadPayment(ctx context.Context, id string) (*payment.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.BadRequestError(fmt.Errorf("%w: %v", ErrInvalidPaymentID, err), "Invalid payment id format")
	}
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		if errors.Is(err, paymentstore.ErrPaymentNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "Payment not found")
		}
		return nil, apperrors.GeneralError(fmt.Errorf("failed to load payment: %w", err))
	}
	return p, nil
}

func (s *paymentService) sessionTTL() time.Duration {
	if s.cfg.SessionTTL > 0 {
		return s.cfg.SessionTTL
	}
	return 5 * time.Minute
}

func expiryDuration(preset string, customSeconds int64) (time.Duration, error) {
	if preset == "" {
		preset = defaultExpiry
	}
	if preset == payment.ExpiryCustom {
		if customSeconds <= 0 {
			return 0, fmt.Errorf("custom_expiration must be a positive number of seconds")
		}
		if customSeconds > int64(payment.MaxCustomExpiry/time.Second) {
			return 0, fmt.Errorf("custom_expiration must not exceed %d seconds", int64(payment.MaxCustomExpiry/time.Second))
		}
		return time.Duration(customSeconds) * time.Second, nil
	}
	d, ok := payment.ExpiryDurations[preset]
	if !ok {
		return 0, fmt.Errorf("unknown expiry preset: %s", preset)
	}
	return d, nil
}

// normalizeAmount strips leading zeros from a validated digit string.
func normalizeAmount(amount string) string {
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return amount
	}
	return v.String()
}

func newNonce() (string, error) {
	buf := make([]byte, nonceSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	return fmt.Sprintf("invalid %s: failed %s validation", fe.Field(), fe.Tag())
}
