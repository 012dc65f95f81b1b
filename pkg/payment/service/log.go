package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/payment-verifier/pkg/network"
	"github.com/chainsafe/payment-verifier/pkg/payment"
)

const serviceName = "PaymentService"

const signatureDisplaySize = 16

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the payment Service.
// It logs method entry/exit, duration, errors, and sanitized request/response data.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) done(method string, start time.Time, err error, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		ls.logger.Error(method+" failed", append(append(base, fields...), zap.Error(err))...)
		return
	}
	ls.logger.Info(method+" completed", append(base, fields...)...)
}

func (ls *logService) CreatePayment(
	ctx context.Context,
	req *payment.CreateRequest,
) (resp *payment.CreateResponse, err error) {
	start := time.Now()
	ls.logger.Info("CreatePayment started",
		zap.String("service", serviceName),
		zap.String("method", "CreatePayment"),
		zap.String("network", req.Network),
		zap.String("asset", req.Asset),
		zap.String("amount", req.Amount),
		zap.String("payee_id", req.PayeeID),
	)

	defer func() {
		if err != nil {
			ls.done("CreatePayment", start, err, zap.String("network", req.Network))
			return
		}
		ls.done("CreatePayment", start, nil,
			zap.String("payment_id", resp.ID),
			zap.Int("warnings", len(resp.Warnings)),
		)
	}()

	return ls.svc.CreatePayment(ctx, req)
}

func (ls *logService) GetPayment(ctx context.Context, id string) (view *payment.View, err error) {
	start := time.Now()
	defer func() {
		ls.done("GetPayment", start, err, zap.String("payment_id", id))
	}()
	return ls.svc.GetPayment(ctx, id)
}

func (ls *logService) StartSession(ctx context.Context, paymentID string) (resp *payment.SessionResponse, err error) {
	start := time.Now()
	ls.logger.Info("StartSession started",
		zap.String("service", serviceName),
		zap.String("method", "StartSession"),
		zap.String("payment_id", paymentID),
	)

	defer func() {
		if err != nil {
			ls.done("StartSession", start, err, zap.String("payment_id", paymentID))
			return
		}
		ls.done("StartSession", start, nil,
			zap.String("payment_id", paymentID),
			zap.String("session_id", resp.SessionID),
			zap.Time("expires_at", resp.ExpiresAt),
		)
	}()

	return ls.svc.StartSession(ctx, paymentID)
}

func (ls *logService) SubmitPayment(
	ctx context.Context,
	req *payment.SubmitRequest,
) (resp *payment.SubmitResponse, err error) {
	start := time.Now()
	ls.logger.Info("SubmitPayment started",
		zap.String("service", serviceName),
		zap.String("method", "SubmitPayment"),
		zap.String("session_id", req.SessionID),
		zap.String("tx_hash", req.TxHash),
		zap.String("signature", redactSignature(req.Signature)),
	)

	defer func() {
		if err != nil {
			ls.done("SubmitPayment", start, err, zap.String("session_id", req.SessionID))
			return
		}
		ls.done("SubmitPayment", start, nil,
			zap.String("payment_id", resp.PaymentID),
			zap.String("from_address", resp.FromAddress),
			zap.String("tx_hash", resp.TxHash),
		)
	}()

	return ls.svc.SubmitPayment(ctx, req)
}

func (ls *logService) PaymentStatus(ctx context.Context, id string) (view *payment.StatusView, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			ls.done("PaymentStatus", start, err, zap.String("payment_id", id))
			return
		}
		ls.done("PaymentStatus", start, nil,
			zap.String("payment_id", id),
			zap.String("status", string(view.Status)),
		)
	}()
	return ls.svc.PaymentStatus(ctx, id)
}

func (ls *logService) ListPayments(
	ctx context.Context,
	payeeID string,
	limit, offset int,
) (views []*payment.StatusView, err error) {
	start := time.Now()
	defer func() {
		ls.done("ListPayments", start, err,
			zap.String("payee_id", payeeID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
			zap.Int("count", len(views)),
		)
	}()
	return ls.svc.ListPayments(ctx, payeeID, limit, offset)
}

func (ls *logService) VerifyPayment(ctx context.Context, id string) (res *payment.VerificationResult, err error) {
	start := time.Now()
	ls.logger.Info("VerifyPayment started",
		zap.String("service", serviceName),
		zap.String("method", "VerifyPayment"),
		zap.String("payment_id", id),
	)

	defer func() {
		if err != nil {
			ls.done("VerifyPayment", start, err, zap.String("payment_id", id))
			return
		}
		ls.done("VerifyPayment", start, nil,
			zap.String("payment_id", id),
			zap.String("status", string(res.Status)),
			zap.Bool("success", res.Success),
			zap.Strings("flags", res.Flags.Strings()),
		)
	}()

	return ls.svc.VerifyPayment(ctx, id)
}

func (ls *logService) Networks(ctx context.Context) []*payment.NetworkInfo {
	return ls.svc.Networks(ctx)
}

func (ls *logService) ValidateToken(ctx context.Context, networkKey, token string) (v *network.TokenValidation, err error) {
	start := time.Now()
	defer func() {
		ls.done("ValidateToken", start, err,
			zap.String("network", networkKey),
			zap.String("token", token),
		)
	}()
	return ls.svc.ValidateToken(ctx, networkKey, token)
}

// redactSignature redacts signature data to show only metadata
func redactSignature(sig string) string {
	if sig == "" {
		return "<empty>"
	}
	sigLen := len(sig)
	if sigLen > signatureDisplaySize {
		return fmt.Sprintf("%s...%s (%d bytes)", sig[:8], sig[sigLen-4:], sigLen)
	}
	return fmt.Sprintf("<%d bytes>", sigLen)
}
