package service

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/payment-verifier/pkg/app/errors"
	apphttp "github.com/chainsafe/payment-verifier/pkg/app/http"
	"github.com/chainsafe/payment-verifier/pkg/auth"
	"github.com/chainsafe/payment-verifier/pkg/payment"
)

// verifyConcurrency caps in-flight anonymous verify calls; the excess gets 429.
const verifyConcurrency = 8

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers HTTP endpoints for the payment service on the given chi router.
// requireAuth guards the payee endpoints.
func RegisterRoutes(r chi.Router, service Service, requireAuth func(http.Handler) http.Handler, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/payments", h.handle(h.createPayment))
		r.Get("/payments", h.handle(h.listPayments))
	})

	r.Post("/payments/submit", h.handle(h.submitPayment))
	r.Get("/payments/{id}", h.handle(h.getPayment))
	r.Get("/payments/{id}/status", h.handle(h.paymentStatus))
	r.Post("/payments/{id}/sessions", h.handle(h.startSession))
	r.With(middleware.Throttle(verifyConcurrency)).Post("/payments/{id}/verify", h.handle(h.verifyPayment))

	r.Get("/networks", h.handle(h.networks))
	r.Get("/networks/{key}/tokens/{token}/validate", h.handle(h.validateToken))
}

func (h *HTTP) createPayment(w http.ResponseWriter, r *http.Request) error {
	payee := auth.PayeeFromContext(r.Context())
	if payee == nil {
		return apperrors.UnAuthorizedError(nil, "authorization required")
	}

	var req payment.CreateRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	req.PayeeID = payee.ID
	if req.PayeeEmail == "" {
		req.PayeeEmail = payee.Email
	}

	resp, err := h.service.CreatePayment(r.Context(), &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) listPayments(w http.ResponseWriter, r *http.Request) error {
	payee := auth.PayeeFromContext(r.Context())
	if payee == nil {
		return apperrors.UnAuthorizedError(nil, "authorization required")
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		return err
	}

	payments, err := h.service.ListPayments(r.Context(), payee.ID, limit, offset)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, map[string]any{"payments": payments})
	return nil
}

func (h *HTTP) getPayment(w http.ResponseWriter, r *http.Request) error {
	view, err := h.service.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, view)
	return nil
}

func (h *HTTP) paymentStatus(w http.ResponseWriter, r *http.Request) error {
	view, err := h.service.PaymentStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, view)
	return nil
}

func (h *HTTP) startSession(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.StartSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) submitPayment(w http.ResponseWriter, r *http.Request) error {
	var req payment.SubmitRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}

	// The signature may also travel in a header
	if req.Signature == "" {
		req.Signature = r.Header.Get("X-Signature")
	}
	if req.Signature == "" {
		return apperrors.UnAuthorizedError(nil, "signature required")
	}

	resp, err := h.service.SubmitPayment(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) verifyPayment(w http.ResponseWriter, r *http.Request) error {
	res, err := h.service.VerifyPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, res)
	return nil
}

func (h *HTTP) networks(w http.ResponseWriter, r *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, map[string]any{"networks": h.service.Networks(r.Context())})
	return nil
}

func (h *HTTP) validateToken(w http.ResponseWriter, r *http.Request) error {
	v, err := h.service.ValidateToken(r.Context(), chi.URLParam(r, "key"), chi.URLParam(r, "token"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, v)
	return nil
}

// handle logs server-side failures before the error is rendered.
func (h *HTTP) handle(fn apphttp.HandlerFunc) http.HandlerFunc {
	return apphttp.HandleError(func(w http.ResponseWriter, r *http.Request) error {
		err := fn(w, r)
		if err != nil && apperrors.IsInternalError(err) {
			h.logger.Error("Request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		return err
	})
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.BadRequestError(err, "invalid "+name)
	}
	return v, nil
}
