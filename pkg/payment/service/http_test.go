package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/payment-verifier/pkg/app/errors"
	"github.com/chainsafe/payment-verifier/pkg/auth"
	"github.com/chainsafe/payment-verifier/pkg/network"
	"github.com/chainsafe/payment-verifier/pkg/payment"
	"github.com/chainsafe/payment-verifier/pkg/payment/service/mocks"
)

const testJWTSecret = "test-secret"

func newPaymentTestServer(svc Service) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, auth.NewJWTValidator(testJWTSecret, "payment-verifier").Middleware, zap.NewNop())
	return r
}

func payeeToken(t *testing.T) string {
	t.Helper()
	token, err := auth.NewJWTValidator(testJWTSecret, "payment-verifier").IssueToken("payee-1", "payee@example.com", time.Hour)
	require.NoError(t, err)
	return token
}

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var got errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPaymentHTTP_CreateRequiresAuth(t *testing.T) {
	handler := newPaymentTestServer(mocks.NewService(t))

	rec := serve(handler, httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authorization required", decodeError(t, rec).Error)

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = serve(handler, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", decodeError(t, rec).Error)
}

func TestPaymentHTTP_CreateInvalidJSON(t *testing.T) {
	handler := newPaymentTestServer(mocks.NewService(t))

	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString("{invalid"))
	req.Header.Set("Authorization", "Bearer "+payeeToken(t))
	rec := serve(handler, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	assert.Equal(t, "invalid JSON", got.Error)
	assert.Equal(t, http.StatusBadRequest, got.Code)
}

func TestPaymentHTTP_CreateUsesAuthenticatedPayee(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		CreatePayment(mock.Anything, mock.MatchedBy(func(req *payment.CreateRequest) bool {
			return req.PayeeID == "payee-1" && req.PayeeEmail == "payee@example.com" && req.Amount == "100"
		})).
		Return(&payment.CreateResponse{ID: "p-1", PaymentLink: "https://pay.example.com/pay/p-1"}, nil).
		Once()
	handler := newPaymentTestServer(svc)

	body := `{"amount":"100","to_address":"0x1111111111111111111111111111111111111111","network":"base"}`
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+payeeToken(t))
	rec := serve(handler, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got payment.CreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "p-1", got.ID)
	assert.Equal(t, "https://pay.example.com/pay/p-1", got.PaymentLink)
}

func TestPaymentHTTP_List(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().ListPayments(mock.Anything, "payee-1", 10, 20).
		Return([]*payment.StatusView{{ID: "p-1", Status: payment.StatusConfirmed, Flags: []string{}}}, nil).
		Once()
	handler := newPaymentTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/payments?limit=10&offset=20", nil)
	req.Header.Set("Authorization", "Bearer "+payeeToken(t))
	rec := serve(handler, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Payments []payment.StatusView `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Payments, 1)
	assert.Equal(t, payment.StatusConfirmed, got.Payments[0].Status)

	req = httptest.NewRequest(http.MethodGet, "/payments?limit=ten", nil)
	req.Header.Set("Authorization", "Bearer "+payeeToken(t))
	rec = serve(handler, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentHTTP_GetPaymentMapsServiceErrors(t *testing.T) {
	id := uuid.NewString()
	svc := mocks.NewService(t)
	svc.EXPECT().GetPayment(mock.Anything, id).
		Return(nil, apperrors.BadRequestError(ErrPaymentUnavailable, "Payment is not valid or expired")).
		Once()
	handler := newPaymentTestServer(svc)

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/payments/"+id, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Payment is not valid or expired", decodeError(t, rec).Error)
}

func TestPaymentHTTP_StatusAndSession(t *testing.T) {
	id := uuid.NewString()
	svc := mocks.NewService(t)
	svc.EXPECT().PaymentStatus(mock.Anything, id).
		Return(&payment.StatusView{ID: id, Status: payment.StatusUnconfirmed, Flags: []string{}}, nil).
		Once()
	svc.EXPECT().StartSession(mock.Anything, id).
		Return(&payment.SessionResponse{SessionID: "s-1", Nonce: "abcd"}, nil).
		Once()
	handler := newPaymentTestServer(svc)

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/payments/"+id+"/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var status payment.StatusView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, payment.StatusUnconfirmed, status.Status)

	rec = serve(handler, httptest.NewRequest(http.MethodPost, "/payments/"+id+"/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess payment.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, "s-1", sess.SessionID)
	assert.Equal(t, "abcd", sess.Nonce)
}

func TestPaymentHTTP_SubmitSignatureFromHeader(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		SubmitPayment(mock.Anything, &payment.SubmitRequest{SessionID: "s-1", TxHash: txHashA, Signature: "0xsig"}).
		Return(&payment.SubmitResponse{PaymentID: "p-1", Status: payment.StatusUnconfirmed}, nil).
		Once()
	handler := newPaymentTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/payments/submit",
		bytes.NewBufferString(`{"session_id":"s-1","tx_hash":"`+txHashA+`"}`))
	req.Header.Set("X-Signature", "0xsig")
	rec := serve(handler, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got payment.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "p-1", got.PaymentID)
}

func TestPaymentHTTP_SubmitWithoutSignature(t *testing.T) {
	handler := newPaymentTestServer(mocks.NewService(t))

	rec := serve(handler, httptest.NewRequest(http.MethodPost, "/payments/submit",
		bytes.NewBufferString(`{"session_id":"s-1","tx_hash":"`+txHashA+`"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "signature required", decodeError(t, rec).Error)
}

func TestPaymentHTTP_Verify(t *testing.T) {
	id := uuid.NewString()
	svc := mocks.NewService(t)
	svc.EXPECT().VerifyPayment(mock.Anything, id).
		Return(&payment.VerificationResult{
			Success: true,
			Status:  payment.StatusConfirmed,
			Flags:   payment.Flags{payment.KindNativeTokenTransfer},
		}, nil).
		Once()
	handler := newPaymentTestServer(svc)

	rec := serve(handler, httptest.NewRequest(http.MethodPost, "/payments/"+id+"/verify", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "confirmed", got["status"])
}

func TestPaymentHTTP_VerifyInProgress(t *testing.T) {
	id := uuid.NewString()
	svc := mocks.NewService(t)
	svc.EXPECT().VerifyPayment(mock.Anything, id).
		Return(nil, apperrors.ConflictError(ErrVerificationInProgress, "Verification already in progress")).
		Once()
	handler := newPaymentTestServer(svc)

	rec := serve(handler, httptest.NewRequest(http.MethodPost, "/payments/"+id+"/verify", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPaymentHTTP_VerifyThrottled(t *testing.T) {
	id := uuid.NewString()
	entered := make(chan struct{}, verifyConcurrency)
	release := make(chan struct{})
	svc := mocks.NewService(t)
	svc.EXPECT().VerifyPayment(mock.Anything, id).
		Run(func(context.Context, string) {
			entered <- struct{}{}
			<-release
		}).
		Return(&payment.VerificationResult{Status: payment.StatusUnconfirmed}, nil).
		Times(verifyConcurrency)
	handler := newPaymentTestServer(svc)

	var wg sync.WaitGroup
	for range verifyConcurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serve(handler, httptest.NewRequest(http.MethodPost, "/payments/"+id+"/verify", nil))
		}()
	}
	for range verifyConcurrency {
		<-entered
	}

	rec := serve(handler, httptest.NewRequest(http.MethodPost, "/payments/"+id+"/verify", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	close(release)
	wg.Wait()
}

func TestPaymentHTTP_Networks(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().Networks(mock.Anything).
		Return([]*payment.NetworkInfo{{Key: "base", ChainID: 8453, Tokens: []payment.TokenInfo{}}}).
		Once()
	svc.EXPECT().ValidateToken(mock.Anything, "base", "usdt").
		Return(&network.TokenValidation{Valid: false, Warnings: []string{"USDT is not supported on Base"}}, nil).
		Once()
	handler := newPaymentTestServer(svc)

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/networks", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var nets struct {
		Networks []payment.NetworkInfo `json:"networks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nets))
	require.Len(t, nets.Networks, 1)
	assert.Equal(t, int64(8453), nets.Networks[0].ChainID)

	rec = serve(handler, httptest.NewRequest(http.MethodGet, "/networks/base/tokens/usdt/validate", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var v network.TokenValidation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.False(t, v.Valid)
	assert.Equal(t, []string{"USDT is not supported on Base"}, v.Warnings)
}
