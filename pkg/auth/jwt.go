package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/chainsafe/payment-verifier/pkg/app/errors"
	apphttp "github.com/chainsafe/payment-verifier/pkg/app/http"
)

// ErrMissingToken is returned when a request carries no bearer token.
var ErrMissingToken = errors.New("missing bearer token")

// PayeeClaims are the claims of a payee access token
type PayeeClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTValidator validates HS256 payee tokens
type JWTValidator struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(secret, issuer string) *JWTValidator {
	return &JWTValidator{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// IssueToken signs a token for the payee valid for ttl
func (v *JWTValidator) IssueToken(payeeID, email string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := PayeeClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payeeID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a JWT token and returns the payee it was issued to
func (v *JWTValidator) ValidateToken(tokenString string) (*Payee, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims PayeeClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &Payee{ID: claims.Subject, Email: claims.Email}, nil
}

// Middleware rejects requests without a valid bearer token and stores the payee in the request context
func (v *JWTValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(ErrMissingToken, "authorization required"))
			return
		}

		payee, err := v.ValidateToken(tokenString)
		if err != nil {
			apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(err, "invalid token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPayee(r.Context(), payee)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
