package auth

import (
	"context"
)

type payeeKey struct{}

// Payee is the authenticated owner of a payment request
type Payee struct {
	ID    string
	Email string
}

// WithPayee stores the payee in ctx. A nil or id-less payee leaves ctx unchanged.
func WithPayee(ctx context.Context, p *Payee) context.Context {
	if p == nil || p.ID == "" {
		return ctx
	}
	return context.WithValue(ctx, payeeKey{}, *p)
}

// PayeeFromContext returns the payee stored by WithPayee, or nil when the request is unauthenticated
func PayeeFromContext(ctx context.Context) *Payee {
	p, ok := ctx.Value(payeeKey{}).(Payee)
	if !ok {
		return nil
	}
	return &p
}
