// Package payment abstracts the external payment provider. The shop
// only ever sees an opaque session handle and a success/cancel redirect.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Session is the provider-side checkout session the customer is
// redirected to.
type Session struct {
	ID          string
	RedirectURL string
}

type Gateway interface {
	CreateSession(ctx context.Context, ownerID string, amount decimal.Decimal) (*Session, error)
}
