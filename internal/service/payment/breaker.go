package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/Kobayashi19860206/NodeShop/pkg/circuitbreaker"
)

// BreakerGateway shields the shop from a misbehaving provider. While
// the breaker is open, CreateSession fails fast without calling out.
type BreakerGateway struct {
	inner Gateway
	cb    *gobreaker.CircuitBreaker[*Session]
}

func NewBreakerGateway(inner Gateway) *BreakerGateway {
	return &BreakerGateway{
		inner: inner,
		cb:    circuitbreaker.New[*Session]("payment-gateway"),
	}
}

func (g *BreakerGateway) CreateSession(ctx context.Context, ownerID string, amount decimal.Decimal) (*Session, error) {
	return g.cb.Execute(func() (*Session, error) {
		return g.inner.CreateSession(ctx, ownerID, amount)
	})
}
