// Package events publishes order lifecycle notifications for downstream
// consumers (fulfilment, analytics). Publishing is best-effort: a broker
// outage never fails an order.
package events

import (
	"context"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

type Publisher interface {
	OrderPlaced(ctx context.Context, o *domain.Order) error
	Close() error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) OrderPlaced(context.Context, *domain.Order) error { return nil }
func (NopPublisher) Close() error                                     { return nil }
