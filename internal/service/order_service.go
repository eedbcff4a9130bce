package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/internal/events"
	"github.com/Kobayashi19860206/NodeShop/internal/metrics"
	"github.com/Kobayashi19860206/NodeShop/internal/repository"
	"github.com/Kobayashi19860206/NodeShop/pkg/logger"
)

type OrderService struct {
	store     repository.Store
	cart      *CartService
	publisher events.Publisher
}

func NewOrderService(store repository.Store, cart *CartService, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{store: store, cart: cart, publisher: publisher}
}

// Place converts the owner's cart into an order. The lines are value
// copies of the resolved products, so later catalog edits cannot reach
// into a placed order. Appending the order and clearing the cart is one
// atomic unit in the store.
func (s *OrderService) Place(ctx context.Context, ownerID string) (*domain.Order, error) {
	items, err := s.cart.Items(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var lines []domain.OrderLine
	for product, qty := range items {
		lines = append(lines, domain.OrderLine{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price.Copy(),
			Quantity:  qty,
		})
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	order := &domain.Order{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Lines:    lines,
		PlacedAt: time.Now(),
	}

	if err := s.store.PlaceOrder(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersPlaced.Inc()

	// Fire and forget; the order is already durable.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.OrderPlaced(ctx, order); err != nil {
			logger.Log.Warn("order event publish failed",
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
		}
	}()

	return order, nil
}

func (s *OrderService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return s.store.Orders().ListByOwner(ctx, ownerID)
}

// Get fetches an order and enforces ownership: requesting someone
// else's order fails with ErrUnauthorized.
func (s *OrderService) Get(ctx context.Context, requesterID string, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != requesterID {
		return nil, domain.ErrUnauthorized
	}
	return order, nil
}
