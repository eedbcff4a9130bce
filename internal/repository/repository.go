package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

// ProductRepository defines the interface for catalog data operations.
// Consumers define this interface, not the backing store.
type ProductRepository interface {
	// Create assigns an id when the product has none and persists it.
	Create(ctx context.Context, p *domain.Product) error
	// Replace overwrites the stored product with the same id in full.
	Replace(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
	// GetPage returns the 1-based page plus the total product count.
	// Out-of-range pages yield an empty slice, not an error.
	GetPage(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error)
}

type CartRepository interface {
	// Get returns the owner's cart, an empty one if none exists yet.
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	// AddItem accumulates qtyDelta onto an existing line for the product,
	// or inserts a new line.
	AddItem(ctx context.Context, ownerID, productID string, qtyDelta int) error
	// RemoveItem deletes the line for the product. Removing an absent
	// line is not an error.
	RemoveItem(ctx context.Context, ownerID, productID string) error
	Clear(ctx context.Context, ownerID string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
}

// Store bundles the three repositories over one backend.
type Store interface {
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository

	// PlaceOrder appends the order and clears the owner's cart as one
	// unit: either both happen or neither does.
	PlaceOrder(ctx context.Context, o *domain.Order) error

	Close() error
}
