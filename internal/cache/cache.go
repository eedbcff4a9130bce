package cache

import (
	"context"
	"errors"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

// ProductCache fronts catalog reads. Consumers define this interface,
// not the Redis implementation.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, productID string) error
}

var ErrCacheMiss = errors.New("cache miss")
