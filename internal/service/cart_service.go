package service

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/internal/repository"
	"github.com/Kobayashi19860206/NodeShop/pkg/logger"
)

type CartService struct {
	carts   repository.CartRepository
	catalog *CatalogService
}

func NewCartService(carts repository.CartRepository, catalog *CatalogService) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

// AddProduct accumulates qtyDelta onto the owner's line for the product.
// The product must resolve against the catalog first.
func (s *CartService) AddProduct(ctx context.Context, ownerID, productID string, qtyDelta int) error {
	if qtyDelta < 1 {
		return fmt.Errorf("quantity delta must be positive, got %d", qtyDelta)
	}
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.carts.AddItem(ctx, ownerID, productID, qtyDelta)
}

func (s *CartService) RemoveProduct(ctx context.Context, ownerID, productID string) error {
	return s.carts.RemoveItem(ctx, ownerID, productID)
}

func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	return s.carts.Clear(ctx, ownerID)
}

// Items yields (product, quantity) pairs with each product resolved
// against the catalog at iteration time. Lines whose product no longer
// resolves are skipped; a cart should survive catalog drift. The
// sequence can be ranged over more than once, re-resolving each time.
func (s *CartService) Items(ctx context.Context, ownerID string) (iter.Seq2[*domain.Product, int], error) {
	cart, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return func(yield func(*domain.Product, int) bool) {
		for _, line := range cart.Lines {
			product, err := s.catalog.GetProduct(ctx, line.ProductID)
			if errors.Is(err, domain.ErrProductNotFound) {
				logger.Log.Warn("skipping stale cart line",
					zap.String("owner_id", ownerID),
					zap.String("product_id", line.ProductID))
				continue
			}
			if err != nil {
				logger.Log.Error("cart line resolution failed",
					zap.String("product_id", line.ProductID),
					zap.Error(err))
				continue
			}
			if !yield(product, line.Quantity) {
				return
			}
		}
	}, nil
}

// Total sums price x quantity over the resolved lines. Rounding to
// currency precision happens once on the final sum, never per line.
func (s *CartService) Total(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	items, err := s.Items(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for product, qty := range items {
		sum = sum.Add(product.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return sum.Round(2), nil
}
