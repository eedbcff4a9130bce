// Package shop is the single surface the routing/view layer talks to.
// It orchestrates catalog, cart, order and invoice handling over one
// storage backend.
package shop

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/Kobayashi19860206/NodeShop/internal/cache"
	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/internal/events"
	"github.com/Kobayashi19860206/NodeShop/internal/invoice"
	"github.com/Kobayashi19860206/NodeShop/internal/repository"
	"github.com/Kobayashi19860206/NodeShop/internal/service"
	"github.com/Kobayashi19860206/NodeShop/internal/service/payment"
)

type Config struct {
	Store repository.Store
	// ProductCache may be nil; catalog reads then go straight to the store.
	ProductCache cache.ProductCache
	Gateway      payment.Gateway
	Artifacts    invoice.ArtifactStore
	// Events may be nil; order notifications are then dropped.
	Events   events.Publisher
	PageSize int
}

type Shop struct {
	catalog  *service.CatalogService
	cart     *service.CartService
	orders   *service.OrderService
	gateway  payment.Gateway
	invoices *invoice.Generator
}

func New(cfg Config) *Shop {
	catalog := service.NewCatalogService(cfg.Store.Products(), cfg.ProductCache, cfg.PageSize)
	cart := service.NewCartService(cfg.Store.Carts(), catalog)
	orders := service.NewOrderService(cfg.Store, cart, cfg.Events)

	return &Shop{
		catalog:  catalog,
		cart:     cart,
		orders:   orders,
		gateway:  cfg.Gateway,
		invoices: invoice.NewGenerator(cfg.Artifacts),
	}
}

// CartItem is a cart line with its product resolved.
type CartItem struct {
	Product  *domain.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (s *Shop) ListCatalog(ctx context.Context, page int) (*service.Page, error) {
	return s.catalog.ListPage(ctx, page)
}

func (s *Shop) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.catalog.GetProduct(ctx, productID)
}

func (s *Shop) CreateProduct(ctx context.Context, p *domain.Product) error {
	return s.catalog.CreateProduct(ctx, p)
}

func (s *Shop) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return s.catalog.UpdateProduct(ctx, p)
}

func (s *Shop) GetCart(ctx context.Context, ownerID string) ([]CartItem, error) {
	return s.resolveCart(ctx, ownerID)
}

func (s *Shop) AddToCart(ctx context.Context, ownerID, productID string) error {
	return s.cart.AddProduct(ctx, ownerID, productID, 1)
}

func (s *Shop) RemoveFromCart(ctx context.Context, ownerID, productID string) error {
	return s.cart.RemoveProduct(ctx, ownerID, productID)
}

// Checkout opens a payment session for the cart's current total. The
// order itself is only recorded on ConfirmOrder, after the provider
// redirects back.
func (s *Shop) Checkout(ctx context.Context, ownerID string) (*payment.Session, error) {
	items, err := s.resolveCart(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	total, err := s.cart.Total(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateSession(ctx, ownerID, total)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return session, nil
}

func (s *Shop) ConfirmOrder(ctx context.Context, ownerID string) (*domain.Order, error) {
	return s.orders.Place(ctx, ownerID)
}

func (s *Shop) ListOrders(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return s.orders.ListByOwner(ctx, ownerID)
}

// Invoice streams the rendered invoice for one of the requester's own
// orders to w and persists a durable copy. Ownership is checked before
// anything is rendered or written.
func (s *Shop) Invoice(ctx context.Context, requesterID string, orderID uuid.UUID, w io.Writer) error {
	order, err := s.orders.Get(ctx, requesterID, orderID)
	if err != nil {
		return err
	}
	return s.invoices.Generate(ctx, order, w)
}

func (s *Shop) resolveCart(ctx context.Context, ownerID string) ([]CartItem, error) {
	seq, err := s.cart.Items(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var items []CartItem
	for product, qty := range seq {
		items = append(items, CartItem{Product: product, Quantity: qty})
	}
	return items, nil
}
