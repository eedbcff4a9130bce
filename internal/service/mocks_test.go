package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Kobayashi19860206/NodeShop/internal/cache"
	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/internal/repository"
)

type mockProductRepo struct {
	m        sync.RWMutex
	products map[string]*domain.Product
	err      error
	gets     int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: map[string]*domain.Product{}}
}

func (m *mockProductRepo) Create(_ context.Context, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) Replace(_ context.Context, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.gets++
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductRepo) GetAll(_ context.Context) ([]*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	var out []*domain.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, m.err
}

func (m *mockProductRepo) GetPage(_ context.Context, page, pageSize int) ([]*domain.Product, int, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	total := len(m.products)
	if page < 1 || pageSize < 1 || page > (total+pageSize-1)/pageSize {
		return nil, total, nil
	}
	start := (page - 1) * pageSize
	var all []*domain.Product
	for _, p := range m.products {
		all = append(all, p)
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

type mockCartRepo struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
	err   error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: map[string]*domain.Cart{}}
}

func (m *mockCartRepo) cart(ownerID string) *domain.Cart {
	if c, ok := m.carts[ownerID]; ok {
		return c
	}
	c := &domain.Cart{OwnerID: ownerID}
	m.carts[ownerID] = c
	return c
}

func (m *mockCartRepo) Get(_ context.Context, ownerID string) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.cart(ownerID), nil
}

func (m *mockCartRepo) AddItem(_ context.Context, ownerID, productID string, qtyDelta int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	c := m.cart(ownerID)
	if line := c.Line(productID); line != nil {
		line.Quantity += qtyDelta
		return nil
	}
	c.Lines = append(c.Lines, domain.CartLine{ProductID: productID, Quantity: qtyDelta})
	return nil
}

func (m *mockCartRepo) RemoveItem(_ context.Context, ownerID, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	c := m.cart(ownerID)
	for i, line := range c.Lines {
		if line.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, ownerID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart(ownerID).Lines = nil
	return nil
}

// mockStore wires the two mocks plus an order list into a Store.
type mockStore struct {
	m        sync.RWMutex
	products *mockProductRepo
	carts    *mockCartRepo
	orders   []*domain.Order
	placeErr error
}

func newMockStore() *mockStore {
	return &mockStore{products: newMockProductRepo(), carts: newMockCartRepo()}
}

func (m *mockStore) Products() repository.ProductRepository { return m.products }
func (m *mockStore) Carts() repository.CartRepository       { return m.carts }
func (m *mockStore) Orders() repository.OrderRepository     { return &mockOrderRepo{s: m} }

func (m *mockStore) PlaceOrder(ctx context.Context, o *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.placeErr != nil {
		return m.placeErr
	}
	m.orders = append(m.orders, o)
	m.carts.Clear(ctx, o.OwnerID)
	return nil
}

func (m *mockStore) Close() error { return nil }

type mockOrderRepo struct {
	s *mockStore
}

func (r *mockOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.s.m.Lock()
	defer r.s.m.Unlock()
	r.s.orders = append(r.s.orders, o)
	return nil
}

func (r *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.s.m.RLock()
	defer r.s.m.RUnlock()
	for _, o := range r.s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *mockOrderRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	r.s.m.RLock()
	defer r.s.m.RUnlock()
	var owned []*domain.Order
	for _, o := range r.s.orders {
		if o.OwnerID == ownerID {
			owned = append(owned, o)
		}
	}
	return owned, nil
}

type mockCache struct {
	m        sync.RWMutex
	products map[string]*domain.Product
	getErr   error
	setErr   error
}

func newMockCache() *mockCache {
	return &mockCache{products: map[string]*domain.Product{}}
}

func (m *mockCache) Get(_ context.Context, productID string) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.products[productID]; ok {
		return p, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *mockCache) Set(_ context.Context, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockCache) Delete(_ context.Context, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.products, productID)
	return nil
}

type mockPublisher struct {
	m      sync.Mutex
	placed []*domain.Order
	err    error
}

func (m *mockPublisher) OrderPlaced(_ context.Context, o *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.placed = append(m.placed, o)
	return nil
}

func (m *mockPublisher) Close() error { return nil }
