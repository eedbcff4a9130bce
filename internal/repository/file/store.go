// Package file persists the shop collections as JSON files, one per
// collection, rewriting the whole file on every change.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/internal/repository"
)

const (
	productsFile = "products.json"
	cartsFile    = "carts.json"
	ordersFile   = "orders.json"
)

// Store keeps everything under a single data directory. A process-wide
// mutex guards the read-modify-write cycles; writes go to a temp file
// first and are renamed into place.
type Store struct {
	mu  sync.Mutex
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }
func (s *Store) Carts() repository.CartRepository       { return &cartRepo{s: s} }
func (s *Store) Orders() repository.OrderRepository     { return &orderRepo{s: s} }

func (s *Store) Close() error { return nil }

// load reads the named collection file into v. A missing file leaves v
// untouched, so callers start from an empty collection.
func (s *Store) load(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) save(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &domain.PersistenceError{Op: "write " + name, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &domain.PersistenceError{Op: "rename " + name, Err: err}
	}
	return nil
}

// PlaceOrder appends to orders.json and clears the owner's cart in
// carts.json. If the carts write fails the previous orders file is
// restored so neither change is observable.
func (s *Store) PlaceOrder(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []*domain.Order
	if err := s.load(ordersFile, &orders); err != nil {
		return err
	}
	prev := make([]*domain.Order, len(orders))
	copy(prev, orders)

	orders = append(orders, o)
	if err := s.save(ordersFile, orders); err != nil {
		return err
	}

	carts := map[string]*domain.Cart{}
	if err := s.load(cartsFile, &carts); err != nil {
		return err
	}
	if cart, ok := carts[o.OwnerID]; ok {
		cart.Lines = nil
		cart.UpdatedAt = time.Now()
	}
	if err := s.save(cartsFile, carts); err != nil {
		// Roll the order append back; best effort, still holding the lock.
		if rbErr := s.save(ordersFile, prev); rbErr != nil {
			return fmt.Errorf("clear cart failed (%v), order rollback failed: %w", err, rbErr)
		}
		return err
	}
	return nil
}

type productRepo struct {
	s *Store
}

func (r *productRepo) Create(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	var products []*domain.Product
	if err := r.s.load(productsFile, &products); err != nil {
		return err
	}
	products = append(products, p)
	return r.s.save(productsFile, products)
}

func (r *productRepo) Replace(_ context.Context, p *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var products []*domain.Product
	if err := r.s.load(productsFile, &products); err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			return r.s.save(productsFile, products)
		}
	}
	return domain.ErrProductNotFound
}

func (r *productRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var products []*domain.Product
	if err := r.s.load(productsFile, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *productRepo) GetAll(_ context.Context) ([]*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var products []*domain.Product
	if err := r.s.load(productsFile, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) GetPage(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return paginate(products, page, pageSize), len(products), nil
}

// paginate slices a full collection for a 1-based page. Out-of-range
// pages come back empty. The last-page bound is checked before the
// start offset is computed so huge page numbers cannot overflow it.
func paginate(products []*domain.Product, page, pageSize int) []*domain.Product {
	if page < 1 || pageSize < 1 {
		return nil
	}
	lastPage := (len(products) + pageSize - 1) / pageSize
	if page > lastPage {
		return nil
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

type cartRepo struct {
	s *Store
}

func (r *cartRepo) Get(_ context.Context, ownerID string) (*domain.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	carts := map[string]*domain.Cart{}
	if err := r.s.load(cartsFile, &carts); err != nil {
		return nil, err
	}
	if cart, ok := carts[ownerID]; ok {
		return cart, nil
	}
	return &domain.Cart{OwnerID: ownerID, CreatedAt: time.Now(), UpdatedAt: time.Now()}, nil
}

func (r *cartRepo) AddItem(_ context.Context, ownerID, productID string, qtyDelta int) error {
	return r.update(ownerID, func(cart *domain.Cart) {
		if line := cart.Line(productID); line != nil {
			line.Quantity += qtyDelta
			return
		}
		cart.Lines = append(cart.Lines, domain.CartLine{ProductID: productID, Quantity: qtyDelta})
	})
}

func (r *cartRepo) RemoveItem(_ context.Context, ownerID, productID string) error {
	return r.update(ownerID, func(cart *domain.Cart) {
		for i, line := range cart.Lines {
			if line.ProductID == productID {
				cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
				return
			}
		}
	})
}

func (r *cartRepo) Clear(_ context.Context, ownerID string) error {
	return r.update(ownerID, func(cart *domain.Cart) {
		cart.Lines = nil
	})
}

func (r *cartRepo) update(ownerID string, mutate func(*domain.Cart)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	carts := map[string]*domain.Cart{}
	if err := r.s.load(cartsFile, &carts); err != nil {
		return err
	}
	cart, ok := carts[ownerID]
	if !ok {
		cart = &domain.Cart{OwnerID: ownerID, CreatedAt: time.Now()}
		carts[ownerID] = cart
	}
	mutate(cart)
	cart.UpdatedAt = time.Now()
	return r.s.save(cartsFile, carts)
}

type orderRepo struct {
	s *Store
}

func (r *orderRepo) Create(_ context.Context, o *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var orders []*domain.Order
	if err := r.s.load(ordersFile, &orders); err != nil {
		return err
	}
	orders = append(orders, o)
	return r.s.save(ordersFile, orders)
}

func (r *orderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var orders []*domain.Order
	if err := r.s.load(ordersFile, &orders); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *orderRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var orders []*domain.Order
	if err := r.s.load(ordersFile, &orders); err != nil {
		return nil, err
	}
	var owned []*domain.Order
	for _, o := range orders {
		if o.OwnerID == ownerID {
			owned = append(owned, o)
		}
	}
	return owned, nil
}
