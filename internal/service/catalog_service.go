package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Kobayashi19860206/NodeShop/internal/cache"
	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/internal/repository"
	"github.com/Kobayashi19860206/NodeShop/pkg/logger"
)

// DefaultPageSize is deliberately tiny so pagination paths get real
// traffic even on small catalogs.
const DefaultPageSize = 2

// Page is a slice of the catalog plus everything a caller needs to
// render pagination controls.
type Page struct {
	Items       []*domain.Product `json:"items"`
	CurrentPage int               `json:"current_page"`
	TotalCount  int               `json:"total_count"`
	HasNext     bool              `json:"has_next"`
	HasPrevious bool              `json:"has_previous"`
	LastPage    int               `json:"last_page"`
}

type CatalogService struct {
	repo     repository.ProductRepository
	cache    cache.ProductCache // nil disables caching
	pageSize int
	sfg      singleflight.Group // prevents cache stampede
}

func NewCatalogService(repo repository.ProductRepository, productCache cache.ProductCache, pageSize int) *CatalogService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &CatalogService{
		repo:     repo,
		cache:    productCache,
		pageSize: pageSize,
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	return s.repo.Create(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := s.repo.Replace(ctx, p); err != nil {
		return err
	}
	s.invalidate(p.ID)
	return nil
}

// GetProduct reads through the cache. Concurrent misses for the same id
// collapse into one repository fetch.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache == nil {
		return s.repo.GetByID(ctx, id)
	}

	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Log.Warn("product cache get failed", zap.Error(err))
		}

		product, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), product); err != nil {
				logger.Log.Warn("product cache set failed", zap.Error(err))
			}
		}()

		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (s *CatalogService) ListAll(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.GetAll(ctx)
}

// ListPage returns the requested 1-based page. Out-of-range pages come
// back empty with the metadata still filled in.
func (s *CatalogService) ListPage(ctx context.Context, page int) (*Page, error) {
	items, total, err := s.repo.GetPage(ctx, page, s.pageSize)
	if err != nil {
		return nil, err
	}
	lastPage := int(math.Ceil(float64(total) / float64(s.pageSize)))
	return &Page{
		Items:       items,
		CurrentPage: page,
		TotalCount:  total,
		HasNext:     page >= 1 && page < lastPage,
		HasPrevious: page > 1,
		LastPage:    lastPage,
	}, nil
}

func (s *CatalogService) invalidate(productID string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, productID); err != nil {
		logger.Log.Warn("product cache invalidate failed", zap.Error(err))
	}
}
