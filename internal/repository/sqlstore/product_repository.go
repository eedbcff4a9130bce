package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

type productRepo struct {
	db *sql.DB
}

const productColumns = `id, title, description, price, image_url, created_at`

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, title, description, price, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Title, p.Description, p.Price.String(), p.ImageURL, p.CreatedAt)
	if err != nil {
		return &domain.PersistenceError{Op: "insert product", Err: err}
	}
	return nil
}

func (r *productRepo) Replace(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET title = $1, description = $2, price = $3, image_url = $4
		 WHERE id = $5`,
		p.Title, p.Description, p.Price.String(), p.ImageURL, p.ID)
	if err != nil {
		return &domain.PersistenceError{Op: "update product", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return p, nil
}

func (r *productRepo) GetAll(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *productRepo) GetPage(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	// Bound the page before computing the offset: a huge page number
	// would overflow (page-1)*pageSize into a negative OFFSET.
	if page < 1 || pageSize < 1 || page > (total+pageSize-1)/pageSize {
		return nil, total, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("query product page: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p        domain.Product
		priceStr string
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &priceStr, &p.ImageURL, &p.CreatedAt); err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("parse stored price %q: %w", priceStr, err)
	}
	p.Price = price
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}
