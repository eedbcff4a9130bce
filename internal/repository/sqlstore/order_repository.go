package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

type orderRepo struct {
	db *sql.DB
}

func (r *orderRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "begin create order", Err: err}
	}
	defer tx.Rollback()

	if err := insertOrder(ctx, tx, o); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "commit create order", Err: err}
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var o domain.Order
	var idStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, placed_at FROM orders WHERE id = $1`, id.String()).
		Scan(&idStr, &o.OwnerID, &o.PlacedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	o.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse stored order id %q: %w", idStr, err)
	}

	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, placed_at FROM orders WHERE owner_id = $1 ORDER BY placed_at DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("query orders by owner: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var o domain.Order
		var idStr string
		if err := rows.Scan(&idStr, &o.OwnerID, &o.PlacedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		o.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored order id %q: %w", idStr, err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, o := range orders {
		if err := r.loadLines(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *orderRepo) loadLines(ctx context.Context, o *domain.Order) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, title, price, quantity FROM order_items WHERE order_id = $1`,
		o.ID.String())
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line     domain.OrderLine
			priceStr string
		)
		if err := rows.Scan(&line.ProductID, &line.Title, &priceStr, &line.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		line.Price, err = decimal.NewFromString(priceStr)
		if err != nil {
			return fmt.Errorf("parse stored price %q: %w", priceStr, err)
		}
		o.Lines = append(o.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}
