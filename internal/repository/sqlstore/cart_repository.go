package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

type cartRepo struct {
	db *sql.DB
}

func (r *cartRepo) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart := &domain.Cart{OwnerID: ownerID}

	err := r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM carts WHERE owner_id = $1`, ownerID).
		Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err == sql.ErrNoRows {
		now := time.Now()
		cart.CreatedAt, cart.UpdatedAt = now, now
		return cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_items WHERE owner_id = $1 ORDER BY product_id`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ProductID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return cart, nil
}

func (r *cartRepo) AddItem(ctx context.Context, ownerID, productID string, qtyDelta int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "begin add item", Err: err}
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO carts (owner_id, created_at, updated_at) VALUES ($1, $2, $2)
		 ON CONFLICT (owner_id) DO UPDATE SET updated_at = excluded.updated_at`,
		ownerID, now)
	if err != nil {
		return &domain.PersistenceError{Op: "upsert cart", Err: err}
	}

	// Accumulate onto an existing line, never overwrite it.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO cart_items (owner_id, product_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (owner_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + excluded.quantity`,
		ownerID, productID, qtyDelta)
	if err != nil {
		return &domain.PersistenceError{Op: "upsert cart item", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "commit add item", Err: err}
	}
	return nil
}

func (r *cartRepo) RemoveItem(ctx context.Context, ownerID, productID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1 AND product_id = $2`,
		ownerID, productID)
	if err != nil {
		return &domain.PersistenceError{Op: "remove cart item", Err: err}
	}
	return nil
}

func (r *cartRepo) Clear(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1`, ownerID)
	if err != nil {
		return &domain.PersistenceError{Op: "clear cart", Err: err}
	}
	return nil
}
