// Package sqlstore is the relational backend. It runs on either SQLite
// (driver "sqlite") or PostgreSQL (driver "postgres") behind database/sql,
// with cart lines and order lines in association tables.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/internal/repository"
)

type Store struct {
	db     *sql.DB
	driver string
}

func NewStore(driver, dsn string) (*Store, error) {
	if driver != "sqlite" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == "postgres" {
		db.SetMaxOpenConns(100)
		db.SetMaxIdleConns(10)
	} else {
		// modernc sqlite serializes writers; one connection avoids
		// SQLITE_BUSY under concurrent transactions.
		db.SetMaxOpenConns(1)
	}

	return &Store{db: db, driver: driver}, nil
}

// RunMigrations applies the driver-specific schema from migrationsPath.
func (s *Store) RunMigrations(migrationsPath string) error {
	m, err := s.newMigrate(migrationsPath)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (s *Store) newMigrate(migrationsPath string) (*migrate.Migrate, error) {
	src := fmt.Sprintf("file://%s", migrationsPath)
	switch s.driver {
	case "postgres":
		driver, err := migratepg.WithInstance(s.db, &migratepg.Config{
			MigrationsTable: "shop_schema_migrations",
		})
		if err != nil {
			return nil, fmt.Errorf("could not create migration driver: %w", err)
		}
		m, err := migrate.NewWithDatabaseInstance(src, "postgres", driver)
		if err != nil {
			return nil, fmt.Errorf("could not create migrate instance: %w", err)
		}
		return m, nil
	default:
		driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("could not create migration driver: %w", err)
		}
		m, err := migrate.NewWithDatabaseInstance(src, "sqlite", driver)
		if err != nil {
			return nil, fmt.Errorf("could not create migrate instance: %w", err)
		}
		return m, nil
	}
}

func (s *Store) Products() repository.ProductRepository { return &productRepo{db: s.db} }
func (s *Store) Carts() repository.CartRepository       { return &cartRepo{db: s.db} }
func (s *Store) Orders() repository.OrderRepository     { return &orderRepo{db: s.db} }

func (s *Store) Close() error { return s.db.Close() }

// PlaceOrder inserts the order with its lines and empties the owner's
// cart inside one transaction.
func (s *Store) PlaceOrder(ctx context.Context, o *domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "begin place order", Err: err}
	}
	defer tx.Rollback()

	if err := insertOrder(ctx, tx, o); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE owner_id = $1`, o.OwnerID); err != nil {
		return &domain.PersistenceError{Op: "clear cart", Err: err}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE carts SET updated_at = $1 WHERE owner_id = $2`, o.PlacedAt, o.OwnerID); err != nil {
		return &domain.PersistenceError{Op: "touch cart", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "commit place order", Err: err}
	}
	return nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, o *domain.Order) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, owner_id, placed_at) VALUES ($1, $2, $3)`,
		o.ID.String(), o.OwnerID, o.PlacedAt)
	if err != nil {
		return &domain.PersistenceError{Op: "insert order", Err: err}
	}
	for _, line := range o.Lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, title, price, quantity)
			 VALUES ($1, $2, $3, $4, $5)`,
			o.ID.String(), line.ProductID, line.Title, line.Price.String(), line.Quantity)
		if err != nil {
			return &domain.PersistenceError{Op: "insert order item", Err: err}
		}
	}
	return nil
}
