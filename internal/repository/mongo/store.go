// Package mongo is the document backend. Carts and orders hold their
// lines as embedded sub-documents; prices travel as strings so decimals
// survive the round trip exactly.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/internal/repository"
)

type Store struct {
	client   *mongo.Client
	products *mongo.Collection
	carts    *mongo.Collection
	orders   *mongo.Collection
}

// NewStore dials the server and verifies it answers before any
// repository is handed out.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &Store{
		client:   client,
		products: db.Collection("products"),
		carts:    db.Collection("carts"),
		orders:   db.Collection("orders"),
	}, nil
}

func (s *Store) Products() repository.ProductRepository { return &productRepo{c: s.products} }
func (s *Store) Carts() repository.CartRepository       { return &cartRepo{c: s.carts} }
func (s *Store) Orders() repository.OrderRepository     { return &orderRepo{c: s.orders} }

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) CreateIndexes(ctx context.Context) error {
	_, err := s.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// PlaceOrder inserts the order and clears the owner's cart. A session
// transaction covers both when the server supports transactions;
// standalone servers fall back to insert-then-clear with the order
// removed again if the clear fails.
func (s *Store) PlaceOrder(ctx context.Context, o *domain.Order) error {
	doc := orderToDoc(o)

	session, err := s.client.StartSession()
	if err != nil {
		return &domain.PersistenceError{Op: "start session", Err: err}
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := s.orders.InsertOne(sc, doc); err != nil {
			return nil, err
		}
		if err := clearCart(sc, s.carts, o.OwnerID); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == nil {
		return nil
	}
	if !transactionsUnsupported(err) {
		return &domain.PersistenceError{Op: "place order", Err: err}
	}

	// Standalone server: sequential with manual rollback.
	if _, err := s.orders.InsertOne(ctx, doc); err != nil {
		return &domain.PersistenceError{Op: "insert order", Err: err}
	}
	if err := clearCart(ctx, s.carts, o.OwnerID); err != nil {
		if _, delErr := s.orders.DeleteOne(ctx, bson.M{"_id": doc.ID}); delErr != nil {
			return fmt.Errorf("clear cart failed (%v), order rollback failed: %w", err, delErr)
		}
		return &domain.PersistenceError{Op: "clear cart", Err: err}
	}
	return nil
}

func clearCart(ctx context.Context, carts *mongo.Collection, ownerID string) error {
	_, err := carts.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$set": bson.M{"lines": bson.A{}, "updated_at": time.Now()}})
	return err
}

func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 20 = IllegalOperation, what standalone servers return for
		// transaction commands.
		return cmdErr.Code == 20
	}
	return false
}
