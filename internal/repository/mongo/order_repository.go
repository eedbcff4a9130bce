package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

type orderRepo struct {
	c *mongo.Collection
}

func (r *orderRepo) Create(ctx context.Context, o *domain.Order) error {
	if _, err := r.c.InsertOne(ctx, orderToDoc(o)); err != nil {
		return &domain.PersistenceError{Op: "insert order", Err: err}
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var doc orderDoc
	err := r.c.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.toDomain()
}

func (r *orderRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	cursor, err := r.c.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	for cursor.Next(ctx) {
		var doc orderDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		o, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}
	return orders, nil
}
