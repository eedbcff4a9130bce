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
)

type cartRepo struct {
	c *mongo.Collection
}

func (r *cartRepo) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	var doc cartDoc
	err := r.c.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		now := time.Now()
		return &domain.Cart{OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *cartRepo) AddItem(ctx context.Context, ownerID, productID string, qtyDelta int) error {
	now := time.Now()

	// Accumulate onto an existing embedded line first.
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": ownerID, "lines.product_id": productID},
		bson.M{
			"$inc": bson.M{"lines.$.quantity": qtyDelta},
			"$set": bson.M{"updated_at": now},
		})
	if err != nil {
		return &domain.PersistenceError{Op: "increment cart line", Err: err}
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// No line for this product yet: push one, creating the cart doc on
	// first touch.
	_, err = r.c.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{
			"$push":        bson.M{"lines": cartLineDoc{ProductID: productID, Quantity: qtyDelta}},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return &domain.PersistenceError{Op: "push cart line", Err: err}
	}
	return nil
}

func (r *cartRepo) RemoveItem(ctx context.Context, ownerID, productID string) error {
	_, err := r.c.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{
			"$pull": bson.M{"lines": bson.M{"product_id": productID}},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return &domain.PersistenceError{Op: "remove cart line", Err: err}
	}
	return nil
}

func (r *cartRepo) Clear(ctx context.Context, ownerID string) error {
	if err := clearCart(ctx, r.c, ownerID); err != nil {
		return &domain.PersistenceError{Op: "clear cart", Err: err}
	}
	return nil
}
