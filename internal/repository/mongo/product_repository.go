package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

type productRepo struct {
	c *mongo.Collection
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	if _, err := r.c.InsertOne(ctx, productToDoc(p)); err != nil {
		return &domain.PersistenceError{Op: "insert product", Err: err}
	}
	return nil
}

func (r *productRepo) Replace(ctx context.Context, p *domain.Product) error {
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": p.ID}, productToDoc(p))
	if err != nil {
		return &domain.PersistenceError{Op: "replace product", Err: err}
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var doc productDoc
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.toDomain()
}

func (r *productRepo) GetAll(ctx context.Context) ([]*domain.Product, error) {
	cursor, err := r.c.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return collect(ctx, cursor)
}

func (r *productRepo) GetPage(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error) {
	count, err := r.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	total := int(count)

	// Bound the page before computing the skip: a huge page number
	// would overflow (page-1)*pageSize into a negative skip.
	if page < 1 || pageSize < 1 || page > (total+pageSize-1)/pageSize {
		return nil, total, nil
	}

	cursor, err := r.c.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((page-1)*pageSize)).
		SetLimit(int64(pageSize)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query product page: %w", err)
	}

	products, err := collect(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func collect(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Product, error) {
	defer cursor.Close(ctx)

	var products []*domain.Product
	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}
	return products, nil
}
