package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

type productDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Price       string    `bson:"price"`
	ImageURL    string    `bson:"image_url"`
	CreatedAt   time.Time `bson:"created_at"`
}

type cartLineDoc struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

type cartDoc struct {
	OwnerID   string        `bson:"_id"`
	Lines     []cartLineDoc `bson:"lines"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

type orderLineDoc struct {
	ProductID string `bson:"product_id"`
	Title     string `bson:"title"`
	Price     string `bson:"price"`
	Quantity  int    `bson:"quantity"`
}

type orderDoc struct {
	ID       string         `bson:"_id"`
	OwnerID  string         `bson:"owner_id"`
	Lines    []orderLineDoc `bson:"lines"`
	PlacedAt time.Time      `bson:"placed_at"`
}

func productToDoc(p *domain.Product) *productDoc {
	return &productDoc{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.String(),
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
	}
}

func (d *productDoc) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, fmt.Errorf("parse stored price %q: %w", d.Price, err)
	}
	return &domain.Product{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       price,
		ImageURL:    d.ImageURL,
		CreatedAt:   d.CreatedAt,
	}, nil
}

func (d *cartDoc) toDomain() *domain.Cart {
	cart := &domain.Cart{
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, l := range d.Lines {
		cart.Lines = append(cart.Lines, domain.CartLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return cart
}

func orderToDoc(o *domain.Order) *orderDoc {
	doc := &orderDoc{
		ID:       o.ID.String(),
		OwnerID:  o.OwnerID,
		PlacedAt: o.PlacedAt,
	}
	for _, l := range o.Lines {
		doc.Lines = append(doc.Lines, orderLineDoc{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     l.Price.String(),
			Quantity:  l.Quantity,
		})
	}
	return doc
}

func (d *orderDoc) toDomain() (*domain.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse stored order id %q: %w", d.ID, err)
	}
	o := &domain.Order{
		ID:       id,
		OwnerID:  d.OwnerID,
		PlacedAt: d.PlacedAt,
	}
	for _, l := range d.Lines {
		price, err := decimal.NewFromString(l.Price)
		if err != nil {
			return nil, fmt.Errorf("parse stored price %q: %w", l.Price, err)
		}
		o.Lines = append(o.Lines, domain.OrderLine{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     price,
			Quantity:  l.Quantity,
		})
	}
	return o, nil
}
