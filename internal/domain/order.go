package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine carries a frozen copy of the product data at purchase time.
// The catalog may change prices later; invoices must reflect the price
// the customer actually paid.
type OrderLine struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Order is immutable once created.
type Order struct {
	ID       uuid.UUID   `json:"id"`
	OwnerID  string      `json:"owner_id"`
	Lines    []OrderLine `json:"lines"`
	PlacedAt time.Time   `json:"placed_at"`
}

// Total is computed from the lines, never stored. The sum is exact and
// rounded to currency precision once at the end, not per line.
func (o *Order) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum.Round(2)
}
