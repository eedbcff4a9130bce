package domain

import "time"

type Cart struct {
	OwnerID   string     `json:"owner_id"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartLine references a catalog product by id. Product data is resolved
// against the catalog at read time; only the quantity is cached here.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Line returns the cart line for the given product, or nil.
func (c *Cart) Line(productID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
