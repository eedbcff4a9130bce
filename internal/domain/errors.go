package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyCart       = errors.New("cart is empty, nothing to order")
	ErrUnauthorized    = errors.New("order belongs to a different user")
	ErrUpstream        = errors.New("upstream service call failed")
)

// PersistenceError marks a failed durable write. Fatal to the request on
// product/cart/order paths; only the invoice artifact copy tolerates it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
