package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrUnavailable is returned when the product catalog cannot be fetched or the
// backend response does not match the expected shape.
var ErrUnavailable = errors.New("product catalog unavailable")

// Product is a catalog item with its purchasable variants, in backend order.
// Products are immutable once fetched; selection state lives in the cart.
type Product struct {
	ID       string
	Title    string
	Variants []Variant
}

// Variant is a purchasable SKU of a Product with its own price.
type Variant struct {
	ID        string
	Title     string
	Price     decimal.Decimal
	ProductID string
}

// Reader fetches the product catalog from the commerce backend.
type Reader interface {
	Products(ctx context.Context) ([]Product, error)
}
