package customer

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrUnavailable is returned when the customer list cannot be fetched or the
// backend response does not match the expected shape.
var ErrUnavailable = errors.New("customer data unavailable")

// Customer is a storefront customer. Names are derived from tag-encoded fields
// on the backend record and fall back to "Unknown Customer" when absent.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
}

// Reader fetches customers from the commerce backend.
type Reader interface {
	Customers(ctx context.Context) ([]Customer, error)
}
