// Package cart models the in-memory cart over a catalog snapshot.
//
// The cart is never stored as its own collection: variant quantities are the
// only state, and the cart contents are re-derived from them on every call.
// A State belongs to a single caller; it is not safe for concurrent mutation.
package cart

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/milkdk/storefront/internal/domain/catalog"
)

// ErrNegativeQuantity is returned when a quantity below zero is submitted.
var ErrNegativeQuantity = errors.New("quantity must be a non-negative integer")

// VariantNotFoundError indicates a product/variant pair that is not in the
// catalog snapshot this cart was built from.
type VariantNotFoundError struct {
	ProductID string
	VariantID string
}

func (e *VariantNotFoundError) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("variant %s not found", e.VariantID)
	}
	return fmt.Sprintf("variant %s of product %s not found", e.VariantID, e.ProductID)
}

// Line is a cart entry: a variant with a positive quantity selected.
type Line struct {
	ProductID string
	VariantID string
	Title     string
	Price     decimal.Decimal
	Quantity  int
}

type variantKey struct {
	productID string
	variantID string
}

// State owns the variant quantity mapping for one session's cart.
type State struct {
	products []catalog.Product
	known    map[variantKey]struct{}
	qty      map[variantKey]int
}

// New builds a cart over the given catalog snapshot. Every variant starts at
// quantity zero.
func New(products []catalog.Product) *State {
	known := make(map[variantKey]struct{})
	for _, p := range products {
		for _, v := range p.Variants {
			known[variantKey{productID: p.ID, variantID: v.ID}] = struct{}{}
		}
	}
	return &State{
		products: products,
		known:    known,
		qty:      make(map[variantKey]int),
	}
}

// SetQuantity replaces the quantity of a single variant, leaving every other
// variant untouched. Negative quantities are rejected and leave the cart
// unchanged.
func (s *State) SetQuantity(productID, variantID string, quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	k := variantKey{productID: productID, variantID: variantID}
	if _, ok := s.known[k]; !ok {
		return &VariantNotFoundError{ProductID: productID, VariantID: variantID}
	}
	s.qty[k] = quantity
	return nil
}

// Remove drops a variant from the cart by resetting its quantity to zero.
func (s *State) Remove(productID, variantID string) error {
	return s.SetQuantity(productID, variantID, 0)
}

// Lines derives the current cart contents: every variant with quantity > 0,
// in catalog order. The result is recomputed on each call and always reflects
// the latest mutation.
func (s *State) Lines() []Line {
	var lines []Line
	for _, p := range s.products {
		for _, v := range p.Variants {
			q := s.qty[variantKey{productID: p.ID, variantID: v.ID}]
			if q <= 0 {
				continue
			}
			lines = append(lines, Line{
				ProductID: p.ID,
				VariantID: v.ID,
				Title:     v.Title,
				Price:     v.Price,
				Quantity:  q,
			})
		}
	}
	return lines
}

// Total sums price x quantity over the current cart lines, rounded to two
// decimal places for display.
func (s *State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines() {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}
