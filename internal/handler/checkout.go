package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/milkdk/storefront/internal/domain/cart"
)

type checkoutRequest struct {
	CustomerEmail string
	LineItems     []checkoutLineItem
}

type checkoutLineItem struct {
	VariantID string
	Quantity  int
}

// Checkout rebuilds the cart from a fresh catalog snapshot and the submitted
// line items, then hands the derived lines to the checkout service. Rebuilding
// server-side means malformed quantities and unknown variants are rejected
// here no matter what the caller sent.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	req, err := decodeCheckoutRequest(r)
	if err != nil {
		h.serveError(w, r, errors.Wrap(err, "decode request"))
		return
	}

	products, err := h.catalog.Products(r.Context())
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	// Variants are submitted without their owning product; resolve it from
	// the snapshot.
	productOf := make(map[string]string)
	for _, p := range products {
		for _, v := range p.Variants {
			productOf[v.ID] = p.ID
		}
	}

	state := cart.New(products)
	for _, item := range req.LineItems {
		productID, ok := productOf[item.VariantID]
		if !ok {
			h.serveError(w, r, &cart.VariantNotFoundError{VariantID: item.VariantID})
			return
		}
		if err := state.SetQuantity(productID, item.VariantID, item.Quantity); err != nil {
			h.serveError(w, r, err)
			return
		}
	}

	lines := state.Lines()
	zctx.From(r.Context()).Info("submitting order",
		zap.Int("lines", len(lines)),
		zap.String("cart_total", state.Total().StringFixed(2)),
	)

	conf, err := h.checkout.Submit(r.Context(), req.CustomerEmail, lines)
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(conf.ID)
	e.FieldStart("name")
	e.Str(conf.Name)
	e.FieldStart("totalPrice")
	e.Str(conf.TotalPrice)
	e.ObjEnd()
	writeJSON(w, http.StatusOK, &e)
}

// decodeCheckoutRequest parses {customerEmail, lineItems}. Quantities must be
// JSON integers; a fractional or non-numeric quantity fails the decode rather
// than being stored.
func decodeCheckoutRequest(r *http.Request) (*checkoutRequest, error) {
	d := jx.Decode(r.Body, 4096)
	var req checkoutRequest
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "customerEmail":
			email, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "customerEmail")
			}
			req.CustomerEmail = email
			return nil
		case "lineItems":
			return d.Arr(func(d *jx.Decoder) error {
				var item checkoutLineItem
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "variantId":
						id, err := d.Str()
						if err != nil {
							return errors.Wrap(err, "variantId")
						}
						item.VariantID = id
						return nil
					case "quantity":
						q, err := d.Int()
						if err != nil {
							return errors.Wrap(err, "quantity")
						}
						item.Quantity = q
						return nil
					default:
						return d.Skip()
					}
				}); err != nil {
					return err
				}
				req.LineItems = append(req.LineItems, item)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, err
	}
	return &req, nil
}
