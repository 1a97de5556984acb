package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

// Products serves the flattened catalog. Every variant is reported with
// quantity zero: selection state belongs to the caller's cart, not the
// catalog.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	products, err := h.catalog.Products(r.Context())
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for _, p := range products {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(p.ID)
		e.FieldStart("title")
		e.Str(p.Title)
		e.FieldStart("variants")
		e.ArrStart()
		for _, v := range p.Variants {
			e.ObjStart()
			e.FieldStart("id")
			e.Str(v.ID)
			e.FieldStart("title")
			e.Str(v.Title)
			e.FieldStart("price")
			e.Str(v.Price.StringFixed(2))
			e.FieldStart("quantity")
			e.Int(0)
			e.FieldStart("productId")
			e.Str(v.ProductID)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, &e)
}
