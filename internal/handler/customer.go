package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

// Customers serves the customer list with tag-derived display names.
func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	customers, err := h.customers.Customers(r.Context())
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for _, c := range customers {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(c.ID)
		e.FieldStart("firstName")
		e.Str(c.FirstName)
		e.FieldStart("lastName")
		e.Str(c.LastName)
		e.ObjEnd()
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, &e)
}
