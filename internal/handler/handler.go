// Package handler exposes the storefront HTTP surface: the product catalog,
// the customer list, and checkout submission.
package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/milkdk/storefront/internal/domain/catalog"
	"github.com/milkdk/storefront/internal/domain/checkout"
	"github.com/milkdk/storefront/internal/domain/customer"
)

// Handler serves the storefront API, delegating to the catalog and customer
// readers and the checkout service.
type Handler struct {
	catalog   catalog.Reader
	customers customer.Reader
	checkout  *checkout.Service
}

// New constructs a Handler with the required domain dependencies.
func New(catalogReader catalog.Reader, customers customer.Reader, checkoutSvc *checkout.Service) *Handler {
	return &Handler{
		catalog:   catalogReader,
		customers: customers,
		checkout:  checkoutSvc,
	}
}

// Register mounts all API routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/products", h.Products)
	mux.HandleFunc("/customers", h.Customers)
	mux.HandleFunc("/checkout", h.Checkout)
}

// serveError maps any domain failure to a single human-readable error string
// with status 500. Nothing is retried here and no partial result is sent.
func (h *Handler) serveError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("error")
	e.Str(msg)
	e.ObjEnd()
	writeJSON(w, status, &e)
}

func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
