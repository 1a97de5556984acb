package shopify

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkdk/storefront/internal/domain/catalog"
)

func staticResponse(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

const productsBody = `{"data":{"products":{"edges":[
	{"node":{"id":"p1","title":"Whole Milk","variants":{"edges":[
		{"node":{"id":"v1","title":"1L","price":"10.00"}},
		{"node":{"id":"v2","title":"2L","price":"5.50"}}
	]}}},
	{"node":{"id":"p2","title":"Oat Milk","variants":{"edges":[
		{"node":{"id":"v3","title":"1L","price":"3.25"}}
	]}}}
]}}}`

func TestProducts_Reshape(t *testing.T) {
	r := NewCatalogReader(newTestClient(t, staticResponse(productsBody)))

	products, err := r.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Whole Milk", products[0].Title)
	require.Len(t, products[0].Variants, 2)

	v := products[0].Variants[1]
	assert.Equal(t, "v2", v.ID)
	assert.Equal(t, "2L", v.Title)
	assert.True(t, decimal.RequireFromString("5.50").Equal(v.Price))
	assert.Equal(t, "p1", v.ProductID, "variants carry a back-reference to their product")

	assert.Equal(t, "p2", products[1].ID)
	require.Len(t, products[1].Variants, 1)
	assert.Equal(t, "p2", products[1].Variants[0].ProductID)
}

func TestProducts_EmptyCatalog(t *testing.T) {
	r := NewCatalogReader(newTestClient(t, staticResponse(`{"data":{"products":{"edges":[]}}}`)))

	products, err := r.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProducts_MissingEdges(t *testing.T) {
	// products present but edges absent: an explicit failure, never a silent
	// empty catalog.
	r := NewCatalogReader(newTestClient(t, staticResponse(`{"data":{"products":{}}}`)))

	_, err := r.Products(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestProducts_MissingProductsKey(t *testing.T) {
	r := NewCatalogReader(newTestClient(t, staticResponse(`{"data":{}}`)))

	_, err := r.Products(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestProducts_MissingVariantEdges(t *testing.T) {
	r := NewCatalogReader(newTestClient(t, staticResponse(
		`{"data":{"products":{"edges":[{"node":{"id":"p1","title":"Whole Milk"}}]}}}`)))

	_, err := r.Products(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestProducts_MalformedPrice(t *testing.T) {
	r := NewCatalogReader(newTestClient(t, staticResponse(
		`{"data":{"products":{"edges":[{"node":{"id":"p1","title":"Whole Milk","variants":{"edges":[
			{"node":{"id":"v1","title":"1L","price":"ten"}}]}}}]}}}`)))

	_, err := r.Products(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)
	assert.Contains(t, err.Error(), "malformed price")
}

func TestProducts_GatewayFailure(t *testing.T) {
	r := NewCatalogReader(newTestClient(t, staticResponse(`{"errors":[{"message":"boom"}]}`)))

	_, err := r.Products(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)
	var perr *ProtocolError
	assert.ErrorAs(t, err, &perr, "the gateway cause stays in the chain")
}

func TestProducts_MissingCredentials(t *testing.T) {
	transport := &countingTransport{}
	r := NewCatalogReader(NewClient(Config{}, &http.Client{Transport: transport}))

	_, err := r.Products(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)
	require.ErrorIs(t, err, ErrMissingCredentials)
	assert.Zero(t, transport.calls)
}
