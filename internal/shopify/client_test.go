package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTransport fails every request while counting attempts, proving that
// a code path performed zero network I/O.
type countingTransport struct {
	calls int
}

func (t *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls++
	return nil, io.ErrUnexpectedEOF
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{StoreURL: srv.URL, AccessToken: "shpat_test"}, srv.Client())
}

func TestExecute_MissingCredentials(t *testing.T) {
	transport := &countingTransport{}
	httpClient := &http.Client{Transport: transport}

	for _, cfg := range []Config{
		{},
		{StoreURL: "https://example.myshopify.com/admin/api/graphql.json"},
		{AccessToken: "shpat_test"},
	} {
		c := NewClient(cfg, httpClient)
		_, err := c.Execute(context.Background(), `{ shop { name } }`, nil)
		require.ErrorIs(t, err, ErrMissingCredentials)
	}
	assert.Zero(t, transport.calls, "no network call may be attempted without credentials")
}

func TestExecute_Success(t *testing.T) {
	var gotToken string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"data":{"shop":{"name":"milkdk"}}}`))
	})

	data, err := c.Execute(context.Background(), `{ shop { name } }`, map[string]any{"k": "v"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shop":{"name":"milkdk"}}`, string(data))

	assert.Equal(t, "shpat_test", gotToken)
	assert.Equal(t, `{ shop { name } }`, gotBody["query"])
	assert.Equal(t, map[string]any{"k": "v"}, gotBody["variables"])
}

func TestExecute_ProtocolError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"Field 'shop' doesn't exist"},{"message":"rate limited"}]}`))
	})

	_, err := c.Execute(context.Background(), `{ shop { name } }`, nil)
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	require.Len(t, perr.Errors, 2)
	assert.Contains(t, err.Error(), "Field 'shop' doesn't exist")
}

func TestExecute_TransportError_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{StoreURL: url, AccessToken: "shpat_test"}, nil)
	_, err := c.Execute(context.Background(), `{ shop { name } }`, nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
}

func TestExecute_TransportError_UnparsableBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.Execute(context.Background(), `{ shop { name } }`, nil)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, err.Error(), "status 502")
}

func TestPing(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotQuery, _ = body["query"].(string)
		_, _ = w.Write([]byte(`{"data":{"shop":{"name":"milkdk"}}}`))
	})

	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, pingQuery, gotQuery)
}
