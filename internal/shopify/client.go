// Package shopify is the sole component permitted to perform network I/O
// against the external commerce backend. It exposes a generic GraphQL
// executor plus adapters implementing the catalog, customer, and checkout
// domain interfaces.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
)

// ErrMissingCredentials is returned when the store URL or access token is not
// configured. No network call is attempted in that case.
var ErrMissingCredentials = errors.New("missing shopify credentials")

// ResponseError is a single entry of a GraphQL envelope `errors` list.
type ResponseError struct {
	Message string `json:"message"`
}

// ProtocolError indicates the backend answered with a non-empty GraphQL
// `errors` list. Partial data is never returned alongside it.
type ProtocolError struct {
	Errors []ResponseError
}

func (e *ProtocolError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, re := range e.Errors {
		msgs[i] = re.Message
	}
	return "backend error: " + strings.Join(msgs, "; ")
}

// TransportError indicates the request never produced a usable GraphQL
// envelope: DNS or connection failure, timeout, or a non-2xx response with an
// unparsable body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "backend unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Config holds the two credentials required to reach the commerce backend.
// Both must be set before any call succeeds.
type Config struct {
	// StoreURL is the GraphQL endpoint of the store.
	StoreURL string
	// AccessToken is sent on every request via X-Shopify-Access-Token.
	AccessToken string
}

// Client executes GraphQL requests against one configured store. It is
// stateless over its http.Client and safe for concurrent use. Credentials are
// injected at construction, never read from the environment at call time.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client for the given store. A nil httpClient falls back
// to http.DefaultClient; timeouts are the transport's to supply.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, http: httpClient}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors"`
}

// Execute performs a single GraphQL request and returns the `data` payload of
// the response envelope. One attempt per call: no retries, callers decide
// whether to retry.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if c.cfg.StoreURL == "" || c.cfg.AccessToken == "" {
		return nil, ErrMissingCredentials
	}

	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.StoreURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("status %d: %w", resp.StatusCode, err)}
	}
	if len(env.Errors) > 0 {
		return nil, &ProtocolError{Errors: env.Errors}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return env.Data, nil
}

const pingQuery = `{ shop { name } }`

// Ping issues a minimal query to verify the store is reachable and the
// credentials are accepted. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Execute(ctx, pingQuery, nil)
	return err
}
