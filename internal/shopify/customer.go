package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/milkdk/storefront/internal/domain/customer"
)

const customersQuery = `{
  customers(first: 10) {
    edges {
      node {
        id
        tags
      }
    }
  }
}`

// Customer names are tag-encoded on the backend record.
const (
	firstNameTagPrefix = "first: "
	lastNameTagPrefix  = "last: "

	defaultFirstName = "Unknown"
	defaultLastName  = "Customer"
)

type customersData struct {
	Customers *struct {
		Edges *[]struct {
			Node struct {
				ID   string   `json:"id"`
				Tags []string `json:"tags"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"customers"`
}

var _ customer.Reader = (*CustomerReader)(nil)

// CustomerReader implements customer.Reader against the commerce backend.
type CustomerReader struct {
	client *Client
}

// NewCustomerReader returns a CustomerReader using the given client.
func NewCustomerReader(client *Client) *CustomerReader {
	return &CustomerReader{client: client}
}

// Customers fetches up to 10 customers and derives their display names from
// the tag list.
func (r *CustomerReader) Customers(ctx context.Context) ([]customer.Customer, error) {
	data, err := r.client.Execute(ctx, customersQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", customer.ErrUnavailable, err)
	}

	var payload customersData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", customer.ErrUnavailable, err)
	}
	if payload.Customers == nil || payload.Customers.Edges == nil {
		return nil, fmt.Errorf("%w: customers.edges missing", customer.ErrUnavailable)
	}

	customers := make([]customer.Customer, 0, len(*payload.Customers.Edges))
	for _, edge := range *payload.Customers.Edges {
		first, last := namesFromTags(edge.Node.Tags)
		customers = append(customers, customer.Customer{
			ID:        edge.Node.ID,
			FirstName: first,
			LastName:  last,
		})
	}
	return customers, nil
}

// namesFromTags scans the tag list for "first: " / "last: " entries and strips
// the prefixes, falling back to the defaults when a tag is absent.
func namesFromTags(tags []string) (first, last string) {
	first, last = defaultFirstName, defaultLastName
	for _, tag := range tags {
		switch {
		case strings.HasPrefix(tag, firstNameTagPrefix):
			first = strings.TrimPrefix(tag, firstNameTagPrefix)
		case strings.HasPrefix(tag, lastNameTagPrefix):
			last = strings.TrimPrefix(tag, lastNameTagPrefix)
		}
	}
	return first, last
}
