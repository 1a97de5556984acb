package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/milkdk/storefront/internal/domain/catalog"
)

const productsQuery = `{
  products(first: 50) {
    edges {
      node {
        id
        title
        variants(first: 10) {
          edges {
            node {
              id
              title
              price
            }
          }
        }
      }
    }
  }
}`

// Wire types for the products query. Pointer fields distinguish a key that is
// absent from one that holds an empty list, so a mis-shaped response fails
// instead of flattening into an empty catalog.
type productsData struct {
	Products *struct {
		Edges *[]struct {
			Node struct {
				ID       string `json:"id"`
				Title    string `json:"title"`
				Variants *struct {
					Edges *[]struct {
						Node struct {
							ID    string `json:"id"`
							Title string `json:"title"`
							Price string `json:"price"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"variants"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

var _ catalog.Reader = (*CatalogReader)(nil)

// CatalogReader implements catalog.Reader against the commerce backend.
type CatalogReader struct {
	client *Client
}

// NewCatalogReader returns a CatalogReader using the given client.
func NewCatalogReader(client *Client) *CatalogReader {
	return &CatalogReader{client: client}
}

// Products fetches up to 50 products with up to 10 variants each and reshapes
// the nested edge/node structure into flat records, preserving catalog order.
func (r *CatalogReader) Products(ctx context.Context) ([]catalog.Product, error) {
	data, err := r.client.Execute(ctx, productsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrUnavailable, err)
	}

	var payload productsData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", catalog.ErrUnavailable, err)
	}
	if payload.Products == nil || payload.Products.Edges == nil {
		return nil, fmt.Errorf("%w: products.edges missing", catalog.ErrUnavailable)
	}

	products := make([]catalog.Product, 0, len(*payload.Products.Edges))
	for _, edge := range *payload.Products.Edges {
		node := edge.Node
		if node.Variants == nil || node.Variants.Edges == nil {
			return nil, fmt.Errorf("%w: variants.edges missing for product %s", catalog.ErrUnavailable, node.ID)
		}

		variants := make([]catalog.Variant, 0, len(*node.Variants.Edges))
		for _, ve := range *node.Variants.Edges {
			price, err := decimal.NewFromString(ve.Node.Price)
			if err != nil {
				return nil, fmt.Errorf("%w: variant %s has malformed price %q", catalog.ErrUnavailable, ve.Node.ID, ve.Node.Price)
			}
			variants = append(variants, catalog.Variant{
				ID:        ve.Node.ID,
				Title:     ve.Node.Title,
				Price:     price,
				ProductID: node.ID,
			})
		}

		products = append(products, catalog.Product{
			ID:       node.ID,
			Title:    node.Title,
			Variants: variants,
		})
	}
	return products, nil
}
