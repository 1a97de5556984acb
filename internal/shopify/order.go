package shopify

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/milkdk/storefront/internal/domain/checkout"
)

const orderCreateMutation = `mutation createOrder($input: OrderInput!) {
  orderCreate(input: $input) {
    order {
      id
      name
      totalPrice
    }
    userErrors {
      field
      message
    }
  }
}`

type orderCreateData struct {
	OrderCreate *struct {
		Order *struct {
			ID         string `json:"id"`
			Name       string `json:"name"`
			TotalPrice string `json:"totalPrice"`
		} `json:"order"`
		UserErrors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"userErrors"`
	} `json:"orderCreate"`
}

var _ checkout.Backend = (*OrderCreator)(nil)

// OrderCreator implements checkout.Backend against the commerce backend.
type OrderCreator struct {
	client *Client
}

// NewOrderCreator returns an OrderCreator using the given client.
func NewOrderCreator(client *Client) *OrderCreator {
	return &OrderCreator{client: client}
}

// CreateOrder issues the order-creation mutation. The mutation's own
// userErrors list is inspected even when the outer call reported no errors:
// a non-empty list is a business-rule failure, not a success.
func (o *OrderCreator) CreateOrder(ctx context.Context, req checkout.OrderRequest) (*checkout.Confirmation, error) {
	lineItems := make([]map[string]any, len(req.LineItems))
	for i, item := range req.LineItems {
		lineItems[i] = map[string]any{
			"variantId": item.VariantID,
			"quantity":  item.Quantity,
		}
	}

	variables := map[string]any{
		"input": map[string]any{
			"email":           req.CustomerEmail,
			"lineItems":       lineItems,
			"financialStatus": req.FinancialStatus,
		},
	}

	data, err := o.client.Execute(ctx, orderCreateMutation, variables)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	var payload orderCreateData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "decode order response")
	}
	if payload.OrderCreate == nil {
		return nil, errors.New("orderCreate missing from response")
	}

	if len(payload.OrderCreate.UserErrors) > 0 {
		rej := &checkout.RejectedError{
			Errors: make([]checkout.UserError, len(payload.OrderCreate.UserErrors)),
		}
		for i, ue := range payload.OrderCreate.UserErrors {
			rej.Errors[i] = checkout.UserError{Field: ue.Field, Message: ue.Message}
		}
		return nil, rej
	}

	if payload.OrderCreate.Order == nil {
		return nil, errors.New("orderCreate returned no order")
	}
	return &checkout.Confirmation{
		ID:         payload.OrderCreate.Order.ID,
		Name:       payload.OrderCreate.Order.Name,
		TotalPrice: payload.OrderCreate.Order.TotalPrice,
	}, nil
}
