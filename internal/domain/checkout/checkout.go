package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/milkdk/storefront/internal/domain/cart"
)

// FinancialStatusPaid marks submitted orders as already paid. The backend owns
// pricing; this service never resends prices.
const FinancialStatusPaid = "PAID"

// Sentinel errors for submission preconditions. Both are checked before any
// backend call is made.
var (
	ErrEmptyOrder         = errors.New("order has no items")
	ErrNoCustomerSelected = errors.New("no customer selected")
)

// UserError is a business-rule rejection reported by the backend mutation
// alongside a successful protocol-level response.
type UserError struct {
	Field   string
	Message string
}

// RejectedError indicates the backend accepted the call but rejected the order
// itself (invalid email, declined line item, ...).
type RejectedError struct {
	Errors []UserError
}

func (e *RejectedError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ue := range e.Errors {
		if ue.Field != "" {
			msgs[i] = fmt.Sprintf("%s: %s", ue.Field, ue.Message)
		} else {
			msgs[i] = ue.Message
		}
	}
	return "order rejected: " + strings.Join(msgs, "; ")
}

// LineItem is one order line: a variant and how many of it.
type LineItem struct {
	VariantID string
	Quantity  int
}

// OrderRequest is the order-creation input sent to the backend.
type OrderRequest struct {
	CustomerEmail   string
	LineItems       []LineItem
	FinancialStatus string
}

// Confirmation holds the backend-assigned identity of a created order.
type Confirmation struct {
	ID         string
	Name       string
	TotalPrice string
}

// Backend creates orders on the external commerce backend.
type Backend interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Confirmation, error)
}

// Service converts cart state plus a selected customer into an order-creation
// request and interprets the backend's answer.
type Service struct {
	backend Backend

	placed   metric.Int64Counter
	rejected metric.Int64Counter
}

// NewService creates a checkout Service submitting through the given backend.
func NewService(backend Backend) *Service {
	meter := otel.Meter("storefront.checkout")
	placed, _ := meter.Int64Counter("checkout.orders_placed")
	rejected, _ := meter.Int64Counter("checkout.orders_rejected")
	return &Service{
		backend:  backend,
		placed:   placed,
		rejected: rejected,
	}
}

// Submit places an order for the given cart lines on behalf of the customer
// identified by email. Preconditions are checked before any backend call.
func (s *Service) Submit(ctx context.Context, customerEmail string, lines []cart.Line) (*Confirmation, error) {
	if customerEmail == "" {
		return nil, ErrNoCustomerSelected
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]LineItem, len(lines))
	for i, line := range lines {
		items[i] = LineItem{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		}
	}

	conf, err := s.backend.CreateOrder(ctx, OrderRequest{
		CustomerEmail:   customerEmail,
		LineItems:       items,
		FinancialStatus: FinancialStatusPaid,
	})
	if err != nil {
		var rej *RejectedError
		if errors.As(err, &rej) {
			s.rejected.Add(ctx, 1)
		}
		return nil, err
	}

	s.placed.Add(ctx, 1)
	return conf, nil
}
