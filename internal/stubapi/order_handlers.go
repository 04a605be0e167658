package stubapi

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jewelapp/jewel-client/internal/domain"
	errs "github.com/jewelapp/jewel-client/internal/errors"
)

func (s *Server) registerOrderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "placeOrder",
		Method:      http.MethodPost,
		Path:        "/api/orders",
		Summary:     "Place order",
		Description: "Places an order and clears the server-side cart",
		Tags:        []string{"Orders"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePlaceOrder)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOrders",
		Method:      http.MethodGet,
		Path:        "/api/orders",
		Summary:     "List orders",
		Tags:        []string{"Orders"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListOrders)
}

// === DTOs ===

// OrderItemPayload is one ordered cart line. Variant fields are
// optional at the schema level since wishlist-sourced lines carry none.
type OrderItemPayload struct {
	ProductID string  `json:"id" required:"false" doc:"Product ID"`
	Title     string  `json:"title,omitempty" doc:"Product title"`
	Price     float64 `json:"price,omitempty" doc:"Unit price"`
	Image     string  `json:"image,omitempty" doc:"Product image URL"`
	Size      string  `json:"size,omitempty" doc:"Selected size"`
	Metal     string  `json:"metal,omitempty" doc:"Selected metal"`
	Quantity  int     `json:"quantity,omitempty" doc:"Quantity"`
}

// ShippingPayload is the checkout address. Field-level rejection is
// owned by the handler's validator so clients get the same errors the
// production backend returns, not schema-level ones.
type ShippingPayload struct {
	Name            string `json:"name" required:"false" doc:"Recipient name"`
	WhatsappNumber  string `json:"whatsappNumber" required:"false" doc:"WhatsApp contact number"`
	AlternateNumber string `json:"alternateNumber,omitempty" doc:"Alternate contact number"`
	Address         string `json:"address" required:"false" doc:"Street address"`
	Pincode         string `json:"pincode" required:"false" doc:"Postal code"`
	State           string `json:"state" required:"false" doc:"State"`
	District        string `json:"district" required:"false" doc:"District"`
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	Items    []OrderItemPayload `json:"items" required:"false" doc:"Ordered cart lines"`
	Shipping ShippingPayload    `json:"shipping" required:"false" doc:"Shipping address"`
	Total    float64            `json:"total,omitempty" doc:"Order total"`
}

func (p OrderItemPayload) toDomain() domain.CartItem {
	return domain.CartItem{
		ProductID: p.ProductID,
		Title:     p.Title,
		Price:     p.Price,
		Image:     p.Image,
		Size:      p.Size,
		Metal:     p.Metal,
		Quantity:  p.Quantity,
	}
}

func (p ShippingPayload) toDomain() domain.ShippingDetails {
	return domain.ShippingDetails{
		Name:            p.Name,
		WhatsappNumber:  p.WhatsappNumber,
		AlternateNumber: p.AlternateNumber,
		Address:         p.Address,
		Pincode:         p.Pincode,
		State:           p.State,
		District:        p.District,
	}
}

// PlaceOrderInput wraps the checkout payload for Huma.
type PlaceOrderInput struct {
	UserID string `query:"userId" doc:"Order owner (defaults to token user)"`
	Body   PlaceOrderRequest
}

// OrderOutput wraps a single order for Huma.
type OrderOutput struct {
	Body domain.Order
}

// ListOrdersInput selects the order history owner.
type ListOrdersInput struct {
	UserID string `query:"userId" doc:"Order owner (defaults to token user)"`
}

// OrdersResponse is the user's order history.
type OrdersResponse struct {
	Orders []domain.Order `json:"orders" doc:"Orders, newest first"`
}

// OrdersOutput wraps the order history for Huma.
type OrdersOutput struct {
	Body OrdersResponse
}

// === Handlers ===

func (s *Server) handlePlaceOrder(ctx context.Context, input *PlaceOrderInput) (*OrderOutput, error) {
	userID := effectiveUserID(ctx, input.UserID)
	if userID == "" {
		return nil, errs.Unauthorized("authentication required")
	}
	if len(input.Body.Items) == 0 {
		return nil, errs.Validation("order has no items")
	}
	shipping := input.Body.Shipping.toDomain()
	if err := s.validator.Validate(shipping); err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(input.Body.Items))
	for _, item := range input.Body.Items {
		items = append(items, item.toDomain())
	}

	order := &domain.Order{
		UserID:    userID,
		Items:     items,
		Total:     input.Body.Total,
		Status:    domain.OrderStatusPlaced,
		Shipping:  shipping,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertOrder(ctx, order); err != nil {
		return nil, err
	}

	// The cart was just converted to an order; the next fetch starts clean.
	if err := s.store.ClearCart(ctx, userID); err != nil {
		s.logger.Warn("clearing cart after order failed", "user_id", userID, "error", err)
	}

	s.logger.Info("order placed", "order_id", order.ID, "user_id", userID, "items", len(order.Items))
	return &OrderOutput{Body: *order}, nil
}

func (s *Server) handleListOrders(ctx context.Context, input *ListOrdersInput) (*OrdersOutput, error) {
	userID := effectiveUserID(ctx, input.UserID)
	if userID == "" {
		return nil, errs.Unauthorized("authentication required")
	}

	orders, err := s.store.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &OrdersOutput{Body: OrdersResponse{Orders: orders}}, nil
}
