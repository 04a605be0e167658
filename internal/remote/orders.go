package remote

import (
	"context"
	"net/http"

	"github.com/jewelapp/jewel-client/internal/domain"
)

// OrderService places orders and reads order history.
type OrderService struct {
	client *Client
}

func NewOrderService(client *Client) *OrderService {
	return &OrderService{client: client}
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	Items    []domain.CartItem      `json:"items"`
	Shipping domain.ShippingDetails `json:"shipping"`
	Total    float64                `json:"total"`
}

type ordersResponse struct {
	Orders []domain.Order `json:"orders"`
}

// Place submits an order for the user's current cart contents.
func (s *OrderService) Place(ctx context.Context, identity domain.UserIdentity, req PlaceOrderRequest) (*domain.Order, error) {
	var order domain.Order
	err := s.client.doJSON(ctx, http.MethodPost, "/api/orders", userQuery(identity), req, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// History returns the user's past orders, newest first.
func (s *OrderService) History(ctx context.Context, identity domain.UserIdentity) ([]domain.Order, error) {
	var resp ordersResponse
	err := s.client.doJSON(ctx, http.MethodGet, "/api/orders", userQuery(identity), nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Orders, nil
}
