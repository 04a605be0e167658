package remote

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jewelapp/jewel-client/internal/domain"
)

// CartService talks to the backend cart endpoints. Mutations carry the
// variant in the request body so the server can distinguish cart lines;
// the product and user references travel as query parameters for
// compatibility with the original API shape.
type CartService struct {
	client *Client
}

func NewCartService(client *Client) *CartService {
	return &CartService{client: client}
}

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
}

type cartVariantRequest struct {
	Size  string `json:"size,omitempty"`
	Metal string `json:"metal,omitempty"`
}

// Fetch returns the current server-side cart for the user.
func (s *CartService) Fetch(ctx context.Context, identity domain.UserIdentity) (domain.Cart, error) {
	var resp cartResponse
	err := s.client.doJSON(ctx, http.MethodGet, "/api/cart/view", userQuery(identity), nil, &resp)
	if err != nil {
		return nil, asUnavailable(err)
	}
	return domain.Cart(resp.Items), nil
}

// Add puts qty units of a product variant in the server-side cart and
// returns the resulting snapshot.
func (s *CartService) Add(ctx context.Context, identity domain.UserIdentity, item domain.CartItem) (domain.Cart, error) {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	query := userQuery(identity)
	query.Set("productId", item.ProductID)
	query.Set("qty", strconv.Itoa(qty))

	body := cartVariantRequest{Size: item.Size, Metal: item.Metal}

	var resp cartResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/api/cart/add", query, body, &resp)
	if err != nil {
		return nil, asUnavailable(err)
	}
	return domain.Cart(resp.Items), nil
}

// Remove drops every cart line for the product from the server-side cart
// and returns the resulting snapshot.
func (s *CartService) Remove(ctx context.Context, identity domain.UserIdentity, productID string) (domain.Cart, error) {
	query := userQuery(identity)
	query.Set("productId", productID)

	var resp cartResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/api/cart/remove", query, nil, &resp)
	if err != nil {
		return nil, asUnavailable(err)
	}
	return domain.Cart(resp.Items), nil
}
