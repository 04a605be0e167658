package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jewelapp/jewel-client/internal/domain"
)

// WishlistService talks to the backend wishlist endpoints. Every call
// returns the full server-side snapshot, never a delta.
type WishlistService struct {
	client *Client
}

func NewWishlistService(client *Client) *WishlistService {
	return &WishlistService{client: client}
}

type wishlistResponse struct {
	ProductIDs []string `json:"productIds"`
}

// Fetch returns the current server-side wishlist for the user.
func (s *WishlistService) Fetch(ctx context.Context, identity domain.UserIdentity) (domain.Wishlist, error) {
	var resp wishlistResponse
	err := s.client.doJSON(ctx, http.MethodGet, "/api/wishlist", userQuery(identity), nil, &resp)
	if err != nil {
		return nil, asUnavailable(err)
	}
	return domain.Wishlist(resp.ProductIDs), nil
}

// Add records a product on the server-side wishlist and returns the
// resulting snapshot. Adding an already-present product is a no-op.
func (s *WishlistService) Add(ctx context.Context, identity domain.UserIdentity, productID string) (domain.Wishlist, error) {
	query := userQuery(identity)
	query.Set("productId", productID)

	var resp wishlistResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/api/wishlist/add", query, nil, &resp)
	if err != nil {
		return nil, asUnavailable(err)
	}
	return domain.Wishlist(resp.ProductIDs), nil
}

// Remove drops a product from the server-side wishlist and returns the
// resulting snapshot. Removing an absent product is a no-op.
func (s *WishlistService) Remove(ctx context.Context, identity domain.UserIdentity, productID string) (domain.Wishlist, error) {
	query := userQuery(identity)
	query.Set("productId", productID)

	var resp wishlistResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/api/wishlist/remove", query, nil, &resp)
	if err != nil {
		return nil, asUnavailable(err)
	}
	return domain.Wishlist(resp.ProductIDs), nil
}

func userQuery(identity domain.UserIdentity) url.Values {
	query := url.Values{}
	query.Set("userId", identity.String())
	return query
}
