package stubapi

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	errs "github.com/jewelapp/jewel-client/internal/errors"
)

func (s *Server) registerWishlistRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getWishlist",
		Method:      http.MethodGet,
		Path:        "/api/wishlist",
		Summary:     "Get wishlist",
		Description: "Returns the full wishlist snapshot for the user",
		Tags:        []string{"Wishlist"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetWishlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "addToWishlist",
		Method:      http.MethodPost,
		Path:        "/api/wishlist/add",
		Summary:     "Add to wishlist",
		Description: "Adds a product and returns the full wishlist snapshot",
		Tags:        []string{"Wishlist"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddToWishlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromWishlist",
		Method:      http.MethodPost,
		Path:        "/api/wishlist/remove",
		Summary:     "Remove from wishlist",
		Description: "Removes a product and returns the full wishlist snapshot",
		Tags:        []string{"Wishlist"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromWishlist)
}

// === DTOs ===

// WishlistResponse is the full wishlist snapshot.
type WishlistResponse struct {
	ProductIDs []string `json:"productIds" doc:"Wishlisted product IDs"`
}

// WishlistOutput wraps the wishlist response for Huma.
type WishlistOutput struct {
	Body WishlistResponse
}

// GetWishlistInput selects the wishlist owner.
type GetWishlistInput struct {
	UserID string `query:"userId" doc:"List owner (defaults to token user)"`
}

// WishlistItemInput identifies a product to add or remove.
type WishlistItemInput struct {
	UserID    string `query:"userId" doc:"List owner (defaults to token user)"`
	ProductID string `query:"productId" required:"true" doc:"Product ID"`
}

// === Handlers ===

func (s *Server) handleGetWishlist(ctx context.Context, input *GetWishlistInput) (*WishlistOutput, error) {
	userID := effectiveUserID(ctx, input.UserID)
	if userID == "" {
		return nil, errs.Unauthorized("authentication required")
	}

	ids, err := s.store.WishlistIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WishlistOutput{Body: WishlistResponse{ProductIDs: ids}}, nil
}

func (s *Server) handleAddToWishlist(ctx context.Context, input *WishlistItemInput) (*WishlistOutput, error) {
	userID := effectiveUserID(ctx, input.UserID)
	if userID == "" {
		return nil, errs.Unauthorized("authentication required")
	}

	if _, err := s.store.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	if err := s.store.AddWishlistItem(ctx, userID, input.ProductID); err != nil {
		return nil, err
	}

	ids, err := s.store.WishlistIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WishlistOutput{Body: WishlistResponse{ProductIDs: ids}}, nil
}

func (s *Server) handleRemoveFromWishlist(ctx context.Context, input *WishlistItemInput) (*WishlistOutput, error) {
	userID := effectiveUserID(ctx, input.UserID)
	if userID == "" {
		return nil, errs.Unauthorized("authentication required")
	}

	if err := s.store.RemoveWishlistItem(ctx, userID, input.ProductID); err != nil {
		return nil, err
	}

	ids, err := s.store.WishlistIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WishlistOutput{Body: WishlistResponse{ProductIDs: ids}}, nil
}
