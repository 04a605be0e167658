package stubapi

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jewelapp/jewel-client/internal/domain"
	errs "github.com/jewelapp/jewel-client/internal/errors"
)

func (s *Server) registerCartRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "viewCart",
		Method:      http.MethodGet,
		Path:        "/api/cart/view",
		Summary:     "View cart",
		Description: "Returns the full cart snapshot for the user",
		Tags:        []string{"Cart"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleViewCart)

	huma.Register(s.api, huma.Operation{
		OperationID: "addToCart",
		Method:      http.MethodPost,
		Path:        "/api/cart/add",
		Summary:     "Add to cart",
		Description: "Adds a product variant and returns the full cart snapshot",
		Tags:        []string{"Cart"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddToCart)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromCart",
		Method:      http.MethodPost,
		Path:        "/api/cart/remove",
		Summary:     "Remove from cart",
		Description: "Removes every line for a product and returns the full cart snapshot",
		Tags:        []string{"Cart"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromCart)
}

// === DTOs ===

// CartResponse is the full cart snapshot.
type CartResponse struct {
	Items []domain.CartItem `json:"items" doc:"Cart lines"`
}

// CartOutput wraps the cart response for Huma.
type CartOutput struct {
	Body CartResponse
}

// ViewCartInput selects the cart owner.
type ViewCartInput struct {
	UserID string `query:"userId" doc:"List owner (defaults to token user)"`
}

// CartVariantRequest is the optional variant body for cart adds.
type CartVariantRequest struct {
	Size  string `json:"size,omitempty" doc:"Selected size"`
	Metal string `json:"metal,omitempty" doc:"Selected metal"`
}

// AddToCartInput carries the product, quantity, and variant to add.
type AddToCartInput struct {
	UserID    string `query:"userId" doc:"List owner (defaults to token user)"`
	ProductID string `query:"productId" required:"true" doc:"Product to add"`
	Qty       int    `query:"qty" doc:"Quantity (defaults to 1)"`
	Body      CartVariantRequest
}

// RemoveFromCartInput identifies the product to remove.
type RemoveFromCartInput struct {
	UserID    string `query:"userId" doc:"List owner (defaults to token user)"`
	ProductID string `query:"productId" required:"true" doc:"Product to remove"`
}

// === Handlers ===

func (s *Server) handleViewCart(ctx context.Context, input *ViewCartInput) (*CartOutput, error) {
	userID := effectiveUserID(ctx, input.UserID)
	if userID == "" {
		return nil, errs.Unauthorized("authentication required")
	}

	cart, err := s.store.CartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartOutput{Body: CartResponse{Items: cart}}, nil
}

func (s *Server) handleAddToCart(ctx context.Context, input *AddToCartInput) (*CartOutput, error) {
	userID := effectiveUserID(ctx, input.UserID)
	if userID == "" {
		return nil, errs.Unauthorized("authentication required")
	}

	if _, err := s.store.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	item := domain.CartItem{
		ProductID: input.ProductID,
		Size:      input.Body.Size,
		Metal:     input.Body.Metal,
		Quantity:  input.Qty,
	}
	if err := s.store.AddCartItem(ctx, userID, item); err != nil {
		return nil, err
	}

	cart, err := s.store.CartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartOutput{Body: CartResponse{Items: cart}}, nil
}

func (s *Server) handleRemoveFromCart(ctx context.Context, input *RemoveFromCartInput) (*CartOutput, error) {
	userID := effectiveUserID(ctx, input.UserID)
	if userID == "" {
		return nil, errs.Unauthorized("authentication required")
	}

	if err := s.store.RemoveCartItems(ctx, userID, input.ProductID); err != nil {
		return nil, err
	}

	cart, err := s.store.CartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartOutput{Body: CartResponse{Items: cart}}, nil
}
