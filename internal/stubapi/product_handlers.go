package stubapi

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jewelapp/jewel-client/internal/domain"
)

func (s *Server) registerProductRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listProducts",
		Method:      http.MethodGet,
		Path:        "/api/products",
		Summary:     "List products",
		Tags:        []string{"Products"},
	}, s.handleListProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProduct",
		Method:      http.MethodGet,
		Path:        "/api/products/{id}",
		Summary:     "Get product",
		Tags:        []string{"Products"},
	}, s.handleGetProduct)
}

// ProductsResponse is the full catalog listing.
type ProductsResponse struct {
	Products []domain.Product `json:"products" doc:"Product catalog"`
}

// ProductsOutput wraps the listing for Huma.
type ProductsOutput struct {
	Body ProductsResponse
}

// GetProductInput identifies a product.
type GetProductInput struct {
	ID string `path:"id" doc:"Product ID"`
}

// ProductOutput wraps a single product for Huma.
type ProductOutput struct {
	Body domain.Product
}

func (s *Server) handleListProducts(ctx context.Context, _ *struct{}) (*ProductsOutput, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductsOutput{Body: ProductsResponse{Products: products}}, nil
}

func (s *Server) handleGetProduct(ctx context.Context, input *GetProductInput) (*ProductOutput, error) {
	product, err := s.store.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: *product}, nil
}
