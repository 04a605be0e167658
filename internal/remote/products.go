package remote

import (
	"context"
	"net/http"

	"github.com/jewelapp/jewel-client/internal/domain"
)

// ProductService reads the public product listing.
type ProductService struct {
	client *Client
}

func NewProductService(client *Client) *ProductService {
	return &ProductService{client: client}
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

// List returns the full product listing.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	var resp productsResponse
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/products", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Get returns a single product by ID.
func (s *ProductService) Get(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/products/"+productID, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
