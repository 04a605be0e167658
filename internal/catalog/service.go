// Package catalog keeps an offline copy of the product catalog.
//
// Products are refreshed wholesale from the backend into the local
// store and a full-text index, so browsing and search keep working
// when the backend is unreachable. Data may be stale; it is never
// missing.
package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jewelapp/jewel-client/internal/domain"
	errs "github.com/jewelapp/jewel-client/internal/errors"
	"github.com/jewelapp/jewel-client/internal/notify"
	"github.com/jewelapp/jewel-client/internal/store"
)

// ProductBackend reads the product listing from the backend.
type ProductBackend interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, productID string) (*domain.Product, error)
}

// Emitter receives catalog events.
type Emitter interface {
	Emit(event notify.Event)
}

// Service is the offline product catalog.
type Service struct {
	products *store.Entity[domain.Product]
	backend  ProductBackend
	index    *SearchIndex
	emitter  Emitter
	logger   *slog.Logger
}

// NewService creates a catalog service over the given product cache
// and search index.
func NewService(products *store.Entity[domain.Product], backend ProductBackend, index *SearchIndex, emitter Emitter, logger *slog.Logger) *Service {
	return &Service{
		products: products,
		backend:  backend,
		index:    index,
		emitter:  emitter,
		logger:   logger,
	}
}

// Refresh pulls the full product listing from the backend, replaces
// the cached copies, and reindexes. Products that disappeared from the
// listing are dropped from cache and index.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	listed, err := s.backend.List(ctx)
	if err != nil {
		return 0, errs.ErrRemoteUnavailable.WithCause(err)
	}

	existing, err := s.products.List(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(listed))

	docs := make([]searchDocument, 0, len(listed))
	for i := range listed {
		product := listed[i]
		seen[product.ID] = true

		if err := s.products.Put(ctx, product.ID, &product); err != nil {
			return 0, err
		}
		docs = append(docs, searchDocument{
			ID:          product.ID,
			Title:       product.Title,
			Description: stripHTML(product.DescriptionHTML),
			Category:    Slugify(product.Category),
			Metals:      strings.ToLower(strings.Join(product.Metals, " ")),
			Price:       product.Price,
		})
	}

	for _, old := range existing {
		if seen[old.ID] {
			continue
		}
		if err := s.products.Delete(ctx, old.ID); err != nil {
			s.logger.Warn("dropping stale product failed", "product_id", old.ID, "error", err)
		}
		if err := s.index.DeleteProduct(old.ID); err != nil {
			s.logger.Warn("deindexing stale product failed", "product_id", old.ID, "error", err)
		}
	}

	if err := s.index.IndexProducts(docs); err != nil {
		return 0, err
	}

	s.logger.Info("catalog refreshed", "products", len(listed))
	s.emitter.Emit(notify.NewEvent(notify.EventCatalogUpdated, notify.CatalogEventData{
		Products: len(listed),
	}))
	return len(listed), nil
}

// Get returns a product from the cache, falling back to a direct
// backend fetch for products not yet cached.
func (s *Service) Get(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.products.Get(ctx, productID)
	if err == nil {
		return product, nil
	}
	if !errs.Is(err, store.ErrNotFound) {
		return nil, err
	}

	fetched, err := s.backend.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.products.Put(ctx, fetched.ID, fetched); err != nil {
		s.logger.Warn("caching fetched product failed", "product_id", fetched.ID, "error", err)
	}
	return fetched, nil
}

// Product is the non-erroring cache lookup used to enrich cart lines.
func (s *Service) Product(productID string) (*domain.Product, bool) {
	product, err := s.products.Get(context.Background(), productID)
	if err != nil {
		return nil, false
	}
	return product, true
}

// List returns every cached product.
func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

// ListByCategory returns cached products in a category. Matching is
// case-insensitive on the category name.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.products.ListByIndex(ctx, "category", strings.ToLower(strings.TrimSpace(category)))
}

// Search queries the offline index.
func (s *Service) Search(ctx context.Context, params SearchParams) ([]Hit, uint64, error) {
	return s.index.Search(ctx, params)
}

// Description returns a product description rendered as Markdown.
func (s *Service) Description(product *domain.Product) string {
	return htmlToMarkdown(product.DescriptionHTML)
}
