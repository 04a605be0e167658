package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelapp/jewel-client/internal/domain"
	"github.com/jewelapp/jewel-client/internal/notify"
	"github.com/jewelapp/jewel-client/internal/store"
)

type fakeProductBackend struct {
	products []domain.Product
	err      error
}

func (f *fakeProductBackend) List(_ context.Context) ([]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeProductBackend) Get(_ context.Context, productID string) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].ID == productID {
			return &f.products[i], nil
		}
	}
	return nil, errors.New("no such product")
}

type nopEmitter struct{}

func (nopEmitter) Emit(_ notify.Event) {}

func backendProduct(id, title, category, descriptionHTML string, price float64) domain.Product {
	return domain.Product{
		Syncable:        domain.Syncable{ID: id},
		Title:           title,
		Category:        category,
		DescriptionHTML: descriptionHTML,
		Price:           price,
		InStock:         true,
	}
}

func setupTestCatalog(t *testing.T, backend *fakeProductBackend) *Service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := store.Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	index, err := NewSearchIndex(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	return NewService(db.Products, backend, index, nopEmitter{}, logger)
}

func TestRefresh_CachesAndIndexes(t *testing.T) {
	backend := &fakeProductBackend{products: []domain.Product{
		backendProduct("prod-1", "Gold Jhumka", "Earrings", "<p>Handmade <b>gold</b> jhumka</p>", 2500),
		backendProduct("prod-2", "Silver Anklet", "Anklets", "", 900),
	}}
	svc := setupTestCatalog(t, backend)
	ctx := context.Background()

	count, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, total, err := svc.Search(ctx, SearchParams{Query: "jhumka"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, hits, 1)
	assert.Equal(t, "prod-1", hits[0].ProductID)
	assert.Equal(t, "Gold Jhumka", hits[0].Title)
}

func TestRefresh_DropsStaleProducts(t *testing.T) {
	backend := &fakeProductBackend{products: []domain.Product{
		backendProduct("prod-1", "Gold Jhumka", "Earrings", "", 2500),
		backendProduct("prod-2", "Silver Anklet", "Anklets", "", 900),
	}}
	svc := setupTestCatalog(t, backend)
	ctx := context.Background()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	// prod-2 disappears from the listing.
	backend.products = backend.products[:1]
	_, err = svc.Refresh(ctx)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "prod-1", all[0].ID)

	_, total, err := svc.Search(ctx, SearchParams{Query: "anklet"})
	require.NoError(t, err)
	assert.Zero(t, total, "stale product removed from the index")
}

func TestRefresh_BackendFailure(t *testing.T) {
	backend := &fakeProductBackend{err: errors.New("backend down")}
	svc := setupTestCatalog(t, backend)

	_, err := svc.Refresh(context.Background())

	assert.Error(t, err)
}

func TestGet_FallsBackToBackendWhenNotCached(t *testing.T) {
	backend := &fakeProductBackend{products: []domain.Product{
		backendProduct("prod-1", "Gold Jhumka", "Earrings", "", 2500),
	}}
	svc := setupTestCatalog(t, backend)
	ctx := context.Background()

	product, err := svc.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "Gold Jhumka", product.Title)

	// Now cached: a dead backend no longer matters.
	backend.err = errors.New("backend down")
	product, err = svc.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "Gold Jhumka", product.Title)
}

func TestProduct_NonErroringLookup(t *testing.T) {
	backend := &fakeProductBackend{products: []domain.Product{
		backendProduct("prod-1", "Gold Jhumka", "Earrings", "", 2500),
	}}
	svc := setupTestCatalog(t, backend)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	product, ok := svc.Product("prod-1")
	require.True(t, ok)
	assert.Equal(t, "Gold Jhumka", product.Title)

	_, ok = svc.Product("prod-404")
	assert.False(t, ok)
}

func TestListByCategory(t *testing.T) {
	backend := &fakeProductBackend{products: []domain.Product{
		backendProduct("prod-1", "Gold Jhumka", "Earrings", "", 2500),
		backendProduct("prod-2", "Silver Stud", "Earrings", "", 700),
		backendProduct("prod-3", "Pearl Necklace", "Necklaces", "", 4000),
	}}
	svc := setupTestCatalog(t, backend)
	ctx := context.Background()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	earrings, err := svc.ListByCategory(ctx, "Earrings")
	require.NoError(t, err)
	assert.Len(t, earrings, 2)

	// Case-insensitive match.
	earrings, err = svc.ListByCategory(ctx, "  earrings ")
	require.NoError(t, err)
	assert.Len(t, earrings, 2)
}

func TestSearch_CategoryAndPriceFilters(t *testing.T) {
	backend := &fakeProductBackend{products: []domain.Product{
		backendProduct("prod-1", "Gold Jhumka", "Earrings", "", 2500),
		backendProduct("prod-2", "Gold Stud", "Earrings", "", 700),
		backendProduct("prod-3", "Gold Necklace", "Necklaces", "", 4000),
	}}
	svc := setupTestCatalog(t, backend)
	ctx := context.Background()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	hits, _, err := svc.Search(ctx, SearchParams{Query: "gold", Category: "Earrings"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, hit := range hits {
		assert.Equal(t, "earrings", hit.Category)
	}

	hits, _, err = svc.Search(ctx, SearchParams{Query: "gold", MinPrice: 1000})
	require.NoError(t, err)
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ProductID)
	}
	assert.ElementsMatch(t, []string{"prod-1", "prod-3"}, ids)
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	backend := &fakeProductBackend{products: []domain.Product{
		backendProduct("prod-1", "Gold Jhumka", "Earrings", "", 2500),
		backendProduct("prod-2", "Silver Anklet", "Anklets", "", 900),
	}}
	svc := setupTestCatalog(t, backend)
	ctx := context.Background()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	_, total, err := svc.Search(ctx, SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
}

func TestDescription_RendersMarkdown(t *testing.T) {
	svc := setupTestCatalog(t, &fakeProductBackend{})

	product := backendProduct("prod-1", "Gold Jhumka", "Earrings", "<p>Handmade <strong>gold</strong></p>", 2500)
	assert.Contains(t, svc.Description(&product), "**gold**")
}
