package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelapp/jewel-client/internal/domain"
)

func testProduct(id, title, category string) *domain.Product {
	return &domain.Product{
		Syncable: domain.Syncable{ID: id},
		Title:    title,
		Category: category,
		Price:    1000,
		InStock:  true,
	}
}

func TestEntity_PutGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := testProduct("prod-1", "Gold Jhumka", "Earrings")
	require.NoError(t, s.Products.Put(ctx, p.ID, p))

	got, err := s.Products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "Gold Jhumka", got.Title)
}

func TestEntity_GetMissing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Products.Get(context.Background(), "prod-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntity_PutOverwrites(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Products.Put(ctx, "prod-1", testProduct("prod-1", "Old Title", "Earrings")))
	require.NoError(t, s.Products.Put(ctx, "prod-1", testProduct("prod-1", "New Title", "Earrings")))

	got, err := s.Products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)

	all, err := s.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEntity_Delete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Products.Put(ctx, "prod-1", testProduct("prod-1", "Gold Jhumka", "Earrings")))
	require.NoError(t, s.Products.Delete(ctx, "prod-1"))
	require.NoError(t, s.Products.Delete(ctx, "prod-1")) // absent is a no-op

	_, err := s.Products.Get(ctx, "prod-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntity_ListByCategoryIndex(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Products.Put(ctx, "prod-1", testProduct("prod-1", "Gold Jhumka", "Earrings")))
	require.NoError(t, s.Products.Put(ctx, "prod-2", testProduct("prod-2", "Silver Stud", "Earrings")))
	require.NoError(t, s.Products.Put(ctx, "prod-3", testProduct("prod-3", "Pearl Necklace", "Necklaces")))

	earrings, err := s.Products.ListByIndex(ctx, "category", "earrings")
	require.NoError(t, err)
	assert.Len(t, earrings, 2)

	necklaces, err := s.Products.ListByIndex(ctx, "category", "necklaces")
	require.NoError(t, err)
	assert.Len(t, necklaces, 1)
}

func TestEntity_IndexFollowsCategoryChange(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Products.Put(ctx, "prod-1", testProduct("prod-1", "Gold Jhumka", "Earrings")))
	require.NoError(t, s.Products.Put(ctx, "prod-1", testProduct("prod-1", "Gold Jhumka", "Bridal")))

	earrings, err := s.Products.ListByIndex(ctx, "category", "earrings")
	require.NoError(t, err)
	assert.Empty(t, earrings)

	bridal, err := s.Products.ListByIndex(ctx, "category", "bridal")
	require.NoError(t, err)
	assert.Len(t, bridal, 1)
}

func TestEntity_ListSkipsIndexEntries(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Products.Put(ctx, "prod-1", testProduct("prod-1", "Gold Jhumka", "Earrings")))

	all, err := s.Products.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "prod-1", all[0].ID)
}
