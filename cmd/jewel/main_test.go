package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelapp/jewel-client/internal/domain"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestPrintProducts(t *testing.T) {
	products := []*domain.Product{
		{Syncable: domain.Syncable{ID: "prod-1"}, Title: "Classic Gold Jhumka", Category: "earrings", Price: 2500, InStock: true},
		{Syncable: domain.Syncable{ID: "prod-2"}, Title: "Freshwater Pearl Necklace", Category: "necklaces", Price: 4200},
	}

	out := captureStdout(t, func() { printProducts(products) })

	assert.Contains(t, out, "prod-1")
	assert.Contains(t, out, "Classic Gold Jhumka")
	assert.Contains(t, out, "out of stock")
	assert.Contains(t, out, "2 products")
}

func TestPrintProducts_Empty(t *testing.T) {
	out := captureStdout(t, func() { printProducts(nil) })

	assert.Contains(t, out, "catalog refresh")
}

func TestPrintCart(t *testing.T) {
	cart := domain.Cart{
		{ProductID: "prod-1", Title: "Classic Gold Jhumka", Size: "M", Metal: "gold", Quantity: 2, Price: 2500},
	}

	out := captureStdout(t, func() { printCart(cart, domain.SyncDiverged) })

	assert.Contains(t, out, "M/gold")
	assert.Contains(t, out, "x2")
	assert.Contains(t, out, "diverged")
}
