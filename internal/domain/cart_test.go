package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartAdd_NewLine(t *testing.T) {
	var cart Cart

	cart.Add(CartItem{ProductID: "prod-1", Size: "M", Metal: "gold", Quantity: 2})

	assert.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestCartAdd_SameVariantIncrements(t *testing.T) {
	var cart Cart
	cart.Add(CartItem{ProductID: "prod-1", Size: "M", Metal: "gold", Quantity: 1})

	cart.Add(CartItem{ProductID: "prod-1", Size: "M", Metal: "gold", Quantity: 3})

	assert.Len(t, cart, 1)
	assert.Equal(t, 4, cart[0].Quantity)
}

func TestCartAdd_DifferentVariantIsSeparateLine(t *testing.T) {
	var cart Cart
	cart.Add(CartItem{ProductID: "prod-1", Size: "M", Metal: "gold", Quantity: 1})

	// Same product, different size and metal
	cart.Add(CartItem{ProductID: "prod-1", Size: "L", Metal: "gold", Quantity: 1})
	cart.Add(CartItem{ProductID: "prod-1", Size: "M", Metal: "silver", Quantity: 1})

	assert.Len(t, cart, 3)
}

func TestCartAdd_ZeroQuantityBecomesOne(t *testing.T) {
	var cart Cart

	cart.Add(CartItem{ProductID: "prod-1", Quantity: 0})
	cart.Add(CartItem{ProductID: "prod-2", Quantity: -5})

	assert.Equal(t, 1, cart[0].Quantity)
	assert.Equal(t, 1, cart[1].Quantity)
}

func TestCartRemove_DropsAllVariantsOfProduct(t *testing.T) {
	var cart Cart
	cart.Add(CartItem{ProductID: "prod-1", Size: "M"})
	cart.Add(CartItem{ProductID: "prod-1", Size: "L"})
	cart.Add(CartItem{ProductID: "prod-2"})

	cart.Remove("prod-1")

	assert.Len(t, cart, 1)
	assert.Equal(t, "prod-2", cart[0].ProductID)
}

func TestCartRemove_AbsentProductIsNoop(t *testing.T) {
	var cart Cart
	cart.Add(CartItem{ProductID: "prod-1"})

	cart.Remove("prod-99")

	assert.Len(t, cart, 1)
}

func TestCartTotals(t *testing.T) {
	var cart Cart
	cart.Add(CartItem{ProductID: "prod-1", Price: 100, Quantity: 2})
	cart.Add(CartItem{ProductID: "prod-2", Price: 50, Quantity: 1})

	assert.Equal(t, 3, cart.TotalQuantity())
	assert.InDelta(t, 250.0, cart.Subtotal(), 0.001)
}

func TestCartProductIDs_Distinct(t *testing.T) {
	var cart Cart
	cart.Add(CartItem{ProductID: "prod-1", Size: "M"})
	cart.Add(CartItem{ProductID: "prod-1", Size: "L"})
	cart.Add(CartItem{ProductID: "prod-2"})

	ids := cart.ProductIDs()

	assert.ElementsMatch(t, []string{"prod-1", "prod-2"}, ids)
}
