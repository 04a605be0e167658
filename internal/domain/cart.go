package domain

// CartItem is a single cart line. A line is unique per
// (productID, size, metal) triple; the same product in a different size or
// metal is a separate line.
type CartItem struct {
	ProductID string  `json:"id"`
	Title     string  `json:"title,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size"`
	Metal     string  `json:"metal"`
	Quantity  int     `json:"quantity"`
}

// SameVariant reports whether two lines refer to the same product variant.
func (i CartItem) SameVariant(other CartItem) bool {
	return i.ProductID == other.ProductID && i.Size == other.Size && i.Metal == other.Metal
}

// Cart is the locally held shopping cart. Order is not meaningful.
type Cart []CartItem

// Add merges the item into the cart: an exact variant match increments the
// existing line's quantity, anything else appends a new line.
func (c *Cart) Add(item CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for idx := range *c {
		if (*c)[idx].SameVariant(item) {
			(*c)[idx].Quantity += item.Quantity
			return
		}
	}
	*c = append(*c, item)
}

// Remove drops every line for the given product, matching the backend's
// remove semantics which are keyed by productID alone.
// Removing an absent product is a no-op.
func (c *Cart) Remove(productID string) {
	kept := (*c)[:0]
	for _, item := range *c {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	*c = kept
}

// Contains reports whether any line holds the given product.
func (c Cart) Contains(productID string) bool {
	for _, item := range c {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// TotalQuantity is the badge count: the sum of all line quantities.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

// Subtotal is the sum of price*quantity across lines.
func (c Cart) Subtotal() float64 {
	total := 0.0
	for _, item := range c {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ProductIDs returns the distinct product IDs in the cart.
func (c Cart) ProductIDs() []string {
	seen := make(map[string]bool, len(c))
	ids := make([]string, 0, len(c))
	for _, item := range c {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}
