package domain

// Wishlist is a set of product IDs. The slice representation matches the
// wire and storage formats; all mutations preserve set semantics.
type Wishlist []string

// Add inserts the product if absent. Idempotent.
func (w *Wishlist) Add(productID string) {
	if w.Contains(productID) {
		return
	}
	*w = append(*w, productID)
}

// Remove drops the product. Removing an absent product is a no-op.
func (w *Wishlist) Remove(productID string) {
	kept := (*w)[:0]
	for _, item := range *w {
		if item != productID {
			kept = append(kept, item)
		}
	}
	*w = kept
}

// Contains reports whether the product is in the wishlist.
func (w Wishlist) Contains(productID string) bool {
	for _, item := range w {
		if item == productID {
			return true
		}
	}
	return false
}

// Minus returns the product IDs present locally but missing from other.
// This is the merge-on-login set difference.
func (w Wishlist) Minus(other Wishlist) []string {
	missing := make([]string, 0)
	for _, item := range w {
		if !other.Contains(item) {
			missing = append(missing, item)
		}
	}
	return missing
}
