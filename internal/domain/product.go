package domain

// Product is a catalog entry as served by the backend.
// DescriptionHTML arrives as admin-authored HTML; the catalog service
// derives plain-text and markdown renditions from it.
type Product struct {
	Syncable
	Title           string   `json:"title"`
	DescriptionHTML string   `json:"description,omitempty"`
	Price           float64  `json:"price"`
	Category        string   `json:"category,omitempty"`
	Metals          []string `json:"metals,omitempty"`
	Sizes           []string `json:"sizes,omitempty"`
	Images          []string `json:"images,omitempty"`
	InStock         bool     `json:"inStock"`
	BlurHash        string   `json:"blurHash,omitempty"`
}

// PrimaryImage returns the first image URL, or empty if the product has none.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// CartItem builds a cart line for this product with the chosen variant.
func (p *Product) CartItem(size, metal string) CartItem {
	return CartItem{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Image:     p.PrimaryImage(),
		Size:      size,
		Metal:     metal,
		Quantity:  1,
	}
}
