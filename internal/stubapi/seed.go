package stubapi

import (
	"context"
	"fmt"

	"github.com/jewelapp/jewel-client/internal/domain"
)

// Seed loads a small sample catalog so a fresh development backend has
// something to browse. Products are keyed by stable IDs; reseeding an
// existing database just overwrites them.
func (s *Store) Seed(ctx context.Context) error {
	samples := []domain.Product{
		{
			Syncable:        domain.Syncable{ID: "prod_gold_jhumka"},
			Title:           "Classic Gold Jhumka",
			DescriptionHTML: "<p>Traditional <b>jhumka</b> earrings in 22k gold with intricate filigree work.</p>",
			Price:           24999,
			Category:        "Earrings",
			Metals:          []string{"gold"},
			Sizes:           []string{"small", "medium"},
			Images:          []string{"https://img.example.com/jhumka.jpg"},
			InStock:         true,
		},
		{
			Syncable:        domain.Syncable{ID: "prod_silver_anklet"},
			Title:           "Oxidised Silver Anklet",
			DescriptionHTML: "<p>Handcrafted oxidised silver anklet with ghungroo bells.</p>",
			Price:           1899,
			Category:        "Anklets",
			Metals:          []string{"silver"},
			Sizes:           []string{"free"},
			Images:          []string{"https://img.example.com/anklet.jpg"},
			InStock:         true,
		},
		{
			Syncable:        domain.Syncable{ID: "prod_diamond_ring"},
			Title:           "Solitaire Diamond Ring",
			DescriptionHTML: "<p>0.5 carat solitaire in an 18k white gold band.</p><ul><li>IGI certified</li><li>VS clarity</li></ul>",
			Price:           89999,
			Category:        "Rings",
			Metals:          []string{"white-gold", "rose-gold"},
			Sizes:           []string{"6", "7", "8", "9"},
			Images:          []string{"https://img.example.com/solitaire.jpg"},
			InStock:         true,
		},
		{
			Syncable:        domain.Syncable{ID: "prod_pearl_necklace"},
			Title:           "Freshwater Pearl Necklace",
			DescriptionHTML: "Elegant single-strand freshwater pearl necklace, 18 inch.",
			Price:           5499,
			Category:        "Necklaces",
			Metals:          []string{"silver"},
			Sizes:           []string{"free"},
			Images:          []string{"https://img.example.com/pearls.jpg"},
			InStock:         false,
		},
		{
			Syncable:        domain.Syncable{ID: "prod_nose_pin"},
			Title:           "Minimal Gold Nose Pin",
			DescriptionHTML: "<p>Tiny flower stud nose pin in 14k gold.</p>",
			Price:           2299,
			Category:        "Nose Pins",
			Metals:          []string{"gold"},
			Sizes:           []string{"free"},
			Images:          []string{"https://img.example.com/nosepin.jpg"},
			InStock:         true,
		},
	}

	for i := range samples {
		if err := s.UpsertProduct(ctx, &samples[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", samples[i].ID, err)
		}
	}
	if s.logger != nil {
		s.logger.Info("seeded sample catalog", "products", len(samples))
	}
	return nil
}
