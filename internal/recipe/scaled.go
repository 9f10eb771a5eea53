package recipe

import (
	"path"

	"cookcart/internal/quantity"
	"cookcart/internal/shopping"
)

// Scaled is a recipe with its ingredients grouped and multiplied by Scale.
type Scaled struct {
	Recipe      *Recipe                         `json:"recipe"`
	Scale       float64                         `json:"scale"`
	Ingredients []shopping.AggregatedIngredient `json:"ingredients"`
	// Image is the recipe image path relative to the recipe directory.
	Image string `json:"image,omitempty"`
}

// NewScaled groups the ingredients of r, found at path p, at the given
// scale. A scale of zero or less counts as 1.
func NewScaled(p string, r *Recipe, scale float64, conv quantity.Converter) Scaled {
	if scale <= 0 {
		scale = 1
	}
	id := shopping.RecipeID(p)
	s := Scaled{
		Recipe:      r,
		Scale:       scale,
		Ingredients: shopping.GroupIngredients(id, r.Occurrences(id, scale).Occurrences, conv),
	}
	if r.Image != "" {
		s.Image = path.Join(path.Dir(p), r.Image)
	}
	return s
}
