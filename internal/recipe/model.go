package recipe

import (
	"bytes"
	"encoding/json"
	"strings"

	"cookcart/internal/quantity"
	"cookcart/internal/shopping"
)

// Recipe represents a recipe file.
type Recipe struct {
	Title        string       `json:"title" yaml:"title"`
	Cuisine      string       `json:"cuisine,omitempty" yaml:"cuisine"`
	Servings     int          `json:"servings,omitempty" yaml:"servings"`
	CookingTime  string       `json:"cooking_time,omitempty" yaml:"cooking_time"`
	Image        string       `json:"image,omitempty" yaml:"image"`
	Tags         []string     `json:"tags,omitempty" yaml:"tags"`
	Ingredients  []Ingredient `json:"ingredients" yaml:"ingredients"`
	Instructions []string     `json:"instructions" yaml:"instructions"`
}

// Ingredient is one ingredient line with its raw quantity expression.
type Ingredient struct {
	Name     string `json:"name" yaml:"name"`
	Quantity string `json:"quantity,omitempty" yaml:"quantity"`
	Note     string `json:"note,omitempty" yaml:"note"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Recipe.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type Alias Recipe // Create an alias to avoid infinite recursion
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.normalize()
	return nil
}

// normalize lowercases the cuisine and tags so searches match regardless of case.
func (r *Recipe) normalize() {
	r.Cuisine = strings.ToLower(strings.TrimSpace(r.Cuisine))
	for i, tag := range r.Tags {
		r.Tags[i] = strings.ToLower(strings.TrimSpace(tag))
	}
}

// UnmarshalJSON accepts the quantity as a string or a bare number.
func (in *Ingredient) UnmarshalJSON(data []byte) error {
	aux := struct {
		Name     string          `json:"name"`
		Quantity json.RawMessage `json:"quantity"`
		Note     string          `json:"note"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	in.Name, in.Note = aux.Name, aux.Note
	in.Quantity = ""

	raw := bytes.TrimSpace(aux.Quantity)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '"':
		if err := json.Unmarshal(raw, &in.Quantity); err != nil {
			return err
		}
	default:
		in.Quantity = string(raw)
	}
	return nil
}

// Occurrences returns the recipe's ingredients with quantities parsed and
// multiplied by scale. A scale of zero or less counts as 1. Ingredients
// without a name are skipped.
func (r *Recipe) Occurrences(id shopping.RecipeID, scale float64) shopping.RecipeIngredients {
	if scale <= 0 {
		scale = 1
	}
	out := shopping.RecipeIngredients{ID: id, Occurrences: make([]shopping.Occurrence, 0, len(r.Ingredients))}
	for _, in := range r.Ingredients {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		out.Occurrences = append(out.Occurrences, shopping.Occurrence{
			Name:     name,
			Quantity: quantity.Scale(quantity.Parse(in.Quantity), scale),
			Recipe:   id,
		})
	}
	return out
}
