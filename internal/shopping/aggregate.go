// Package shopping merges ingredient quantities from one or more scaled
// recipes and sorts the result into store-aisle categories.
//
// Everything in this package is a pure function of its inputs: no I/O, no
// state kept between calls. Ingredient names are expected to be non-empty;
// the recipe layer filters blank names before they reach this package.
package shopping

import (
	"strings"

	"cookcart/internal/quantity"
)

// RecipeID identifies the recipe an ingredient came from.
type RecipeID string

// Occurrence is one mention of an ingredient in a scaled recipe.
type Occurrence struct {
	Name     string
	Quantity quantity.Quantity
	Recipe   RecipeID
}

// RecipeIngredients is the ordered ingredient list of one scaled recipe.
type RecipeIngredients struct {
	ID          RecipeID
	Occurrences []Occurrence
}

// AggregatedIngredient is an ingredient with its quantities merged. Each
// entry of Quantities is incompatible with every other entry.
type AggregatedIngredient struct {
	Name       string              `json:"name"`
	Quantities []quantity.Quantity `json:"quantities"`
	Sources    []RecipeID          `json:"sources"`
}

// GroupIngredients merges repeated ingredients of a single recipe. Names are
// matched case-insensitively; the first spelling seen is kept. The result is
// in order of first appearance.
func GroupIngredients(id RecipeID, occurrences []Occurrence, conv quantity.Converter) []AggregatedIngredient {
	acc := newAccumulator(conv)
	for _, o := range occurrences {
		acc.add(o.Name, []quantity.Quantity{o.Quantity}, id)
	}
	return acc.items
}

// Aggregate groups every recipe and merges the groups across recipes, in the
// order the recipes are given. Sources lists each contributing recipe once.
func Aggregate(recipes []RecipeIngredients, conv quantity.Converter) []AggregatedIngredient {
	acc := newAccumulator(conv)
	for _, r := range recipes {
		for _, item := range GroupIngredients(r.ID, r.Occurrences, conv) {
			acc.add(item.Name, item.Quantities, item.Sources...)
		}
	}
	return acc.items
}

type accumulator struct {
	conv  quantity.Converter
	index map[string]int
	items []AggregatedIngredient
}

func newAccumulator(conv quantity.Converter) *accumulator {
	return &accumulator{
		conv:  conv,
		index: make(map[string]int),
		items: []AggregatedIngredient{},
	}
}

func (a *accumulator) add(name string, quantities []quantity.Quantity, sources ...RecipeID) {
	key := normalizeName(name)
	i, ok := a.index[key]
	if !ok {
		i = len(a.items)
		a.index[key] = i
		a.items = append(a.items, AggregatedIngredient{
			Name:       strings.TrimSpace(name),
			Quantities: []quantity.Quantity{},
			Sources:    []RecipeID{},
		})
	}
	item := &a.items[i]
	for _, q := range quantities {
		item.Quantities = merge(item.Quantities, q, a.conv)
	}
	for _, src := range sources {
		item.Sources = appendSource(item.Sources, src)
	}
}

// merge adds q to the first compatible group or appends it as a new group.
// An unspecified sum absorbs every other group, so the entry collapses to it.
func merge(groups []quantity.Quantity, q quantity.Quantity, conv quantity.Converter) []quantity.Quantity {
	for i, g := range groups {
		sum, err := quantity.TryAdd(g, q, conv)
		if err != nil {
			continue
		}
		if sum.Unspecified {
			return []quantity.Quantity{sum}
		}
		groups[i] = sum
		return groups
	}
	return append(groups, q)
}

func appendSource(sources []RecipeID, id RecipeID) []RecipeID {
	for _, s := range sources {
		if s == id {
			return sources
		}
	}
	return append(sources, id)
}
