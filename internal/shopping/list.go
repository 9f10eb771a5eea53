package shopping

import (
	"strings"

	"cookcart/internal/quantity"
)

// Category is one aisle of the shopping list.
type Category struct {
	Name        string                 `json:"name"`
	Ingredients []AggregatedIngredient `json:"ingredients"`
}

// ShoppingList is the consolidated list, ordered for presentation.
type ShoppingList struct {
	Categories []Category `json:"categories"`
}

// Assemble orders categories by the first appearance of their first
// ingredient and keeps ingredients in aggregation order. The Uncategorized
// category always comes last and is left out when empty.
func Assemble(items []CategorizedIngredient) ShoppingList {
	list := ShoppingList{Categories: []Category{}}
	index := make(map[string]int)
	var leftovers []AggregatedIngredient
	for _, item := range items {
		if item.Category == Uncategorized {
			leftovers = append(leftovers, item.AggregatedIngredient)
			continue
		}
		key := strings.ToLower(item.Category)
		i, ok := index[key]
		if !ok {
			i = len(list.Categories)
			index[key] = i
			list.Categories = append(list.Categories, Category{Name: item.Category})
		}
		list.Categories[i].Ingredients = append(list.Categories[i].Ingredients, item.AggregatedIngredient)
	}
	if len(leftovers) > 0 {
		list.Categories = append(list.Categories, Category{Name: Uncategorized, Ingredients: leftovers})
	}
	return list
}

// Build runs the whole pipeline: aggregate the recipes, categorize the result
// with m (which may be nil) and assemble the list.
func Build(recipes []RecipeIngredients, conv quantity.Converter, m *AisleMapping) ShoppingList {
	return Assemble(Categorize(Aggregate(recipes, conv), m))
}

// Len returns the number of ingredients across all categories.
func (l ShoppingList) Len() int {
	n := 0
	for _, c := range l.Categories {
		n += len(c.Ingredients)
	}
	return n
}

// Find returns the named category, matched case-insensitively.
func (l ShoppingList) Find(name string) (Category, bool) {
	for _, c := range l.Categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Category{}, false
}
