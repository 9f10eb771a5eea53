package shopping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryNames(l ShoppingList) []string {
	out := make([]string, 0, len(l.Categories))
	for _, c := range l.Categories {
		out = append(out, c.Name)
	}
	return out
}

func TestAssemble_OrdersByFirstAppearance(t *testing.T) {
	items := []CategorizedIngredient{
		{AggregatedIngredient: AggregatedIngredient{Name: "saffron"}, Category: Uncategorized},
		{AggregatedIngredient: AggregatedIngredient{Name: "milk"}, Category: "dairy"},
		{AggregatedIngredient: AggregatedIngredient{Name: "onion"}, Category: "produce"},
		{AggregatedIngredient: AggregatedIngredient{Name: "butter"}, Category: "dairy"},
		{AggregatedIngredient: AggregatedIngredient{Name: "lemon"}, Category: "Produce"},
	}

	list := Assemble(items)

	assert.Equal(t, []string{"dairy", "produce", Uncategorized}, categoryNames(list))
	assert.Equal(t, []string{"milk", "butter"}, names(list.Categories[0].Ingredients))
	assert.Equal(t, []string{"onion", "lemon"}, names(list.Categories[1].Ingredients))
	assert.Equal(t, []string{"saffron"}, names(list.Categories[2].Ingredients))
	assert.Equal(t, 5, list.Len())
}

func TestAssemble_OmitsEmptyUncategorized(t *testing.T) {
	list := Assemble([]CategorizedIngredient{
		{AggregatedIngredient: AggregatedIngredient{Name: "milk"}, Category: "dairy"},
	})
	assert.Equal(t, []string{"dairy"}, categoryNames(list))

	empty := Assemble(nil)
	assert.NotNil(t, empty.Categories)
	assert.Equal(t, 0, empty.Len())
}

func TestBuild(t *testing.T) {
	table := kitchenTable(t)
	m := NewAisleMapping(
		AisleEntry{Pattern: "flour", Category: "baking"},
		AisleEntry{Pattern: "milk", Category: "dairy"},
		AisleEntry{Pattern: "egg", Category: "dairy"},
	)
	list := Build([]RecipeIngredients{
		recipeOf("pancakes", "salt", "1 pinch", "flour", "200 g", "milk", "300 ml", "egg", "2"),
		recipeOf("crepes", "Flour", "1 cup", "egg", "1", "sugar", "to taste"),
	}, table, m)

	assert.Equal(t, []string{"baking", "dairy", Uncategorized}, categoryNames(list))
	baking, ok := list.Find("Baking")
	require.True(t, ok)
	require.Len(t, baking.Ingredients, 1)
	assert.InDelta(t, 440, baking.Ingredients[0].Quantities[0].Value, 1e-9)
	assert.Equal(t, []RecipeID{"pancakes", "crepes"}, baking.Ingredients[0].Sources)

	rest, ok := list.Find(Uncategorized)
	require.True(t, ok)
	assert.Equal(t, []string{"salt", "sugar"}, names(rest.Ingredients))
}

func TestBuild_NoMapping(t *testing.T) {
	list := Build([]RecipeIngredients{
		recipeOf("a", "flour", "200 g", "milk", "1 l"),
	}, kitchenTable(t), nil)

	require.Len(t, list.Categories, 1)
	assert.Equal(t, Uncategorized, list.Categories[0].Name)
	assert.Equal(t, 2, list.Len())
}

func TestShoppingList_JSON(t *testing.T) {
	list := Build([]RecipeIngredients{
		recipeOf("soup", "leek", "2", "salt", "to taste"),
	}, kitchenTable(t), NewAisleMapping(AisleEntry{Pattern: "leek", Category: "produce"}))

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"categories": [
			{"name": "produce", "ingredients": [
				{"name": "leek", "quantities": [{"value": 2, "unit": null}], "sources": ["soup"]}
			]},
			{"name": "uncategorized", "ingredients": [
				{"name": "salt", "quantities": [{"value": null, "unit": null, "text": "to taste"}], "sources": ["soup"]}
			]}
		]
	}`, string(data))

	var decoded ShoppingList
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, list, decoded)
}
