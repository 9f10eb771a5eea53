package shopping

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookcart/internal/quantity"
	"cookcart/internal/units"
)

func kitchenTable(t *testing.T) *units.Table {
	t.Helper()
	table, err := units.New([]units.DimensionDef{
		{Name: "mass", Units: []units.Unit{{Name: "g", Ratio: 1}, {Name: "kg", Ratio: 1000}, {Name: "cup", Ratio: 240}}},
		{Name: "volume", Units: []units.Unit{{Name: "ml", Ratio: 1}, {Name: "tsp", Ratio: 5}, {Name: "l", Ratio: 1000}}},
	})
	require.NoError(t, err)
	return table
}

func occ(recipe RecipeID, name, expr string) Occurrence {
	return Occurrence{Name: name, Quantity: quantity.Parse(expr), Recipe: recipe}
}

func recipeOf(id RecipeID, pairs ...string) RecipeIngredients {
	r := RecipeIngredients{ID: id}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Occurrences = append(r.Occurrences, occ(id, pairs[i], pairs[i+1]))
	}
	return r
}

func names(items []AggregatedIngredient) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func TestGroupIngredients_MergesRepeatedNames(t *testing.T) {
	table := kitchenTable(t)
	r := recipeOf("pancakes", "Flour", "100 g", "milk", "300 ml", "flour", "50 g", "Eggs", "2", "eggs", "1")

	got := GroupIngredients(r.ID, r.Occurrences, table)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"Flour", "milk", "Eggs"}, names(got))
	assert.Equal(t, []quantity.Quantity{quantity.New(150, "g")}, got[0].Quantities)
	assert.Equal(t, []quantity.Quantity{quantity.New(3, "")}, got[2].Quantities)
	assert.Equal(t, []RecipeID{"pancakes"}, got[0].Sources)
}

func TestGroupIngredients_KeepsIncompatibleGroups(t *testing.T) {
	table := kitchenTable(t)
	r := recipeOf("soup", "parsley", "10 g", "parsley", "1 handful", "parsley", "5 g", "parsley", "2 handful", "parsley", "1 tsp")

	got := GroupIngredients(r.ID, r.Occurrences, table)

	require.Len(t, got, 1)
	assert.Equal(t, []quantity.Quantity{
		quantity.New(15, "g"),
		quantity.New(3, "handful"),
		quantity.New(1, "tsp"),
	}, got[0].Quantities)
}

func TestAggregate_ConvertsCompatibleUnits(t *testing.T) {
	table := kitchenTable(t)
	got := Aggregate([]RecipeIngredients{
		recipeOf("bread", "flour", "200 g"),
		recipeOf("cake", "flour", "1 cup"),
	}, table)

	require.Len(t, got, 1)
	require.Len(t, got[0].Quantities, 1)
	assert.Equal(t, "g", got[0].Quantities[0].Unit)
	assert.InDelta(t, 440, got[0].Quantities[0].Value, 1e-9)
	assert.Equal(t, []RecipeID{"bread", "cake"}, got[0].Sources)
}

func TestAggregate_UnspecifiedAbsorbs(t *testing.T) {
	table := kitchenTable(t)
	got := Aggregate([]RecipeIngredients{
		recipeOf("a", "salt", "to taste"),
		recipeOf("b", "salt", "1 tsp"),
	}, table)

	require.Len(t, got, 1)
	require.Len(t, got[0].Quantities, 1)
	assert.True(t, got[0].Quantities[0].Unspecified)
	assert.Equal(t, "to taste", got[0].Quantities[0].Text)
}

func TestAggregate_UnspecifiedCollapsesEveryGroup(t *testing.T) {
	table := kitchenTable(t)
	got := Aggregate([]RecipeIngredients{
		recipeOf("a", "herbs", "10 g", "herbs", "1 bunch"),
		recipeOf("b", "herbs", "some"),
	}, table)

	require.Len(t, got, 1)
	assert.Equal(t, []quantity.Quantity{quantity.Unspecified("some")}, got[0].Quantities)
}

func TestAggregate_DifferentDimensionsStaySeparate(t *testing.T) {
	table := kitchenTable(t)
	got := Aggregate([]RecipeIngredients{
		recipeOf("a", "butter", "100 g"),
		recipeOf("b", "butter", "2 tsp"),
	}, table)

	require.Len(t, got, 1)
	assert.Equal(t, []quantity.Quantity{quantity.New(100, "g"), quantity.New(2, "tsp")}, got[0].Quantities)
}

func TestAggregate_SameRecipeTwiceDoubles(t *testing.T) {
	table := kitchenTable(t)
	r := recipeOf("stew", "beef", "500 g", "onion", "2", "stock", "1 l", "pepper", "1 pinch")

	once := Aggregate([]RecipeIngredients{r}, table)
	twice := Aggregate([]RecipeIngredients{r, r}, table)

	require.Equal(t, names(once), names(twice))
	for i := range once {
		require.Len(t, twice[i].Quantities, len(once[i].Quantities))
		for j, q := range once[i].Quantities {
			assert.Equal(t, q.Unit, twice[i].Quantities[j].Unit)
			assert.InDelta(t, 2*q.Value, twice[i].Quantities[j].Value, 1e-9)
		}
		assert.Equal(t, []RecipeID{"stew"}, twice[i].Sources)
	}
}

// canonical reduces an aggregation to comparable content: per ingredient, each
// group converted to its dimension's canonical unit.
func canonical(t *testing.T, table *units.Table, items []AggregatedIngredient) map[string][]string {
	t.Helper()
	out := make(map[string][]string)
	for _, item := range items {
		var groups []string
		for _, q := range item.Quantities {
			if dim, _, ok := table.Resolve(q.Unit); ok && !q.Unspecified {
				unit, _ := table.Canonical(dim)
				v, _ := table.Convert(q.Value, q.Unit, unit)
				q = quantity.New(v, unit)
			}
			groups = append(groups, q.String())
		}
		sort.Strings(groups)
		out[normalizeName(item.Name)] = groups
	}
	return out
}

func TestAggregate_OrderIndependentContent(t *testing.T) {
	table := kitchenTable(t)
	a := recipeOf("a", "flour", "200 g", "sugar", "1 cup", "vanilla", "1 pod")
	b := recipeOf("b", "sugar", "50 g", "Flour", "0.5 kg", "milk", "250 ml")
	c := recipeOf("c", "milk", "0.25 l", "vanilla", "2 pod", "lemon", "1")

	forward := Aggregate([]RecipeIngredients{a, b, c}, table)
	backward := Aggregate([]RecipeIngredients{c, b, a}, table)

	assert.Equal(t, canonical(t, table, forward), canonical(t, table, backward))
}

func TestAggregate_PresentationFollowsInputOrder(t *testing.T) {
	table := kitchenTable(t)
	a := recipeOf("a", "flour", "200 g", "sugar", "100 g")
	b := recipeOf("b", "milk", "1 l", "flour", "100 g")

	forward := Aggregate([]RecipeIngredients{a, b}, table)
	backward := Aggregate([]RecipeIngredients{b, a}, table)

	assert.Equal(t, []string{"flour", "sugar", "milk"}, names(forward))
	assert.Equal(t, []string{"milk", "flour", "sugar"}, names(backward))
	assert.Equal(t, []RecipeID{"a", "b"}, forward[0].Sources)
	assert.Equal(t, []RecipeID{"b", "a"}, backward[1].Sources)
}

func TestAggregate_Deterministic(t *testing.T) {
	table := kitchenTable(t)
	input := []RecipeIngredients{
		recipeOf("a", "flour", "200 g", "salt", "to taste", "egg", "2"),
		recipeOf("b", "egg", "1", "flour", "1 cup", "cream", "1 handful"),
	}
	first := Aggregate(input, table)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Aggregate(input, table))
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	table := kitchenTable(t)
	r := recipeOf("a", "flour", "200 g", "flour", "100 g")
	before := append([]Occurrence(nil), r.Occurrences...)

	Aggregate([]RecipeIngredients{r, r}, table)

	assert.Equal(t, before, r.Occurrences)
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
