package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookcart/internal/quantity"
	"cookcart/internal/recipe"
	"cookcart/internal/shopping"
)

func sampleRecipe() recipe.Scaled {
	return recipe.Scaled{
		Recipe: &recipe.Recipe{Title: "Bread", Instructions: []string{"Mix.", " Bake. "}},
		Scale:  2,
		Ingredients: []shopping.AggregatedIngredient{
			{Name: "flour", Quantities: []quantity.Quantity{quantity.New(800, "g")}, Sources: []shopping.RecipeID{"bread"}},
			{Name: "salt", Quantities: []quantity.Quantity{quantity.Unspecified("")}, Sources: []shopping.RecipeID{"bread"}},
		},
	}
}

func TestRecipeText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RecipeText(&buf, sampleRecipe()))
	assert.Equal(t, `Bread
(scaled x2)

Ingredients:
  flour: 800 g
  salt: some

Steps:
  1. Mix.
  2. Bake.
`, buf.String())
}

func TestRecipeMarkdown(t *testing.T) {
	s := sampleRecipe()
	s.Scale = 1
	var buf bytes.Buffer
	require.NoError(t, RecipeMarkdown(&buf, s))
	assert.Equal(t, `# Bread

## Ingredients

- **flour** 800 g
- **salt** some

## Steps

1. Mix.
2. Bake.
`, buf.String())
}

func TestWriteRecipe(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecipe(&buf, FormatJSON, sampleRecipe(), 0))
	var back map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, 2.0, back["scale"])
	assert.Len(t, back["ingredients"], 2)

	buf.Reset()
	require.NoError(t, WriteRecipe(&buf, FormatPretty, sampleRecipe(), 60))
	assert.Contains(t, buf.String(), "flour")

	assert.Error(t, WriteRecipe(&buf, FormatXLSX, sampleRecipe(), 0))
}
