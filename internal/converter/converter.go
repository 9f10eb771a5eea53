// Package converter holds what the LLM backed recipe converters share: the
// prompt and the extraction of a recipe from a model reply.
package converter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cookcart/internal/recipe"
)

// ErrNoRecipe is returned when a reply holds no usable recipe.
var ErrNoRecipe = errors.New("no recipe in model response")

// Converter turns free recipe text into a structured recipe.
type Converter interface {
	ConvertRecipe(ctx context.Context, text string) (*recipe.Recipe, error)
}

// Prompt builds the instruction sent to the model for text.
func Prompt(text string) string {
	return "Convert the recipe below into a single, clean JSON object with the following keys and data types: " +
		"'title' (string), 'cuisine' (string), 'servings' (number), 'cooking_time' (string), 'tags' (array of strings), " +
		"'ingredients' (array of objects with 'name', 'quantity' and optional 'note'; 'quantity' is a string such as '200 g' or '1 1/2 cups', empty when the recipe gives none), " +
		"and 'instructions' (array of strings). Keep ingredient names short and singular where natural. " +
		"The JSON response should be clean and not contain any markdown formatting (e.g., ```json).\n\n" + text
}

// ExtractRecipe finds the outermost JSON object in reply and decodes it.
// The reply may be wrapped in markdown or surrounded by prose.
func ExtractRecipe(reply string) (*recipe.Recipe, error) {
	startIndex := strings.Index(reply, "{")
	endIndex := strings.LastIndex(reply, "}")
	if startIndex == -1 || endIndex == -1 || startIndex > endIndex {
		return nil, fmt.Errorf("%w: could not find JSON object in response", ErrNoRecipe)
	}
	cleanJSON := reply[startIndex : endIndex+1]

	var r recipe.Recipe
	if err := json.Unmarshal([]byte(cleanJSON), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	if strings.TrimSpace(r.Title) == "" && len(r.Ingredients) == 0 {
		return nil, ErrNoRecipe
	}
	return &r, nil
}
