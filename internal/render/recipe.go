package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cookcart/internal/quantity"
	"cookcart/internal/recipe"
)

// RecipeText writes the title, the grouped ingredients and the numbered steps.
func RecipeText(w io.Writer, s recipe.Scaled) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, s.Recipe.Title)
	if s.Scale != 1 {
		fmt.Fprintf(bw, "(scaled x%s)\n", quantity.FormatValue(s.Scale))
	}
	if len(s.Ingredients) > 0 {
		fmt.Fprintln(bw, "\nIngredients:")
		for _, in := range s.Ingredients {
			fmt.Fprintf(bw, "  %s: %s\n", in.Name, Quantities(in.Quantities))
		}
	}
	if len(s.Recipe.Instructions) > 0 {
		fmt.Fprintln(bw, "\nSteps:")
		for i, step := range s.Recipe.Instructions {
			fmt.Fprintf(bw, "  %d. %s\n", i+1, strings.TrimSpace(step))
		}
	}
	return bw.Flush()
}

// RecipeMarkdown writes the recipe as a markdown document.
func RecipeMarkdown(w io.Writer, s recipe.Scaled) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", s.Recipe.Title)
	if s.Scale != 1 {
		fmt.Fprintf(bw, "\n*Scaled x%s*\n", quantity.FormatValue(s.Scale))
	}
	if len(s.Ingredients) > 0 {
		fmt.Fprint(bw, "\n## Ingredients\n\n")
		for _, in := range s.Ingredients {
			fmt.Fprintf(bw, "- **%s** %s\n", in.Name, Quantities(in.Quantities))
		}
	}
	if len(s.Recipe.Instructions) > 0 {
		fmt.Fprint(bw, "\n## Steps\n\n")
		for i, step := range s.Recipe.Instructions {
			fmt.Fprintf(bw, "%d. %s\n", i+1, strings.TrimSpace(step))
		}
	}
	return bw.Flush()
}

// WriteRecipe renders one scaled recipe in format f. Spreadsheets are only
// produced for shopping lists.
func WriteRecipe(w io.Writer, f Format, s recipe.Scaled, width int) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatMarkdown:
		return RecipeMarkdown(w, s)
	case FormatPretty:
		var sb strings.Builder
		if err := RecipeMarkdown(&sb, s); err != nil {
			return err
		}
		return pretty(w, sb.String(), width)
	case FormatXLSX:
		return fmt.Errorf("format %q is not supported for recipes", f)
	default:
		return RecipeText(w, s)
	}
}
