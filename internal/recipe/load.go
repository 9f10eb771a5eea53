package recipe

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"cookcart/internal/shopping"
)

// Selection is one recipe picked for the shopping list with its scale.
type Selection struct {
	Path  string  `json:"recipe"`
	Scale float64 `json:"scale,omitempty"`
}

// ParseSelection parses "path" or "path*scale".
func ParseSelection(arg string) (Selection, error) {
	p, scale := arg, 1.0
	if i := strings.LastIndex(arg, "*"); i >= 0 {
		p = arg[:i]
		s, err := strconv.ParseFloat(strings.TrimSpace(arg[i+1:]), 64)
		if err != nil || !ValidScale(s) {
			return Selection{}, fmt.Errorf("invalid scale in %q", arg)
		}
		scale = s
	}
	clean, err := CheckPath(p)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Path: clean, Scale: scale}, nil
}

// ValidScale reports whether v is a finite, positive scale factor.
func ValidScale(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Source fetches recipes by path.
type Source interface {
	Get(ctx context.Context, path string) (*Recipe, error)
}

// LoadSelections fetches the selected recipes concurrently, at most limit at
// a time, and returns their scaled ingredients in selection order. The first
// failure cancels the rest.
func LoadSelections(ctx context.Context, src Source, selections []Selection, limit int) ([]shopping.RecipeIngredients, error) {
	out := make([]shopping.RecipeIngredients, len(selections))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, sel := range selections {
		g.Go(func() error {
			r, err := src.Get(gctx, sel.Path)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", sel.Path, err)
			}
			out[i] = r.Occurrences(shopping.RecipeID(sel.Path), sel.Scale)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
