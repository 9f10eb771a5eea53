package recipe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when no recipe file exists at a path.
	ErrNotFound = errors.New("recipe not found")
	// ErrInvalidPath is returned for paths that escape the base directory.
	ErrInvalidPath = errors.New("invalid recipe path")
)

// Extensions lists the recipe file extensions, in lookup order.
var Extensions = []string{".yaml", ".yml"}

// Entry describes one recipe file in the catalog.
type Entry struct {
	Name string `json:"name"`
	// Path is slash separated and relative to the base directory, without extension.
	Path string `json:"path"`
}

// Catalog reads recipes from a directory tree.
type Catalog struct {
	BaseDir string
	// Skip names top-level directories that never hold recipes.
	Skip []string
}

// NewCatalog creates a new Catalog rooted at baseDir.
func NewCatalog(baseDir string, skip ...string) *Catalog {
	return &Catalog{BaseDir: baseDir, Skip: skip}
}

// CheckPath validates a slash separated recipe path relative to the base
// directory and returns its cleaned form.
func CheckPath(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	clean := path.Clean("/" + p)[1:]
	if clean == "" || clean != p {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	for _, part := range strings.Split(clean, "/") {
		if part == ".." || strings.HasPrefix(part, ".") {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	return clean, nil
}

// IsRecipeFile reports whether name has a recipe extension.
func IsRecipeFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// List returns every recipe under the base directory, sorted by path.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(c.BaseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, err := filepath.Rel(c.BaseDir, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && (strings.HasPrefix(d.Name(), ".") || c.skipped(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !IsRecipeFile(d.Name()) {
			return nil
		}
		rel = filepath.ToSlash(rel)
		trimmed := strings.TrimSuffix(rel, path.Ext(rel))
		entries = append(entries, Entry{Name: path.Base(trimmed), Path: trimmed})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (c *Catalog) skipped(rel string) bool {
	for _, s := range c.Skip {
		if filepath.ToSlash(rel) == s {
			return true
		}
	}
	return false
}

// Search returns recipes whose path, title, tags or ingredient names contain
// every whitespace separated term of query, case-insensitively. Files that
// fail to decode are matched on their path only.
func (c *Catalog) Search(ctx context.Context, query string) ([]Entry, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	terms := strings.Fields(strings.ToLower(query))
	out := make([]Entry, 0)
	for _, e := range all {
		hay := []string{e.Path}
		if r, err := c.Get(ctx, e.Path); err == nil {
			hay = append(hay, r.searchText()...)
		} else if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if containsAll(strings.ToLower(strings.Join(hay, "\n")), terms) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *Recipe) searchText() []string {
	out := append([]string{r.Title}, r.Tags...)
	for _, in := range r.Ingredients {
		out = append(out, in.Name)
	}
	return out
}

func containsAll(hay string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}

// Resolve returns the file backing a recipe path. The extension is optional.
func (c *Catalog) Resolve(p string) (string, error) {
	clean, err := CheckPath(p)
	if err != nil {
		return "", err
	}
	base := filepath.Join(c.BaseDir, filepath.FromSlash(clean))
	candidates := []string{}
	if IsRecipeFile(clean) {
		candidates = append(candidates, base)
	}
	for _, ext := range Extensions {
		candidates = append(candidates, base+ext)
	}
	for _, f := range candidates {
		if info, err := os.Stat(f); err == nil && info.Mode().IsRegular() {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, clean)
}

// Get reads and decodes the recipe at p.
func (c *Catalog) Get(ctx context.Context, p string) (*Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := c.Resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe %s: %w", p, err)
	}
	return Decode(data)
}

// Decode parses a YAML recipe document.
func Decode(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	r.normalize()
	return &r, nil
}

// Encode renders a recipe as a YAML document.
func Encode(r *Recipe) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recipe: %w", err)
	}
	return data, nil
}
