// Package units holds the unit conversion table used to merge quantities
// expressed in different but compatible units.
package units

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default_units.toml
var defaultUnits []byte

// Dimension is a class of mutually convertible units, e.g. mass or volume.
type Dimension string

// Unit is one entry of a dimension. Ratio converts one of this unit into the
// dimension's canonical unit.
type Unit struct {
	Name    string   `toml:"name"`
	Ratio   float64  `toml:"ratio"`
	Aliases []string `toml:"aliases"`
}

// DimensionDef lists the units of one dimension.
type DimensionDef struct {
	Name  string `toml:"name"`
	Units []Unit `toml:"unit"`
}

type document struct {
	Dimensions []DimensionDef `toml:"dimension"`
}

type entry struct {
	dimension Dimension
	ratio     float64
	name      string
}

// Table resolves unit names (case-insensitive, aliases included) to their
// dimension and ratio. A Table is read-only once built.
type Table struct {
	units     map[string]entry
	canonical map[Dimension]string
}

// New builds a table from dimension definitions.
func New(defs []DimensionDef) (*Table, error) {
	t := &Table{
		units:     make(map[string]entry),
		canonical: make(map[Dimension]string),
	}
	for _, d := range defs {
		dim := Dimension(strings.TrimSpace(d.Name))
		if dim == "" {
			return nil, fmt.Errorf("dimension without a name")
		}
		for _, u := range d.Units {
			if u.Ratio <= 0 {
				return nil, fmt.Errorf("unit %q in %s: ratio must be positive", u.Name, dim)
			}
			e := entry{dimension: dim, ratio: u.Ratio, name: strings.TrimSpace(u.Name)}
			for _, name := range append([]string{u.Name}, u.Aliases...) {
				key := normalize(name)
				if key == "" {
					return nil, fmt.Errorf("empty unit name in %s", dim)
				}
				if _, dup := t.units[key]; dup {
					return nil, fmt.Errorf("unit %q defined twice", name)
				}
				t.units[key] = e
			}
			if u.Ratio == 1 {
				if _, ok := t.canonical[dim]; !ok {
					t.canonical[dim] = e.name
				}
			}
		}
	}
	return t, nil
}

// Parse reads a TOML unit table.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode unit table: %w", err)
	}
	return New(doc.Dimensions)
}

// Load reads a TOML unit table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit table: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in metric and US kitchen table.
func Default() *Table {
	t, err := Parse(defaultUnits)
	if err != nil {
		panic(fmt.Errorf("built-in unit table: %w", err))
	}
	return t
}

// Resolve returns the dimension of unit and its ratio to the canonical unit.
func (t *Table) Resolve(unit string) (Dimension, float64, bool) {
	if t == nil {
		return "", 0, false
	}
	e, ok := t.units[normalize(unit)]
	if !ok {
		return "", 0, false
	}
	return e.dimension, e.ratio, true
}

// Convert converts value from one unit to another of the same dimension.
func (t *Table) Convert(value float64, from, to string) (float64, bool) {
	fromDim, fromRatio, ok := t.Resolve(from)
	if !ok {
		return 0, false
	}
	toDim, toRatio, ok := t.Resolve(to)
	if !ok || fromDim != toDim {
		return 0, false
	}
	return value * fromRatio / toRatio, true
}

// Canonical returns the canonical unit name of a dimension.
func (t *Table) Canonical(dim Dimension) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.canonical[dim]
	return name, ok
}

// Len returns the number of resolvable names, aliases included.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.units)
}

func normalize(unit string) string {
	return strings.ToLower(strings.Join(strings.Fields(unit), " "))
}
