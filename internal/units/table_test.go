package units

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Resolve(t *testing.T) {
	table := Default()

	dim, ratio, ok := table.Resolve("kg")
	require.True(t, ok)
	assert.Equal(t, Dimension("mass"), dim)
	assert.Equal(t, 1000.0, ratio)

	dim, _, ok = table.Resolve("Tablespoons")
	require.True(t, ok)
	assert.Equal(t, Dimension("volume"), dim)

	dim, _, ok = table.Resolve("fl  oz")
	require.True(t, ok)
	assert.Equal(t, Dimension("volume"), dim)

	_, _, ok = table.Resolve("handful")
	assert.False(t, ok)

	name, ok := table.Canonical("mass")
	require.True(t, ok)
	assert.Equal(t, "g", name)
}

func TestDefault_Convert(t *testing.T) {
	table := Default()

	v, ok := table.Convert(1.5, "kg", "g")
	require.True(t, ok)
	assert.InDelta(t, 1500, v, 1e-9)

	v, ok = table.Convert(3, "tsp", "tbsp")
	require.True(t, ok)
	assert.InDelta(t, 1, v, 1e-9)

	_, ok = table.Convert(1, "g", "ml")
	assert.False(t, ok, "different dimensions")

	_, ok = table.Convert(1, "g", "pinch")
	assert.False(t, ok, "unknown unit")
}

func TestParse(t *testing.T) {
	table, err := Parse([]byte(`
[[dimension]]
name = "mass"
  [[dimension.unit]]
  name = "g"
  ratio = 1
  [[dimension.unit]]
  name = "cup"
  ratio = 240
`))
	require.NoError(t, err)

	v, ok := table.Convert(1, "cup", "g")
	require.True(t, ok)
	assert.Equal(t, 240.0, v)
	assert.Equal(t, 2, table.Len())
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"bad toml":     `[[dimension]`,
		"zero ratio":   "[[dimension]]\nname = \"mass\"\n[[dimension.unit]]\nname = \"g\"\nratio = 0\n",
		"duplicate":    "[[dimension]]\nname = \"mass\"\n[[dimension.unit]]\nname = \"g\"\nratio = 1\n[[dimension.unit]]\nname = \"G\"\nratio = 2\n",
		"unnamed dim":  "[[dimension]]\n[[dimension.unit]]\nname = \"g\"\nratio = 1\n",
		"unnamed unit": "[[dimension]]\nname = \"mass\"\n[[dimension.unit]]\nratio = 1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[dimension]]\nname = \"count\"\n[[dimension.unit]]\nname = \"piece\"\nratio = 1\n"), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	_, _, ok := table.Resolve("piece")
	assert.True(t, ok)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestNilTable(t *testing.T) {
	var table *Table
	_, _, ok := table.Resolve("g")
	assert.False(t, ok)
	_, ok = table.Convert(1, "g", "g")
	assert.False(t, ok)
}
