package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Quantity
	}{
		{"200 g", New(200, "g")},
		{"200g", New(200, "g")},
		{"1.5kg", New(1.5, "kg")},
		{"1,5 l", New(1.5, "l")},
		{"1,000 g", New(1000, "g")},
		{"12,500.5 ml", New(12500.5, "ml")},
		{"2,000,000", New(2000000, "")},
		{"1,25 kg", New(1.25, "kg")},
		{"1,0005 kg", New(1.0005, "kg")},
		{"3/4 cup", New(0.75, "cup")},
		{"1 1/2 cups", New(1.5, "cups")},
		{"½ tsp", New(0.5, "tsp")},
		{"1½ tbsp", New(1.5, "tbsp")},
		{"2", New(2, "")},
		{"2-3 cloves", New(3, "cloves")},
		{"200%g", New(200, "g")},
		{"to taste", Unspecified("to taste")},
		{"some", Unspecified("some")},
		{"", Unspecified("")},
		{"   ", Unspecified("")},
		{"1/0 cup", Unspecified("1/0 cup")},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := Parse(tc.in)
			assert.Equal(t, tc.want.Unspecified, got.Unspecified)
			assert.Equal(t, tc.want.Unit, got.Unit)
			assert.Equal(t, tc.want.Text, got.Text)
			assert.InDelta(t, tc.want.Value, got.Value, 1e-9)
		})
	}
}
