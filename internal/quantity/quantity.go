// Package quantity models ingredient amounts: a numeric value with an
// optional unit, or an unspecified amount such as "some" or "to taste".
package quantity

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrIncompatibleUnits is returned by TryAdd when two quantities cannot be summed.
var ErrIncompatibleUnits = errors.New("incompatible units")

// Converter converts a value between two units. It reports false when either
// unit is unknown or the units belong to different dimensions.
type Converter interface {
	Convert(value float64, from, to string) (float64, bool)
}

// Quantity is an amount of an ingredient.
type Quantity struct {
	Value float64
	// Unit is empty for unitless amounts ("2" eggs).
	Unit string
	// Unspecified marks amounts without a number. Value and Unit are ignored.
	Unspecified bool
	// Text keeps the original wording of an unspecified amount.
	Text string
}

// Unspecified returns an unspecified quantity carrying the given wording.
func Unspecified(text string) Quantity {
	return Quantity{Unspecified: true, Text: strings.TrimSpace(text)}
}

// New returns a numeric quantity.
func New(value float64, unit string) Quantity {
	return Quantity{Value: value, Unit: strings.TrimSpace(unit)}
}

// TryAdd sums a and b. An unspecified operand absorbs the other. Otherwise the
// units must be identical or convertible, and the result is expressed in a's
// unit.
func TryAdd(a, b Quantity, conv Converter) (Quantity, error) {
	if a.Unspecified || b.Unspecified {
		text := a.Text
		if !a.Unspecified || text == "" {
			text = b.Text
		}
		return Unspecified(text), nil
	}
	if strings.EqualFold(a.Unit, b.Unit) {
		return Quantity{Value: a.Value + b.Value, Unit: a.Unit}, nil
	}
	if a.Unit == "" || b.Unit == "" || conv == nil {
		return Quantity{}, ErrIncompatibleUnits
	}
	converted, ok := conv.Convert(b.Value, b.Unit, a.Unit)
	if !ok {
		return Quantity{}, ErrIncompatibleUnits
	}
	return Quantity{Value: a.Value + converted, Unit: a.Unit}, nil
}

// IsCompatible reports whether TryAdd(a, b, conv) would succeed.
func IsCompatible(a, b Quantity, conv Converter) bool {
	_, err := TryAdd(a, b, conv)
	return err == nil
}

// Scale multiplies a numeric quantity by factor.
func Scale(q Quantity, factor float64) Quantity {
	if q.Unspecified {
		return q
	}
	q.Value *= factor
	return q
}

// String formats the quantity for display, rounding to three decimals.
func (q Quantity) String() string {
	if q.Unspecified {
		if q.Text == "" {
			return "some"
		}
		return q.Text
	}
	v := FormatValue(q.Value)
	if q.Unit == "" {
		return v
	}
	return v + " " + q.Unit
}

// FormatValue renders a value with at most three decimals and no trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

type quantityJSON struct {
	Value *float64 `json:"value"`
	Unit  *string  `json:"unit"`
	Text  string   `json:"text,omitempty"`
}

// MarshalJSON encodes the quantity as {"value": ..., "unit": ...}. Unspecified
// quantities have a null value.
func (q Quantity) MarshalJSON() ([]byte, error) {
	var out quantityJSON
	if q.Unspecified {
		out.Text = q.Text
	} else {
		v := q.Value
		out.Value = &v
		if q.Unit != "" {
			u := q.Unit
			out.Unit = &u
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements the json.Unmarshaler interface for Quantity.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var in quantityJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Value == nil {
		*q = Unspecified(in.Text)
		return nil
	}
	*q = Quantity{Value: *in.Value}
	if in.Unit != nil {
		q.Unit = *in.Unit
	}
	return nil
}
