package quantity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// numberPattern matches a leading amount: a mixed number ("1 1/2"), a
// fraction ("3/4") or a decimal ("1.5", "1,5", ".5").
var numberPattern = regexp.MustCompile(`^(?:(\d+)\s+(\d+)\s*/\s*(\d+)|(\d+)\s*/\s*(\d+)|(\d+(?:[.,]\d+)?|[.,]\d+))`)

// thousandsPattern matches comma grouped thousands ("1,000", "12,500.5").
// A comma followed by exactly three digits is a separator, not a decimal point.
var thousandsPattern = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?`)

var vulgarFractions = map[rune]float64{
	'¼': 0.25, '½': 0.5, '¾': 0.75,
	'⅓': 1.0 / 3, '⅔': 2.0 / 3,
	'⅕': 0.2, '⅖': 0.4, '⅗': 0.6, '⅘': 0.8,
	'⅙': 1.0 / 6, '⅚': 5.0 / 6,
	'⅛': 0.125, '⅜': 0.375, '⅝': 0.625, '⅞': 0.875,
}

// Parse reads a raw quantity expression such as "200 g", "1 1/2 cups",
// "½ tsp" or "to taste". Expressions without a leading number are
// unspecified. For ranges ("2-3 cloves") the upper bound is used.
func Parse(expr string) Quantity {
	s := strings.TrimSpace(expr)
	if s == "" {
		return Unspecified("")
	}
	value, rest, ok := leadingNumber(s)
	if !ok {
		return Unspecified(s)
	}
	rest = strings.TrimSpace(rest)
	if r, size := utf8.DecodeRuneInString(rest); r == '-' || r == '–' {
		if upper, after, ok := leadingNumber(strings.TrimSpace(rest[size:])); ok {
			value, rest = upper, strings.TrimSpace(after)
		}
	}
	return New(value, strings.TrimPrefix(rest, "%"))
}

func leadingNumber(s string) (float64, string, bool) {
	var value float64
	matched := false
	if m := thousandsPattern.FindString(s); m != "" && !startsWithDigit(s[len(m):]) {
		value = atof(strings.ReplaceAll(m, ",", ""))
		s = s[len(m):]
		matched = true
	} else if m := numberPattern.FindStringSubmatch(s); m != nil {
		switch {
		case m[1] != "":
			den := atof(m[3])
			if den == 0 {
				return 0, s, false
			}
			value = atof(m[1]) + atof(m[2])/den
		case m[4] != "":
			den := atof(m[5])
			if den == 0 {
				return 0, s, false
			}
			value = atof(m[4]) / den
		default:
			value = atof(m[6])
		}
		s = s[len(m[0]):]
		matched = true
	}
	trimmed := strings.TrimLeft(s, " ")
	if r, size := utf8.DecodeRuneInString(trimmed); size > 0 {
		if frac, ok := vulgarFractions[r]; ok {
			value += frac
			s = trimmed[size:]
			matched = true
		}
	}
	return value, s, matched
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	return v
}
