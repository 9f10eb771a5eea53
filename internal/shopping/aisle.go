package shopping

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Uncategorized is the reserved category for ingredients no pattern matches.
const Uncategorized = "uncategorized"

var (
	// ErrMappingUnavailable is returned when the aisle file cannot be used.
	// Callers fall back to an uncategorized list.
	ErrMappingUnavailable = errors.New("aisle mapping unavailable")
	// ErrMalformedMapping is returned by ParseAisle for invalid input.
	ErrMalformedMapping = errors.New("malformed aisle mapping")
)

// AisleEntry maps an ingredient name pattern to a category.
type AisleEntry struct {
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
}

// AisleMapping is an ordered list of patterns. The first matching entry wins.
type AisleMapping struct {
	entries []AisleEntry
}

// NewAisleMapping returns a mapping with the given entries, in order.
func NewAisleMapping(entries ...AisleEntry) *AisleMapping {
	m := &AisleMapping{}
	for _, e := range entries {
		m.add(e.Pattern, e.Category)
	}
	return m
}

func (m *AisleMapping) add(pattern, category string) {
	pattern = normalizeName(pattern)
	category = strings.TrimSpace(category)
	if pattern == "" || category == "" {
		return
	}
	m.entries = append(m.entries, AisleEntry{Pattern: pattern, Category: category})
}

// Entries returns a copy of the mapping entries in file order.
func (m *AisleMapping) Entries() []AisleEntry {
	if m == nil {
		return nil
	}
	return append([]AisleEntry(nil), m.entries...)
}

// Len returns the number of patterns.
func (m *AisleMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Match returns the category of the first entry matching name. A pattern
// matches when it equals the name, or when the name starts with the pattern
// and the next character is neither a letter nor a digit: "egg" matches
// "egg yolk" and "egg-white" but not "eggplant" or "eggs".
func (m *AisleMapping) Match(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	n := normalizeName(name)
	for _, e := range m.entries {
		if matchesPattern(n, e.Pattern) {
			return e.Category, true
		}
	}
	return "", false
}

func matchesPattern(name, pattern string) bool {
	if !strings.HasPrefix(name, pattern) {
		return false
	}
	if len(name) == len(pattern) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(name[len(pattern):])
	return !unicode.IsLetter(next) && !unicode.IsDigit(next)
}

// ParseAisle reads an aisle file: a "[category]" header starts a section and
// each following line holds one pattern, or several separated by "|". Blank
// lines and "#" comments are ignored.
func ParseAisle(r io.Reader) (*AisleMapping, error) {
	m := &AisleMapping{}
	category := ""
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, fmt.Errorf("%w: line %d: unterminated category header", ErrMalformedMapping, lineNo)
			}
			category = strings.TrimSpace(line[1 : len(line)-1])
			if category == "" {
				return nil, fmt.Errorf("%w: line %d: empty category name", ErrMalformedMapping, lineNo)
			}
			continue
		}
		if category == "" {
			return nil, fmt.Errorf("%w: line %d: pattern outside of a category", ErrMalformedMapping, lineNo)
		}
		for _, pattern := range strings.Split(line, "|") {
			m.add(pattern, category)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMapping, err)
	}
	return m, nil
}

// LoadAisle reads and parses the aisle file at path. Any failure is reported
// as ErrMappingUnavailable.
func LoadAisle(path string) (*AisleMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMappingUnavailable, err)
	}
	defer f.Close()

	m, err := ParseAisle(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMappingUnavailable, path, err)
	}
	return m, nil
}

// CategorizedIngredient is an aggregated ingredient with its category.
type CategorizedIngredient struct {
	AggregatedIngredient
	Category string
}

// Categorize assigns a category to every item. With a nil or empty mapping
// every item is Uncategorized.
func Categorize(items []AggregatedIngredient, m *AisleMapping) []CategorizedIngredient {
	out := make([]CategorizedIngredient, 0, len(items))
	for _, item := range items {
		category, ok := m.Match(item.Name)
		if !ok || strings.EqualFold(category, Uncategorized) {
			category = Uncategorized
		}
		out = append(out, CategorizedIngredient{AggregatedIngredient: item, Category: category})
	}
	return out
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
