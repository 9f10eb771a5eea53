// Package render writes shopping lists and recipes for people: plain text,
// markdown, terminal markdown and spreadsheets.
package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"cookcart/internal/quantity"
	"cookcart/internal/shopping"
)

// Format names an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatPretty   Format = "pretty"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat validates a format name. An empty name means text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case FormatJSON, FormatText, FormatMarkdown, FormatPretty, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q", name)
	}
}

// Quantities joins an ingredient's quantities for display.
func Quantities(qs []quantity.Quantity) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = q.String()
	}
	return strings.Join(parts, ", ")
}

// Text writes one block per category: the category name followed by
// indented "name: quantities" lines.
func Text(w io.Writer, list shopping.ShoppingList) error {
	bw := bufio.NewWriter(w)
	for i, cat := range list.Categories {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "[%s]\n", cat.Name)
		for _, in := range cat.Ingredients {
			fmt.Fprintf(bw, "  %s: %s\n", in.Name, Quantities(in.Quantities))
		}
	}
	return bw.Flush()
}

// Markdown writes a checklist with one heading per category.
func Markdown(w io.Writer, list shopping.ShoppingList) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Shopping list")
	for _, cat := range list.Categories {
		fmt.Fprintf(bw, "\n## %s\n\n", cat.Name)
		for _, in := range cat.Ingredients {
			fmt.Fprintf(bw, "- [ ] **%s** %s\n", in.Name, Quantities(in.Quantities))
		}
	}
	return bw.Flush()
}

// Pretty renders the markdown form for a terminal. width <= 0 disables wrapping.
func Pretty(w io.Writer, list shopping.ShoppingList, width int) error {
	var sb strings.Builder
	if err := Markdown(&sb, list); err != nil {
		return err
	}
	return pretty(w, sb.String(), width)
}

func pretty(w io.Writer, md string, width int) error {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// Write renders list in format f. width only applies to FormatPretty.
func Write(w io.Writer, f Format, list shopping.ShoppingList, width int) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case FormatMarkdown:
		return Markdown(w, list)
	case FormatPretty:
		return Pretty(w, list, width)
	case FormatXLSX:
		return XLSX(w, list)
	default:
		return Text(w, list)
	}
}

// ContentType returns the HTTP content type for f.
func ContentType(f Format) string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}
