package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Aman-CERP/filescout/internal/query"
)

// ResultsRenderer displays query results.
type ResultsRenderer struct {
	out     io.Writer
	styles  Styles
	noColor bool

	// ShowIcons prefixes each entry with its type glyph.
	ShowIcons bool
}

// NewResultsRenderer creates a results renderer.
func NewResultsRenderer(out io.Writer, noColor bool) *ResultsRenderer {
	return &ResultsRenderer{
		out:       out,
		styles:    GetStyles(noColor),
		noColor:   noColor,
		ShowIcons: !noColor,
	}
}

// Render writes the result list: one entry per line with icon, name
// (highlight terms emphasized), size, and path, followed by a summary.
func (r *ResultsRenderer) Render(res query.Result) error {
	for _, e := range res.Entries {
		line := r.styles.Name.Render(r.highlight(e.Name, res.HighlightTerms))
		if r.ShowIcons && e.Icon != "" {
			line = e.Icon + " " + line
		}
		if e.TypeName == "file" {
			line += "  " + r.styles.Dim.Render(FormatBytes(e.Size))
		}
		line += "  " + r.styles.Path.Render(e.Path)
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d results (%d scanned)", res.Count, res.Scanned)
	if res.Truncated {
		summary += ", truncated"
	}
	if res.Errors > 0 {
		summary += fmt.Sprintf(", %d walk errors", res.Errors)
	}
	_, err := fmt.Fprintln(r.out, r.styles.Label.Render(summary))
	return err
}

// RenderJSON writes the result as indented JSON.
func (r *ResultsRenderer) RenderJSON(res query.Result) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// highlight emphasizes each highlight term's occurrences in name. Terms
// were lowercased at extraction; matching here is case-insensitive.
func (r *ResultsRenderer) highlight(name string, terms []string) string {
	if r.noColor || len(terms) == 0 {
		return name
	}
	lower := strings.ToLower(name)
	var b strings.Builder
	i := 0
	for i < len(name) {
		matched := 0
		for _, term := range terms {
			if term != "" && strings.HasPrefix(lower[i:], term) && len(term) > matched {
				matched = len(term)
			}
		}
		if matched > 0 {
			b.WriteString(r.styles.Match.Render(name[i : i+matched]))
			i += matched
			continue
		}
		b.WriteByte(name[i])
		i++
	}
	return b.String()
}

// FormatBytes renders a byte count in human units.
func FormatBytes(bytes int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
