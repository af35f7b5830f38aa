package query

import "strings"

// DeriveHighlightTerms walks an expression and collects the literal
// substrings worth emphasizing in rendered results: a lowercased,
// deduplicated list in first-appearance order.
//
// Extension, tag, and content filters contribute their literal values;
// file, folder, and type-macro filters contribute their optional name
// argument; scope filters contribute only the final path component. Type,
// size, and date filters carry nothing highlightable. Free-text terms are
// split on wildcard characters into non-empty literal chunks, so an
// all-wildcard term yields nothing.
func DeriveHighlightTerms(e Expr) []string {
	c := &termCollector{seen: make(map[string]struct{})}
	c.walk(e)
	return c.terms
}

type termCollector struct {
	terms []string
	seen  map[string]struct{}
}

func (c *termCollector) add(term string) {
	term = strings.ToLower(term)
	if term == "" {
		return
	}
	if _, dup := c.seen[term]; dup {
		return
	}
	c.seen[term] = struct{}{}
	c.terms = append(c.terms, term)
}

func (c *termCollector) addLiteralChunks(term string) {
	for _, chunk := range strings.FieldsFunc(term, func(r rune) bool {
		return r == '*' || r == '?'
	}) {
		c.add(chunk)
	}
}

func (c *termCollector) walk(e Expr) {
	switch n := e.(type) {
	case *Term:
		c.addLiteralChunks(n.Text)
	case *Not:
		c.walk(n.X)
	case *And:
		for _, x := range n.Xs {
			c.walk(x)
		}
	case *Or:
		for _, x := range n.Xs {
			c.walk(x)
		}
	case *Filter:
		switch n.Kind {
		case FilterExt, FilterContent:
			c.add(n.Value)
		case FilterTag:
			for _, tag := range n.Tags {
				c.add(tag)
			}
		case FilterFile, FilterFolder, FilterTypeMacro:
			c.addLiteralChunks(n.Value)
		case FilterParent, FilterInFolder, FilterNoSubfolders:
			c.add(finalPathComponent(n.Value))
		}
	}
}

func finalPathComponent(p string) string {
	p = strings.Trim(p, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
