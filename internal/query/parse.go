package query

import (
	"strings"

	fserrors "github.com/Aman-CERP/filescout/internal/errors"
)

// typeMacros are the recognized extension-category keys. Each may appear
// bare (image:) or with a name argument (image:vacation).
var typeMacros = map[string]struct{}{
	"image":   {},
	"video":   {},
	"audio":   {},
	"doc":     {},
	"archive": {},
	"code":    {},
}

// Parse turns a query string into an unoptimized expression tree.
//
// The grammar is free text plus key:value filters, combined with implicit
// AND, explicit AND/OR/NOT (case-insensitive), a leading '-' for
// negation, and parentheses for grouping. Double quotes protect spaces
// and operator words inside a token. An empty query parses to nil.
func Parse(query string) (Expr, error) {
	toks, err := tokenizeQuery(query)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, nil
	}

	p := &parser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fserrors.QueryError(fserrors.ErrCodeUnbalancedQuery,
			"unexpected %q", p.peek().text)
	}
	return e, nil
}

type tokKind int

const (
	tokWord tokKind = iota
	tokQuoted
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
}

func tokenizeQuery(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		switch c := s[i]; {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		default:
			word, quoted, rest, err := scanWord(s[i:])
			if err != nil {
				return nil, err
			}
			kind := tokWord
			if quoted {
				kind = tokQuoted
			}
			toks = append(toks, token{kind: kind, text: word})
			i = len(s) - len(rest)
		}
	}
	return toks, nil
}

// scanWord consumes one token, honoring double quotes both as a full
// token ("two words") and embedded after a filter key (content:"a b").
func scanWord(s string) (word string, quoted bool, rest string, err error) {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' || c == '(' || c == ')' {
			break
		}
		if c == '"' {
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				return "", false, "", fserrors.QueryError(fserrors.ErrCodeUnbalancedQuery,
					"unterminated quote")
			}
			b.WriteString(s[i+1 : i+1+end])
			if i == 0 {
				quoted = true
			}
			i += end + 2
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), quoted, s[i:], nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) done() bool     { return p.pos >= len(p.toks) }
func (p *parser) peek() token    { return p.toks[p.pos] }
func (p *parser) advance() token { t := p.toks[p.pos]; p.pos++; return t }

func (p *parser) isKeyword(kw string) bool {
	if p.done() {
		return false
	}
	t := p.peek()
	return t.kind == tokWord && strings.EqualFold(t.text, kw)
}

// parseOr = parseAnd ("OR" parseAnd)*
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	xs := []Expr{left}
	for p.isKeyword("or") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		xs = append(xs, right)
	}
	if len(xs) == 1 {
		return left, nil
	}
	return &Or{Xs: xs}, nil
}

// parseAnd = parseUnary (["AND"] parseUnary)*
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	xs := []Expr{left}
	for !p.done() && p.peek().kind != tokRParen && !p.isKeyword("or") {
		if p.isKeyword("and") {
			p.advance()
			if p.done() || p.peek().kind == tokRParen {
				return nil, fserrors.QueryError(fserrors.ErrCodeUnbalancedQuery,
					"dangling AND")
			}
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		xs = append(xs, right)
	}
	if len(xs) == 1 {
		return left, nil
	}
	return &And{Xs: xs}, nil
}

// parseUnary = "NOT" parseUnary | "-"token | "(" parseOr ")" | leaf
func (p *parser) parseUnary() (Expr, error) {
	if p.done() {
		return nil, fserrors.QueryError(fserrors.ErrCodeInvalidQuery, "empty expression")
	}

	if p.isKeyword("not") {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	}

	t := p.advance()
	switch t.kind {
	case tokLParen:
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.done() || p.peek().kind != tokRParen {
			return nil, fserrors.QueryError(fserrors.ErrCodeUnbalancedQuery,
				"missing closing parenthesis")
		}
		p.advance()
		return x, nil
	case tokRParen:
		return nil, fserrors.QueryError(fserrors.ErrCodeUnbalancedQuery,
			"unexpected closing parenthesis")
	case tokWord:
		if strings.HasPrefix(t.text, "-") && len(t.text) > 1 {
			x, err := p.parseLeaf(t.text[1:])
			if err != nil {
				return nil, err
			}
			return &Not{X: x}, nil
		}
		return p.parseLeaf(t.text)
	default:
		return &Term{Text: t.text}, nil
	}
}

// parseLeaf turns one word into a term or a typed filter.
func (p *parser) parseLeaf(word string) (Expr, error) {
	key, value, ok := strings.Cut(word, ":")
	if !ok {
		return &Term{Text: word}, nil
	}

	key = strings.ToLower(key)
	switch key {
	case "ext", "extension":
		return &Filter{Kind: FilterExt, Value: strings.ToLower(strings.TrimPrefix(value, "."))}, nil
	case "type":
		switch strings.ToLower(value) {
		case "file", "folder", "symlink":
			return &Filter{Kind: FilterType, Value: strings.ToLower(value)}, nil
		}
		if _, isMacro := typeMacros[strings.ToLower(value)]; isMacro {
			return &Filter{Kind: FilterTypeMacro, Macro: strings.ToLower(value)}, nil
		}
		return nil, fserrors.QueryError(fserrors.ErrCodeUnknownType,
			"unknown type %q", value)
	case "file":
		return &Filter{Kind: FilterFile, Value: value}, nil
	case "folder":
		return &Filter{Kind: FilterFolder, Value: value}, nil
	case "parent":
		return &Filter{Kind: FilterParent, Value: value}, nil
	case "infolder":
		return &Filter{Kind: FilterInFolder, Value: value}, nil
	case "nosubfolders":
		return &Filter{Kind: FilterNoSubfolders, Value: value}, nil
	case "content":
		return &Filter{Kind: FilterContent, Value: value}, nil
	case "tag":
		var tags []string
		for _, tag := range strings.Split(value, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		return &Filter{Kind: FilterTag, Tags: tags}, nil
	case "size":
		pred, err := ParseSizePredicate(value)
		if err != nil {
			return nil, err
		}
		return &Filter{Kind: FilterSize, Size: pred}, nil
	case "modified", "dm", "datemodified":
		pred, err := ParseDatePredicate(value)
		if err != nil {
			return nil, err
		}
		return &Filter{Kind: FilterDateModified, Date: pred}, nil
	case "created", "dc", "datecreated":
		pred, err := ParseDatePredicate(value)
		if err != nil {
			return nil, err
		}
		return &Filter{Kind: FilterDateCreated, Date: pred}, nil
	}

	if _, isMacro := typeMacros[key]; isMacro {
		return &Filter{Kind: FilterTypeMacro, Macro: key, Value: value}, nil
	}

	return nil, fserrors.QueryError(fserrors.ErrCodeUnknownFilter,
		"unknown filter %q", key).WithSuggestion(suggestFilter(key))
}

var filterKeys = []string{
	"ext", "type", "file", "folder", "parent", "infolder", "nosubfolders",
	"content", "tag", "size", "modified", "created",
}

func suggestFilter(key string) string {
	for _, known := range filterKeys {
		if strings.HasPrefix(known, key) || strings.HasPrefix(key, known) {
			return "did you mean " + known + ":?"
		}
	}
	return ""
}
