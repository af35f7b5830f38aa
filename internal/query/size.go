package query

import (
	"math"
	"strconv"
	"strings"

	fserrors "github.com/Aman-CERP/filescout/internal/errors"
)

// SizePredicate is a byte-size range with optional negation. Bounds are
// inclusive; maxBytes < 0 means unbounded above. Sizes are integers, so the
// half-open keyword buckets collapse to inclusive integer bounds.
type SizePredicate struct {
	minBytes int64
	maxBytes int64
	negate   bool
}

// Matches reports whether size satisfies the predicate.
func (p SizePredicate) Matches(size int64) bool {
	in := size >= p.minBytes && (p.maxBytes < 0 || size <= p.maxBytes)
	if p.negate {
		return !in
	}
	return in
}

// sizeKeywords are the named buckets. Upper bounds are inclusive; the
// lower bound of each bucket is one byte above the previous bucket's cap.
var sizeKeywords = map[string]SizePredicate{
	"empty":    {minBytes: 0, maxBytes: 0},
	"tiny":     {minBytes: 1, maxBytes: 10 << 10},
	"small":    {minBytes: 10<<10 + 1, maxBytes: 100 << 10},
	"medium":   {minBytes: 100<<10 + 1, maxBytes: 1 << 20},
	"large":    {minBytes: 1<<20 + 1, maxBytes: 16 << 20},
	"huge":     {minBytes: 16<<20 + 1, maxBytes: 128 << 20},
	"gigantic": {minBytes: 128<<20 + 1, maxBytes: -1},
	"giant":    {minBytes: 128<<20 + 1, maxBytes: -1},
}

// sizeUnits maps unit suffixes to their byte multiplier. Units are powers
// of 1024, case-insensitive.
var sizeUnits = map[string]int64{
	"":          1,
	"b":         1,
	"byte":      1,
	"bytes":     1,
	"k":         1 << 10,
	"kb":        1 << 10,
	"kib":       1 << 10,
	"kilobyte":  1 << 10,
	"kilobytes": 1 << 10,
	"m":         1 << 20,
	"mb":        1 << 20,
	"mib":       1 << 20,
	"megabyte":  1 << 20,
	"megabytes": 1 << 20,
	"g":         1 << 30,
	"gb":        1 << 30,
	"gib":       1 << 30,
	"gigabyte":  1 << 30,
	"gigabytes": 1 << 30,
	"t":         1 << 40,
	"tb":        1 << 40,
	"tib":       1 << 40,
	"terabyte":  1 << 40,
	"terabytes": 1 << 40,
	"p":         1 << 50,
	"pb":        1 << 50,
	"pib":       1 << 50,
	"petabyte":  1 << 50,
	"petabytes": 1 << 50,
}

// ParseSizePredicate parses a size expression:
//
//	<cmp><n><unit>   cmp in  <  <=  >  >=  =  !=
//	<a>..<b>         range, either side optional
//	<n><unit>        bare literal, implicit =
//	keyword          empty tiny small medium large huge gigantic giant
//
// A comparison operator paired with a keyword, an inverted range, an
// unparsable number, an unknown unit, and an empty value are all
// validation errors.
func ParseSizePredicate(s string) (SizePredicate, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SizePredicate{}, fserrors.QueryError(fserrors.ErrCodeInvalidSize, "empty size value")
	}

	cmp, rest := splitCmp(s)
	if _, isKeyword := sizeKeywords[rest]; isKeyword && cmp != "" {
		return SizePredicate{}, fserrors.QueryError(fserrors.ErrCodeInvalidSize,
			"size keyword %q cannot be combined with operator %q", rest, cmp)
	}
	if p, ok := sizeKeywords[s]; ok {
		return p, nil
	}

	if cmp == "" && strings.Contains(s, "..") {
		return parseSizeRange(s)
	}

	n, err := parseBytes(rest)
	if err != nil {
		return SizePredicate{}, err
	}

	switch cmp {
	case "", "=":
		return SizePredicate{minBytes: n, maxBytes: n}, nil
	case "!=":
		return SizePredicate{minBytes: n, maxBytes: n, negate: true}, nil
	case "<":
		if n == 0 {
			// Nothing is smaller than zero bytes.
			return SizePredicate{minBytes: 1, maxBytes: 0}, nil
		}
		return SizePredicate{minBytes: 0, maxBytes: n - 1}, nil
	case "<=":
		return SizePredicate{minBytes: 0, maxBytes: n}, nil
	case ">":
		return SizePredicate{minBytes: n + 1, maxBytes: -1}, nil
	case ">=":
		return SizePredicate{minBytes: n, maxBytes: -1}, nil
	default:
		return SizePredicate{}, fserrors.QueryError(fserrors.ErrCodeInvalidSize,
			"unknown size operator %q", cmp)
	}
}

// splitCmp peels a leading comparison operator off s. Two-character
// operators are checked first.
func splitCmp(s string) (cmp, rest string) {
	for _, op := range []string{"<=", ">=", "!=", "<", ">", "="} {
		if strings.HasPrefix(s, op) {
			return op, s[len(op):]
		}
	}
	return "", s
}

// parseSizeRange parses "<a>..<b>" with either side optional.
func parseSizeRange(s string) (SizePredicate, error) {
	lo, hi, _ := strings.Cut(s, "..")

	p := SizePredicate{minBytes: 0, maxBytes: -1}
	if lo != "" {
		n, err := parseBytes(lo)
		if err != nil {
			return SizePredicate{}, err
		}
		p.minBytes = n
	}
	if hi != "" {
		n, err := parseBytes(hi)
		if err != nil {
			return SizePredicate{}, err
		}
		p.maxBytes = n
	}
	if p.maxBytes >= 0 && p.minBytes > p.maxBytes {
		return SizePredicate{}, fserrors.QueryError(fserrors.ErrCodeInvalidSize,
			"inverted size range %q", s)
	}
	return p, nil
}

// parseBytes parses "<n><unit>". Fractional literals round to the nearest
// byte.
func parseBytes(s string) (int64, error) {
	if s == "" {
		return 0, fserrors.QueryError(fserrors.ErrCodeInvalidSize, "empty size value")
	}

	split := len(s)
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			split = i
			break
		}
	}
	numPart, unitPart := s[:split], s[split:]
	if numPart == "" {
		return 0, fserrors.QueryError(fserrors.ErrCodeInvalidSize, "missing number in %q", s)
	}

	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fserrors.QueryError(fserrors.ErrCodeInvalidSize, "unparsable size number %q", numPart)
	}

	mult, ok := sizeUnits[unitPart]
	if !ok {
		return 0, fserrors.QueryError(fserrors.ErrCodeInvalidSize, "unknown size unit %q", unitPart)
	}
	return int64(math.Round(n * float64(mult))), nil
}
