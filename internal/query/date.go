package query

import (
	"strings"
	"time"

	fserrors "github.com/Aman-CERP/filescout/internal/errors"
)

// DatePredicate is a time range with optional negation. Zero times mean
// unbounded on that side. The upper bound is exclusive, so a bare day
// literal covers [day 00:00, next day 00:00).
type DatePredicate struct {
	from   time.Time
	until  time.Time
	negate bool
}

// Matches reports whether ts satisfies the predicate.
func (p DatePredicate) Matches(ts time.Time) bool {
	in := true
	if !p.from.IsZero() && ts.Before(p.from) {
		in = false
	}
	if !p.until.IsZero() && !ts.Before(p.until) {
		in = false
	}
	if p.negate {
		return !in
	}
	return in
}

// ParseDatePredicate parses a date expression, mirroring the size grammar
// over dates:
//
//	<cmp><date>      cmp in  <  <=  >  >=  =  !=
//	<a>..<b>         range, either side optional
//	<date>           bare literal, covers that whole day
//	keyword          today yesterday thisweek thismonth thisyear
//
// Dates parse as 2006-01-02 or RFC3339. A comparison operator paired with
// a keyword is an error, as are inverted ranges and unparsable dates.
func ParseDatePredicate(s string) (DatePredicate, error) {
	return parseDatePredicateAt(s, time.Now())
}

// parseDatePredicateAt is the clock-injectable implementation.
func parseDatePredicateAt(s string, now time.Time) (DatePredicate, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DatePredicate{}, fserrors.QueryError(fserrors.ErrCodeInvalidDate, "empty date value")
	}

	cmp, rest := splitCmp(s)
	if isDateKeyword(rest) && cmp != "" {
		return DatePredicate{}, fserrors.QueryError(fserrors.ErrCodeInvalidDate,
			"date keyword %q cannot be combined with operator %q", rest, cmp)
	}
	if from, until, ok := dateKeywordRange(s, now); ok {
		return DatePredicate{from: from, until: until}, nil
	}

	if cmp == "" && strings.Contains(s, "..") {
		return parseDateRange(s)
	}

	from, until, err := parseDayOrInstant(rest)
	if err != nil {
		return DatePredicate{}, err
	}

	switch cmp {
	case "", "=":
		return DatePredicate{from: from, until: until}, nil
	case "!=":
		return DatePredicate{from: from, until: until, negate: true}, nil
	case "<":
		return DatePredicate{until: from}, nil
	case "<=":
		return DatePredicate{until: until}, nil
	case ">":
		return DatePredicate{from: until}, nil
	case ">=":
		return DatePredicate{from: from}, nil
	default:
		return DatePredicate{}, fserrors.QueryError(fserrors.ErrCodeInvalidDate,
			"unknown date operator %q", cmp)
	}
}

func isDateKeyword(s string) bool {
	switch s {
	case "today", "yesterday", "thisweek", "thismonth", "thisyear":
		return true
	}
	return false
}

// dateKeywordRange resolves a keyword to its [from, until) range relative
// to now.
func dateKeywordRange(s string, now time.Time) (from, until time.Time, ok bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch s {
	case "today":
		return midnight, midnight.AddDate(0, 0, 1), true
	case "yesterday":
		return midnight.AddDate(0, 0, -1), midnight, true
	case "thisweek":
		// Week starts Monday.
		offset := (int(now.Weekday()) + 6) % 7
		start := midnight.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), true
	case "thismonth":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), true
	case "thisyear":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0), true
	}
	return time.Time{}, time.Time{}, false
}

// parseDateRange parses "<a>..<b>" with either side optional. The upper
// literal's whole day is included.
func parseDateRange(s string) (DatePredicate, error) {
	lo, hi, _ := strings.Cut(s, "..")

	var p DatePredicate
	if lo != "" {
		from, _, err := parseDayOrInstant(lo)
		if err != nil {
			return DatePredicate{}, err
		}
		p.from = from
	}
	if hi != "" {
		_, until, err := parseDayOrInstant(hi)
		if err != nil {
			return DatePredicate{}, err
		}
		p.until = until
	}
	if !p.from.IsZero() && !p.until.IsZero() && !p.from.Before(p.until) {
		return DatePredicate{}, fserrors.QueryError(fserrors.ErrCodeInvalidDate,
			"inverted date range %q", s)
	}
	return p, nil
}

// parseDayOrInstant parses one date literal and returns the instant range
// it denotes: a day literal spans the whole day, an RFC3339 timestamp
// spans a single second.
func parseDayOrInstant(s string) (from, until time.Time, err error) {
	if day, perr := time.ParseInLocation("2006-01-02", s, time.Local); perr == nil {
		return day, day.AddDate(0, 0, 1), nil
	}
	// Query text is lowercased upstream; RFC3339 wants its T and Z back.
	if ts, perr := time.Parse(time.RFC3339, strings.ToUpper(s)); perr == nil {
		return ts, ts.Add(time.Second), nil
	}
	return time.Time{}, time.Time{}, fserrors.QueryError(fserrors.ErrCodeInvalidDate,
		"unparsable date %q", s)
}
