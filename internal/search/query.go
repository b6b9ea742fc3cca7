// Package search parses the search_for query language and matches file-system
// entries against it.
//
//	report               name contains "report" (case-insensitive)
//	*.go, name:a?c.*     doublestar glob against the name
//	ext:go               extension .go
//	size:>1MB            larger than one megabyte (go-humanize units)
//	modified:>2024-01-01 modified after the date; also today, yesterday, week, month, year
//	contents:TODO        file contents contain "TODO"
//	depth:2              descend at most two levels
//
// Values may be quoted to include spaces: name:"annual report".
package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Kind is what a term filters on.
type Kind int

const (
	KindName Kind = iota
	KindContents
	KindExt
	KindSize
	KindModified
	KindDepth
)

var kindByPrefix = map[string]Kind{
	"name": KindName, "filename": KindName, "file": KindName,
	"contents": KindContents, "content": KindContents, "text": KindContents,
	"ext": KindExt, "extension": KindExt, "type": KindExt,
	"size":     KindSize,
	"modified": KindModified, "date": KindModified, "mtime": KindModified,
	"depth": KindDepth, "recursive": KindDepth, "r": KindDepth,
}

// Cmp is the comparison used by size and modified terms.
type Cmp int

const (
	CmpEq Cmp = iota
	CmpGt
	CmpLt
	CmpGe
	CmpLe
)

// cmpPrefixes is ordered so that two-character operators win.
var cmpPrefixes = []struct {
	s   string
	cmp Cmp
}{
	{">=", CmpGe}, {"<=", CmpLe}, {">", CmpGt}, {"<", CmpLt}, {"=", CmpEq},
}

// Term is one parsed query element.
type Term struct {
	Kind  Kind
	Text  string // lower-cased pattern, extension with its dot, or contents needle
	Cmp   Cmp
	Bytes int64     // size terms
	Since time.Time // modified terms; zero matches everything
	Depth int       // depth terms
}

// Query is a parsed search string. Terms are ANDed.
type Query struct {
	Raw   string
	Terms []Term
}

// Parse parses input relative to the current time.
func Parse(input string) *Query {
	return ParseAt(input, time.Now())
}

// ParseAt parses input; relative dates are resolved against now.
func ParseAt(input string, now time.Time) *Query {
	q := &Query{Raw: input}
	for _, tok := range tokenize(input) {
		q.Terms = append(q.Terms, parseTerm(tok, now))
	}
	return q
}

// tokenize splits on spaces outside single or double quotes and drops the
// quotes themselves.
func tokenize(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case quote == 0 && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func parseTerm(tok string, now time.Time) Term {
	prefix, value, found := strings.Cut(tok, ":")
	kind, known := kindByPrefix[strings.ToLower(prefix)]
	if !found || prefix == "" || !known {
		// "foo:bar" with an unknown prefix is a literal name
		return Term{Kind: KindName, Text: strings.ToLower(tok)}
	}

	t := Term{Kind: kind}
	switch kind {
	case KindName, KindContents:
		t.Text = strings.ToLower(value)
	case KindExt:
		t.Text = "." + strings.TrimPrefix(strings.ToLower(value), ".")
	case KindSize:
		var rest string
		t.Cmp, rest = splitCmp(value)
		if n, err := humanize.ParseBytes(rest); err == nil {
			t.Bytes = int64(n)
		}
	case KindModified:
		var rest string
		t.Cmp, rest = splitCmp(value)
		t.Since = parseDate(rest, now)
	case KindDepth:
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			t.Depth = n
		}
	}
	return t
}

func splitCmp(s string) (Cmp, string) {
	s = strings.TrimSpace(s)
	for _, p := range cmpPrefixes {
		if strings.HasPrefix(s, p.s) {
			return p.cmp, strings.TrimSpace(s[len(p.s):])
		}
	}
	return CmpEq, s
}

var dateLayouts = []string{"2006-01-02", "2006-01", "2006/01/02", "01/02/2006"}

// parseDate returns the zero time for anything it does not understand.
func parseDate(s string, now time.Time) time.Time {
	startOfDay := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
	switch s = strings.ToLower(s); s {
	case "today":
		return startOfDay(now)
	case "yesterday":
		return startOfDay(now.AddDate(0, 0, -1))
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t
		}
	}
	return time.Time{}
}

// IsEmpty reports whether the query filters nothing. A query of only depth
// terms is empty.
func (q *Query) IsEmpty() bool {
	for _, t := range q.Terms {
		if t.Kind != KindDepth {
			return false
		}
	}
	return true
}

// Depth returns the walk depth set by the last depth term, or def.
// Depth 1 means direct children only.
func (q *Query) Depth(def int) int {
	d := def
	for _, t := range q.Terms {
		if t.Kind == KindDepth && t.Depth > 0 {
			d = t.Depth
		}
	}
	return d
}

// NeedsContents reports whether matching reads file contents.
func (q *Query) NeedsContents() bool {
	for _, t := range q.Terms {
		if t.Kind == KindContents {
			return true
		}
	}
	return false
}
