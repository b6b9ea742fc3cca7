package search

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// maxContentSize bounds the files a contents term will read.
const maxContentSize = 10 << 20

// Matcher evaluates entries against a query.
type Matcher struct {
	query *Query
	ctx   context.Context
	read  func(path string) ([]byte, error)
}

func NewMatcher(q *Query) *Matcher {
	return NewMatcherWithContext(context.Background(), q)
}

// NewMatcherWithContext returns a Matcher that stops reading contents once
// ctx is done.
func NewMatcherWithContext(ctx context.Context, q *Query) *Matcher {
	return &Matcher{query: q, ctx: ctx, read: os.ReadFile}
}

// Match reports whether the entry satisfies every term.
func (m *Matcher) Match(path string, info fs.FileInfo) bool {
	for _, t := range m.query.Terms {
		if !m.matchTerm(t, path, info) {
			return false
		}
	}
	return true
}

func (m *Matcher) matchTerm(t Term, path string, info fs.FileInfo) bool {
	switch t.Kind {
	case KindName:
		return MatchName(info.Name(), t.Text)
	case KindExt:
		return !info.IsDir() && strings.EqualFold(filepath.Ext(info.Name()), t.Text)
	case KindSize:
		return !info.IsDir() && cmpInt(info.Size(), t.Bytes, t.Cmp)
	case KindModified:
		return t.Since.IsZero() || cmpTime(info.ModTime(), t.Since, t.Cmp)
	case KindContents:
		return m.contains(path, info, t.Text)
	}
	return true
}

func (m *Matcher) contains(path string, info fs.FileInfo, needle string) bool {
	if info.IsDir() || info.Size() > maxContentSize || m.ctx.Err() != nil {
		return false
	}
	data, err := m.read(path)
	if err != nil {
		return false
	}
	return bytes.Contains(bytes.ToLower(data), []byte(needle))
}

// MatchName compares name case-insensitively against pattern: a doublestar
// glob when pattern has metacharacters, a substring test otherwise.
func MatchName(name, pattern string) bool {
	name, pattern = strings.ToLower(name), strings.ToLower(pattern)
	if !strings.ContainsAny(pattern, "*?[{") {
		return strings.Contains(name, pattern)
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

func cmpInt(v, target int64, c Cmp) bool {
	switch c {
	case CmpGt:
		return v > target
	case CmpLt:
		return v < target
	case CmpGe:
		return v >= target
	case CmpLe:
		return v <= target
	}
	return v == target
}

// cmpTime treats equality as the same calendar day.
func cmpTime(v, target time.Time, c Cmp) bool {
	switch c {
	case CmpGt:
		return v.After(target)
	case CmpLt:
		return v.Before(target)
	case CmpGe:
		return !v.Before(target)
	case CmpLe:
		return !v.After(target)
	}
	vy, vm, vd := v.Date()
	ty, tm, td := target.In(v.Location()).Date()
	return vy == ty && vm == tm && vd == td
}
