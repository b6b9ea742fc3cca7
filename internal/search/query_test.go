package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  a   b ", []string{"a", "b"}},
		{`name:"annual report" ext:pdf`, []string{"name:annual report", "ext:pdf"}},
		{`contents:'it is' x`, []string{"contents:it is", "x"}},
		{"a\tb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.in), "tokenize(%q)", tt.in)
	}
}

func TestParseTerms(t *testing.T) {
	tests := []struct {
		in   string
		want Term
	}{
		{"Report", Term{Kind: KindName, Text: "report"}},
		{"name:*.GO", Term{Kind: KindName, Text: "*.go"}},
		{"ext:.PDF", Term{Kind: KindExt, Text: ".pdf"}},
		{"type:md", Term{Kind: KindExt, Text: ".md"}},
		{"contents:TODO", Term{Kind: KindContents, Text: "todo"}},
		{"size:>1MB", Term{Kind: KindSize, Cmp: CmpGt, Bytes: 1000000}},
		{"size:<=2KiB", Term{Kind: KindSize, Cmp: CmpLe, Bytes: 2048}},
		{"size:512", Term{Kind: KindSize, Cmp: CmpEq, Bytes: 512}},
		{"depth:3", Term{Kind: KindDepth, Depth: 3}},
		{"r:0", Term{Kind: KindDepth}},
		{"foo:bar", Term{Kind: KindName, Text: "foo:bar"}},
		{":x", Term{Kind: KindName, Text: ":x"}},
	}
	for _, tt := range tests {
		q := ParseAt(tt.in, refNow)
		require.Len(t, q.Terms, 1, tt.in)
		assert.Equal(t, tt.want, q.Terms[0], tt.in)
	}
}

func TestParseDates(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		in      string
		wantCmp Cmp
		want    time.Time
	}{
		{"modified:>2024-01-15", CmpGt, day(2024, 1, 15)},
		{"date:<2024-03", CmpLt, day(2024, 3, 1)},
		{"mtime:>=today", CmpGe, day(2025, 6, 15)},
		{"modified:yesterday", CmpEq, day(2025, 6, 14)},
		{"modified:>week", CmpGt, refNow.AddDate(0, 0, -7)},
		{"modified:>year", CmpGt, refNow.AddDate(-1, 0, 0)},
		{"modified:soon", CmpEq, time.Time{}},
	}
	for _, tt := range tests {
		q := ParseAt(tt.in, refNow)
		require.Len(t, q.Terms, 1, tt.in)
		assert.Equal(t, tt.wantCmp, q.Terms[0].Cmp, tt.in)
		assert.True(t, tt.want.Equal(q.Terms[0].Since), "%s: got %v want %v", tt.in, q.Terms[0].Since, tt.want)
	}
}

func TestQueryHelpers(t *testing.T) {
	assert.True(t, Parse("").IsEmpty())
	assert.True(t, Parse("depth:4").IsEmpty())
	assert.False(t, Parse("x depth:4").IsEmpty())

	assert.Equal(t, 5, Parse("x").Depth(5))
	assert.Equal(t, 2, Parse("depth:4 x depth:2").Depth(5))
	assert.Equal(t, 5, Parse("depth:nope x").Depth(5))

	assert.True(t, Parse("a contents:b").NeedsContents())
	assert.False(t, Parse("a ext:go").NeedsContents())
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		name, pattern string
		want          bool
	}{
		{"Report.PDF", "report", true},
		{"main.go", "*.go", true},
		{"main.go", "*.rs", false},
		{"a1c.txt", "a?c.*", true},
		{"photo.JPG", "*.{png,jpg}", true},
		{"notes", "[", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchName(tt.name, tt.pattern), "%s ~ %s", tt.name, tt.pattern)
	}
}

func TestCmpTimeEqualIsSameDay(t *testing.T) {
	target := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, cmpTime(target.Add(23*time.Hour), target, CmpEq))
	assert.False(t, cmpTime(target.Add(25*time.Hour), target, CmpEq))
	assert.True(t, cmpTime(target, target, CmpGe))
	assert.False(t, cmpTime(target, target, CmpGt))
}

func TestMatcherMatch(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) os.FileInfo {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		info, err := os.Stat(p)
		require.NoError(t, err)
		return info
	}
	small := write("notes.txt", "remember the TODO list")
	big := write("dump.bin", string(make([]byte, 4096)))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "notes-dir"), 0o755))
	folder, err := os.Stat(filepath.Join(dir, "notes-dir"))
	require.NoError(t, err)

	tests := []struct {
		query string
		path  string
		info  os.FileInfo
		want  bool
	}{
		{"notes", "notes.txt", small, true},
		{"notes", "notes-dir", folder, true},
		{"notes ext:txt", "notes.txt", small, true},
		{"notes ext:txt", "notes-dir", folder, false},
		{"size:>1KB", "dump.bin", big, true},
		{"size:>1KB", "notes.txt", small, false},
		{"size:>1KB", "notes-dir", folder, false},
		{"contents:todo", "notes.txt", small, true},
		{"contents:missing", "notes.txt", small, false},
		{"contents:todo", "notes-dir", folder, false},
		{"modified:>=today", "notes.txt", small, true},
		{"modified:<2000-01-01", "notes.txt", small, false},
		{"modified:garbage", "notes.txt", small, true},
	}
	for _, tt := range tests {
		m := NewMatcher(Parse(tt.query))
		assert.Equal(t, tt.want, m.Match(filepath.Join(dir, tt.path), tt.info), "%q on %s", tt.query, tt.path)
	}
}
