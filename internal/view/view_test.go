package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/skiff/internal/backend"
)

func sample() []backend.Entry {
	mod := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return []backend.Entry{
		{Name: "docs", Path: "/w/docs", IsDir: true, LastModified: mod},
		{Name: ".git", Path: "/w/.git", IsDir: true, LastModified: mod},
		{Name: "main.go", Path: "/w/main.go", Extension: ".go", Size: 2048, LastModified: mod},
		{Name: ".env", Path: "/w/.env", Extension: "", Size: 12, LastModified: mod},
		{Name: "photo.PNG", Path: "/w/photo.PNG", Extension: ".PNG", Size: 10, LastModified: mod},
	}
}

func rowNames(l Listing) []string {
	out := make([]string, len(l.Rows))
	for i, r := range l.Rows {
		out[i] = r.Name
	}
	return out
}

func TestRenderDeterministic(t *testing.T) {
	for _, mode := range []Mode{ModeGrid, ModeList} {
		for _, hidden := range []bool{false, true} {
			a := Render(sample(), mode, hidden)
			b := Render(sample(), mode, hidden)
			assert.Equal(t, a, b)
		}
	}
}

func TestRenderHiddenToggle(t *testing.T) {
	entries := sample()

	off := Render(entries, ModeGrid, false)
	assert.Equal(t, []string{"docs", "main.go", "photo.PNG"}, rowNames(off))

	on := Render(entries, ModeGrid, true)
	assert.Equal(t, []string{"docs", ".git", "main.go", ".env", "photo.PNG"}, rowNames(on))

	again := Render(entries, ModeGrid, false)
	assert.Equal(t, rowNames(off), rowNames(again))
	assert.Equal(t, "Objects: 3", again.CountLabel)
}

func TestRenderDedupesByPath(t *testing.T) {
	entries := []backend.Entry{
		{Name: "a.txt", Path: "/w/a.txt", Extension: ".txt", Size: 1},
		{Name: "b.txt", Path: "/w/b.txt", Extension: ".txt", Size: 2},
		{Name: "a.txt", Path: "/w/a.txt", Extension: ".txt", Size: 99},
	}
	l := Render(entries, ModeList, false)
	require.Len(t, l.Rows, 2)
	assert.Equal(t, "1 Bytes", l.Rows[0].Size, "first occurrence wins")
	assert.Equal(t, "Objects: 2", l.CountLabel)
}

func TestRenderListScenario(t *testing.T) {
	entries := []backend.Entry{
		{Name: "a.txt", Path: "/w/a.txt", Extension: ".txt", Size: 500},
		{Name: "sub", Path: "/w/sub", IsDir: true},
	}
	l := Render(entries, ModeList, false)

	require.Len(t, l.Rows, 2)
	assert.Equal(t, "a.txt", l.Rows[0].Name)
	assert.Equal(t, "500 Bytes", l.Rows[0].Size)
	assert.Equal(t, IconText, l.Rows[0].Icon)
	assert.Equal(t, "sub", l.Rows[1].Name)
	assert.Equal(t, IconFolder, l.Rows[1].Icon)
	assert.Equal(t, "0 Bytes", l.Rows[1].Size, "folders carry the size the backend reports")
	assert.Equal(t, "Objects: 2", l.CountLabel)
}

func TestRenderGridOmitsColumns(t *testing.T) {
	l := Render(sample(), ModeGrid, false)
	for _, r := range l.Rows {
		assert.Empty(t, r.Size)
		assert.Empty(t, r.Modified)
	}
	list := Render(sample(), ModeList, false)
	assert.Equal(t, "2024-03-01 09:30", list.Rows[0].Modified)
	assert.Equal(t, "2.05 KB", list.Rows[1].Size)
}

func TestListingEntryByRow(t *testing.T) {
	l := Render(sample(), ModeGrid, false)

	e, ok := l.Entry(1)
	require.True(t, ok)
	assert.Equal(t, "/w/main.go", e.Path)

	_, ok = l.Entry(3)
	assert.False(t, ok)
	_, ok = l.Disk(0)
	assert.False(t, ok)
}

func TestRenderDisks(t *testing.T) {
	disks := []backend.DiskEntry{
		{Name: "", Path: "/", Load: "12 GB free", Capacity: "500 GB"},
		{Name: "/dev/sdb1", Path: "/mnt/data", Load: "1 TB free", Capacity: "2 TB"},
		{Name: "/dev/sdb1", Path: "/mnt/data", Load: "dup", Capacity: "dup"},
	}
	l := RenderDisks(disks, ModeList)

	assert.True(t, l.Disks)
	assert.Equal(t, "Disks/", l.PathLabel)
	assert.Equal(t, []string{"/", "sdb1"}, rowNames(l))
	assert.Equal(t, IconDisk, l.Rows[0].Icon)
	assert.Equal(t, "12 GB free", l.Rows[0].Load)
	assert.Equal(t, "500 GB", l.Rows[0].Capacity)

	d, ok := l.Disk(1)
	require.True(t, ok)
	assert.Equal(t, "/mnt/data", d.Path)

	grid := RenderDisks(disks, ModeGrid)
	assert.Empty(t, grid.Rows[0].Load)
}

func TestFormatBytes(t *testing.T) {
	testCases := []struct {
		bytes    int64
		decimals int
		want     string
	}{
		{0, 2, "0 Bytes"},
		{500, 2, "500 Bytes"},
		{1000, 2, "1 KB"},
		{1500000, 2, "1.5 MB"},
		{1234567, 2, "1.23 MB"},
		{1234567, 0, "1 MB"},
		{1999, -1, "2 KB"},
		{3 * 1000 * 1000 * 1000 * 1000, 2, "3 TB"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatBytes(tc.bytes, tc.decimals), "%d/%d", tc.bytes, tc.decimals)
	}
}

func TestIconFor(t *testing.T) {
	testCases := []struct {
		ext   string
		isDir bool
		want  Icon
	}{
		{".rs", false, IconCode},
		{".jpeg", false, IconImage},
		{".txt", false, IconText},
		{".doc", false, IconWord},
		{".pdf", false, IconPDF},
		{".7z", false, IconArchive},
		{".xlsx", false, IconSpreadsheet},
		{".PNG", false, IconFile},
		{"", false, IconFile},
		{".zip", true, IconFolder},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, IconFor(tc.ext, tc.isDir), tc.ext)
	}
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("column")
	assert.True(t, ok)
	assert.Equal(t, ModeList, m)
	assert.Equal(t, "column", m.String())

	m, ok = ParseMode("wrap")
	assert.True(t, ok)
	assert.Equal(t, "wrap", m.String())

	_, ok = ParseMode("tiles")
	assert.False(t, ok)
}
