// Package view turns backend listings into the rows the front end draws.
// Everything here is pure: the same input always renders the same rows.
package view

import (
	"strconv"
	"strings"

	"github.com/justyntemme/skiff/internal/backend"
)

// Mode is the layout of the item list.
type Mode int

const (
	ModeGrid Mode = iota // icon + name tiles
	ModeList             // one row per entry with date and size columns
)

// String returns the name the backend persists for the mode.
func (m Mode) String() string {
	if m == ModeList {
		return "column"
	}
	return "wrap"
}

// ParseMode accepts the persisted names ("wrap", "column") and the layout
// names ("grid", "list").
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wrap", "grid":
		return ModeGrid, true
	case "column", "list":
		return ModeList, true
	}
	return ModeGrid, false
}

// HiddenPrefix marks an entry as hidden.
const HiddenPrefix = "."

const (
	diskPathLabel = "Disks/"
	devPrefix     = "/dev/"
	timeLayout    = "2006-01-02 15:04"
)

// Row is one rendered item. Index points into the Entries (or Disks) slice
// of the Listing that produced it.
type Row struct {
	Index    int
	Icon     Icon
	Name     string
	Path     string
	IsDir    bool
	Modified string
	Size     string
	Load     string
	Capacity string
}

// Listing is a fully rendered view. Rows are only meaningful together with
// the Entries or Disks they index.
type Listing struct {
	Mode       Mode
	Disks      bool
	PathLabel  string
	CountLabel string
	Rows       []Row

	Entries   []backend.Entry
	DiskItems []backend.DiskEntry
}

// Entry returns the entry behind row i.
func (l *Listing) Entry(i int) (backend.Entry, bool) {
	if l.Disks || i < 0 || i >= len(l.Rows) {
		return backend.Entry{}, false
	}
	return l.Entries[l.Rows[i].Index], true
}

// Disk returns the disk behind row i.
func (l *Listing) Disk(i int) (backend.DiskEntry, bool) {
	if !l.Disks || i < 0 || i >= len(l.Rows) {
		return backend.DiskEntry{}, false
	}
	return l.DiskItems[l.Rows[i].Index], true
}

// IsHidden reports whether name is filtered when hidden files are off.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, HiddenPrefix)
}

// Render filters hidden entries unless showHidden, drops repeated paths
// keeping the first, and keeps the backend's order.
func Render(entries []backend.Entry, mode Mode, showHidden bool) Listing {
	l := Listing{Mode: mode}
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if !showHidden && IsHidden(e.Name) {
			continue
		}
		if _, dup := seen[e.Path]; dup {
			continue
		}
		seen[e.Path] = struct{}{}

		row := Row{
			Index: len(l.Entries),
			Icon:  IconFor(e.Extension, e.IsDir),
			Name:  e.Name,
			Path:  e.Path,
			IsDir: e.IsDir,
		}
		if mode == ModeList {
			if !e.LastModified.IsZero() {
				row.Modified = e.LastModified.Format(timeLayout)
			}
			row.Size = FormatBytes(e.Size, 2)
		}
		l.Entries = append(l.Entries, e)
		l.Rows = append(l.Rows, row)
	}
	l.CountLabel = countLabel(len(l.Rows))
	return l
}

// RenderDisks renders disk entries. An empty name is the root volume and a
// "/dev/" prefix is dropped from names.
func RenderDisks(disks []backend.DiskEntry, mode Mode) Listing {
	l := Listing{Mode: mode, Disks: true, PathLabel: diskPathLabel}
	seen := make(map[string]struct{}, len(disks))

	for _, d := range disks {
		if _, dup := seen[d.Path]; dup {
			continue
		}
		seen[d.Path] = struct{}{}

		row := Row{
			Index: len(l.DiskItems),
			Icon:  IconDisk,
			Name:  DiskName(d.Name),
			Path:  d.Path,
			IsDir: true,
		}
		if mode == ModeList {
			row.Load = d.Load
			row.Capacity = d.Capacity
		}
		l.DiskItems = append(l.DiskItems, d)
		l.Rows = append(l.Rows, row)
	}
	l.CountLabel = countLabel(len(l.Rows))
	return l
}

// DiskName is the label shown for a disk.
func DiskName(name string) string {
	if name == "" {
		return "/"
	}
	return strings.TrimPrefix(name, devPrefix)
}

func countLabel(n int) string {
	return "Objects: " + strconv.Itoa(n)
}
