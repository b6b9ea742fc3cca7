package app

import (
	"path/filepath"
	"strings"

	"github.com/justyntemme/skiff/internal/backend"
)

// DragDrop tracks the row selection used as the source of internal drags
// and the folder currently highlighted as a drop target.
type DragDrop struct {
	selected []string
	hover    string
}

// Select selects path. With toggle it flips path and keeps the rest,
// otherwise path becomes the only selection.
func (d *DragDrop) Select(path string, toggle bool) {
	if !toggle {
		d.selected = []string{path}
		return
	}
	for i, p := range d.selected {
		if p == path {
			d.selected = append(d.selected[:i], d.selected[i+1:]...)
			return
		}
	}
	d.selected = append(d.selected, path)
}

func (d *DragDrop) IsSelected(path string) bool {
	for _, p := range d.selected {
		if p == path {
			return true
		}
	}
	return false
}

// Selection returns the selected paths in selection order.
func (d *DragDrop) Selection() []string {
	return append([]string(nil), d.selected...)
}

func (d *DragDrop) ClearSelection() {
	d.selected = nil
}

// Hover highlights the folder at path; an empty path clears it.
func (d *DragDrop) Hover(path string) {
	d.hover = path
}

func (d *DragDrop) HoverPath() string {
	return d.hover
}

// Reset drops selection and highlight.
func (d *DragDrop) Reset() {
	d.selected = nil
	d.hover = ""
}

// ExternalRequest builds the single batched copy for paths dropped from
// outside the window into dir.
func ExternalRequest(paths []string, dir string) (backend.Request, bool) {
	items := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	if len(items) == 0 {
		return backend.Request{}, false
	}
	return backend.Request{
		Command:    backend.ArrCopyPaste,
		ArrItems:   items,
		CopyToPath: dir,
	}, true
}

// InternalRequest builds the copy of the dragged rows into folder. When the
// dragged row is part of the selection the whole selection moves with it.
// Sources that are the folder itself or already inside it are skipped.
// Selection and highlight are cleared whether or not a request results.
func (d *DragDrop) InternalRequest(dragged string, folder backend.Entry) (backend.Request, bool) {
	sources := []string{dragged}
	if d.IsSelected(dragged) {
		sources = d.Selection()
	}
	d.Reset()

	if !folder.IsDir {
		return backend.Request{}, false
	}
	items := make([]string, 0, len(sources))
	for _, p := range sources {
		if p == "" || p == folder.Path || filepath.Dir(p) == folder.Path {
			continue
		}
		items = append(items, p)
	}
	if len(items) == 0 {
		return backend.Request{}, false
	}
	return backend.Request{
		Command:    backend.ArrCopyPaste,
		ArrItems:   items,
		CopyToPath: folder.Path,
	}, true
}
