// Package ui draws an app.Snapshot with Gio and reports user interaction as
// app.Events. It holds widget state only; all file-manager state lives in the
// orchestrator.
package ui

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/skiff/internal/app"
	"github.com/justyntemme/skiff/internal/config"
	"github.com/justyntemme/skiff/internal/debug"
)

// FileDragMIME is the MIME type for drags between rows of the same window.
const FileDragMIME = "application/x-skiff-row"

// rowState is the per-row widget state. Rows are kept by pointer so event
// tags stay stable across frames.
type rowState struct {
	touch   rowGesture
	dropTag bool
}

type Renderer struct {
	Theme *material.Theme
	Keys  *config.HotkeyMatcher

	events []app.Event
	snap   *app.Snapshot

	listState layout.List
	rows      []*rowState
	hovered   int // row under a drag, -1 for none

	dragActive bool

	backBtn    widget.Clickable
	homeBtn    widget.Clickable
	disksBtn   widget.Clickable
	refreshBtn widget.Clickable
	viewBtn    widget.Clickable
	hiddenBox  widget.Bool
	clearBtn   widget.Clickable

	pathEditor   widget.Editor
	searchEditor widget.Editor
	shownDir     string

	bgClick  widget.Clickable
	bgTag    bool
	keyTag   bool
	focused  bool
	mousePos image.Point
	mouseTag bool

	menuBtns [8]widget.Clickable

	prompt       *app.PendingPrompt
	promptEditor widget.Editor
	promptOK     widget.Clickable
	promptCancel widget.Clickable
	confirmYes   widget.Clickable
	confirmNo    widget.Clickable

	toastBtns map[uint64]*widget.Clickable
}

// NewRenderer returns a renderer using keys for shortcuts, or the platform
// defaults when keys is nil.
func NewRenderer(keys *config.HotkeyMatcher) *Renderer {
	if keys == nil {
		keys = config.NewHotkeyMatcher(config.DefaultHotkeys())
	}
	r := &Renderer{
		Theme:     material.NewTheme(),
		Keys:      keys,
		hovered:   -1,
		toastBtns: make(map[uint64]*widget.Clickable),
	}
	r.listState.Axis = layout.Vertical
	r.pathEditor.SingleLine = true
	r.pathEditor.Submit = true
	r.searchEditor.SingleLine = true
	r.searchEditor.Submit = true
	r.promptEditor.SingleLine = true
	r.promptEditor.Submit = true
	return r
}

func (r *Renderer) emit(ev app.Event) {
	debug.Log(debug.UI_EVENT, "emit %s row=%d", ev.Kind, ev.Row)
	r.events = append(r.events, ev)
}

// emitRow stamps the current listing generation on a row event.
func (r *Renderer) emitRow(kind app.EventKind, row int) {
	r.emit(app.Event{Kind: kind, Row: row, ListingGen: r.snap.ListingGen})
}

func (r *Renderer) anchor() app.Point {
	return app.Point{X: r.mousePos.X, Y: r.mousePos.Y}
}

// row returns the widget state for row i, growing the pool as needed.
func (r *Renderer) row(i int) *rowState {
	for len(r.rows) <= i {
		rs := &rowState{}
		rs.touch.mime = FileDragMIME
		r.rows = append(r.rows, rs)
	}
	return r.rows[i]
}

// dragPayload identifies a row of a given listing in a transfer.
func dragPayload(gen uint64, row int) string {
	return fmt.Sprintf("%d:%d", gen, row)
}

func parseDragPayload(s string) (gen uint64, row int, ok bool) {
	g, rw, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, 0, false
	}
	gen, err := strconv.ParseUint(g, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	row, err = strconv.Atoi(rw)
	if err != nil {
		return 0, 0, false
	}
	return gen, row, true
}

// trackMouse records the global pointer position for menu anchors.
func (r *Renderer) trackMouse(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{Target: &r.mouseTag, Kinds: pointer.Move | pointer.Press | pointer.Drag})
		if !ok {
			break
		}
		if e, ok := ev.(pointer.Event); ok {
			r.mousePos = e.Position.Round()
		}
	}
}

// detectRightClick checks for secondary button presses on a specific tag
func (r *Renderer) detectRightClick(gtx layout.Context, tag event.Tag) bool {
	clicked := false
	for {
		ev, ok := gtx.Event(pointer.Filter{Target: tag, Kinds: pointer.Press})
		if !ok {
			break
		}
		if e, ok := ev.(pointer.Event); ok && e.Buttons.Contain(pointer.ButtonSecondary) {
			clicked = true
		}
	}
	return clicked
}
