package ui

import (
	"image"
	"io"
	"strings"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/transfer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
)

// rowClick is one completed click on a row.
type rowClick struct {
	Pos       image.Point
	Mods      key.Modifiers
	Count     int
	Secondary bool
}

// rowGesture combines click, secondary press and drag-source handling for a
// single row area. A drag only begins once gesture.Drag passes its movement
// threshold, so plain clicks still arrive as clicks.
type rowGesture struct {
	mime string

	click gesture.Click
	drag  gesture.Drag
	press bool // tag for secondary-button presses

	origin f32.Point
	offset f32.Point
	id     pointer.ID
	moved  bool
}

func (g *rowGesture) Dragging() bool { return g.moved && g.drag.Dragging() }

func (g *rowGesture) Hovered() bool { return g.click.Hovered() }

// Update serves pending transfer requests with payload. It must run before
// Layout in the same frame.
func (g *rowGesture) Update(gtx layout.Context, payload string) {
	for {
		ev, ok := gtx.Event(transfer.SourceFilter{Target: g, Type: g.mime})
		if !ok {
			return
		}
		req, ok := ev.(transfer.RequestEvent)
		if !ok {
			continue
		}
		gtx.Execute(transfer.OfferCmd{
			Tag:  g,
			Type: req.Type,
			Data: io.NopCloser(strings.NewReader(payload)),
		})
	}
}

func (g *rowGesture) secondary(gtx layout.Context) *rowClick {
	var out *rowClick
	for {
		ev, ok := gtx.Event(pointer.Filter{Target: &g.press, Kinds: pointer.Press})
		if !ok {
			return out
		}
		pe, ok := ev.(pointer.Event)
		if ok && pe.Buttons.Contain(pointer.ButtonSecondary) {
			out = &rowClick{Pos: pe.Position.Round(), Mods: pe.Modifiers, Count: 1, Secondary: true}
		}
	}
}

func (g *rowGesture) primary(gtx layout.Context) *rowClick {
	var out *rowClick
	for {
		ce, ok := g.click.Update(gtx.Source)
		if !ok {
			return out
		}
		if ce.Kind == gesture.KindCancel {
			g.moved = false
		}
		if ce.Kind == gesture.KindClick && !g.moved {
			out = &rowClick{Pos: ce.Position, Mods: ce.Modifiers, Count: ce.NumClicks}
		}
	}
}

func (g *rowGesture) track(gtx layout.Context) {
	for {
		de, ok := g.drag.Update(gtx.Metric, gtx.Source, gesture.Both)
		if !ok {
			return
		}
		switch de.Kind {
		case pointer.Press:
			g.origin, g.offset, g.id, g.moved = de.Position, f32.Point{}, de.PointerID, false
		case pointer.Drag:
			if de.PointerID == g.id {
				g.moved = true
				g.offset = de.Position.Sub(g.origin)
			}
		case pointer.Release, pointer.Cancel:
			g.moved = false
		}
	}
}

// Layout draws w, registers the hit area and returns the click seen this
// frame, if any. Secondary presses take precedence. While dragging, shadow
// is drawn deferred at the pointer offset.
func (g *rowGesture) Layout(gtx layout.Context, w, shadow layout.Widget) (layout.Dimensions, *rowClick) {
	if !gtx.Enabled() {
		return w(gtx), nil
	}

	click := g.secondary(gtx)
	if c := g.primary(gtx); click == nil {
		click = c
	}
	g.track(gtx)

	dims := w(gtx)

	area := clip.Rect{Max: dims.Size}.Push(gtx.Ops)
	g.click.Add(gtx.Ops)
	g.drag.Add(gtx.Ops)
	event.Op(gtx.Ops, g)
	event.Op(gtx.Ops, &g.press)
	area.Pop()

	if shadow != nil && g.moved && g.drag.Pressed() {
		rec := op.Record(gtx.Ops)
		op.Offset(g.offset.Round()).Add(gtx.Ops)
		shadow(gtx)
		op.Defer(gtx.Ops, rec.Stop())
	}
	return dims, click
}
