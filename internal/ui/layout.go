package ui

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/justyntemme/skiff/internal/app"
	"github.com/justyntemme/skiff/internal/view"
)

// Layout draws snap and returns the events raised during this frame.
func (r *Renderer) Layout(gtx layout.Context, snap *app.Snapshot) []app.Event {
	r.events = r.events[:0]
	r.snap = snap

	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, colBackground)

	// global pointer tracking, passed through to everything beneath
	area := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	pass := pointer.PassOp{}.Push(gtx.Ops)
	event.Op(gtx.Ops, &r.mouseTag)
	pass.Pop()
	area.Pop()
	r.trackMouse(gtx)

	event.Op(gtx.Ops, &r.keyTag)
	if !r.focused {
		gtx.Execute(key.FocusCmd{Tag: &r.keyTag})
		r.focused = true
	}
	r.processKeys(gtx)

	layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(8)).Layout(gtx, r.layoutNavBar)
				}),
				layout.Rigid(r.layoutDivider),
				layout.Flexed(1, r.layoutFileArea),
				layout.Rigid(r.layoutStatusBar),
			)
		}),
		layout.Expanded(r.layoutContextMenu),
		layout.Expanded(r.layoutPrompt),
		layout.Expanded(r.layoutConfirm),
		layout.Expanded(r.layoutToasts),
	)

	return r.events
}

func (r *Renderer) processKeys(gtx layout.Context) {
	overlay := r.snap.Prompt != nil || r.snap.Confirm != nil
	// no focus tag: shortcuts work while an editor is focused too
	filters := r.Keys.Filters(nil)
	for {
		ev, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		e, ok := ev.(key.Event)
		if !ok || e.State != key.Press || overlay {
			continue
		}
		k := r.Keys
		switch {
		case k.Escape.Matches(e):
			if r.snap.Menu.State != app.MenuHidden {
				r.emit(app.Event{Kind: app.EvMenuClose})
			} else {
				r.emit(app.Event{Kind: app.EvClearSelection})
			}
		case k.Refresh.Matches(e):
			r.emit(app.Event{Kind: app.EvRefresh})
		case k.Back.Matches(e):
			r.emit(app.Event{Kind: app.EvGoBack})
		case k.Home.Matches(e):
			r.emit(app.Event{Kind: app.EvGoHome})
		case k.Disks.Matches(e):
			r.emit(app.Event{Kind: app.EvShowDisks})
		case k.ToggleHidden.Matches(e):
			r.emit(app.Event{Kind: app.EvToggleHidden})
		case k.SwitchView.Matches(e):
			r.emit(app.Event{Kind: app.EvSwitchView, Mode: r.otherMode()})
		case k.FocusSearch.Matches(e):
			gtx.Execute(key.FocusCmd{Tag: &r.searchEditor})
		case k.FocusPath.Matches(e):
			gtx.Execute(key.FocusCmd{Tag: &r.pathEditor})
		}
	}
}

func (r *Renderer) layoutDivider(gtx layout.Context) layout.Dimensions {
	size := image.Pt(gtx.Constraints.Max.X, gtx.Dp(1))
	paint.FillShape(gtx.Ops, colLightGray, clip.Rect{Max: size}.Op())
	return layout.Dimensions{Size: size}
}

// layoutFileArea draws the listing over a background that takes empty-area
// clicks and right clicks.
func (r *Renderer) layoutFileArea(gtx layout.Context) layout.Dimensions {
	if r.bgClick.Clicked(gtx) {
		if r.snap.Menu.State != app.MenuHidden {
			r.emit(app.Event{Kind: app.EvMenuClose})
		} else {
			r.emit(app.Event{Kind: app.EvClearSelection})
		}
		gtx.Execute(key.FocusCmd{Tag: &r.keyTag})
	}
	if r.detectRightClick(gtx, &r.bgTag) {
		r.emit(app.Event{Kind: app.EvMenuOpenEmpty, Anchor: r.anchor()})
	}

	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			dims := r.bgClick.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{Size: gtx.Constraints.Max}
			})
			defer clip.Rect{Max: dims.Size}.Push(gtx.Ops).Pop()
			event.Op(gtx.Ops, &r.bgTag)
			return dims
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min = gtx.Constraints.Max
			if len(r.snap.Listing.Rows) == 0 {
				return r.layoutEmpty(gtx)
			}
			if r.snap.Listing.Mode == view.ModeGrid {
				return r.layoutGrid(gtx)
			}
			return r.layoutList(gtx)
		}),
	)
}

func (r *Renderer) layoutEmpty(gtx layout.Context) layout.Dimensions {
	msg := "This folder is empty"
	switch {
	case r.snap.Loading:
		msg = "Loading…"
	case r.snap.Searching:
		msg = "No matches"
	}
	return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		lbl := material.Body1(r.Theme, msg)
		lbl.Color = colGray
		return lbl.Layout(gtx)
	})
}

func (r *Renderer) layoutStatusBar(gtx layout.Context) layout.Dimensions {
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			paint.FillShape(gtx.Ops, colStatusBar, clip.Rect{Max: gtx.Constraints.Min}.Op())
			return layout.Dimensions{Size: gtx.Constraints.Min}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Constraints.Max.X
			return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4), Left: unit.Dp(12), Right: unit.Dp(12)}.Layout(gtx,
				func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
						layout.Rigid(r.statusLabel(r.snap.Listing.CountLabel)),
						layout.Rigid(r.statusLabel(r.activityText())),
					)
				})
		}),
	)
}

func (r *Renderer) statusLabel(s string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		lbl := material.Caption(r.Theme, s)
		lbl.Color = colGray
		lbl.MaxLines = 1
		return lbl.Layout(gtx)
	}
}

func (r *Renderer) activityText() string {
	switch {
	case r.snap.InFlight:
		return "Copying…"
	case r.snap.Loading:
		return "Loading…"
	case r.snap.Clipboard != nil:
		return "Clipboard: " + r.snap.Clipboard.Name
	}
	return ""
}
