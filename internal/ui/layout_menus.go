package ui

import (
	"image"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"

	"github.com/justyntemme/skiff/internal/app"
)

const menuWidth = unit.Dp(180)

// layoutContextMenu draws the open menu at its anchor, kept inside the window.
// Every action is listed; disabled ones are greyed out.
func (r *Renderer) layoutContextMenu(gtx layout.Context) layout.Dimensions {
	m := r.snap.Menu
	if m.State == app.MenuHidden {
		return layout.Dimensions{}
	}

	actions := app.Actions()
	for i, a := range actions {
		if i < len(r.menuBtns) && r.menuBtns[i].Clicked(gtx) && m.Enabled.Has(a) {
			r.emit(app.Event{Kind: app.EvMenuAction, MenuGen: m.Gen, Action: a})
		}
	}

	w := gtx.Dp(menuWidth)
	// rough height so the menu can be flipped above the pointer near the bottom
	h := len(actions) * gtx.Dp(38)
	pos := image.Pt(m.Anchor.X, m.Anchor.Y)
	if pos.X+w > gtx.Constraints.Max.X {
		pos.X = max(0, gtx.Constraints.Max.X-w)
	}
	if pos.Y+h > gtx.Constraints.Max.Y {
		pos.Y = max(0, pos.Y-h)
	}

	defer op.Offset(pos).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(image.Pt(w, gtx.Constraints.Max.Y))
	gtx.Constraints.Min.Y = 0

	r.renderMenuShell(gtx, func(gtx layout.Context) layout.Dimensions {
		children := make([]layout.FlexChild, 0, len(actions))
		for i, a := range actions {
			if i >= len(r.menuBtns) {
				break
			}
			children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min.X = gtx.Constraints.Max.X
				return r.renderMenuItem(gtx, &r.menuBtns[i], a.String(), m.Enabled.Has(a))
			}))
		}
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
	return layout.Dimensions{Size: gtx.Constraints.Max}
}
