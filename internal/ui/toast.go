package ui

import (
	"image"
	"image/color"
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/skiff/internal/app"
)

var toastColors = map[app.ToastKind]color.NRGBA{
	app.ToastInfo:    {R: 50, G: 50, B: 55, A: 235},
	app.ToastSuccess: {R: 40, G: 130, B: 70, A: 235},
	app.ToastWarning: {R: 200, G: 130, B: 20, A: 235},
	app.ToastError:   {R: 190, G: 45, B: 55, A: 235},
}

// visibleToasts drops toasts that expired since the snapshot was taken.
func visibleToasts(toasts []app.Toast, now time.Time) []app.Toast {
	out := make([]app.Toast, 0, len(toasts))
	for _, t := range toasts {
		if now.Before(t.ExpiresAt) {
			out = append(out, t)
		}
	}
	return out
}

// layoutToasts stacks the active toasts in the bottom-right corner. Clicking
// a toast dismisses it.
func (r *Renderer) layoutToasts(gtx layout.Context) layout.Dimensions {
	toasts := visibleToasts(r.snap.Toasts, gtx.Now)

	live := make(map[uint64]bool, len(toasts))
	var next time.Time
	for _, t := range toasts {
		live[t.ID] = true
		if next.IsZero() || t.ExpiresAt.Before(next) {
			next = t.ExpiresAt
		}
		if btn := r.toastBtns[t.ID]; btn != nil && btn.Clicked(gtx) {
			r.emit(app.Event{Kind: app.EvDismissToast, Toast: t.ID})
		}
	}
	for id := range r.toastBtns {
		if !live[id] {
			delete(r.toastBtns, id)
		}
	}
	if len(toasts) == 0 {
		return layout.Dimensions{}
	}
	gtx.Execute(op.InvalidateCmd{At: next})

	return layout.Inset{Bottom: unit.Dp(36), Right: unit.Dp(16)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.SE.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			children := make([]layout.FlexChild, 0, 2*len(toasts))
			for _, t := range toasts {
				btn := r.toastBtns[t.ID]
				if btn == nil {
					btn = new(widget.Clickable)
					r.toastBtns[t.ID] = btn
				}
				children = append(children,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return btn.Layout(gtx, r.toastCard(t))
					}),
					layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
				)
			}
			return layout.Flex{Axis: layout.Vertical, Alignment: layout.End}.Layout(gtx, children...)
		})
	})
}

func (r *Renderer) toastCard(t app.Toast) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(360))
		return layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx layout.Context) layout.Dimensions {
				col, ok := toastColors[t.Kind]
				if !ok {
					col = toastColors[app.ToastInfo]
				}
				rr := gtx.Dp(6)
				paint.FillShape(gtx.Ops, col, clip.RRect{Rect: image.Rectangle{Max: gtx.Constraints.Min}, NE: rr, NW: rr, SE: rr, SW: rr}.Op(gtx.Ops))
				return layout.Dimensions{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				return layout.Inset{Top: unit.Dp(10), Bottom: unit.Dp(10), Left: unit.Dp(14), Right: unit.Dp(14)}.Layout(gtx,
					func(gtx layout.Context) layout.Dimensions {
						lbl := material.Body2(r.Theme, t.Message)
						lbl.Color = colWhite
						return lbl.Layout(gtx)
					})
			}),
		)
	}
}
