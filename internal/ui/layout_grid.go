package ui

import (
	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/justyntemme/skiff/internal/view"
)

const (
	tileWidth = unit.Dp(104)
	tileIcon  = unit.Dp(48)
)

// layoutGrid draws the rows as tiles, as many per line as fit the width.
// The shared list scrolls line by line.
func (r *Renderer) layoutGrid(gtx layout.Context) layout.Dimensions {
	rows := r.snap.Listing.Rows
	perLine := gtx.Constraints.Max.X / gtx.Dp(tileWidth)
	if perLine < 1 {
		perLine = 1
	}
	lines := (len(rows) + perLine - 1) / perLine

	dims := r.listState.Layout(gtx, lines, func(gtx layout.Context, line int) layout.Dimensions {
		children := make([]layout.FlexChild, 0, perLine)
		for k := 0; k < perLine; k++ {
			i := line*perLine + k
			if i >= len(rows) {
				break
			}
			children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return r.layoutRow(gtx, i, r.renderTile)
			}))
		}
		return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
	})
	r.finishDragHover()
	return dims
}

func (r *Renderer) renderTile(gtx layout.Context, row view.Row, _ bool) layout.Dimensions {
	w := gtx.Dp(tileWidth)
	gtx.Constraints.Min.X, gtx.Constraints.Max.X = w, w
	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return r.renderIcon(gtx, row.Icon, tileIcon)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lbl := material.Caption(r.Theme, row.Name)
				lbl.Color = colBlack
				if row.IsDir {
					lbl.Color = colDirBlue
				}
				lbl.Alignment = text.Middle
				lbl.MaxLines = 2
				return lbl.Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if row.Capacity == "" {
					return layout.Dimensions{}
				}
				lbl := material.Caption(r.Theme, row.Load+" / "+row.Capacity)
				lbl.Color = colGray
				lbl.Alignment = text.Middle
				lbl.MaxLines = 1
				return lbl.Layout(gtx)
			}),
		)
	})
}
