package ui

import (
	"image"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/skiff/internal/view"
)

// renderMenuItem creates a standard clickable menu row. Disabled rows are
// drawn greyed out and are not clickable.
func (r *Renderer) renderMenuItem(gtx layout.Context, clk *widget.Clickable, label string, enabled bool) layout.Dimensions {
	row := func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(10)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			txt := material.Body2(r.Theme, label)
			txt.Color = colBlack
			if !enabled {
				txt.Color = colDisabled
			}
			return txt.Layout(gtx)
		})
	}
	if !enabled {
		return row(gtx)
	}
	return material.Clickable(gtx, clk, row)
}

// renderMenuShell creates a box with a grey border (used for popups)
func (r *Renderer) renderMenuShell(gtx layout.Context, content layout.Widget) layout.Dimensions {
	return widget.Border{
		Color:        colMenuBorder,
		Width:        unit.Dp(1),
		CornerRadius: unit.Dp(4),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx layout.Context) layout.Dimensions {
				paint.FillShape(gtx.Ops, colMenuBg, clip.Rect{Max: gtx.Constraints.Min}.Op())
				return layout.Dimensions{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(content),
		)
	})
}

// renderIcon draws the badge for an item kind in a size x size square.
func (r *Renderer) renderIcon(gtx layout.Context, icon view.Icon, size unit.Dp) layout.Dimensions {
	style, ok := iconStyle[icon]
	if !ok {
		style = iconStyle[view.IconFile]
	}
	px := gtx.Dp(size)
	rr := gtx.Dp(4)
	paint.FillShape(gtx.Ops, style.col, clip.RRect{
		Rect: image.Rect(0, 0, px, px),
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}.Op(gtx.Ops))

	gtx.Constraints = layout.Exact(image.Pt(px, px))
	layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		lbl := material.Label(r.Theme, unit.Sp(float32(size)*0.3), style.label)
		lbl.Color = colWhite
		lbl.Font.Weight = font.Bold
		lbl.Alignment = text.Middle
		lbl.MaxLines = 1
		return lbl.Layout(gtx)
	})
	return layout.Dimensions{Size: image.Pt(px, px)}
}

// toolButton is a flat text button used in the navigation bar.
func (r *Renderer) toolButton(gtx layout.Context, clk *widget.Clickable, label string, enabled bool) layout.Dimensions {
	btn := material.Button(r.Theme, clk, label)
	btn.Inset = layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6), Left: unit.Dp(10), Right: unit.Dp(10)}
	btn.TextSize = unit.Sp(13)
	btn.Background = colAccent
	if !enabled {
		gtx = gtx.Disabled()
		btn.Background = colLightGray
	}
	return btn.Layout(gtx)
}
