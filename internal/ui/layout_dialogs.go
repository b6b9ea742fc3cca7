package ui

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/skiff/internal/app"
)

// layoutPrompt draws the name prompt for new folder, new file and rename.
func (r *Renderer) layoutPrompt(gtx layout.Context) layout.Dimensions {
	p := r.snap.Prompt
	if p == nil {
		r.prompt = nil
		return layout.Dimensions{}
	}
	if p != r.prompt {
		r.prompt = p
		r.promptEditor.SetText(p.Initial)
		r.promptEditor.SetCaret(len([]rune(p.Initial)), 0)
		gtx.Execute(key.FocusCmd{Tag: &r.promptEditor})
	}

	for {
		ev, ok := r.promptEditor.Update(gtx)
		if !ok {
			break
		}
		if _, ok := ev.(widget.SubmitEvent); ok {
			r.emit(app.Event{Kind: app.EvPromptSubmit, Text: r.promptEditor.Text()})
		}
	}
	if r.promptOK.Clicked(gtx) {
		r.emit(app.Event{Kind: app.EvPromptSubmit, Text: r.promptEditor.Text()})
	}
	if r.promptCancel.Clicked(gtx) {
		r.emit(app.Event{Kind: app.EvPromptCancel})
	}

	return r.modal(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(r.dialogTitle(p.Title)),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return r.editorBox(gtx, &r.promptEditor, "Name")
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return r.dialogButtons(gtx, &r.promptCancel, "Cancel", &r.promptOK, "OK", colAccent)
			}),
		)
	})
}

// layoutConfirm draws the confirmation for delete and extract.
func (r *Renderer) layoutConfirm(gtx layout.Context) layout.Dimensions {
	c := r.snap.Confirm
	if c == nil {
		return layout.Dimensions{}
	}
	if r.confirmYes.Clicked(gtx) {
		r.emit(app.Event{Kind: app.EvConfirm})
	}
	if r.confirmNo.Clicked(gtx) {
		r.emit(app.Event{Kind: app.EvCancelConfirm})
	}

	title, yes, col := "Delete", "Delete", colDanger
	if c.Kind == app.ConfirmExtract {
		title, yes, col = "Extract", "Extract", colAccent
	}

	return r.modal(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(r.dialogTitle(title)),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				lbl := material.Body1(r.Theme, c.Message)
				lbl.Color = colBlack
				return lbl.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return r.dialogButtons(gtx, &r.confirmNo, "Cancel", &r.confirmYes, yes, col)
			}),
		)
	})
}

// modal draws a backdrop that swallows pointer input and a centered card.
func (r *Renderer) modal(gtx layout.Context, content layout.Widget) layout.Dimensions {
	size := gtx.Constraints.Max
	area := clip.Rect{Max: size}.Push(gtx.Ops)
	paint.Fill(gtx.Ops, colBackdrop)
	pointer.CursorDefault.Add(gtx.Ops)
	// block clicks from reaching the listing underneath
	for {
		if _, ok := gtx.Event(pointer.Filter{Target: r, Kinds: pointer.Press | pointer.Release}); !ok {
			break
		}
	}
	event.Op(gtx.Ops, r)
	area.Pop()

	layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(420))
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx layout.Context) layout.Dimensions {
				rr := gtx.Dp(8)
				paint.FillShape(gtx.Ops, colMenuBg, clip.RRect{Rect: image.Rectangle{Max: gtx.Constraints.Min}, NE: rr, NW: rr, SE: rr, SW: rr}.Op(gtx.Ops))
				return layout.Dimensions{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(20)).Layout(gtx, content)
			}),
		)
	})
	return layout.Dimensions{Size: size}
}

func (r *Renderer) dialogTitle(s string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		lbl := material.H6(r.Theme, s)
		lbl.Color = colBlack
		lbl.Font.Weight = font.Bold
		return lbl.Layout(gtx)
	}
}

func (r *Renderer) dialogButtons(gtx layout.Context, cancel *widget.Clickable, cancelLabel string, ok *widget.Clickable, okLabel string, okCol color.NRGBA) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceStart}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			btn := material.Button(r.Theme, cancel, cancelLabel)
			btn.Background = colLightGray
			btn.Color = colBlack
			return btn.Layout(gtx)
		}),
		layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			btn := material.Button(r.Theme, ok, okLabel)
			btn.Background = okCol
			return btn.Layout(gtx)
		}),
	)
}
