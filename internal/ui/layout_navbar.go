package ui

import (
	"strings"

	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/skiff/internal/app"
	"github.com/justyntemme/skiff/internal/view"
)

// layoutNavBar draws the navigation buttons, the path field, the search
// field and the view toggles.
func (r *Renderer) layoutNavBar(gtx layout.Context) layout.Dimensions {
	r.updateNavBar(gtx)

	inDir := !r.snap.Listing.Disks
	viewLabel := "List"
	if r.snap.Mode == view.ModeList {
		viewLabel = "Grid"
	}

	gap := layout.Spacer{Width: unit.Dp(6)}.Layout
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return r.toolButton(gtx, &r.backBtn, "Back", inDir)
		}),
		layout.Rigid(gap),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return r.toolButton(gtx, &r.homeBtn, "Home", true)
		}),
		layout.Rigid(gap),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return r.toolButton(gtx, &r.disksBtn, "Disks", inDir)
		}),
		layout.Rigid(gap),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return r.toolButton(gtx, &r.refreshBtn, "Refresh", true)
		}),
		layout.Rigid(gap),
		layout.Flexed(3, func(gtx layout.Context) layout.Dimensions {
			return r.editorBox(gtx, &r.pathEditor, "Path")
		}),
		layout.Rigid(gap),
		layout.Flexed(2, func(gtx layout.Context) layout.Dimensions {
			return r.editorBox(gtx, &r.searchEditor, "Search (ext: size: modified: contents: depth:)")
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if r.searchEditor.Len() == 0 && !r.snap.Searching {
				return layout.Dimensions{}
			}
			return layout.Inset{Left: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return r.toolButton(gtx, &r.clearBtn, "×", true)
			})
		}),
		layout.Rigid(gap),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return r.toolButton(gtx, &r.viewBtn, viewLabel, true)
		}),
		layout.Rigid(gap),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			cb := material.CheckBox(r.Theme, &r.hiddenBox, "Hidden")
			cb.Color = colBlack
			cb.IconColor = colAccent
			return cb.Layout(gtx)
		}),
	)
}

func (r *Renderer) updateNavBar(gtx layout.Context) {
	if r.backBtn.Clicked(gtx) {
		r.emit(app.Event{Kind: app.EvGoBack})
	}
	if r.homeBtn.Clicked(gtx) {
		r.emit(app.Event{Kind: app.EvGoHome})
	}
	if r.disksBtn.Clicked(gtx) {
		r.emit(app.Event{Kind: app.EvShowDisks})
	}
	if r.refreshBtn.Clicked(gtx) {
		r.emit(app.Event{Kind: app.EvRefresh})
	}
	if r.viewBtn.Clicked(gtx) {
		r.emit(app.Event{Kind: app.EvSwitchView, Mode: r.otherMode()})
	}

	// The checkbox toggles locally; the orchestrator owns the real value.
	if r.hiddenBox.Update(gtx) {
		r.emit(app.Event{Kind: app.EvToggleHidden})
	}
	r.hiddenBox.Value = r.snap.ShowHidden

	for {
		ev, ok := r.pathEditor.Update(gtx)
		if !ok {
			break
		}
		if e, ok := ev.(widget.SubmitEvent); ok {
			if p := strings.TrimSpace(e.Text); p != "" {
				r.emit(app.Event{Kind: app.EvGoTo, Text: p})
			}
			gtx.Execute(key.FocusCmd{Tag: &r.keyTag})
		}
	}
	// follow the backend's directory unless the user is typing
	if r.snap.Dir != r.shownDir && !gtx.Focused(&r.pathEditor) {
		r.shownDir = r.snap.Dir
		r.pathEditor.SetText(r.snap.Listing.PathLabel)
	}

	for {
		ev, ok := r.searchEditor.Update(gtx)
		if !ok {
			break
		}
		if e, ok := ev.(widget.SubmitEvent); ok {
			if strings.TrimSpace(e.Text) == "" {
				r.emit(app.Event{Kind: app.EvCancelSearch})
			} else {
				r.emit(app.Event{Kind: app.EvSearch, Text: e.Text})
			}
		}
	}
	if r.clearBtn.Clicked(gtx) {
		r.searchEditor.SetText("")
		if r.snap.Searching {
			r.emit(app.Event{Kind: app.EvCancelSearch})
		}
	}
}

func (r *Renderer) editorBox(gtx layout.Context, ed *widget.Editor, hint string) layout.Dimensions {
	return widget.Border{
		Color:        colLightGray,
		Width:        unit.Dp(1),
		CornerRadius: unit.Dp(4),
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			e := material.Editor(r.Theme, ed, hint)
			e.Color = colBlack
			e.HintColor = colGray
			e.TextSize = unit.Sp(13)
			return e.Layout(gtx)
		})
	})
}

// otherMode is the mode the view toggle switches to.
func (r *Renderer) otherMode() view.Mode {
	if r.snap.Mode == view.ModeList {
		return view.ModeGrid
	}
	return view.ModeList
}
