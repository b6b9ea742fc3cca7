package ui

import (
	"image"
	"io"

	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/transfer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/justyntemme/skiff/internal/app"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/view"
)

func (r *Renderer) layoutList(gtx layout.Context) layout.Dimensions {
	rows := r.snap.Listing.Rows
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(r.layoutListHeader),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			dims := r.listState.Layout(gtx, len(rows), func(gtx layout.Context, i int) layout.Dimensions {
				return r.layoutRow(gtx, i, r.renderListRow)
			})
			r.finishDragHover()
			return dims
		}),
	)
}

func (r *Renderer) layoutListHeader(gtx layout.Context) layout.Dimensions {
	cols := [3]string{"Name", "Modified", "Size"}
	if r.snap.Listing.Disks {
		cols = [3]string{"Disk", "Used", "Capacity"}
	}
	return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4), Left: unit.Dp(44), Right: unit.Dp(12)}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			return columns(gtx, r.headerCell(cols[0]), r.headerCell(cols[1]), r.headerCell(cols[2]))
		})
}

func (r *Renderer) headerCell(s string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		lbl := material.Caption(r.Theme, s)
		lbl.Color = colGray
		lbl.Font.Weight = font.Bold
		return lbl.Layout(gtx)
	}
}

// columns lays out name, date and size columns with fixed proportions.
func columns(gtx layout.Context, name, mid, last layout.Widget) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(0.6, name),
		layout.Flexed(0.25, mid),
		layout.Flexed(0.15, last),
	)
}

// layoutRow wraps one row widget with click, drag and drop handling. The same
// handling serves the list rows and the grid tiles.
func (r *Renderer) layoutRow(gtx layout.Context, i int, content func(gtx layout.Context, row view.Row, bg bool) layout.Dimensions) layout.Dimensions {
	rows := r.snap.Listing.Rows
	if i >= len(rows) {
		return layout.Dimensions{}
	}
	row := rows[i]
	rs := r.row(i)
	disks := r.snap.Listing.Disks

	if !disks {
		rs.touch.Update(gtx, dragPayload(r.snap.ListingGen, i))
		if row.IsDir {
			r.acceptDrop(gtx, rs, i)
		}
	}

	selected := r.snap.Selected[row.Path]
	dropTarget := row.IsDir && r.snap.Hover == row.Path

	body := func(gtx layout.Context) layout.Dimensions {
		return layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx layout.Context) layout.Dimensions {
				var bg = colBackground
				switch {
				case dropTarget:
					bg = colDropTarget
				case selected:
					bg = colSelected
				case rs.touch.Hovered():
					bg = colHover
				}
				if bg != colBackground {
					rr := gtx.Dp(4)
					paint.FillShape(gtx.Ops, bg, clip.RRect{Rect: image.Rectangle{Max: gtx.Constraints.Min}, NE: rr, NW: rr, SE: rr, SW: rr}.Op(gtx.Ops))
				}
				return layout.Dimensions{Size: gtx.Constraints.Min}
			}),
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				return content(gtx, row, false)
			}),
		)
	}
	shadow := func(gtx layout.Context) layout.Dimensions {
		return content(gtx, row, true)
	}
	if disks {
		shadow = nil
	}

	dims, click := rs.touch.Layout(gtx, body, shadow)

	if !disks && row.IsDir {
		// drop target area for the next frame
		area := clip.Rect{Max: dims.Size}.Push(gtx.Ops)
		event.Op(gtx.Ops, &rs.dropTag)
		area.Pop()
	}

	if rs.touch.Dragging() {
		r.trackDragHover(i)
	}

	if click != nil {
		r.handleRowClick(i, click, disks)
	}
	return dims
}

func (r *Renderer) handleRowClick(i int, click *rowClick, disks bool) {
	switch {
	case click.Secondary:
		if disks {
			return
		}
		r.emit(app.Event{Kind: app.EvMenuOpenItem, Row: i, ListingGen: r.snap.ListingGen, Anchor: r.anchor()})
	case disks || click.Count >= 2:
		r.emitRow(app.EvOpenRow, i)
	default:
		r.emit(app.Event{
			Kind:       app.EvSelect,
			Row:        i,
			ListingGen: r.snap.ListingGen,
			Toggle:     click.Mods.Contain(key.ModShortcut),
		})
	}
}

// trackDragHover reports the folder row under the pointer while row i is
// dragged.
func (r *Renderer) trackDragHover(dragged int) {
	target := -1
	for j, rs := range r.rows {
		if j == dragged || j >= len(r.snap.Listing.Rows) {
			continue
		}
		if rs.touch.Hovered() && r.snap.Listing.Rows[j].IsDir {
			target = j
			break
		}
	}
	r.dragActive = true
	if target != r.hovered {
		r.hovered = target
		r.emitRow(app.EvDragHover, target)
	}
}

// finishDragHover clears the hover once no row is being dragged.
func (r *Renderer) finishDragHover() {
	if !r.dragActive && r.hovered >= 0 {
		r.hovered = -1
		r.emitRow(app.EvDragHover, -1)
	}
	r.dragActive = false
}

// acceptDrop turns a row transfer dropped on folder row i into an internal
// drop event.
func (r *Renderer) acceptDrop(gtx layout.Context, rs *rowState, i int) {
	for {
		ev, ok := gtx.Event(transfer.TargetFilter{Target: &rs.dropTag, Type: FileDragMIME})
		if !ok {
			return
		}
		e, ok := ev.(transfer.DataEvent)
		if !ok {
			continue
		}
		rc := e.Open()
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		gen, src, ok := parseDragPayload(string(data))
		if !ok || gen != r.snap.ListingGen || src == i {
			debug.Log(debug.DROP, "ignoring drop %q on row %d", data, i)
			continue
		}
		r.emit(app.Event{Kind: app.EvInternalDrop, Row: i, Source: src, ListingGen: gen})
	}
}

func (r *Renderer) renderListRow(gtx layout.Context, row view.Row, shadow bool) layout.Dimensions {
	if shadow {
		gtx.Constraints.Max.X = gtx.Dp(260)
	}
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	mid, last := row.Modified, row.Size
	if r.snap.Listing.Disks {
		mid, last = row.Load, row.Capacity
	}
	return layout.Inset{Top: unit.Dp(3), Bottom: unit.Dp(3), Left: unit.Dp(8), Right: unit.Dp(12)}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			return columns(gtx,
				func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							return r.renderIcon(gtx, row.Icon, unit.Dp(24))
						}),
						layout.Rigid(layout.Spacer{Width: unit.Dp(10)}.Layout),
						layout.Flexed(1, r.nameLabel(row)),
					)
				},
				r.cellLabel(mid),
				r.cellLabel(last),
			)
		})
}

func (r *Renderer) nameLabel(row view.Row) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		lbl := material.Body2(r.Theme, row.Name)
		lbl.Color = colBlack
		if row.IsDir {
			lbl.Color = colDirBlue
			lbl.Font.Weight = font.Medium
		}
		lbl.MaxLines = 1
		return lbl.Layout(gtx)
	}
}

func (r *Renderer) cellLabel(s string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		lbl := material.Caption(r.Theme, s)
		lbl.Color = colGray
		lbl.MaxLines = 1
		return lbl.Layout(gtx)
	}
}
