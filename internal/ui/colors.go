package ui

import (
	"image/color"

	"github.com/justyntemme/skiff/internal/view"
)

// Theme colors - these are variables so they can be modified for dark mode
var (
	colWhite      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colBlack      = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	colGray       = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	colLightGray  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	colBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colDirBlue    = color.NRGBA{R: 0, G: 0, B: 128, A: 255}
	colSelected   = color.NRGBA{R: 200, G: 220, B: 255, A: 255}
	colHover      = color.NRGBA{R: 235, G: 240, B: 250, A: 255}
	colDropTarget = color.NRGBA{R: 180, G: 230, B: 190, A: 255}
	colStatusBar  = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	colDisabled   = color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	colDanger     = color.NRGBA{R: 220, G: 53, B: 69, A: 255}
	colAccent     = color.NRGBA{R: 66, G: 133, B: 244, A: 255}
	colBackdrop   = color.NRGBA{R: 0, G: 0, B: 0, A: 150}
	colMenuBorder = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	colMenuBg     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// SetDarkMode swaps the palette. Call before the first frame.
func SetDarkMode(dark bool) {
	if !dark {
		return
	}
	colBlack = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	colGray = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	colBackground = color.NRGBA{R: 30, G: 30, B: 32, A: 255}
	colDirBlue = color.NRGBA{R: 130, G: 170, B: 255, A: 255}
	colSelected = color.NRGBA{R: 50, G: 70, B: 110, A: 255}
	colHover = color.NRGBA{R: 45, G: 45, B: 50, A: 255}
	colDropTarget = color.NRGBA{R: 40, G: 90, B: 55, A: 255}
	colStatusBar = color.NRGBA{R: 40, G: 40, B: 44, A: 255}
	colMenuBorder = color.NRGBA{R: 70, G: 70, B: 75, A: 255}
	colMenuBg = color.NRGBA{R: 38, G: 38, B: 42, A: 255}
}

// iconStyle is the badge drawn for each icon kind.
var iconStyle = map[view.Icon]struct {
	label string
	col   color.NRGBA
}{
	view.IconFile:        {"FILE", color.NRGBA{R: 120, G: 120, B: 120, A: 255}},
	view.IconFolder:      {"DIR", color.NRGBA{R: 240, G: 180, B: 40, A: 255}},
	view.IconDisk:        {"DISK", color.NRGBA{R: 96, G: 125, B: 139, A: 255}},
	view.IconCode:        {"</>", color.NRGBA{R: 103, G: 58, B: 183, A: 255}},
	view.IconImage:       {"IMG", color.NRGBA{R: 0, G: 150, B: 136, A: 255}},
	view.IconText:        {"TXT", color.NRGBA{R: 90, G: 90, B: 90, A: 255}},
	view.IconWord:        {"DOC", color.NRGBA{R: 43, G: 87, B: 154, A: 255}},
	view.IconPDF:         {"PDF", color.NRGBA{R: 200, G: 40, B: 40, A: 255}},
	view.IconArchive:     {"ZIP", color.NRGBA{R: 121, G: 85, B: 72, A: 255}},
	view.IconSpreadsheet: {"XLS", color.NRGBA{R: 33, G: 115, B: 70, A: 255}},
}
