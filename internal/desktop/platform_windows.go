//go:build windows

package desktop

import (
	gioapp "gioui.org/app"

	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/platform"
)

// handlePlatformEvent enables external drops once the HWND is known.
func handlePlatformEvent(e any) bool {
	if evt, ok := e.(gioapp.Win32ViewEvent); ok {
		debug.Log(debug.APP, "Win32ViewEvent: valid=%v", evt.Valid())
		if evt.Valid() {
			platform.SetupExternalDrop(evt.HWND)
		}
		return true
	}
	return false
}
