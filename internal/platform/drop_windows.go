//go:build windows

package platform

// External drops use DragAcceptFiles plus window subclassing to receive
// WM_DROPFILES. This needs neither cgo nor OLE callbacks.

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/justyntemme/skiff/internal/debug"
)

const wmDropFiles = 0x0233

var (
	shell32  = windows.NewLazySystemDLL("shell32.dll")
	comctl32 = windows.NewLazySystemDLL("comctl32.dll")

	procDragAcceptFiles   = shell32.NewProc("DragAcceptFiles")
	procDragQueryFileW    = shell32.NewProc("DragQueryFileW")
	procDragFinish        = shell32.NewProc("DragFinish")
	procSetWindowSubclass = comctl32.NewProc("SetWindowSubclass")
	procDefSubclassProc   = comctl32.NewProc("DefSubclassProc")

	// kept alive for the lifetime of the window
	subclassCallback uintptr
)

const dropSubclassID = 1

func dropSubclassProc(hwnd uintptr, msg uint32, wParam, lParam, _, _ uintptr) uintptr {
	if msg == wmDropFiles {
		Deliver(queryDropFiles(wParam))
		return 0
	}
	ret, _, _ := procDefSubclassProc.Call(hwnd, uintptr(msg), wParam, lParam)
	return ret
}

// queryDropFiles reads the paths from an HDROP and releases it.
func queryDropFiles(hDrop uintptr) []string {
	defer procDragFinish.Call(hDrop)

	count, _, _ := procDragQueryFileW.Call(hDrop, 0xFFFFFFFF, 0, 0)
	debug.Log(debug.DROP, "WM_DROPFILES with %d files", count)

	paths := make([]string, 0, count)
	for i := uintptr(0); i < count; i++ {
		size, _, _ := procDragQueryFileW.Call(hDrop, i, 0, 0)
		if size == 0 {
			continue
		}
		buf := make([]uint16, size+1)
		procDragQueryFileW.Call(hDrop, i, uintptr(unsafe.Pointer(&buf[0])), size+1)
		paths = append(paths, windows.UTF16ToString(buf))
	}
	return paths
}

// SetupExternalDrop makes the window accept files dropped from Explorer.
func SetupExternalDrop(hwnd uintptr) {
	if hwnd == 0 {
		return
	}
	procDragAcceptFiles.Call(hwnd, 1)

	subclassCallback = syscall.NewCallback(dropSubclassProc)
	ret, _, err := procSetWindowSubclass.Call(hwnd, subclassCallback, dropSubclassID, 0)
	if ret == 0 {
		debug.Log(debug.DROP, "SetWindowSubclass failed: %v", err)
		return
	}
	debug.Log(debug.DROP, "external drop enabled for hwnd 0x%x", hwnd)
}
