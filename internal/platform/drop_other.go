//go:build !windows

package platform

// SetupExternalDrop is a no-op here; Gio delivers no native drop events on
// this platform.
func SetupExternalDrop(hwnd uintptr) {}
