//go:build !windows

package desktop

func handlePlatformEvent(e any) bool {
	return false
}
