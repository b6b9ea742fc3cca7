//go:build linux

package backend

import "os/exec"

// platformOpen opens the file with the desktop's default application.
func platformOpen(path string) error {
	return exec.Command("xdg-open", path).Start()
}
