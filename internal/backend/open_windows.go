//go:build windows

package backend

import "os/exec"

func platformOpen(path string) error {
	return exec.Command("rundll32", "url.dll,FileProtocolHandler", path).Start()
}
