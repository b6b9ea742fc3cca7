//go:build darwin

package backend

import "os/exec"

func platformOpen(path string) error {
	return exec.Command("open", path).Start()
}
