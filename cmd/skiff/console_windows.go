//go:build windows

package main

import "golang.org/x/sys/windows"

// manageConsole detaches from the console window unless keep is set, so a
// launch from Explorer does not leave a terminal open.
func manageConsole(keep bool) {
	if keep {
		return
	}
	windows.NewLazySystemDLL("kernel32.dll").NewProc("FreeConsole").Call()
}
