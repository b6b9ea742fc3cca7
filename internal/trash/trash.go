// Package trash moves deleted items to the desktop trash instead of removing
// them outright.
package trash

import (
	"errors"
	"os"
)

// ErrUnavailable is returned when the platform has no usable trash.
var ErrUnavailable = errors.New("trash: not available on this platform")

// Root overrides the trash location when non-empty. Tests point it at a
// temporary directory.
var Root string

// MoveToTrash moves a file or directory to the trash.
func MoveToTrash(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	return moveToTrash(path)
}

// IsAvailable reports whether MoveToTrash can succeed on this machine.
func IsAvailable() bool {
	return isAvailable()
}

// Remove deletes path, through the trash when useTrash is set and a trash is
// available, permanently otherwise.
func Remove(path string, useTrash bool) error {
	if useTrash && IsAvailable() {
		return MoveToTrash(path)
	}
	return PermanentDelete(path)
}

// PermanentDelete removes a file or a whole directory tree.
func PermanentDelete(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}
