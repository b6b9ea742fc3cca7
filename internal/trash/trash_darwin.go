//go:build darwin

package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// macOS keeps no metadata next to ~/.Trash; name clashes get a timestamp.

func getPath() string {
	if Root != "" {
		return Root
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".Trash")
}

func isAvailable() bool {
	root := getPath()
	if root == "" {
		return false
	}
	info, err := os.Stat(root)
	return err == nil && info.IsDir()
}

func moveToTrash(path string) error {
	root := getPath()
	if root == "" {
		return ErrUnavailable
	}
	baseName := filepath.Base(path)
	dest := filepath.Join(root, baseName)
	if _, err := os.Lstat(dest); err == nil {
		ext := filepath.Ext(baseName)
		stem := strings.TrimSuffix(baseName, ext)
		dest = filepath.Join(root, fmt.Sprintf("%s %s%s", stem, time.Now().Format("2006-01-02-150405"), ext))
	}
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("move to trash: %w", err)
	}
	return nil
}
