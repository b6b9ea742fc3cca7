//go:build linux

package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Linux follows the freedesktop.org trash layout:
//
//	$XDG_DATA_HOME/Trash/files/<name>             the trashed item
//	$XDG_DATA_HOME/Trash/info/<name>.trashinfo    original path and deletion date

func getPath() string {
	if Root != "" {
		return Root
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "Trash")
}

func isAvailable() bool {
	root := getPath()
	if root == "" {
		return false
	}
	return os.MkdirAll(filepath.Join(root, "files"), 0o700) == nil &&
		os.MkdirAll(filepath.Join(root, "info"), 0o700) == nil
}

func moveToTrash(path string) error {
	root := getPath()
	if root == "" {
		return ErrUnavailable
	}
	filesPath := filepath.Join(root, "files")
	infoPath := filepath.Join(root, "info")
	if err := os.MkdirAll(filesPath, 0o700); err != nil {
		return fmt.Errorf("create trash files directory: %w", err)
	}
	if err := os.MkdirAll(infoPath, 0o700); err != nil {
		return fmt.Errorf("create trash info directory: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	baseName := filepath.Base(absPath)
	ext := filepath.Ext(baseName)
	stem := strings.TrimSuffix(baseName, ext)
	destName := baseName
	for n := 1; ; n++ {
		if _, err := os.Lstat(filepath.Join(filesPath, destName)); os.IsNotExist(err) {
			break
		}
		destName = fmt.Sprintf("%s.%d%s", stem, n, ext)
	}

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		url.PathEscape(absPath), time.Now().Format("2006-01-02T15:04:05"))
	infoFile := filepath.Join(infoPath, destName+".trashinfo")
	if err := os.WriteFile(infoFile, []byte(info), 0o600); err != nil {
		return fmt.Errorf("write trashinfo: %w", err)
	}

	if err := os.Rename(absPath, filepath.Join(filesPath, destName)); err != nil {
		os.Remove(infoFile)
		return fmt.Errorf("move to trash: %w", err)
	}
	return nil
}
