//go:build linux

package trash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMoveToTrashWritesInfo(t *testing.T) {
	Root = t.TempDir()
	defer func() { Root = "" }()

	dir := t.TempDir()
	victim := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(victim, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := MoveToTrash(victim); err != nil {
		t.Fatalf("MoveToTrash: %v", err)
	}
	if _, err := os.Stat(victim); !os.IsNotExist(err) {
		t.Errorf("expected original to be gone, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(Root, "files", "notes.txt")); err != nil {
		t.Errorf("trashed file missing: %v", err)
	}
	info, err := os.ReadFile(filepath.Join(Root, "info", "notes.txt.trashinfo"))
	if err != nil {
		t.Fatalf("trashinfo missing: %v", err)
	}
	if !strings.HasPrefix(string(info), "[Trash Info]\nPath=") {
		t.Errorf("unexpected trashinfo: %q", info)
	}
}

func TestMoveToTrashNameClash(t *testing.T) {
	Root = t.TempDir()
	defer func() { Root = "" }()

	for i := 0; i < 2; i++ {
		dir := t.TempDir()
		p := filepath.Join(dir, "a.txt")
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := MoveToTrash(p); err != nil {
			t.Fatalf("MoveToTrash #%d: %v", i, err)
		}
	}
	if _, err := os.Stat(filepath.Join(Root, "files", "a.1.txt")); err != nil {
		t.Errorf("second item should be renamed a.1.txt: %v", err)
	}
}

func TestRemoveWithoutTrash(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(filepath.Join(sub, "deep"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Remove(sub, false); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(sub); !os.IsNotExist(err) {
		t.Errorf("expected directory removed, stat err=%v", err)
	}
}
