package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/trash"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
)

func readOnly(path string) error {
	return failf(KindUnsupported, "%s is read-only", path)
}

func (s *System) createFolder(cwd, name string) (string, error) {
	if isRemotePath(cwd) {
		return "", readOnly(cwd)
	}
	path := filepath.Join(cwd, name)
	if err := os.Mkdir(path, dirPermission); err != nil {
		return "", err
	}
	return path, nil
}

func (s *System) createFile(cwd, name string) (string, error) {
	if isRemotePath(cwd) {
		return "", readOnly(cwd)
	}
	if !isBaseName(name) {
		return "", failf(KindInvalid, "%q is not a valid file name", name)
	}
	path := filepath.Join(cwd, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePermission)
	if err != nil {
		return "", err
	}
	return path, f.Close()
}

// rename renames src within its own directory.
func (s *System) rename(src, newName string) (string, error) {
	if isRemotePath(src) {
		return "", readOnly(src)
	}
	if _, err := os.Lstat(src); err != nil {
		return "", err
	}
	dst := filepath.Join(filepath.Dir(src), newName)
	if dst == src {
		return dst, nil
	}
	if _, err := os.Lstat(dst); err == nil {
		return "", failf(KindExists, "%s already exists", newName)
	}
	if err := os.Rename(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (s *System) deleteItem(cwd, name string) error {
	if isRemotePath(cwd) {
		return readOnly(cwd)
	}
	target := filepath.Join(cwd, name)
	debug.Log(debug.BACKEND, "delete %q trash=%v", target, s.opts.UseTrash)
	return trash.Remove(target, s.opts.UseTrash)
}

// copyInto copies src into dir under name, picking a free name when taken.
func (s *System) copyInto(ctx context.Context, dir, src, name string) (string, error) {
	if isRemotePath(dir) {
		return "", readOnly(dir)
	}
	if p := s.providerFor(src); p != nil {
		return p.Download(ctx, src, dir)
	}
	dst := uniqueDest(dir, name)
	if err := copyPath(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// copyMany copies every item into dir. All items are attempted; the errors
// are joined.
func (s *System) copyMany(ctx context.Context, dir string, items []string) error {
	if isRemotePath(dir) {
		return readOnly(dir)
	}
	if err := requireDir(dir); err != nil {
		return err
	}
	var errs []error
	for _, item := range items {
		name := filepath.Base(item)
		if isRemotePath(item) {
			name = remoteBase(item)
		}
		if _, err := s.copyInto(ctx, dir, item, name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func remoteBase(p string) string {
	p = strings.TrimSuffix(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// uniqueDest returns dir/name, or dir/stem_copyN.ext for the first N that is free.
func uniqueDest(dir, name string) string {
	dst := filepath.Join(dir, name)
	if !pathExists(dst) {
		return dst
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		dst = filepath.Join(dir, stem+"_copy"+strconv.Itoa(i)+ext)
		if !pathExists(dst) {
			return dst
		}
	}
}

func copyPath(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst)
	}
	rel, err := filepath.Rel(src, dst)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return failf(KindInvalid, "cannot copy %s into itself", filepath.Base(src))
	}
	return copyDir(src, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// copyDir collects the tree with fastwalk, then creates directories
// parents-first and copies the files.
func copyDir(src, dst string) error {
	type copyItem struct {
		srcPath string
		dstPath string
		isDir   bool
		mode    fs.FileMode
	}
	var (
		items   []copyItem
		itemsMu sync.Mutex
	)

	conf := &fastwalk.Config{Follow: false}
	err := fastwalk.Walk(conf, src, func(fullPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		rel, err := filepath.Rel(src, fullPath)
		if err != nil || rel == "." {
			return nil
		}
		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			return nil
		}
		itemsMu.Lock()
		items = append(items, copyItem{
			srcPath: fullPath,
			dstPath: filepath.Join(dst, rel),
			isDir:   info.IsDir(),
			mode:    info.Mode(),
		})
		itemsMu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, dirPermission); err != nil {
		return err
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].isDir != items[j].isDir {
			return items[i].isDir
		}
		return len(items[i].dstPath) < len(items[j].dstPath)
	})

	for _, item := range items {
		if item.isDir {
			if err := os.MkdirAll(item.dstPath, item.mode.Perm()|0o700); err != nil {
				return err
			}
			continue
		}
		if !item.mode.IsRegular() {
			continue
		}
		if err := copyFile(item.srcPath, item.dstPath); err != nil {
			return err
		}
	}
	return nil
}
