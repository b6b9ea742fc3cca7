package backend

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bodgit/sevenzip"
	"github.com/charlievieth/fastwalk"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/nwaples/rardecode/v2"
)

type archiveKind int

const (
	archiveUnknown archiveKind = iota
	archiveZip
	archiveTar
	archiveTarZst
	archiveZst
	archiveRar
	archive7z
)

var archiveSuffixes = []struct {
	suffix string
	kind   archiveKind
}{
	// longest first
	{".tar.zst", archiveTarZst},
	{".tzst", archiveTarZst},
	{".zip", archiveZip},
	{".tar", archiveTar},
	{".zst", archiveZst},
	{".rar", archiveRar},
	{".7z", archive7z},
}

// archiveKindOf returns the archive kind and the name without its suffix.
func archiveKindOf(name string) (archiveKind, string) {
	lower := strings.ToLower(name)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s.suffix) && len(name) > len(s.suffix) {
			return s.kind, name[:len(name)-len(s.suffix)]
		}
	}
	return archiveUnknown, name
}

// compress writes src (file or directory) to a zip next to it and returns the
// archive path.
func (s *System) compress(ctx context.Context, src string) (string, error) {
	if isRemotePath(src) {
		return "", readOnly(src)
	}
	src = filepath.Clean(src)
	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}

	dst := uniqueDest(filepath.Dir(src), filepath.Base(src)+".zip")
	debug.Log(debug.BACKEND, "compress %q -> %q", src, dst)

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePermission)
	if err != nil {
		return "", err
	}
	zw := zip.NewWriter(out)

	if info.IsDir() {
		err = zipDir(ctx, zw, src)
	} else {
		err = zipFile(zw, src, info.Name(), info)
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return "", err
	}
	return dst, nil
}

func zipFile(zw *zip.Writer, path, name string, info fs.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
		hdr.Method = zip.Store
		_, err := zw.CreateHeader(hdr)
		return err
	}
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// zipDir stores the tree under its own base name so that extracting
// recreates the folder.
func zipDir(ctx context.Context, zw *zip.Writer, root string) error {
	type item struct {
		path string
		name string
		info fs.FileInfo
	}
	var (
		items []item
		mu    sync.Mutex
	)
	base := filepath.Base(root)

	err := fastwalk.Walk(&fastwalk.Config{Follow: false}, root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		info, err := fastwalk.StatDirEntry(path, d)
		if err != nil {
			return nil
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			return nil
		}
		name := base
		if rel != "." {
			name = base + "/" + filepath.ToSlash(rel)
		}
		mu.Lock()
		items = append(items, item{path: path, name: name, info: info})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].name < items[j].name })
	for _, it := range items {
		if err := zipFile(zw, it.path, it.name, it.info); err != nil {
			return fmt.Errorf("%s: %w", it.name, err)
		}
	}
	return nil
}

// extract unpacks an archive into a fresh sibling directory named after the
// archive (or, for a bare .zst, a sibling file) and returns that path.
func (s *System) extract(ctx context.Context, archive string) (string, error) {
	if isRemotePath(archive) {
		return "", readOnly(archive)
	}
	if _, err := os.Stat(archive); err != nil {
		return "", err
	}
	kind, stem := archiveKindOf(filepath.Base(archive))
	if kind == archiveUnknown {
		return "", failf(KindUnsupported, "%s is not a supported archive", filepath.Base(archive))
	}
	dir := filepath.Dir(archive)

	if kind == archiveZst {
		dst := uniqueDest(dir, stem)
		return dst, decompressZst(archive, dst)
	}

	dest := uniqueDest(dir, stem)
	if err := os.Mkdir(dest, dirPermission); err != nil {
		return "", err
	}
	debug.Log(debug.BACKEND, "extract %q -> %q", archive, dest)

	var err error
	switch kind {
	case archiveZip:
		err = extractZip(ctx, archive, dest)
	case archiveTar:
		err = extractTarFile(ctx, archive, dest, false)
	case archiveTarZst:
		err = extractTarFile(ctx, archive, dest, true)
	case archiveRar:
		err = extractRar(ctx, archive, dest)
	case archive7z:
		err = extract7z(ctx, archive, dest)
	}
	if err != nil {
		os.RemoveAll(dest)
		return "", err
	}
	return dest, nil
}

var errUnsafePath = errors.New("archive entry escapes destination")

// safeJoin resolves an archive entry name under dest, rejecting absolute
// names and ".." traversal.
func safeJoin(dest, name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(name, "/")))
	if clean == "." {
		return dest, nil
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errUnsafePath, name)
	}
	return filepath.Join(dest, clean), nil
}

func writeEntry(dest, name string, isDir bool, mode fs.FileMode, r io.Reader) error {
	target, err := safeJoin(dest, name)
	if err != nil {
		return err
	}
	if isDir {
		return os.MkdirAll(target, dirPermission)
	}
	if err := os.MkdirAll(filepath.Dir(target), dirPermission); err != nil {
		return err
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = filePermission
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func extractZip(ctx context.Context, archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		info := f.FileInfo()
		if info.IsDir() {
			if err := writeEntry(dest, f.Name, true, 0, nil); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(dest, f.Name, false, info.Mode(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extractTarFile(ctx context.Context, archive, dest string, zst bool) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if zst {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return err
		}
		defer dec.Close()
		r = dec
	}
	return extractTar(ctx, r, dest)
}

func extractTar(ctx context.Context, r io.Reader, dest string) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			err = writeEntry(dest, hdr.Name, true, 0, nil)
		case tar.TypeReg:
			err = writeEntry(dest, hdr.Name, false, fs.FileMode(hdr.Mode), tr)
		default:
			continue
		}
		if err != nil {
			return err
		}
	}
}

func decompressZst(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return err
	}
	defer dec.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePermission)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, dec); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

func extractRar(ctx context.Context, archive, dest string) error {
	rc, err := rardecode.OpenReader(archive)
	if err != nil {
		return err
	}
	defer rc.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := rc.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := writeEntry(dest, hdr.Name, hdr.IsDir, hdr.Mode(), rc); err != nil {
			return err
		}
	}
}

func extract7z(ctx context.Context, archive, dest string) error {
	r, err := sevenzip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		info := f.FileInfo()
		if info.IsDir() {
			if err := writeEntry(dest, f.Name, true, 0, nil); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(dest, f.Name, false, info.Mode(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
