package backend

import (
	"archive/tar"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveKindOf(t *testing.T) {
	testCases := []struct {
		name string
		kind archiveKind
		stem string
	}{
		{"photos.zip", archiveZip, "photos"},
		{"PHOTOS.ZIP", archiveZip, "PHOTOS"},
		{"src.tar", archiveTar, "src"},
		{"src.tar.zst", archiveTarZst, "src"},
		{"src.tzst", archiveTarZst, "src"},
		{"dump.sql.zst", archiveZst, "dump.sql"},
		{"music.rar", archiveRar, "music"},
		{"bundle.7z", archive7z, "bundle"},
		{"notes.txt", archiveUnknown, "notes.txt"},
		{".zip", archiveUnknown, ".zip"},
	}
	for _, tc := range testCases {
		kind, stem := archiveKindOf(tc.name)
		assert.Equal(t, tc.kind, kind, tc.name)
		assert.Equal(t, tc.stem, stem, tc.name)
	}
}

func TestCompressExtractRoundTrip(t *testing.T) {
	s, root := newTestSystem(t)
	mkfile(t, filepath.Join(root, "proj", "main.go"), "package main")
	mkfile(t, filepath.Join(root, "proj", "docs", "readme.md"), "# hi")
	ctx := context.Background()

	resp := s.Handle(ctx, Request{Command: CompressItem, FromPath: filepath.Join(root, "proj")})
	require.NoError(t, resp.Err())
	assert.Equal(t, filepath.Join(root, "proj.zip"), resp.Output)

	// a second compress must not clobber the first archive
	resp = s.Handle(ctx, Request{Command: CompressItem, FromPath: filepath.Join(root, "proj")})
	require.NoError(t, resp.Err())
	assert.Equal(t, filepath.Join(root, "proj_copy1.zip"), resp.Output)

	require.NoError(t, os.Rename(filepath.Join(root, "proj"), filepath.Join(root, "orig")))

	resp = s.Handle(ctx, Request{Command: ExtractItem, FromPath: filepath.Join(root, "proj.zip")})
	require.NoError(t, resp.Err())
	assert.Equal(t, filepath.Join(root, "proj"), resp.Output)

	got, err := os.ReadFile(filepath.Join(root, "proj", "proj", "docs", "readme.md"))
	require.NoError(t, err)
	assert.Equal(t, "# hi", string(got))
}

func TestCompressSingleFile(t *testing.T) {
	s, root := newTestSystem(t)
	mkfile(t, filepath.Join(root, "a.txt"), "alpha")

	resp := s.Handle(context.Background(), Request{Command: CompressItem, FromPath: filepath.Join(root, "a.txt")})
	require.NoError(t, resp.Err())

	zr, err := zip.OpenReader(resp.Output)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "a.txt", zr.File[0].Name)
}

func TestExtractTarZst(t *testing.T) {
	s, root := newTestSystem(t)
	archive := filepath.Join(root, "bundle.tar.zst")

	f, err := os.Create(archive)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	tw := tar.NewWriter(enc)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "dir/", Typeflag: tar.TypeDir, Mode: 0o755}))
	body := []byte("zstd body")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "dir/file.txt", Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(body))}))
	_, err = tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	resp := s.Handle(context.Background(), Request{Command: ExtractItem, FromPath: archive})
	require.NoError(t, resp.Err())
	assert.Equal(t, filepath.Join(root, "bundle"), resp.Output)

	got, err := os.ReadFile(filepath.Join(root, "bundle", "dir", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "zstd body", string(got))
}

func TestExtractRejectsTraversal(t *testing.T) {
	s, root := newTestSystem(t)
	archive := filepath.Join(root, "evil.zip")

	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("../escaped.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	resp := s.Handle(context.Background(), Request{Command: ExtractItem, FromPath: archive})
	require.Error(t, resp.Err())
	assert.NoFileExists(t, filepath.Join(root, "escaped.txt"))
	assert.NoDirExists(t, filepath.Join(root, "evil"), "partial output is removed")
}

func TestExtractUnsupported(t *testing.T) {
	s, root := newTestSystem(t)
	mkfile(t, filepath.Join(root, "notes.txt"), "x")

	resp := s.Handle(context.Background(), Request{Command: ExtractItem, FromPath: filepath.Join(root, "notes.txt")})
	require.Error(t, resp.Err())
	assert.Equal(t, KindUnsupported, resp.Failure.Kind)
}

func TestSafeJoin(t *testing.T) {
	dest := filepath.FromSlash("/out")
	for _, name := range []string{"../x", "a/../../x", `..\x`} {
		_, err := safeJoin(dest, name)
		assert.True(t, errors.Is(err, errUnsafePath), name)
	}
	got, err := safeJoin(dest, "/abs/file")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "abs", "file"), got)
}
