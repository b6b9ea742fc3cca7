package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/config"
	"github.com/justyntemme/skiff/internal/view"
)

func testApp(t *testing.T) *App {
	t.Helper()
	cfg := *config.DefaultConfig()
	cfg.Behavior.UseTrash = false
	return &App{cfg: cfg}
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0o644))
	return dir
}

func TestLsListsDirectory(t *testing.T) {
	dir := fixtureDir(t)
	var out bytes.Buffer
	err := runLs(context.Background(), testApp(t), lsOptions{view: "column", noColor: true, width: 100}, dir, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, dir)
	assert.Contains(t, s, "sub")
	assert.Contains(t, s, "a.txt")
	assert.Contains(t, s, "[folder]")
	assert.Contains(t, s, "5 Bytes")
	assert.NotContains(t, s, ".hidden")
	assert.Contains(t, s, "Objects: 2")
}

func TestLsHidden(t *testing.T) {
	dir := fixtureDir(t)
	var out bytes.Buffer
	err := runLs(context.Background(), testApp(t), lsOptions{hidden: true, noColor: true, width: 100}, dir, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), ".hidden")
	assert.Contains(t, out.String(), "Objects: 3")
}

func TestLsMissingDir(t *testing.T) {
	var out bytes.Buffer
	err := runLs(context.Background(), testApp(t), lsOptions{noColor: true}, filepath.Join(t.TempDir(), "nope"), &out)
	require.Error(t, err)
	assert.Equal(t, backend.KindNotFound, backend.AsFailure(err).Kind)
}

func TestLsRejectsUnknownView(t *testing.T) {
	var out bytes.Buffer
	err := runLs(context.Background(), testApp(t), lsOptions{view: "tiles"}, t.TempDir(), &out)
	assert.ErrorContains(t, err, "tiles")
}

func TestRenderListingTruncatesLongNames(t *testing.T) {
	l := view.Listing{
		Mode:       view.ModeList,
		CountLabel: "Objects: 1",
		Rows:       []view.Row{{Name: strings.Repeat("x", 200), Icon: view.IconFile, Size: "1 Bytes"}},
	}
	out := renderListing(l, 60)
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, strings.Repeat("x", 100))
}

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skiff", "config.json")
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", "--config", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "wrote "+path)
	m := config.NewManager(path)
	require.NoError(t, m.Load())
	assert.NoError(t, m.ParseError())
	assert.Equal(t, "wrap", m.Get().UI.ViewMode)
}
