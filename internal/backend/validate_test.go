package backend

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name string
		req  Request
		kind FailureKind // empty means valid
	}{
		{"list needs nothing", Request{Command: ListDirs}, ""},
		{"missing command", Request{}, KindInvalid},
		{"unknown command", Request{Command: "format_disk"}, KindUnsupported},
		{"dir_changed is not requestable", Request{Command: DirChanged}, KindUnsupported},
		{"open_dir without path", Request{Command: OpenDir}, KindInvalid},
		{"open_dir with path", Request{Command: OpenDir, Path: "/tmp"}, ""},
		{"folder name with slash", Request{Command: CreateFolder, FolderName: "a/b"}, KindInvalid},
		{"folder name dot-dot", Request{Command: CreateFolder, FolderName: ".."}, KindInvalid},
		{"folder name ok", Request{Command: CreateFolder, FolderName: ".config"}, ""},
		{"rename needs new name", Request{Command: RenameElement, Path: "/tmp/a"}, KindInvalid},
		{"copy_paste needs source", Request{Command: CopyPaste, ActFileName: "a"}, KindInvalid},
		{"arr_copy_paste empty", Request{Command: ArrCopyPaste}, KindInvalid},
		{"arr_copy_paste blank item", Request{Command: ArrCopyPaste, ArrItems: []string{""}}, KindInvalid},
		{"arr_copy_paste ok", Request{Command: ArrCopyPaste, ArrItems: []string{"/a"}}, ""},
		{"switch_view bad mode", Request{Command: SwitchView, ViewMode: "grid"}, KindInvalid},
		{"switch_view column", Request{Command: SwitchView, ViewMode: "column"}, ""},
		{"search needs query", Request{Command: SearchFor}, KindInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.req)
			if tc.kind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.kind, AsFailure(err).Kind)
		})
	}
}

func TestAsFailure(t *testing.T) {
	assert.Nil(t, AsFailure(nil))

	wrapped := fmt.Errorf("stat: %w", fs.ErrNotExist)
	assert.Equal(t, KindNotFound, AsFailure(wrapped).Kind)
	assert.Equal(t, KindPermission, AsFailure(fs.ErrPermission).Kind)
	assert.Equal(t, KindExists, AsFailure(fs.ErrExist).Kind)
	assert.Equal(t, KindUnsupported, AsFailure(errors.ErrUnsupported).Kind)
	assert.Equal(t, KindInternal, AsFailure(errors.New("boom")).Kind)

	f := failf(KindExists, "x exists")
	assert.Same(t, f, AsFailure(fmt.Errorf("ctx: %w", f)))
	assert.Equal(t, "exists: x exists", f.Error())
}

func TestCommandReturnsListing(t *testing.T) {
	for _, c := range []Command{ListDirs, OpenDir, GoHome, GoBack, GoToDir, SearchFor, DeleteItem, CopyPaste, ArrCopyPaste, SwitchView} {
		assert.True(t, c.ReturnsListing(), c)
	}
	for _, c := range []Command{OpenItem, CreateFolder, CreateFile, RenameElement, CompressItem, ExtractItem, ListDisks, CheckConfig, GetCurrentDir, DirChanged} {
		assert.False(t, c.ReturnsListing(), c)
	}
}
