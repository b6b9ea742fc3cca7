package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/justyntemme/skiff/internal/backend"
)

func TestClipboardSingleSlot(t *testing.T) {
	var c Clipboard
	assert.True(t, c.Empty())

	c.Copy("a", "/a")
	c.Copy("b", "/b")
	item, ok := c.Take()
	assert.True(t, ok)
	assert.Equal(t, ClipItem{Name: "b", Path: "/b"}, item)

	_, ok = c.Take()
	assert.False(t, ok)
}

func TestInFlightReleasedOnlyByHolder(t *testing.T) {
	var g InFlight
	assert.True(t, g.Acquire(3))
	assert.False(t, g.Acquire(4))
	assert.False(t, g.Release(2))
	assert.True(t, g.Held())
	assert.True(t, g.Release(3))
	assert.False(t, g.Held())
	assert.False(t, g.Release(3))
}

func TestToastsExpire(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewToasts(2*time.Second, func() time.Time { return now })

	first := ts.Push(ToastInfo, "one")
	ts.Push(ToastError, "two")
	assert.Len(t, ts.Active(), 2)

	ts.Dismiss(first.ID)
	assert.Len(t, ts.Active(), 1)

	now = now.Add(3 * time.Second)
	assert.Empty(t, ts.Active())
}

func TestToastsKeepNewest(t *testing.T) {
	ts := NewToasts(time.Minute, nil)
	for i := 0; i < maxToasts+2; i++ {
		ts.Push(ToastInfo, string(rune('a'+i)))
	}
	active := ts.Active()
	assert.Len(t, active, maxToasts)
	assert.Equal(t, "c", active[0].Message)
}

func TestDragSelection(t *testing.T) {
	var d DragDrop
	d.Select("/w/a", false)
	d.Select("/w/b", true)
	d.Select("/w/a", true)
	assert.Equal(t, []string{"/w/b"}, d.Selection())

	d.Select("/w/c", false)
	assert.Equal(t, []string{"/w/c"}, d.Selection())
}

func TestInternalRequestFiltersSources(t *testing.T) {
	var d DragDrop
	folder := backend.Entry{Name: "sub", Path: "/w/sub", IsDir: true}

	_, ok := d.InternalRequest("/w/sub", folder)
	assert.False(t, ok, "a folder is not copied into itself")

	_, ok = d.InternalRequest("/w/sub/x", folder)
	assert.False(t, ok, "already inside the folder")

	d.Select("/w/a", false)
	req, ok := d.InternalRequest("/w/z", folder)
	assert.True(t, ok)
	assert.Equal(t, []string{"/w/z"}, req.ArrItems, "an unselected drag source moves alone")
	assert.Empty(t, d.Selection())

	_, ok = d.InternalRequest("/w/a", backend.Entry{Name: "f.txt", Path: "/w/f.txt"})
	assert.False(t, ok)
}

func TestExternalRequest(t *testing.T) {
	req, ok := ExternalRequest([]string{" /x/a ", "", "/x/b"}, "/w")
	assert.True(t, ok)
	assert.Equal(t, backend.ArrCopyPaste, req.Command)
	assert.Equal(t, []string{"/x/a", "/x/b"}, req.ArrItems)
	assert.Equal(t, "/w", req.CopyToPath)

	_, ok = ExternalRequest(nil, "/w")
	assert.False(t, ok)
}

func TestNavigationTokens(t *testing.T) {
	gw := newFakeGateway()
	n := NewNavigationController(gw)

	assert.NoError(t, n.GoHome())
	assert.True(t, n.Loading())
	assert.True(t, n.Pending())

	token, err := n.Dispatch(backend.Request{Command: backend.CheckConfig})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), token)
	assert.Equal(t, int64(1), n.Latest(), "non-listing requests leave the latest token alone")

	assert.False(t, n.Accept(backend.Response{Command: backend.CheckConfig, Token: 2}))
	assert.True(t, n.Accept(backend.Response{Command: backend.GoHome, Token: 1}))
	assert.False(t, n.Loading())
	assert.False(t, n.Accept(backend.Response{Command: backend.GoHome, Token: 1}), "answered once")

	assert.NoError(t, n.Search("  "))
	assert.Equal(t, backend.ListDirs, gw.last().Command)
}
