package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetDropHandler(nil)
	dropMu.Lock()
	pendingDrop = nil
	currentDropTarget = ""
	dropMu.Unlock()
}

func TestDeliverCallsHandler(t *testing.T) {
	reset()
	defer reset()

	var gotPaths []string
	var gotDir string
	SetDropHandler(func(paths []string, dir string) {
		gotPaths, gotDir = paths, dir
	})
	SetCurrentDropTarget("/home/user")
	Deliver([]string{"/tmp/a", "/tmp/b"})

	assert.Equal(t, []string{"/tmp/a", "/tmp/b"}, gotPaths)
	assert.Equal(t, "/home/user", gotDir)
	assert.Equal(t, "/home/user", CurrentDropTarget())
}

func TestDeliverQueuesUntilHandlerSet(t *testing.T) {
	reset()
	defer reset()

	Deliver([]string{"/tmp/a"})
	Deliver([]string{"/tmp/b"})
	Deliver(nil)

	var got []string
	SetDropHandler(func(paths []string, _ string) { got = append(got, paths...) })
	assert.Equal(t, []string{"/tmp/a", "/tmp/b"}, got)

	// queue drained
	got = nil
	SetDropHandler(func(paths []string, _ string) { got = append(got, paths...) })
	assert.Empty(t, got)
}
