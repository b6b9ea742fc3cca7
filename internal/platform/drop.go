// Package platform receives files dropped onto the window from other
// applications and hands them to a single registered handler.
package platform

import (
	"sync"

	"github.com/justyntemme/skiff/internal/debug"
)

// DropHandler is called when files are dropped from an external source.
// targetDir is the directory shown when the drop happened.
type DropHandler func(paths []string, targetDir string)

var (
	dropMu            sync.Mutex
	dropHandler       DropHandler
	pendingDrop       []string
	currentDropTarget string
)

// SetDropHandler sets the callback for external drops. Drops that arrived
// before a handler was registered are delivered immediately.
func SetDropHandler(handler DropHandler) {
	dropMu.Lock()
	dropHandler = handler
	pending := pendingDrop
	target := currentDropTarget
	if handler != nil {
		pendingDrop = nil
	}
	dropMu.Unlock()

	if handler != nil && len(pending) > 0 {
		debug.Log(debug.DROP, "delivering %d queued paths", len(pending))
		handler(pending, target)
	}
}

// SetCurrentDropTarget records the directory drops land in.
func SetCurrentDropTarget(path string) {
	dropMu.Lock()
	defer dropMu.Unlock()
	currentDropTarget = path
}

// CurrentDropTarget returns the directory set by SetCurrentDropTarget.
func CurrentDropTarget() string {
	dropMu.Lock()
	defer dropMu.Unlock()
	return currentDropTarget
}

// Deliver passes dropped paths to the handler, or queues them until one is
// set. The handler runs on the caller's goroutine.
func Deliver(paths []string) {
	if len(paths) == 0 {
		return
	}
	dropMu.Lock()
	handler := dropHandler
	target := currentDropTarget
	if handler == nil {
		pendingDrop = append(pendingDrop, paths...)
	}
	dropMu.Unlock()

	if handler == nil {
		debug.Log(debug.DROP, "no handler, queuing %d paths", len(paths))
		return
	}
	handler(paths, target)
}
