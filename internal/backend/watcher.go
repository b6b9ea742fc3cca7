package backend

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/safego"
)

// dirWatcher follows the backend's current directory and emits a debounced
// DirChanged response when its contents change.
type dirWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	emit     func(Response)

	mu      sync.Mutex
	current string

	done      chan struct{}
	closeOnce sync.Once
}

func newDirWatcher(debounce time.Duration, emit func(Response)) (*dirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dw := &dirWatcher{
		watcher:  w,
		debounce: debounce,
		emit:     emit,
		done:     make(chan struct{}),
	}
	safego.Go(dw.run)
	return dw, nil
}

// Watch replaces the watched directory. Remote paths stop watching.
func (dw *dirWatcher) Watch(dir string) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dir == dw.current {
		return
	}
	if dw.current != "" {
		if err := dw.watcher.Remove(dw.current); err != nil {
			debug.Log(debug.WATCH, "unwatch %s: %v", dw.current, err)
		}
		dw.current = ""
	}
	if isRemotePath(dir) {
		return
	}
	if err := dw.watcher.Add(dir); err != nil {
		debug.Log(debug.WATCH, "watch %s: %v", dir, err)
		return
	}
	dw.current = dir
	debug.Log(debug.WATCH, "watching %s", dir)
}

func (dw *dirWatcher) watched() string {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return dw.current
}

func (dw *dirWatcher) run() {
	var (
		pending   bool
		lastEvent time.Time
		dir       string
	)
	ticker := time.NewTicker(dw.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Write)) {
				continue
			}
			cur := dw.watched()
			if cur == "" || (filepath.Dir(event.Name) != cur && event.Name != cur) {
				continue
			}
			debug.Log(debug.WATCH, "%s on %s", event.Op, event.Name)
			pending, lastEvent, dir = true, time.Now(), cur

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.WATCH, "fsnotify error: %v", err)

		case <-ticker.C:
			if pending && time.Since(lastEvent) >= dw.debounce {
				pending = false
				if dir == dw.watched() {
					dw.emit(Response{Command: DirChanged, Dir: dir})
				}
			}
		}
	}
}

func (dw *dirWatcher) Close() {
	dw.closeOnce.Do(func() {
		close(dw.done)
		dw.watcher.Close()
	})
}
