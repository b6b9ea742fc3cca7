//go:build debug

package debug

import (
	"os"
	"strings"
	"sync"

	"github.com/justyntemme/skiff/internal/log"
	"go.uber.org/zap"
)

const Enabled = true

var (
	mu      sync.RWMutex
	enabled = parseSelection(os.Getenv("SKIFF_DEBUG"))
	loggers = map[Category]*zap.SugaredLogger{}
)

func init() {
	log.SetLevel("debug")
}

func logger(c Category) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	l, ok := loggers[c]
	if !ok {
		l = log.Named(strings.ToLower(string(c))).Sugar()
		loggers[c] = l
	}
	return l
}

// Log writes a debug line under the category's named logger when the
// category is selected.
func Log(c Category, format string, args ...any) {
	if !IsEnabled(c) {
		return
	}
	logger(c).Debugf(format, args...)
}

func IsEnabled(c Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled[c]
}

// Select replaces the enabled set using the SKIFF_DEBUG syntax.
func Select(s string) {
	on := parseSelection(s)
	mu.Lock()
	enabled = on
	mu.Unlock()
}
