// Package safego runs background work so that a panic is logged instead of
// taking the process down.
package safego

import (
	"context"
	"net/http"
	"runtime"

	"github.com/justyntemme/skiff/internal/log"
	runtimeutil "k8s.io/apimachinery/pkg/util/runtime"
)

func init() {
	runtimeutil.ReallyCrash = false
	runtimeutil.PanicHandlers = []func(context.Context, any){logPanic}
}

func logPanic(_ context.Context, r any) {
	if r == http.ErrAbortHandler { //nolint:errorlint
		return
	}
	const size = 64 << 10
	stacktrace := make([]byte, size)
	stacktrace = stacktrace[:runtime.Stack(stacktrace, false)]
	log.Error("observed a panic: %v\n%s", r, stacktrace)
}

// Go runs f on a new goroutine guarded by HandleCrash.
func Go(f func()) {
	go func() {
		defer runtimeutil.HandleCrash()
		f()
	}()
}

// GoWithRecover runs f on a new goroutine and calls onPanic with the
// recovered value after it has been logged.
func GoWithRecover(f func(), onPanic func(r any)) {
	go func() {
		defer runtimeutil.HandleCrash(func(r any) {
			if onPanic != nil {
				onPanic(r)
			}
		})
		f()
	}()
}
