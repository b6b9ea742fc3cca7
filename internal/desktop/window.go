// Package desktop runs the Gio window: it feeds orchestrator snapshots to the
// renderer and posts the renderer's events back.
package desktop

import (
	"context"

	gioapp "gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"

	"github.com/justyntemme/skiff/internal/app"
	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/config"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/platform"
	"github.com/justyntemme/skiff/internal/safego"
	"github.com/justyntemme/skiff/internal/ui"
)

// Options configures the window.
type Options struct {
	Title   string
	Gateway backend.Gateway
	App     app.Options
	Dark    bool
	Hotkeys config.HotkeysConfig
}

// Run opens the window and blocks until it is closed.
func Run(ctx context.Context, opts Options) error {
	if opts.Title == "" {
		opts.Title = "skiff"
	}
	ui.SetDarkMode(opts.Dark)

	w := new(gioapp.Window)
	w.Option(gioapp.Title(opts.Title), gioapp.Size(unit.Dp(1100), unit.Dp(720)))

	appOpts := opts.App
	appOpts.Invalidate = w.Invalidate
	o := app.NewOrchestrator(opts.Gateway, appOpts)
	if err := o.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	safego.Go(func() { o.Run(ctx) })

	platform.SetDropHandler(func(paths []string, _ string) {
		o.Post(app.Event{Kind: app.EvExternalDrop, Paths: paths})
	})
	defer platform.SetDropHandler(nil)

	return loop(w, o, ui.NewRenderer(config.NewHotkeyMatcher(opts.Hotkeys)))
}

func loop(w *gioapp.Window, o *app.Orchestrator, r *ui.Renderer) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case gioapp.DestroyEvent:
			debug.Log(debug.APP, "window closed: %v", e.Err)
			return e.Err
		case gioapp.FrameEvent:
			gtx := gioapp.NewContext(&ops, e)
			snap := o.Snapshot()
			platform.SetCurrentDropTarget(snap.Dir)
			for _, ev := range r.Layout(gtx, &snap) {
				o.Post(ev)
			}
			e.Frame(gtx.Ops)
		default:
			handlePlatformEvent(e)
		}
	}
}

// Main hands the main goroutine to Gio. run is started on its own goroutine
// and should call os.Exit when done.
func Main(run func()) {
	go run()
	gioapp.Main()
}
