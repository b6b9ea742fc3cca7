// Package app is the front-end core of skiff: it owns the session state
// (listing, view mode, clipboard, context menu, drag selection, toasts),
// turns user events into backend requests and applies the responses.
package app

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/view"
)

// Options configures an Orchestrator.
type Options struct {
	Mode           view.Mode
	ShowHidden     bool
	ConfirmDelete  bool
	ConfirmExtract bool
	ToastTTL       time.Duration
	Now            func() time.Time

	// Invalidate is called after every state change, on the goroutine that
	// made it.
	Invalidate func()
}

// PromptKind is what a name prompt will create or rename.
type PromptKind int

const (
	PromptNewFolder PromptKind = iota
	PromptNewFile
	PromptRename
)

// PendingPrompt asks the user for a name.
type PendingPrompt struct {
	Kind    PromptKind
	Title   string
	Initial string
	Target  *backend.Entry
	Dir     string // directory shown when the prompt opened
}

// ConfirmKind is the operation waiting for confirmation.
type ConfirmKind int

const (
	ConfirmDelete ConfirmKind = iota
	ConfirmExtract
)

// PendingConfirm is an operation parked until the user confirms or cancels.
type PendingConfirm struct {
	Kind    ConfirmKind
	Target  backend.Entry
	Message string
	Dir     string
}

// Snapshot is an immutable view of the state for the renderer.
type Snapshot struct {
	Listing    view.Listing
	ListingGen uint64
	Dir        string
	Loading    bool
	Searching  bool
	Query      string
	ShowHidden bool
	Mode       view.Mode
	Menu       MenuView
	Clipboard  *ClipItem
	InFlight   bool
	Selected   map[string]bool
	Hover      string
	Prompt     *PendingPrompt
	Confirm    *PendingConfirm
	Toasts     []Toast
}

// Orchestrator owns all front-end state. Its methods must be called from one
// goroutine (Run does that); Snapshot may be called from any goroutine.
type Orchestrator struct {
	gw   backend.Gateway
	opts Options

	nav    *NavigationController
	clip   Clipboard
	menu   ContextMenu
	drag   DragDrop
	gate   InFlight
	toasts *Toasts

	dir        string
	raw        []backend.Entry
	haveRaw    bool
	disks      []backend.DiskEntry
	diskMode   bool
	searching  bool
	query      string
	mode       view.Mode
	showHidden bool
	listing    view.Listing
	listingGen uint64

	prompt  *PendingPrompt
	confirm *PendingConfirm

	events chan Event

	mu   sync.RWMutex
	snap Snapshot
}

func NewOrchestrator(gw backend.Gateway, opts Options) *Orchestrator {
	o := &Orchestrator{
		gw:         gw,
		opts:       opts,
		nav:        NewNavigationController(gw),
		toasts:     NewToasts(opts.ToastTTL, opts.Now),
		mode:       opts.Mode,
		showHidden: opts.ShowHidden,
		events:     make(chan Event, 64),
	}
	o.rerender()
	o.publish()
	return o
}

// Start asks the backend for its persisted config, its current directory
// and the first listing.
func (o *Orchestrator) Start() error {
	return o.mutate(func() error {
		for _, c := range []backend.Command{backend.CheckConfig, backend.GetCurrentDir} {
			if _, err := o.nav.Dispatch(backend.Request{Command: c}); err != nil {
				return err
			}
		}
		return o.nav.Refresh()
	})
}

// mutate runs f and publishes the state it leaves behind.
func (o *Orchestrator) mutate(f func() error) error {
	err := f()
	o.publish()
	return err
}

// Post queues an event for Run. Events are dropped while the queue is full.
func (o *Orchestrator) Post(ev Event) {
	select {
	case o.events <- ev:
	default:
		debug.Log(debug.UI_EVENT, "event queue full, dropping %s", ev.Kind)
	}
}

// Run handles posted events and backend responses until ctx is done.
func (o *Orchestrator) Run(ctx context.Context) {
	responses := o.gw.Responses()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-o.events:
			_ = o.HandleEvent(ev)
		case resp, ok := <-responses:
			if !ok {
				responses = nil
				o.disconnected()
				continue
			}
			o.HandleResponse(resp)
		}
	}
}

// disconnected releases everything that was waiting for a response.
func (o *Orchestrator) disconnected() {
	o.gate.Reset()
	o.nav.Abandon()
	o.prompt, o.confirm = nil, nil
	o.menu.Close()
	o.toasts.Push(ToastError, "Backend connection closed")
	o.publish()
}

// Snapshot returns the latest published state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snap
}

// HandleEvent applies one user event. Rejected events return the reason.
func (o *Orchestrator) HandleEvent(ev Event) error {
	debug.Log(debug.UI_EVENT, "event %s row=%d gen=%d", ev.Kind, ev.Row, ev.ListingGen)
	err := o.handleEvent(ev)
	if err != nil {
		o.reject(ev, err)
	}
	o.publish()
	return err
}

func (o *Orchestrator) handleEvent(ev Event) error {
	switch ev.Kind {
	case EvOpenRow:
		o.menu.Close()
		if o.diskMode {
			d, err := o.diskAt(ev.ListingGen, ev.Row)
			if err != nil {
				return err
			}
			o.leave()
			return o.nav.Open(backend.Entry{Name: view.DiskName(d.Name), Path: d.Path, IsDir: true})
		}
		e, err := o.entryAt(ev.ListingGen, ev.Row)
		if err != nil {
			return err
		}
		if e.IsDir {
			o.leave()
		}
		return o.nav.Open(e)

	case EvGoHome:
		o.leave()
		return o.nav.GoHome()

	case EvGoBack:
		o.leave()
		return o.nav.GoBack()

	case EvGoTo:
		o.leave()
		return o.nav.GoToDirectory(ev.Text)

	case EvRefresh:
		return o.nav.Refresh()

	case EvSearch:
		o.query = strings.TrimSpace(ev.Text)
		return o.nav.Search(o.query)

	case EvCancelSearch:
		o.query = ""
		return o.nav.CancelSearch()

	case EvShowDisks:
		o.leave()
		return o.nav.ShowDisks()

	case EvToggleHidden:
		return o.toggleHidden()

	case EvSwitchView:
		_, err := o.nav.Dispatch(backend.Request{Command: backend.SwitchView, ViewMode: ev.Mode.String()})
		return err

	case EvSelect:
		e, err := o.entryAt(ev.ListingGen, ev.Row)
		if err != nil {
			return err
		}
		o.drag.Select(e.Path, ev.Toggle)
		return nil

	case EvClearSelection:
		o.drag.ClearSelection()
		return nil

	case EvMenuOpenItem:
		if o.diskMode {
			return ErrActionDisabled
		}
		if err := o.settled(); err != nil {
			return err
		}
		e, err := o.entryAt(ev.ListingGen, ev.Row)
		if err != nil {
			return err
		}
		o.menu.OpenForItem(ev.Anchor, e, o.menuContext(&e))
		return nil

	case EvMenuOpenEmpty:
		if o.diskMode {
			return ErrActionDisabled
		}
		if err := o.settled(); err != nil {
			return err
		}
		o.menu.OpenForEmptyArea(ev.Anchor, o.menuContext(nil))
		return nil

	case EvMenuClose:
		o.menu.Close()
		return nil

	case EvMenuAction:
		return o.trigger(ev.MenuGen, ev.Action)

	case EvPromptSubmit:
		return o.submitPrompt(ev.Text)

	case EvPromptCancel:
		o.prompt = nil
		return nil

	case EvConfirm:
		return o.confirmPending()

	case EvCancelConfirm:
		o.confirm = nil
		return nil

	case EvDragHover:
		if ev.Row < 0 {
			o.drag.Hover("")
			return nil
		}
		e, err := o.entryAt(ev.ListingGen, ev.Row)
		if err != nil {
			return err
		}
		if e.IsDir {
			o.drag.Hover(e.Path)
		} else {
			o.drag.Hover("")
		}
		return nil

	case EvInternalDrop:
		folder, err := o.entryAt(ev.ListingGen, ev.Row)
		if err != nil {
			o.drag.Reset()
			return err
		}
		src, err := o.entryAt(ev.ListingGen, ev.Source)
		if err != nil {
			o.drag.Reset()
			return err
		}
		return o.dropInternal(src.Path, folder)

	case EvExternalDrop:
		return o.dropExternal(ev.Paths)

	case EvDismissToast:
		o.toasts.Dismiss(ev.Toast)
		return nil
	}
	return nil
}

func (o *Orchestrator) reject(ev Event, err error) {
	switch {
	case errors.Is(err, ErrStaleMenu), errors.Is(err, ErrStaleListing), errors.Is(err, ErrNothingPending):
		debug.Log(debug.APP, "ignored %s: %v", ev.Kind, err)
	case errors.Is(err, ErrClipboardEmpty), errors.Is(err, ErrOperationInFlight), errors.Is(err, ErrActionDisabled):
		o.toasts.Push(ToastWarning, capitalize(err.Error()))
	default:
		o.toasts.Push(ToastError, fmt.Sprintf("Request failed: %v", err))
	}
}

// leave is called before a request that moves to another directory. Menus,
// prompts and confirmations opened for the old directory are dropped.
func (o *Orchestrator) leave() {
	o.menu.Close()
	o.prompt, o.confirm = nil, nil
}

// settled rejects actions on the visible rows while a navigation is still
// pending: the backend may already be in the next directory, and names
// are resolved there.
func (o *Orchestrator) settled() error {
	if o.nav.Loading() {
		return ErrStaleListing
	}
	return nil
}

func (o *Orchestrator) entryAt(gen uint64, row int) (backend.Entry, error) {
	if gen != o.listingGen {
		return backend.Entry{}, ErrStaleListing
	}
	e, ok := o.listing.Entry(row)
	if !ok {
		return backend.Entry{}, ErrStaleListing
	}
	return e, nil
}

func (o *Orchestrator) diskAt(gen uint64, row int) (backend.DiskEntry, error) {
	if gen != o.listingGen {
		return backend.DiskEntry{}, ErrStaleListing
	}
	d, ok := o.listing.Disk(row)
	if !ok {
		return backend.DiskEntry{}, ErrStaleListing
	}
	return d, nil
}

func (o *Orchestrator) menuContext(target *backend.Entry) MenuContext {
	mc := MenuContext{ClipboardFull: !o.clip.Empty()}
	if target != nil {
		mc.Direct = isDirectChild(o.dir, target.Path)
	}
	return mc
}

func isDirectChild(dir, p string) bool {
	if dir == "" {
		return false
	}
	if strings.Contains(p, "://") {
		return path.Dir(strings.TrimSuffix(p, "/")) == strings.TrimSuffix(dir, "/")
	}
	return filepath.Dir(p) == filepath.Clean(dir)
}

// ToggleHidden flips the hidden-file filter. A cached directory listing is
// re-rendered locally; otherwise the directory is listed again.
func (o *Orchestrator) ToggleHidden() error {
	return o.mutate(o.toggleHidden)
}

func (o *Orchestrator) toggleHidden() error {
	o.showHidden = !o.showHidden
	if o.haveRaw && !o.diskMode {
		o.rerender()
		return nil
	}
	return o.nav.Refresh()
}

// Trigger runs a context-menu action for the opening gen.
func (o *Orchestrator) Trigger(gen uint64, a Action) error {
	return o.mutate(func() error { return o.trigger(gen, a) })
}

func (o *Orchestrator) trigger(gen uint64, a Action) error {
	if err := o.settled(); err != nil {
		o.menu.Close()
		return err
	}
	target, err := o.menu.Trigger(gen, a)
	if err != nil {
		return err
	}
	debug.Log(debug.MENU, "trigger %s gen=%d", a, gen)

	switch a {
	case ActNewFolder:
		o.prompt = &PendingPrompt{Kind: PromptNewFolder, Title: "New folder", Dir: o.dir}
	case ActNewFile:
		o.prompt = &PendingPrompt{Kind: PromptNewFile, Title: "New file", Dir: o.dir}
	case ActRename:
		o.prompt = &PendingPrompt{Kind: PromptRename, Title: "Rename", Initial: target.Name, Target: target, Dir: o.dir}
	case ActCopy:
		o.copy(*target)
	case ActPaste:
		return o.paste()
	case ActDelete:
		if o.opts.ConfirmDelete {
			o.confirm = &PendingConfirm{Kind: ConfirmDelete, Target: *target, Dir: o.dir,
				Message: fmt.Sprintf("Delete %q?", target.Name)}
			return nil
		}
		return o.deleteItem(*target)
	case ActCompress:
		return o.compress(*target)
	case ActExtract:
		if o.opts.ConfirmExtract {
			o.confirm = &PendingConfirm{Kind: ConfirmExtract, Target: *target, Dir: o.dir,
				Message: fmt.Sprintf("Extract %q here?", target.Name)}
			return nil
		}
		return o.extract(*target)
	}
	return nil
}

// Copy puts e on the clipboard, replacing whatever was there.
func (o *Orchestrator) Copy(e backend.Entry) {
	o.copy(e)
	o.publish()
}

func (o *Orchestrator) copy(e backend.Entry) {
	o.clip.Copy(e.Name, e.Path)
	o.toasts.Push(ToastInfo, fmt.Sprintf("Copied %s", e.Name))
}

// Paste copies the clipboard item into the current directory. The slot is
// cleared when the request is sent and is not restored if the copy fails.
func (o *Orchestrator) Paste() error {
	return o.mutate(o.paste)
}

func (o *Orchestrator) paste() error {
	item, ok := o.clip.Peek()
	if !ok {
		return ErrClipboardEmpty
	}
	if o.gate.Held() {
		return ErrOperationInFlight
	}
	o.clip.Take()
	token, err := o.nav.Dispatch(backend.Request{
		Command:     backend.CopyPaste,
		ActFileName: item.Name,
		FromPath:    item.Path,
	})
	if err != nil {
		return err
	}
	o.gate.Acquire(token)
	return nil
}

// DropExternal copies paths dropped from outside into the current directory
// in one request. The clipboard is not involved.
func (o *Orchestrator) DropExternal(paths []string) error {
	return o.mutate(func() error { return o.dropExternal(paths) })
}

func (o *Orchestrator) dropExternal(paths []string) error {
	req, ok := ExternalRequest(paths, o.dir)
	if !ok {
		return nil
	}
	if o.dir == "" {
		return ErrActionDisabled
	}
	debug.Log(debug.DROP, "external drop of %d items into %s", len(req.ArrItems), o.dir)
	return o.sendGated(req)
}

// DropInternal copies the dragged row (or the selection containing it) into
// folder.
func (o *Orchestrator) DropInternal(dragged string, folder backend.Entry) error {
	return o.mutate(func() error { return o.dropInternal(dragged, folder) })
}

func (o *Orchestrator) dropInternal(dragged string, folder backend.Entry) error {
	req, ok := o.drag.InternalRequest(dragged, folder)
	if !ok {
		return nil
	}
	debug.Log(debug.DROP, "internal drop of %d items into %s", len(req.ArrItems), folder.Path)
	return o.sendGated(req)
}

func (o *Orchestrator) sendGated(req backend.Request) error {
	if o.gate.Held() {
		return ErrOperationInFlight
	}
	token, err := o.nav.Dispatch(req)
	if err != nil {
		return err
	}
	o.gate.Acquire(token)
	return nil
}

func (o *Orchestrator) deleteItem(target backend.Entry) error {
	_, err := o.nav.Dispatch(backend.Request{Command: backend.DeleteItem, ActFileName: target.Name})
	return err
}

func (o *Orchestrator) compress(target backend.Entry) error {
	if _, err := o.nav.Dispatch(backend.Request{Command: backend.CompressItem, FromPath: target.Path}); err != nil {
		return err
	}
	o.toasts.Push(ToastInfo, fmt.Sprintf("Compressing %s started", target.Name))
	return nil
}

func (o *Orchestrator) extract(target backend.Entry) error {
	if _, err := o.nav.Dispatch(backend.Request{Command: backend.ExtractItem, FromPath: target.Path}); err != nil {
		return err
	}
	o.toasts.Push(ToastInfo, fmt.Sprintf("Extracting %s started", target.Name))
	return nil
}

func (o *Orchestrator) submitPrompt(text string) error {
	p := o.prompt
	if p == nil {
		return ErrNothingPending
	}
	o.prompt = nil
	if err := o.settled(); err != nil {
		return err
	}
	if p.Dir != o.dir {
		return ErrStaleListing
	}
	name := strings.TrimSpace(text)
	if name == "" {
		return nil
	}

	var req backend.Request
	switch p.Kind {
	case PromptNewFolder:
		req = backend.Request{Command: backend.CreateFolder, FolderName: name}
	case PromptNewFile:
		req = backend.Request{Command: backend.CreateFile, FileName: name}
	case PromptRename:
		if p.Target == nil || name == p.Target.Name {
			return nil
		}
		req = backend.Request{Command: backend.RenameElement, Path: p.Target.Path, NewName: name}
	}
	_, err := o.nav.Dispatch(req)
	return err
}

func (o *Orchestrator) confirmPending() error {
	c := o.confirm
	if c == nil {
		return ErrNothingPending
	}
	o.confirm = nil
	if err := o.settled(); err != nil {
		return err
	}
	if c.Dir != o.dir {
		return ErrStaleListing
	}
	switch c.Kind {
	case ConfirmDelete:
		return o.deleteItem(c.Target)
	case ConfirmExtract:
		return o.extract(c.Target)
	}
	return nil
}

// HandleResponse applies one backend response.
func (o *Orchestrator) HandleResponse(resp backend.Response) {
	defer o.publish()
	released := o.gate.Release(resp.Token)

	switch resp.Command {
	case backend.CheckConfig:
		if resp.Failure != nil || resp.Config == nil {
			debug.Log(debug.APP, "config unavailable: %v", resp.Failure)
			return
		}
		if m, ok := view.ParseMode(resp.Config.ViewMode); ok && m != o.mode {
			o.mode = m
			o.rerender()
		}
		return

	case backend.GetCurrentDir:
		// only fills the path label until the first listing lands
		if resp.Failure == nil && o.dir == "" && !o.diskMode {
			o.dir = resp.Dir
			o.listing.PathLabel = resp.Dir
		}
		return

	case backend.DirChanged:
		if !o.diskMode && !o.searching && resp.Dir == o.dir && !o.nav.Pending() {
			debug.Log(debug.WATCH, "refreshing %s", resp.Dir)
			o.refreshQuietly()
		}
		return

	case backend.OpenItem:
		if resp.Failure != nil {
			o.toastFailure(resp)
		}
		return

	case backend.CreateFolder, backend.CreateFile, backend.RenameElement:
		if resp.Failure != nil {
			o.toastFailure(resp)
			return
		}
		o.refreshQuietly()
		return

	case backend.CompressItem, backend.ExtractItem:
		if resp.Failure != nil {
			o.toastFailure(resp)
			return
		}
		verb := "Compression"
		if resp.Command == backend.ExtractItem {
			verb = "Extraction"
		}
		o.toasts.Push(ToastSuccess, fmt.Sprintf("%s completed: %s", verb, baseName(resp.Output)))
		if resp.Dir == o.dir {
			o.refreshQuietly()
		}
		return
	}

	if !isListing(resp.Command) {
		debug.Log(debug.GATEWAY, "unexpected response %s", resp.Command)
		return
	}
	if !o.nav.Accept(resp) {
		debug.Log(debug.GATEWAY, "stale %s token=%d latest=%d", resp.Command, resp.Token, o.nav.Latest())
		if released && resp.Failure != nil {
			o.toastFailure(resp)
		}
		return
	}
	if resp.Failure != nil {
		o.toastFailure(resp)
		return
	}

	o.menu.Close()
	o.drag.Reset()
	prevDir, prevDisks := o.dir, o.diskMode

	switch resp.Command {
	case backend.ListDisks:
		o.diskMode = true
		o.disks = resp.Disks
		o.searching = false

	case backend.SwitchView:
		if resp.Config != nil {
			if m, ok := view.ParseMode(resp.Config.ViewMode); ok {
				o.mode = m
			}
		}
		if o.diskMode {
			break
		}
		o.applyEntries(resp)

	default:
		o.diskMode = false
		o.applyEntries(resp)
	}
	if o.dir != prevDir || o.diskMode != prevDisks {
		o.prompt, o.confirm = nil, nil
	}
	o.rerender()
}

func (o *Orchestrator) applyEntries(resp backend.Response) {
	o.raw = resp.Entries
	o.haveRaw = true
	o.dir = resp.Dir
	o.searching = resp.Command == backend.SearchFor
	if !o.searching {
		o.query = ""
	}
}

// refreshQuietly re-lists the current view without the loading placeholder.
func (o *Orchestrator) refreshQuietly() {
	if o.nav.Pending() || o.diskMode {
		return
	}
	req := backend.Request{Command: backend.ListDirs}
	if o.searching && o.query != "" {
		req = backend.Request{Command: backend.SearchFor, FileName: o.query}
	}
	if _, err := o.nav.Dispatch(req); err != nil {
		o.toasts.Push(ToastError, fmt.Sprintf("Refresh failed: %v", err))
	}
}

func (o *Orchestrator) rerender() {
	if o.diskMode {
		o.listing = view.RenderDisks(o.disks, o.mode)
	} else {
		o.listing = view.Render(o.raw, o.mode, o.showHidden)
		o.listing.PathLabel = o.dir
	}
	o.listingGen++
}

func (o *Orchestrator) toastFailure(resp backend.Response) {
	o.toasts.Push(ToastError, fmt.Sprintf("%s failed: %s", commandTitle(resp.Command), resp.Failure.Message))
}

var commandTitles = map[backend.Command]string{
	backend.ListDirs:      "Listing",
	backend.OpenDir:       "Open",
	backend.OpenItem:      "Open",
	backend.GoHome:        "Go home",
	backend.GoBack:        "Go back",
	backend.GoToDir:       "Go to",
	backend.SearchFor:     "Search",
	backend.CreateFolder:  "New folder",
	backend.CreateFile:    "New file",
	backend.RenameElement: "Rename",
	backend.DeleteItem:    "Delete",
	backend.CopyPaste:     "Paste",
	backend.ArrCopyPaste:  "Copy",
	backend.CompressItem:  "Compress",
	backend.ExtractItem:   "Extract",
	backend.ListDisks:     "Disks",
	backend.SwitchView:    "Switch view",
}

func commandTitle(c backend.Command) string {
	if t, ok := commandTitles[c]; ok {
		return t
	}
	return string(c)
}

func baseName(p string) string {
	if strings.Contains(p, "://") {
		p = strings.TrimSuffix(p, "/")
		return p[strings.LastIndex(p, "/")+1:]
	}
	return filepath.Base(p)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (o *Orchestrator) publish() {
	snap := Snapshot{
		Listing:    o.listing,
		ListingGen: o.listingGen,
		Dir:        o.dir,
		Loading:    o.nav.Loading(),
		Searching:  o.searching,
		Query:      o.query,
		ShowHidden: o.showHidden,
		Mode:       o.mode,
		Menu:       o.menu.View(),
		InFlight:   o.gate.Held(),
		Hover:      o.drag.HoverPath(),
		Toasts:     o.toasts.Active(),
	}
	if item, ok := o.clip.Peek(); ok {
		snap.Clipboard = &item
	}
	if sel := o.drag.Selection(); len(sel) > 0 {
		snap.Selected = make(map[string]bool, len(sel))
		for _, p := range sel {
			snap.Selected[p] = true
		}
	}
	if o.prompt != nil {
		p := *o.prompt
		snap.Prompt = &p
	}
	if o.confirm != nil {
		c := *o.confirm
		snap.Confirm = &c
	}

	o.mu.Lock()
	o.snap = snap
	o.mu.Unlock()

	if o.opts.Invalidate != nil {
		o.opts.Invalidate()
	}
}
