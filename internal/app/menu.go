package app

import (
	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/view"
)

// Action is a context-menu entry.
type Action int

const (
	ActNewFolder Action = iota
	ActDelete
	ActExtract
	ActCompress
	ActCopy
	ActPaste
	ActNewFile
	ActRename
	actionCount
)

var actionLabels = [actionCount]string{
	ActNewFolder: "New folder",
	ActDelete:    "Delete",
	ActExtract:   "Extract",
	ActCompress:  "Compress",
	ActCopy:      "Copy",
	ActPaste:     "Paste",
	ActNewFile:   "New file",
	ActRename:    "Rename",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionLabels[a]
}

// Actions lists every action in menu order.
func Actions() []Action {
	out := make([]Action, actionCount)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

// ActionSet is a bit set of actions.
type ActionSet uint16

func (s ActionSet) Has(a Action) bool {
	return s&(1<<uint(a)) != 0
}

func (s ActionSet) With(a Action) ActionSet {
	return s | 1<<uint(a)
}

// MenuContext is what the enabled set depends on besides the target.
type MenuContext struct {
	ClipboardFull bool
	// Direct is false when the target is not a child of the current
	// directory (a deep search hit), which rules out delete by name.
	Direct bool
}

// EnabledFor computes the enabled actions. A nil target is the empty area.
func EnabledFor(target *backend.Entry, mc MenuContext) ActionSet {
	var s ActionSet
	s = s.With(ActNewFolder).With(ActNewFile)
	if mc.ClipboardFull {
		s = s.With(ActPaste)
	}
	if target == nil {
		return s
	}
	s = s.With(ActCompress).With(ActCopy).With(ActRename)
	if mc.Direct {
		s = s.With(ActDelete)
	}
	if !target.IsDir && view.IsArchive(target.Extension) {
		s = s.With(ActExtract)
	}
	return s
}

// MenuState is where the context menu is.
type MenuState int

const (
	MenuHidden MenuState = iota
	MenuEmptyArea
	MenuItem
)

// Point is a position in window pixels.
type Point struct {
	X, Y int
}

// MenuView is the read-only menu state handed to the renderer.
type MenuView struct {
	State   MenuState
	Anchor  Point
	Target  *backend.Entry
	Enabled ActionSet
	Gen     uint64
}

// ContextMenu is the single context menu. Every opening gets a new
// generation; Trigger only accepts the current one, once.
type ContextMenu struct {
	state   MenuState
	anchor  Point
	target  *backend.Entry
	enabled ActionSet
	gen     uint64
	fired   bool
}

// OpenForEmptyArea opens the menu for the background and returns its generation.
func (m *ContextMenu) OpenForEmptyArea(at Point, mc MenuContext) uint64 {
	return m.open(MenuEmptyArea, at, nil, mc)
}

// OpenForItem opens the menu for target and returns its generation.
func (m *ContextMenu) OpenForItem(at Point, target backend.Entry, mc MenuContext) uint64 {
	return m.open(MenuItem, at, &target, mc)
}

func (m *ContextMenu) open(state MenuState, at Point, target *backend.Entry, mc MenuContext) uint64 {
	m.gen++
	m.state = state
	m.anchor = at
	m.target = target
	m.enabled = EnabledFor(target, mc)
	m.fired = false
	debug.Log(debug.MENU, "open gen=%d state=%d enabled=%b", m.gen, state, m.enabled)
	return m.gen
}

// Close hides the menu. Handlers of the closed opening stay dead.
func (m *ContextMenu) Close() {
	if m.state == MenuHidden {
		return
	}
	debug.Log(debug.MENU, "close gen=%d", m.gen)
	m.state = MenuHidden
	m.target = nil
	m.enabled = 0
}

func (m *ContextMenu) Visible() bool {
	return m.state != MenuHidden
}

// Trigger fires action a for the opening gen. It returns the target (nil for
// the empty area) and closes the menu. A second trigger of the same opening,
// an older generation or a disabled action is rejected.
func (m *ContextMenu) Trigger(gen uint64, a Action) (*backend.Entry, error) {
	if m.state == MenuHidden || gen != m.gen || m.fired {
		debug.Log(debug.MENU, "stale trigger gen=%d current=%d fired=%v", gen, m.gen, m.fired)
		return nil, ErrStaleMenu
	}
	if !m.enabled.Has(a) {
		return nil, ErrActionDisabled
	}
	m.fired = true
	target := m.target
	m.Close()
	return target, nil
}

func (m *ContextMenu) View() MenuView {
	v := MenuView{State: m.state, Anchor: m.anchor, Enabled: m.enabled, Gen: m.gen}
	if m.target != nil {
		t := *m.target
		v.Target = &t
	}
	return v
}
