package app

import "github.com/justyntemme/skiff/internal/view"

// EventKind identifies a user interaction.
type EventKind int

const (
	EvNone EventKind = iota
	EvOpenRow
	EvGoHome
	EvGoBack
	EvGoTo
	EvRefresh
	EvSearch
	EvCancelSearch
	EvShowDisks
	EvToggleHidden
	EvSwitchView
	EvSelect
	EvClearSelection
	EvMenuOpenItem
	EvMenuOpenEmpty
	EvMenuClose
	EvMenuAction
	EvPromptSubmit
	EvPromptCancel
	EvConfirm
	EvCancelConfirm
	EvDragHover
	EvInternalDrop
	EvExternalDrop
	EvDismissToast
)

var eventNames = map[EventKind]string{
	EvNone: "none", EvOpenRow: "open_row", EvGoHome: "go_home", EvGoBack: "go_back",
	EvGoTo: "go_to", EvRefresh: "refresh", EvSearch: "search", EvCancelSearch: "cancel_search",
	EvShowDisks: "show_disks", EvToggleHidden: "toggle_hidden", EvSwitchView: "switch_view",
	EvSelect: "select", EvClearSelection: "clear_selection", EvMenuOpenItem: "menu_open_item",
	EvMenuOpenEmpty: "menu_open_empty", EvMenuClose: "menu_close", EvMenuAction: "menu_action",
	EvPromptSubmit: "prompt_submit", EvPromptCancel: "prompt_cancel", EvConfirm: "confirm",
	EvCancelConfirm: "cancel_confirm", EvDragHover: "drag_hover", EvInternalDrop: "internal_drop",
	EvExternalDrop: "external_drop", EvDismissToast: "dismiss_toast",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is one interaction reported by the renderer. Row fields index the
// rows of the listing with generation ListingGen.
type Event struct {
	Kind       EventKind
	Row        int
	Source     int // dragged row for EvInternalDrop
	ListingGen uint64
	Toggle     bool

	Anchor  Point
	MenuGen uint64
	Action  Action

	Text  string
	Mode  view.Mode
	Paths []string
	Toast uint64
}
