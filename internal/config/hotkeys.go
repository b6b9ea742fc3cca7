package config

import (
	"strings"

	"gioui.org/io/event"
	"gioui.org/io/key"
)

// HotkeysConfig holds the keyboard shortcuts as strings like "Ctrl+Shift+N".
// An empty string disables the shortcut.
type HotkeysConfig struct {
	Back         string `json:"back"`
	Home         string `json:"home"`
	Refresh      string `json:"refresh"`
	Disks        string `json:"disks"`
	FocusSearch  string `json:"focusSearch"`
	FocusPath    string `json:"focusPath"`
	ToggleHidden string `json:"toggleHidden"`
	SwitchView   string `json:"switchView"`
	Escape       string `json:"escape"`
}

// Hotkey represents a parsed keyboard shortcut
type Hotkey struct {
	Key       key.Name
	Modifiers key.Modifiers
}

// ParseHotkey parses a hotkey string like "Ctrl+Shift+N" into a Hotkey struct
func ParseHotkey(s string) Hotkey {
	if s == "" {
		return Hotkey{}
	}

	var mods key.Modifiers
	var rawKeyPart string
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "ctrl", "control":
			mods |= key.ModCtrl
		case "shift":
			mods |= key.ModShift
		case "alt", "option":
			mods |= key.ModAlt
		case "cmd", "command":
			mods |= key.ModCommand
		case "super", "meta", "win":
			mods |= key.ModSuper
		default:
			rawKeyPart = part
		}
	}
	return Hotkey{Key: parseKeyName(rawKeyPart), Modifiers: mods}
}

var keyNames = map[string]key.Name{
	"f1": key.NameF1, "f2": key.NameF2, "f3": key.NameF3, "f4": key.NameF4,
	"f5": key.NameF5, "f6": key.NameF6, "f7": key.NameF7, "f8": key.NameF8,
	"f9": key.NameF9, "f10": key.NameF10, "f11": key.NameF11, "f12": key.NameF12,

	"up": key.NameUpArrow, "down": key.NameDownArrow,
	"left": key.NameLeftArrow, "right": key.NameRightArrow,
	"home": key.NameHome, "end": key.NameEnd,
	"pageup": key.NamePageUp, "pagedown": key.NamePageDown,

	"enter": key.NameReturn, "return": key.NameReturn,
	"tab": key.NameTab, "space": key.NameSpace,
	"backspace": key.NameDeleteBackward, "delete": key.NameDeleteForward,
	"escape": key.NameEscape, "esc": key.NameEscape,
}

// parseKeyName converts a key string to Gio's key.Name
func parseKeyName(s string) key.Name {
	// single letters are upper case in Gio
	if len(s) == 1 {
		return key.Name(strings.ToUpper(s))
	}
	if n, ok := keyNames[strings.ToLower(s)]; ok {
		return n
	}
	return key.Name(s)
}

// Matches uses exact modifier matching so that Ctrl+H and Ctrl+Shift+H differ.
func (h Hotkey) Matches(k key.Event) bool {
	if h.Key == "" {
		return false
	}
	return k.Name == h.Key && k.Modifiers == h.Modifiers
}

func (h Hotkey) IsEmpty() bool {
	return h.Key == ""
}

// String returns a human-readable representation of the hotkey
func (h Hotkey) String() string {
	if h.Key == "" {
		return ""
	}
	var parts []string
	for _, m := range []struct {
		mod  key.Modifiers
		name string
	}{
		{key.ModCtrl, "Ctrl"}, {key.ModCommand, "Cmd"}, {key.ModShift, "Shift"},
		{key.ModAlt, "Alt"}, {key.ModSuper, "Super"},
	} {
		if h.Modifiers.Contain(m.mod) {
			parts = append(parts, m.name)
		}
	}
	parts = append(parts, string(h.Key))
	return strings.Join(parts, "+")
}

// Filter returns a key.Filter that matches this hotkey
func (h Hotkey) Filter(focus event.Tag) key.Filter {
	return key.Filter{
		Focus:    focus,
		Name:     h.Key,
		Required: h.Modifiers,
	}
}

// HotkeyMatcher is the parsed form of HotkeysConfig.
type HotkeyMatcher struct {
	Back         Hotkey
	Home         Hotkey
	Refresh      Hotkey
	Disks        Hotkey
	FocusSearch  Hotkey
	FocusPath    Hotkey
	ToggleHidden Hotkey
	SwitchView   Hotkey
	Escape       Hotkey
}

// NewHotkeyMatcher creates a matcher from config
func NewHotkeyMatcher(cfg HotkeysConfig) *HotkeyMatcher {
	return &HotkeyMatcher{
		Back:         ParseHotkey(cfg.Back),
		Home:         ParseHotkey(cfg.Home),
		Refresh:      ParseHotkey(cfg.Refresh),
		Disks:        ParseHotkey(cfg.Disks),
		FocusSearch:  ParseHotkey(cfg.FocusSearch),
		FocusPath:    ParseHotkey(cfg.FocusPath),
		ToggleHidden: ParseHotkey(cfg.ToggleHidden),
		SwitchView:   ParseHotkey(cfg.SwitchView),
		Escape:       ParseHotkey(cfg.Escape),
	}
}

// Filters returns one filter per configured hotkey.
func (m *HotkeyMatcher) Filters(focus event.Tag) []event.Filter {
	var out []event.Filter
	for _, h := range []Hotkey{m.Back, m.Home, m.Refresh, m.Disks, m.FocusSearch,
		m.FocusPath, m.ToggleHidden, m.SwitchView, m.Escape} {
		if !h.IsEmpty() {
			out = append(out, h.Filter(focus))
		}
	}
	return out
}
