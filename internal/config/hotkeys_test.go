package config

import (
	"testing"

	"gioui.org/io/key"
	"github.com/stretchr/testify/assert"
)

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		in   string
		want Hotkey
	}{
		{"", Hotkey{}},
		{"F5", Hotkey{Key: key.NameF5}},
		{"Ctrl+h", Hotkey{Key: "H", Modifiers: key.ModCtrl}},
		{"Alt+Left", Hotkey{Key: key.NameLeftArrow, Modifiers: key.ModAlt}},
		{"Cmd+Shift+H", Hotkey{Key: "H", Modifiers: key.ModCommand | key.ModShift}},
		{"esc", Hotkey{Key: key.NameEscape}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseHotkey(tt.in), tt.in)
	}
}

func TestHotkeyMatchesExactModifiers(t *testing.T) {
	h := ParseHotkey("Ctrl+H")
	assert.True(t, h.Matches(key.Event{Name: "H", Modifiers: key.ModCtrl}))
	assert.False(t, h.Matches(key.Event{Name: "H", Modifiers: key.ModCtrl | key.ModShift}))
	assert.False(t, h.Matches(key.Event{Name: "J", Modifiers: key.ModCtrl}))
	assert.False(t, Hotkey{}.Matches(key.Event{Name: "H"}))
}

func TestHotkeyString(t *testing.T) {
	assert.Equal(t, "Ctrl+Shift+N", ParseHotkey("shift+ctrl+n").String())
	assert.Equal(t, "", Hotkey{}.String())
}

func TestMatcherSkipsEmptyHotkeys(t *testing.T) {
	m := NewHotkeyMatcher(HotkeysConfig{Refresh: "F5", Escape: "Escape"})
	var tag int
	assert.Len(t, m.Filters(&tag), 2)
	assert.Len(t, NewHotkeyMatcher(DefaultHotkeys()).Filters(&tag), 9)
}
