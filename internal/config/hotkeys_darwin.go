//go:build darwin

package config

// DefaultHotkeys uses Cmd for navigation, the macOS convention.
func DefaultHotkeys() HotkeysConfig {
	return HotkeysConfig{
		Back:         "Cmd+Left",
		Home:         "Cmd+Shift+H",
		Refresh:      "F5",
		Disks:        "Cmd+D",
		FocusSearch:  "Cmd+F",
		FocusPath:    "Cmd+L",
		ToggleHidden: "Cmd+Shift+.",
		SwitchView:   "Cmd+G",
		Escape:       "Escape",
	}
}
