//go:build !darwin

package config

// DefaultHotkeys uses Alt for navigation, the Windows and Linux convention.
func DefaultHotkeys() HotkeysConfig {
	return HotkeysConfig{
		Back:         "Alt+Left",
		Home:         "Alt+Home",
		Refresh:      "F5",
		Disks:        "Ctrl+D",
		FocusSearch:  "Ctrl+F",
		FocusPath:    "Ctrl+L",
		ToggleHidden: "Ctrl+H",
		SwitchView:   "Ctrl+G",
		Escape:       "Escape",
	}
}
