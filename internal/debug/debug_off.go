//go:build !debug

package debug

const Enabled = false

func Log(Category, string, ...any) {}

func IsEnabled(Category) bool { return false }

func Select(string) {}
