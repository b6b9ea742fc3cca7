package backend

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	cwd := filepath.FromSlash("/work/project")
	home := filepath.FromSlash("/home/me")

	testCases := []struct {
		input    string
		expected string
	}{
		{"", cwd},
		{".", cwd},
		{"~", home},
		{"~/docs", filepath.Join(home, "docs")},
		{"/etc/../var", filepath.FromSlash("/var")},
		{"src", filepath.Join(cwd, "src")},
		{"../other", filepath.FromSlash("/work/other")},
		{"s3://bucket/logs/", "s3://bucket/logs/"},
	}
	for _, tc := range testCases {
		if got := expandPath(tc.input, cwd, home); got != tc.expected {
			t.Errorf("expandPath(%q): expected %q, got %q", tc.input, tc.expected, got)
		}
	}

	if got := expandPath("2024", "s3://bucket/logs/", home); got != "s3://bucket/logs/2024" {
		t.Errorf("relative remote path: got %q", got)
	}
}

func TestParentDir(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"/a/b", "/a"},
		{"/a", "/"},
		{"/", "/"},
		{"s3://bucket/a/b/", "s3://bucket/a/"},
		{"s3://bucket/a/", "s3://bucket/"},
		{"s3://bucket/", "s3://bucket/"},
	}
	for _, tc := range testCases {
		if got := parentDir(filepath.FromSlash(tc.input)); got != filepath.FromSlash(tc.expected) && got != tc.expected {
			t.Errorf("parentDir(%q): expected %q, got %q", tc.input, tc.expected, got)
		}
	}
}

func TestIsBaseName(t *testing.T) {
	for name, want := range map[string]bool{
		"a.txt":   true,
		".hidden": true,
		"":        false,
		".":       false,
		"..":      false,
		"a/b":     false,
		`a\b`:     false,
	} {
		if got := isBaseName(name); got != want {
			t.Errorf("isBaseName(%q) = %v, want %v", name, got, want)
		}
	}
}
