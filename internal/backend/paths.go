package backend

import (
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath resolves user input against the current directory: "~" and
// "~/x" are taken from home, relative paths are joined to cwd.
func expandPath(input, cwd, home string) string {
	input = strings.TrimSpace(input)
	if input == "" || input == "." {
		return cwd
	}
	if isRemotePath(input) {
		return input
	}

	if strings.HasPrefix(input, "~") {
		if input == "~" {
			return home
		}
		if strings.HasPrefix(input, "~/") || strings.HasPrefix(input, `~\`) {
			return filepath.Clean(filepath.Join(home, input[2:]))
		}
	}

	if isAbsolutePath(input) {
		return filepath.Clean(input)
	}
	if isRemotePath(cwd) {
		return joinRemote(cwd, input)
	}
	return filepath.Clean(filepath.Join(cwd, input))
}

// isAbsolutePath checks if a path is absolute, handling both Unix and Windows paths.
func isAbsolutePath(path string) bool {
	if len(path) == 0 {
		return false
	}
	if path[0] == '/' {
		return true
	}
	if runtime.GOOS == "windows" {
		// C:\ or C:/
		if len(path) >= 2 && isLetter(path[0]) && path[1] == ':' {
			return true
		}
		// \\server\share
		if len(path) >= 2 && path[0] == '\\' && path[1] == '\\' {
			return true
		}
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// parentDir returns the parent of path. The root of a file system or of a
// remote bucket is its own parent.
func parentDir(path string) string {
	if isRemotePath(path) {
		return remoteParent(path)
	}
	return filepath.Dir(filepath.Clean(path))
}

// Remote paths look like "s3://bucket/prefix/". Directories always end in "/".

func isRemotePath(p string) bool {
	return strings.Contains(p, "://")
}

func remoteScheme(p string) string {
	i := strings.Index(p, "://")
	if i < 0 {
		return ""
	}
	return p[:i]
}

func remoteParent(p string) string {
	i := strings.Index(p, "://")
	root, rest := p[:i+3], strings.Trim(p[i+3:], "/")
	j := strings.LastIndex(rest, "/")
	if j < 0 {
		return root + rest + "/"
	}
	return root + rest[:j+1]
}

func joinRemote(dir, name string) string {
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return dir + strings.TrimPrefix(name, "/")
}
