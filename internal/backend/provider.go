package backend

import (
	"context"
	"strings"
	"sync"
)

// CloudProvider serves a remote, read-only tree addressed by scheme
// ("s3://bucket/prefix/"). Paths passed in always carry the scheme.
type CloudProvider interface {
	Scheme() string
	ReadDir(ctx context.Context, dir string) ([]Entry, error)
	Search(ctx context.Context, dir, query string, depth int) ([]Entry, error)
	// Download copies the object at path into destDir and returns the local file path.
	Download(ctx context.Context, path, destDir string) (string, error)
}

// SettingsStore persists the small key/value state behind check_app_config.
type SettingsStore interface {
	Settings() (map[string]string, error)
	SaveSetting(key, value string) error
}

const (
	settingViewMode = "view_mode"
	settingLastDir  = "last_dir"
)

// MemorySettings is a SettingsStore kept in process memory.
type MemorySettings struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemorySettings() *MemorySettings {
	return &MemorySettings{m: make(map[string]string)}
}

func (s *MemorySettings) Settings() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out, nil
}

func (s *MemorySettings) SaveSetting(key, value string) error {
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return nil
}

func (s *System) providerFor(path string) CloudProvider {
	if !isRemotePath(path) {
		return nil
	}
	scheme := remoteScheme(path)
	for _, p := range s.providers {
		if strings.EqualFold(p.Scheme(), scheme) {
			return p
		}
	}
	return nil
}
