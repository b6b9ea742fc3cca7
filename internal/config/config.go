// Package config loads and saves the user's skiff settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/justyntemme/skiff/internal/log"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	UI       UIConfig       `json:"ui"`
	Behavior BehaviorConfig `json:"behavior"`
	Backend  BackendConfig  `json:"backend"`
	Server   ServerConfig   `json:"server"`
	Cloud    CloudConfig    `json:"cloud"`
	Hotkeys  HotkeysConfig  `json:"hotkeys"`
}

// UIConfig holds front-end settings
type UIConfig struct {
	ViewMode     string `json:"viewMode" validate:"oneof=wrap column"`
	ShowHidden   bool   `json:"showHidden"`
	ToastSeconds int    `json:"toastSeconds" validate:"min=1,max=60"`
	Theme        string `json:"theme" validate:"oneof=light dark"`
}

// BehaviorConfig holds confirmation and delete settings
type BehaviorConfig struct {
	ConfirmDelete  bool `json:"confirmDelete"`
	ConfirmExtract bool `json:"confirmExtract"`
	UseTrash       bool `json:"useTrash"` // move to the desktop trash instead of unlinking
}

// BackendConfig selects and tunes the backend
type BackendConfig struct {
	Mode            string `json:"mode" validate:"oneof=local remote"`
	Address         string `json:"address" validate:"required_if=Mode remote"` // ws://host:port/ws for remote
	StartPath       string `json:"startPath"`
	SearchDepth     int    `json:"searchDepth" validate:"min=1,max=64"`
	WatchDebounceMs int    `json:"watchDebounceMs" validate:"min=0"` // 0 disables watching
	DBPath          string `json:"dbPath"`
}

// ServerConfig holds skiffd settings
type ServerConfig struct {
	Listen string `json:"listen" validate:"required,hostname_port"`
}

// CloudConfig holds remote storage providers
type CloudConfig struct {
	S3 S3Config `json:"s3"`
}

// S3Config configures the s3:// provider. Credentials come from the usual
// AWS chain unless AccessKeyID is set.
type S3Config struct {
	Enabled         bool   `json:"enabled"`
	Region          string `json:"region" validate:"required_if=Enabled true"`
	Endpoint        string `json:"endpoint,omitempty" validate:"omitempty,url"`
	Profile         string `json:"profile,omitempty"`
	UsePathStyle    bool   `json:"usePathStyle"`
	AccessKeyID     string `json:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
}

// WatchDebounce is the directory watcher debounce as a duration.
func (b BackendConfig) WatchDebounce() time.Duration {
	return time.Duration(b.WatchDebounceMs) * time.Millisecond
}

// ToastTTL is how long a notification stays up.
func (u UIConfig) ToastTTL() time.Duration {
	return time.Duration(u.ToastSeconds) * time.Second
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges and enums.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return err
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a manager for the file at path, or ConfigPath() if empty.
func NewManager(path string) *Manager {
	if path == "" {
		path = ConfigPath()
	}
	return &Manager{
		config: DefaultConfig(),
		path:   path,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ViewMode:     "wrap",
			ShowHidden:   false,
			ToastSeconds: 3,
			Theme:        "light",
		},
		Behavior: BehaviorConfig{
			ConfirmDelete:  true,
			ConfirmExtract: true,
			UseTrash:       true,
		},
		Backend: BackendConfig{
			Mode:            "local",
			Address:         "ws://127.0.0.1:7464/ws",
			SearchDepth:     4,
			WatchDebounceMs: 300,
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:7464",
		},
		Cloud: CloudConfig{
			S3: S3Config{
				Enabled: false,
				Region:  "us-east-1",
			},
		},
		Hotkeys: DefaultHotkeys(),
	}
}

// Dir returns ~/.config/skiff, the same on every platform.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "skiff")
}

// ConfigPath returns the config file path: ~/.config/skiff/config.json
func ConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

// DBPath returns the settings database path, honoring backend.dbPath.
func (c *Config) DBPath() string {
	if c.Backend.DBPath != "" {
		return c.Backend.DBPath
	}
	return filepath.Join(Dir(), "skiff.db")
}

// Path returns the file the manager reads and writes.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the configuration from the config file
// If the file doesn't exist, creates it with defaults
// If parsing or validation fails, stores the error and keeps defaults
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parseErr = nil

	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Error("config: failed to create directory %s: %v", configDir, err)
		return err
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		log.Info("config: creating default config at %s", m.path)
		m.config = DefaultConfig()
		return m.saveUnlocked()
	}
	if err != nil {
		log.Error("config: failed to read %s: %v", m.path, err)
		return err
	}

	// Missing keys keep their defaults.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Warn("config: JSON parse error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}
	if err := cfg.Validate(); err != nil {
		log.Warn("config: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}

	log.Info("config: loaded from %s", m.path)
	m.config = cfg
	return nil
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// ParseError returns the error that made Load fall back to defaults
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// SetShowHidden updates the hidden-files default
func (m *Manager) SetShowHidden(show bool) error {
	m.mu.Lock()
	m.config.UI.ShowHidden = show
	m.mu.Unlock()
	return m.Save()
}

// GenerateConfig backs up the file at path (ConfigPath() if empty) and
// writes a fresh default config.
// Returns the backup path if a backup was created, or empty string if no existing config
func GenerateConfig(path string) (backupPath string, err error) {
	if path == "" {
		path = ConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		timestamp := time.Now().Format("20060102-150405")
		backupPath = filepath.Join(filepath.Dir(path), "config.backup."+timestamp+".json")

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return backupPath, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}
	return backupPath, nil
}
