// Package config stores the profile configuration used by the tray service
// mode.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Profile is a named set of command arguments, e.g. ["Dell=DP1", "LG=Hdmi2"].
// Selecting a profile runs its arguments through the command interpreter.
type Profile struct {
	// Name is shown in the tray menu
	Name string `json:"name"`

	// Args are interpreter arguments: lookup or name=value tokens
	Args []string `json:"args"`
}

// Config is the on-disk configuration.
type Config struct {
	Profiles []Profile `json:"profiles"`
}

// Manager loads and saves the configuration file.
type Manager struct {
	configPath string
	config     *Config
}

// NewManager creates a manager for the platform config location.
func NewManager() (*Manager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return &Manager{configPath: configPath, config: &Config{}}, nil
}

// getConfigPath returns the path to the configuration file, creating the
// directory if needed.
func getConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "minput")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "minput")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "minput")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// Path returns the configuration file location.
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk. A missing file leaves the
// defaults in place.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, m.config); err != nil {
		return fmt.Errorf("parse %s: %w", m.configPath, err)
	}
	return nil
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.configPath, data, 0644)
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	return m.config
}

// GetProfile returns a profile by name, or nil when absent.
func (m *Manager) GetProfile(name string) *Profile {
	for i := range m.config.Profiles {
		if m.config.Profiles[i].Name == name {
			return &m.config.Profiles[i]
		}
	}
	return nil
}
