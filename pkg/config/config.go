package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tracklet/tracklet/pkg/apierr"
	"github.com/tracklet/tracklet/pkg/types"
)

// Settings is the application settings document. It is persisted as its
// own storage document and also seeds defaults for new config files.
type Settings struct {
	ActiveProfile string `json:"activeProfile" yaml:"activeProfile"`
	TickSeconds   int    `json:"tickSeconds" yaml:"tickSeconds"`
	LogLevel      string `json:"logLevel" yaml:"logLevel"`
}

// DefaultSettings returns the settings used before the user saves any
func DefaultSettings() Settings {
	return Settings{
		TickSeconds: 1,
		LogLevel:    "info",
	}
}

// File is the on-disk configuration: connection profiles plus settings
type File struct {
	Profiles []types.Profile `yaml:"profiles"`
	Settings Settings        `yaml:"settings"`
}

// DefaultPath returns the default config file location
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".tracklet", "config.yaml"), nil
}

// Load reads and parses the config file at path
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if f.Settings.TickSeconds <= 0 {
		f.Settings.TickSeconds = 1
	}
	return &f, nil
}

// Save writes the config file to path, creating parent directories
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Profile returns the named profile, or the only profile if name is empty
// and exactly one is configured
func (f *File) Profile(name string) (*types.Profile, error) {
	if name == "" {
		name = f.Settings.ActiveProfile
	}
	if name == "" && len(f.Profiles) == 1 {
		return &f.Profiles[0], nil
	}
	for i := range f.Profiles {
		if f.Profiles[i].Name == name {
			return &f.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("profile not found: %s", name)
}

// ValidateProfile checks that a profile is structurally complete for its
// auth mode. This is the fail-fast check the gateway runs before any
// network traffic.
func ValidateProfile(p *types.Profile) error {
	if p.BaseURL == "" {
		return &apierr.ConfigurationError{Field: "baseUrl", Reason: "base URL is required"}
	}
	switch p.AuthType {
	case types.AuthTypeToken:
		if p.Token == "" {
			return &apierr.ConfigurationError{Field: "token", Reason: "token auth requires an API token"}
		}
	case types.AuthTypeLegacy:
		if p.Username == "" {
			return &apierr.ConfigurationError{Field: "username", Reason: "legacy auth requires a username"}
		}
		if p.Secret == "" {
			return &apierr.ConfigurationError{Field: "secret", Reason: "legacy auth requires an API secret"}
		}
	default:
		return &apierr.ConfigurationError{Field: "authType", Reason: fmt.Sprintf("unknown auth type %q", p.AuthType)}
	}
	return nil
}
