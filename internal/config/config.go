// Package config loads and saves the novem CLI configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultProfileName is used when no profile is configured or selected.
const DefaultProfileName = "default"

// Config represents the CLI configuration
type Config struct {
	// Default output format (text, json, yaml)
	Output string `yaml:"output,omitempty"`

	// Default color mode (auto, always, never)
	Color string `yaml:"color,omitempty"`

	// Profile used when --profile and NOVEM_PROFILE are unset
	DefaultProfile string `yaml:"default_profile,omitempty"`

	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// Profile holds the connection settings for one novem account.
type Profile struct {
	Username string `yaml:"username,omitempty"`

	// API root, defaults to the production endpoint
	APIRoot string `yaml:"api_root,omitempty"`

	// Token source: "keyring", "env:VAR_NAME", or direct token value
	TokenSource string `yaml:"token_source,omitempty"`

	// Skip TLS certificate verification
	IgnoreSSLWarn bool `yaml:"ignore_ssl_warn,omitempty"`
}

// configPathFunc is the function used to get the default config path
// It can be overridden for testing
var configPathFunc = defaultConfigPath

// SetConfigPathFunc sets the config path function for testing.
// Returns the original function so it can be restored.
func SetConfigPathFunc(fn func() (string, error)) func() (string, error) {
	orig := configPathFunc
	configPathFunc = fn
	return orig
}

// defaultConfigPath returns $NOVEM_CONFIG or ~/.config/novem/config.yaml
func defaultConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("NOVEM_CONFIG")); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "novem", "config.yaml"), nil
}

// DefaultConfigPath returns the path Load reads from.
func DefaultConfigPath() (string, error) {
	return configPathFunc()
}

// Load loads config from the default path, returns empty config if not found
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return &cfg, nil
}

// Save saves config to the default path
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath saves config to a specific path
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetOutput returns the configured output format or empty
func (c *Config) GetOutput() string {
	return c.Output
}

// GetColor returns the configured color mode or empty
func (c *Config) GetColor() string {
	return c.Color
}

// GetProfile returns the named profile.
func (c *Config) GetProfile(name string) (*Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return &p, nil
}

// ResolveProfile picks the profile to use: name if set, else the default
// profile, else the only profile. The returned name may refer to a profile
// that is not configured, in which case an empty Profile is returned.
func (c *Config) ResolveProfile(name string) (string, *Profile, error) {
	if name != "" {
		p, err := c.GetProfile(name)
		if err != nil {
			return "", nil, err
		}
		return name, p, nil
	}
	if c.DefaultProfile != "" {
		if p, err := c.GetProfile(c.DefaultProfile); err == nil {
			return c.DefaultProfile, p, nil
		}
	}
	if len(c.Profiles) == 1 {
		for n, p := range c.Profiles {
			p := p
			return n, &p, nil
		}
	}
	if p, ok := c.Profiles[DefaultProfileName]; ok {
		return DefaultProfileName, &p, nil
	}
	return DefaultProfileName, &Profile{}, nil
}

// SetProfile adds or replaces a profile. The first profile becomes the default.
func (c *Config) SetProfile(name string, p Profile) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if c.Profiles == nil {
		c.Profiles = make(map[string]Profile)
	}
	if len(c.Profiles) == 0 && c.DefaultProfile == "" {
		c.DefaultProfile = name
	}
	c.Profiles[name] = p
	return nil
}

// SetDefaultProfile marks an existing profile as the default.
func (c *Config) SetDefaultProfile(name string) error {
	if _, err := c.GetProfile(name); err != nil {
		return err
	}
	c.DefaultProfile = name
	return nil
}

// RemoveProfile deletes a profile. Removing the default promotes the sole
// remaining profile, if any.
func (c *Config) RemoveProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(c.Profiles, name)

	if c.DefaultProfile == name {
		c.DefaultProfile = ""
		if len(c.Profiles) == 1 {
			for n := range c.Profiles {
				c.DefaultProfile = n
			}
		}
	}
	return nil
}

// ListProfiles returns all profile names, sorted.
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set updates a top-level setting by key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "output":
		c.Output = value
	case "color":
		switch value {
		case "auto", "always", "never", "":
		default:
			return fmt.Errorf("invalid color %q (expected auto|always|never)", value)
		}
		c.Color = value
	case "default_profile":
		return c.SetDefaultProfile(value)
	default:
		return fmt.Errorf("unknown config key %q (expected output|color|default_profile)", key)
	}
	return nil
}
