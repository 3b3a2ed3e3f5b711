package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/gofrs/flock"
)

// Config represents the persisted state for regionsel.
type Config struct {
	Options          Options           `yaml:"options" json:"options" toml:"options"`
	SyntheticRegions []SyntheticRegion `yaml:"synthetic_regions" json:"synthetic_regions" toml:"synthetic_regions"`
	Selections       []Selection       `yaml:"selections" json:"selections" toml:"selections"`
	CurrentSelection string            `yaml:"current_selection" json:"current_selection" toml:"current_selection"`
}

// Options holds global settings.
type Options struct {
	CatalogPath               string               `yaml:"catalog_path" json:"catalog_path" toml:"catalog_path"`
	OCIConfigPath             string               `yaml:"oci_config_path" json:"oci_config_path" toml:"oci_config_path"`
	OCIProfile                string               `yaml:"oci_profile" json:"oci_profile" toml:"oci_profile"`
	SocketPath                string               `yaml:"socket_path" json:"socket_path" toml:"socket_path"`
	HTTPAddr                  string               `yaml:"http_addr" json:"http_addr" toml:"http_addr"`
	DefaultCapabilities       []regions.Capability `yaml:"default_capabilities" json:"default_capabilities" toml:"default_capabilities"`
	IgnoreAccountAvailability bool                 `yaml:"ignore_account_availability" json:"ignore_account_availability" toml:"ignore_account_availability"`
	Flags                     map[string]bool      `yaml:"flags,omitempty" json:"flags,omitempty" toml:"flags,omitempty"`
}

// Mode is the cardinality of a saved selection.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// Selection is a named region pick.
type Selection struct {
	Name       string             `yaml:"name" json:"name" toml:"name"`
	Mode       Mode               `yaml:"mode" json:"mode" toml:"mode"`
	Capability regions.Capability `yaml:"capability,omitempty" json:"capability,omitempty" toml:"capability,omitempty"`
	Filter     string             `yaml:"filter,omitempty" json:"filter,omitempty" toml:"filter,omitempty"`
	Regions    []string           `yaml:"regions" json:"regions" toml:"regions"`
	Notes      string             `yaml:"notes,omitempty" json:"notes,omitempty" toml:"notes,omitempty"`
}

// SyntheticRegion is a region injected behind a feature flag before the
// upstream catalog lists it.
type SyntheticRegion struct {
	ID            string               `yaml:"id" json:"id" toml:"id"`
	Label         string               `yaml:"label" json:"label" toml:"label"`
	Country       string               `yaml:"country" json:"country" toml:"country"`
	SiteType      regions.SiteType     `yaml:"site_type,omitempty" json:"site_type,omitempty" toml:"site_type,omitempty"`
	Capabilities  []regions.Capability `yaml:"capabilities" json:"capabilities" toml:"capabilities"`
	Message       string               `yaml:"message,omitempty" json:"message,omitempty" toml:"message,omitempty"`
	Flag          string               `yaml:"flag" json:"flag" toml:"flag"`
	ExcludedPaths []string             `yaml:"excluded_paths,omitempty" json:"excluded_paths,omitempty" toml:"excluded_paths,omitempty"`
}

var (
	ErrSelectionNotFound = errors.New("selection not found")
	ErrDuplicateName     = errors.New("selection name already exists")
)

// DefaultConfig returns the initial config.
func DefaultConfig(home string) Config {
	return Config{
		Options: Options{
			CatalogPath:         filepath.Join(home, ".regionsel", "catalog.yml"),
			OCIConfigPath:       filepath.Join(home, ".oci", "config"),
			OCIProfile:          "DEFAULT",
			SocketPath:          filepath.Join(home, ".regionsel", "daemon.sock"),
			DefaultCapabilities: []regions.Capability{regions.CapabilityLinodes, regions.CapabilityObjectStorage, regions.CapabilityBlockStorage},
		},
		SyntheticRegions: []SyntheticRegion{},
		Selections:       []Selection{},
		CurrentSelection: "",
	}
}

// EnsureDefaultConfig creates a default config file if it does not exist.
func EnsureDefaultConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return Save(path, DefaultConfig(home))
}

// Load reads config with a file lock. The format follows the file extension.
func Load(path string) (Config, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return Config{}, err
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := Unmarshal(path, data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config with a file lock.
func Save(path string, cfg Config) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	data, err := Marshal(path, cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetSelection finds a selection by name.
func (c Config) GetSelection(name string) (Selection, error) {
	for _, s := range c.Selections {
		if s.Name == name {
			return s, nil
		}
	}
	return Selection{}, ErrSelectionNotFound
}

// UpsertSelection adds or updates a selection. The first selection added
// becomes current.
func (c *Config) UpsertSelection(sel Selection) error {
	for i, existing := range c.Selections {
		if existing.Name == sel.Name {
			c.Selections[i] = sel
			return nil
		}
	}
	c.Selections = append(c.Selections, sel)
	if c.CurrentSelection == "" {
		c.CurrentSelection = sel.Name
	}
	return nil
}

// RenameSelection changes the name of an existing selection.
func (c *Config) RenameSelection(from, to string) error {
	if from == to {
		return nil
	}
	if _, err := c.GetSelection(to); err == nil {
		return ErrDuplicateName
	}
	for i, s := range c.Selections {
		if s.Name == from {
			c.Selections[i].Name = to
			if c.CurrentSelection == from {
				c.CurrentSelection = to
			}
			return nil
		}
	}
	return ErrSelectionNotFound
}

// DeleteSelection removes a selection by name.
func (c *Config) DeleteSelection(name string) error {
	idx := -1
	for i, s := range c.Selections {
		if s.Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrSelectionNotFound
	}
	c.Selections = append(c.Selections[:idx], c.Selections[idx+1:]...)
	if c.CurrentSelection == name {
		c.CurrentSelection = ""
	}
	return nil
}

// Validate checks the fields a selection needs to be usable.
func (s Selection) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("selection name is required")
	}
	switch s.Mode {
	case ModeSingle:
		if len(s.Regions) > 1 {
			return fmt.Errorf("selection %q: single mode holds at most one region, got %d", s.Name, len(s.Regions))
		}
	case ModeMulti:
	default:
		return fmt.Errorf("selection %q: mode must be %q or %q", s.Name, ModeSingle, ModeMulti)
	}
	if _, err := regions.ParseFilterMode(s.Filter); err != nil {
		return fmt.Errorf("selection %q: %w", s.Name, err)
	}
	return nil
}

// FilterMode returns the parsed filter, FilterNone when it does not parse.
func (s Selection) FilterMode() regions.FilterMode {
	m, err := regions.ParseFilterMode(s.Filter)
	if err != nil {
		return regions.FilterNone
	}
	return m
}

// SyntheticSpecs converts the configured synthetic regions for MergeSynthetic.
func (c Config) SyntheticSpecs() []regions.SyntheticRegionSpec {
	out := make([]regions.SyntheticRegionSpec, 0, len(c.SyntheticRegions))
	for _, s := range c.SyntheticRegions {
		out = append(out, regions.SyntheticRegionSpec{
			Region: regions.Region{
				ID:           s.ID,
				Label:        s.Label,
				Country:      s.Country,
				Capabilities: s.Capabilities,
				SiteType:     s.SiteType,
			},
			Message:       s.Message,
			Flag:          s.Flag,
			ExcludedPaths: s.ExcludedPaths,
		})
	}
	return out
}
