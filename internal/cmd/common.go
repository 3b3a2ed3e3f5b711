package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrianmross/regionsel/pkg/catalog"
	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// resolveConfigPath returns the config path based on flags and project discovery.
// Priority:
//  1. explicit --config
//  2. if global flag set -> ~/.regionsel/config.yml
//  3. project-local configs (in order):
//     ./.regionsel.yml, ./.regionsel.toml, ./.regionsel.json,
//     ./.regionsel/config.yml, ./.regionsel/config.toml,
//     ./regionsel.yml, ./regionsel.toml, ./regionsel.json
//  4. fallback to ~/.regionsel/config.yml
func resolveConfigPath(cfg string, global bool) (string, error) {
	if cfg != "" {
		return cfg, nil
	}

	if global {
		return globalConfigPath()
	}

	if wd, err := os.Getwd(); err == nil {
		candidates := []string{
			".regionsel.yml",
			".regionsel.toml",
			".regionsel.json",
			filepath.Join(".regionsel", "config.yml"),
			filepath.Join(".regionsel", "config.toml"),
			"regionsel.yml",
			"regionsel.toml",
			"regionsel.json",
		}
		for _, rel := range candidates {
			p := filepath.Join(wd, rel)
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return p, nil
			}
		}
	}

	return globalConfigPath()
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".regionsel", "config.yml"), nil
}

// loadConfig resolves and loads the config selected by the command's flags.
func loadConfig(cmd *cobra.Command, cfgPath string) (string, config.Config, error) {
	useGlobal, err := cmd.Flags().GetBool("global")
	if err != nil {
		return "", config.Config{}, err
	}
	path, err := resolveConfigPath(cfgPath, useGlobal)
	if err != nil {
		return "", config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return "", config.Config{}, err
	}
	return path, cfg, nil
}

// loadSnapshot reads the configured catalog. A missing catalog yields an empty
// snapshot so commands still run before the first import.
func loadSnapshot(cfg config.Config) (catalog.Snapshot, error) {
	if cfg.Options.CatalogPath == "" {
		return catalog.Snapshot{}, nil
	}
	snap, err := catalog.Load(cfg.Options.CatalogPath)
	if errors.Is(err, catalog.ErrCatalogNotFound) {
		klog.V(1).InfoS("No region catalog yet", "path", cfg.Options.CatalogPath)
		return catalog.Snapshot{}, nil
	}
	return snap, err
}

// deriveFlags are the option derivation flags shared by several commands.
type deriveFlags struct {
	capability string
	filter     string
	force      []string
	ignore     bool
	path       string
}

func (d *deriveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&d.capability, "capability", "C", "", "Only regions with this capability (e.g. Linodes, \"Object Storage\")")
	cmd.Flags().StringVarP(&d.filter, "filter", "f", "", "Site filter: core|distributed|distributed-<NA|EU|AS|SA|OC|AF|AN>")
	cmd.Flags().StringSliceVar(&d.force, "force", nil, "Region ids always included")
	cmd.Flags().BoolVar(&d.ignore, "ignore-availability", false, "Do not mark options unavailable for the account")
	cmd.Flags().StringVar(&d.path, "path", "", "Location matched against synthetic region exclusions")
}

// options merges synthetic regions into the snapshot and derives options.
func (d deriveFlags) options(cfg config.Config, snap catalog.Snapshot) ([]regions.Option, error) {
	mode, err := regions.ParseFilterMode(d.filter)
	if err != nil {
		return nil, err
	}
	merged, disabled := regions.MergeSynthetic(snap.Regions, cfg.SyntheticSpecs(), cfg.Options.Flags, d.path)
	return regions.DeriveOptions(merged, regions.Filter{
		Capability:         regions.Capability(d.capability),
		Mode:               mode,
		ForceIncludeIDs:    d.force,
		Availability:       snap.Availability,
		IgnoreAvailability: d.ignore || cfg.Options.IgnoreAccountAvailability,
		DisabledRegions:    disabled,
	}), nil
}

// encodeStructured writes v as json or yaml. It reports false for other formats.
func encodeStructured(w io.Writer, format string, v interface{}) (bool, error) {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return true, enc.Encode(v)
	}
	return false, nil
}

func unsupportedOutput(format string) error {
	return fmt.Errorf("unsupported output format: %s", format)
}
