package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrianmross/regionsel/pkg/catalog"
	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/adrianmross/regionsel/pkg/oci"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// fetchCatalog is a seam to allow testing without hitting the network.
var fetchCatalog = oci.FetchCatalog

func newImportCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var ociCfgPath string
	var profile string
	var file string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the region catalog from OCI or from a catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			if cfg.Options.CatalogPath == "" {
				cfg.Options.CatalogPath = filepath.Join(filepath.Dir(path), "catalog.yml")
			}

			var snap catalog.Snapshot
			if file != "" {
				snap, err = catalog.Load(file)
				if err != nil {
					return err
				}
			} else {
				if ociCfgPath == "" {
					ociCfgPath = cfg.Options.OCIConfigPath
				}
				if ociCfgPath == "" {
					home, err := os.UserHomeDir()
					if err != nil {
						return err
					}
					ociCfgPath = filepath.Join(home, ".oci", "config")
				}
				if profile == "" {
					profile = cfg.Options.OCIProfile
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()
				snap, err = fetchCatalog(ctx, ociCfgPath, profile, cfg.Options.DefaultCapabilities)
				if err != nil {
					return err
				}
			}

			if err := catalog.Save(cfg.Options.CatalogPath, snap); err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			klog.V(1).InfoS("Imported region catalog", "path", cfg.Options.CatalogPath, "source", snap.Source)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d regions (%d availability records) into %s\n",
				len(snap.Regions), len(snap.Availability), cfg.Options.CatalogPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to regionsel config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	cmd.Flags().StringVarP(&ociCfgPath, "oci-config", "o", "", "Path to OCI CLI config (default from config, else ~/.oci/config)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "OCI CLI profile (default from config)")
	cmd.Flags().StringVar(&file, "file", "", "Import a catalog file (.yml, .json or .toml) instead of querying OCI")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for OCI requests")
	return cmd
}
