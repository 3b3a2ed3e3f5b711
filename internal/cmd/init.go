package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var cfgPath string
	var local bool
	var format string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize regionsel config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := strings.TrimPrefix(strings.ToLower(format), ".")
			switch ext {
			case "yml", "yaml", "toml", "json":
			default:
				return fmt.Errorf("unsupported config format: %s", format)
			}
			if cfgPath == "" && local {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				cfgPath = filepath.Join(wd, ".regionsel."+ext)
			}
			if cfgPath == "" {
				p, err := globalConfigPath()
				if err != nil {
					return err
				}
				cfgPath = p
			}
			if err := config.EnsureDefaultConfig(cfgPath); err != nil {
				return err
			}
			if local {
				// Project configs keep their catalog next to them.
				cfg, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg.Options.CatalogPath = filepath.Join(filepath.Dir(cfgPath), ".regionsel", "catalog.yml")
				if err := config.Save(cfgPath, cfg); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized config at %s\n", cfgPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (.yml, .toml or .json)")
	cmd.Flags().BoolVarP(&local, "local", "l", false, "Create a project config in the working directory")
	cmd.Flags().StringVar(&format, "format", "yml", "Format of a --local config: yml|toml|json")
	return cmd
}
