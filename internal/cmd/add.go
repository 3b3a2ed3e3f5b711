package cmd

import (
	"fmt"

	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var sel config.Selection
	var mode, capability string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a saved selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel.Mode = config.Mode(mode)
			sel.Capability = regions.Capability(capability)
			if err := sel.Validate(); err != nil {
				return err
			}
			path, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}
			if err := checkRegions(cfg, snap, sel); err != nil {
				return err
			}
			if err := cfg.UpsertSelection(sel); err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added/updated selection %s\n", sel.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	cmd.Flags().StringVarP(&sel.Name, "name", "n", "", "Selection name")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(config.ModeSingle), "Selection mode: single|multi")
	cmd.Flags().StringSliceVarP(&sel.Regions, "regions", "r", nil, "Region ids (comma separated)")
	cmd.Flags().StringVarP(&capability, "capability", "C", "", "Capability the regions must support")
	cmd.Flags().StringVarP(&sel.Filter, "filter", "f", "", "Site filter: core|distributed|distributed-<continent>")
	cmd.Flags().StringVarP(&sel.Notes, "notes", "N", "", "Notes")

	_ = cmd.MarkFlagRequired("name")

	return cmd
}
