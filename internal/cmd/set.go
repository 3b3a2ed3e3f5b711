package cmd

import (
	"fmt"

	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/adrianmross/regionsel/pkg/selector"
	"github.com/spf13/cobra"
)

func newSetCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var mode, capability, filter, notes, rename string
	var setRegions, addRegions, removeRegions []string

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Update fields of a saved selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			path, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			sel, err := cfg.GetSelection(name)
			if err != nil {
				return err
			}
			if mode != "" {
				sel.Mode = config.Mode(mode)
			}
			if cmd.Flags().Changed("capability") {
				sel.Capability = regions.Capability(capability)
			}
			if cmd.Flags().Changed("filter") {
				sel.Filter = filter
			}
			if notes != "" {
				sel.Notes = notes
			}
			if cmd.Flags().Changed("regions") {
				sel.Regions = setRegions
			}
			if len(addRegions) > 0 || len(removeRegions) > 0 {
				// The stored order is kept; removals go through the multi controller.
				m := selector.NewMulti(selector.Props{}, append(sel.Regions, addRegions...), nil)
				for _, id := range removeRegions {
					if err := m.Remove(id); err != nil {
						return fmt.Errorf("remove %s: %w", id, err)
					}
				}
				sel.Regions = m.Selected()
			}
			if err := sel.Validate(); err != nil {
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
			if rename != "" {
				if err := cfg.RenameSelection(name, rename); err != nil {
					return err
				}
				name = rename
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated selection %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Selection mode: single|multi")
	cmd.Flags().StringVarP(&capability, "capability", "C", "", "Capability the regions must support")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Site filter")
	cmd.Flags().StringVarP(&notes, "notes", "N", "", "Notes")
	cmd.Flags().StringVar(&rename, "rename", "", "New selection name")
	cmd.Flags().StringSliceVarP(&setRegions, "regions", "r", nil, "Replace region ids")
	cmd.Flags().StringSliceVar(&addRegions, "add-region", nil, "Append region ids")
	cmd.Flags().StringSliceVar(&removeRegions, "remove-region", nil, "Remove region ids")

	return cmd
}
