package cmd

import (
	"fmt"

	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/spf13/cobra"
)

func newUseCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Switch current selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			sel, err := cfg.GetSelection(args[0])
			if err != nil {
				return err
			}
			cfg.CurrentSelection = sel.Name
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Switched to selection %s (%d regions)\n", sel.Name, len(sel.Regions))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the switched selection")
	return cmd
}
