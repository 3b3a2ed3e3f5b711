package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCurrentCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var regionsOnly bool

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the current selection name",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			if cfg.CurrentSelection == "" {
				return fmt.Errorf("no current selection set")
			}
			sel, err := cfg.GetSelection(cfg.CurrentSelection)
			if err != nil {
				return err
			}
			if regionsOnly {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(sel.Regions, ","))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), sel.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	cmd.Flags().BoolVarP(&regionsOnly, "regions", "r", false, "Print the selected region ids instead of the name")
	return cmd
}
