package cmd

import (
	"fmt"

	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool

	cmd := &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete saved selections",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			// Nothing is saved unless every name exists.
			for _, name := range args {
				if err := cfg.DeleteSelection(name); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted selection %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	return cmd
}
