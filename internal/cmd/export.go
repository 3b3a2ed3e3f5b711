package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/adrianmross/regionsel/internal/daemon"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export current selection as env or json",
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

			switch format {
			case "env", "":
				for _, line := range daemon.ExportEnv(sel) {
					fmt.Fprintf(cmd.OutOrStdout(), "export %s\n", line)
				}
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(sel); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	cmd.Flags().StringVarP(&format, "format", "f", "env", "Output format: env|json")
	return cmd
}
