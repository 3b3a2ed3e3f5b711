package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var output string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved selections",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			if ok, err := encodeStructured(cmd.OutOrStdout(), output, cfg.Selections); ok {
				return err
			}

			switch strings.ToLower(output) {
			case "":
				for _, sel := range cfg.Selections {
					marker := " "
					if sel.Name == cfg.CurrentSelection {
						marker = "*"
					}
					if verbose {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s (mode=%s regions=%s capability=%s filter=%s)\n",
							marker,
							sel.Name,
							sel.Mode,
							strings.Join(sel.Regions, ","),
							sel.Capability,
							sel.Filter,
						)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s (mode=%s regions=%s)\n", marker, sel.Name, sel.Mode, strings.Join(sel.Regions, ","))
				}
				return nil
			case "plain":
				for _, sel := range cfg.Selections {
					marker := ""
					if sel.Name == cfg.CurrentSelection {
						marker = "*"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "selection=%s%s mode=%s regions=%s capability=%s filter=%s notes=%s\n",
						sel.Name,
						marker,
						sel.Mode,
						strings.Join(sel.Regions, ","),
						sel.Capability,
						sel.Filter,
						sel.Notes,
					)
				}
				return nil
			default:
				return unsupportedOutput(output)
			}
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output format: json|yaml|plain (default: human-readable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed fields in human-readable output")
	return cmd
}
