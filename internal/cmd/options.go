package cmd

import (
	"fmt"
	"strings"

	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/spf13/cobra"
)

func newOptionsCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var output string
	var grouped bool
	var df deriveFlags

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List region options for a capability and site filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}
			opts, err := df.options(cfg, snap)
			if err != nil {
				return err
			}

			var payload interface{} = opts
			if grouped {
				payload = regions.GroupOptions(opts)
			}
			if ok, err := encodeStructured(cmd.OutOrStdout(), output, payload); ok {
				return err
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(output) {
			case "":
				for _, g := range regions.GroupOptions(opts) {
					if grouped {
						fmt.Fprintf(out, "%s:\n", g.Name)
					}
					for _, o := range g.Options {
						prefix := "  "
						if grouped {
							prefix = "    "
						}
						fmt.Fprintf(out, "%s%s%s\n", prefix, o.Label, optionNote(o))
					}
				}
				return nil
			case "plain":
				for _, o := range opts {
					fmt.Fprintf(out, "id=%s group=%s country=%s site=%s unavailable=%t\n",
						o.ID, o.Data.Region, o.Data.Country, o.SiteType, o.Disabled())
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
	cmd.Flags().BoolVar(&grouped, "grouped", false, "Group options under their display group")
	df.register(cmd)
	return cmd
}

// optionNote renders why an option cannot be picked.
func optionNote(o regions.Option) string {
	switch {
	case o.DisabledReason != "":
		return fmt.Sprintf(" [disabled: %s]", o.DisabledReason)
	case o.Unavailable:
		return " [unavailable]"
	}
	return ""
}

func newGroupCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var country string

	cmd := &cobra.Command{
		Use:   "group [region-id...]",
		Short: "Show the display group of catalog regions or a country code",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if country != "" {
				fmt.Fprintln(out, regions.Classify(regions.Region{Country: country}))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("region id or --country required")
			}
			_, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}
			for _, id := range args {
				r, ok := snap.Region(id)
				if !ok {
					return fmt.Errorf("region %s not in catalog", id)
				}
				fmt.Fprintf(out, "%s %s\n", r.ID, regions.Classify(r))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	cmd.Flags().StringVar(&country, "country", "", "Classify a country code instead of catalog regions")
	return cmd
}
