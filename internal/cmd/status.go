package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/adrianmross/regionsel/pkg/oci"
	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/adrianmross/regionsel/pkg/selector"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// findProfile is a seam to allow testing without an OCI CLI config.
var findProfile = oci.FindProfile

// resolvedRegion is one region of the current selection as the picker shows it.
type resolvedRegion struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Group       string `json:"group" yaml:"group"`
	Unavailable bool   `json:"unavailable" yaml:"unavailable"`
	Resolved    bool   `json:"resolved" yaml:"resolved"`
}

type statusReport struct {
	Selection      string           `json:"selection" yaml:"selection"`
	Mode           config.Mode      `json:"mode" yaml:"mode"`
	Regions        []resolvedRegion `json:"regions" yaml:"regions"`
	Catalog        string           `json:"catalog" yaml:"catalog"`
	CatalogSource  string           `json:"catalog_source,omitempty" yaml:"catalog_source,omitempty"`
	CatalogRegions int              `json:"catalog_regions" yaml:"catalog_regions"`
	Profile        string           `json:"oci_profile,omitempty" yaml:"oci_profile,omitempty"`
	HomeRegion     string           `json:"home_region,omitempty" yaml:"home_region,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var useGlobal bool
	var cfgPath string
	var output string
	var plain bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current selection resolved against the region catalog",
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
			snap, err := loadSnapshot(cfg)
			if err != nil {
				return err
			}

			rep := statusReport{
				Selection:      sel.Name,
				Mode:           sel.Mode,
				Regions:        resolveSelection(selectorProps(cfg, snap, sel, ""), sel),
				Catalog:        cfg.Options.CatalogPath,
				CatalogSource:  snap.Source,
				CatalogRegions: len(snap.Regions),
			}
			if cfg.Options.OCIConfigPath != "" && cfg.Options.OCIProfile != "" {
				p, err := findProfile(cfg.Options.OCIConfigPath, cfg.Options.OCIProfile)
				if err != nil {
					klog.V(1).InfoS("OCI profile not readable", "path", cfg.Options.OCIConfigPath, "profile", cfg.Options.OCIProfile, "err", err)
				} else {
					rep.Profile = p.Name
					rep.HomeRegion = p.Region
				}
			}

			out := cmd.OutOrStdout()
			if plain {
				ids := make([]string, 0, len(rep.Regions))
				for _, r := range rep.Regions {
					ids = append(ids, r.ID)
				}
				fmt.Fprintf(out, "selection=%s mode=%s regions=%s\n", rep.Selection, rep.Mode, strings.Join(ids, ","))
				return nil
			}
			if ok, err := encodeStructured(out, output, rep); ok {
				return err
			}
			switch strings.ToLower(output) {
			case "":
				fmt.Fprintf(out, "selection: %s (%s)\n", rep.Selection, rep.Mode)
				if len(rep.Regions) == 0 {
					fmt.Fprintln(out, "regions: none")
				} else {
					fmt.Fprintln(out, "regions:")
				}
				for _, r := range rep.Regions {
					fmt.Fprintf(out, "  - %s%s\n", r.Label, regionNote(r))
				}
				fmt.Fprintf(out, "catalog: %s (%s regions", rep.Catalog, strconv.Itoa(rep.CatalogRegions))
				if rep.CatalogSource != "" {
					fmt.Fprintf(out, ", source %s", rep.CatalogSource)
				}
				fmt.Fprintln(out, ")")
				if rep.Profile != "" {
					fmt.Fprintf(out, "oci profile: %s (home region %s)\n", rep.Profile, rep.HomeRegion)
				}
				return nil
			case "plain":
				parts := make([]string, 0, len(rep.Regions))
				for _, r := range rep.Regions {
					parts = append(parts, fmt.Sprintf("%s[%s]", r.ID, r.Group))
				}
				fmt.Fprintf(out, "selection=%s mode=%s regions=%s catalog_regions=%d\n", rep.Selection, rep.Mode, strings.Join(parts, ","), rep.CatalogRegions)
				return nil
			default:
				return unsupportedOutput(output)
			}
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output format: json|yaml|plain (default: human-readable)")
	cmd.Flags().BoolVarP(&plain, "plain", "p", false, "Region ids only")
	return cmd
}

// resolveSelection maps the stored ids to options through the controller for
// the selection's mode. Multi selections are shown in display order.
func resolveSelection(props selector.Props, sel config.Selection) []resolvedRegion {
	var opts []regions.Option
	if sel.Mode == config.ModeSingle {
		if len(sel.Regions) == 0 {
			return nil
		}
		s := selector.NewSingle(props, sel.Regions[0], nil)
		o, ok := s.SelectedOption()
		if !ok {
			o = regions.Option{ID: sel.Regions[0]}
		}
		opts = []regions.Option{o}
	} else {
		opts = selector.NewMulti(props, sel.Regions, nil).Display(regions.CompareOptions)
	}
	out := make([]resolvedRegion, 0, len(opts))
	for _, o := range opts {
		r := resolvedRegion{ID: o.ID, Label: o.Label, Group: o.Data.Region, Unavailable: o.Disabled(), Resolved: o.Label != ""}
		if !r.Resolved {
			r.Label = o.ID
		}
		out = append(out, r)
	}
	return out
}

func regionNote(r resolvedRegion) string {
	switch {
	case !r.Resolved:
		return " [not in catalog]"
	case r.Unavailable:
		return fmt.Sprintf(" [%s, unavailable]", r.Group)
	}
	return fmt.Sprintf(" [%s]", r.Group)
}
