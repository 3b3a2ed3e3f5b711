package cmd

import (
	"fmt"

	"github.com/adrianmross/regionsel/pkg/catalog"
	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/adrianmross/regionsel/pkg/selector"
)

// selectorProps builds controller inputs for a saved selection.
func selectorProps(cfg config.Config, snap catalog.Snapshot, sel config.Selection, path string) selector.Props {
	merged, disabled := regions.MergeSynthetic(snap.Regions, cfg.SyntheticSpecs(), cfg.Options.Flags, path)
	return selector.Props{
		Regions:            merged,
		Capability:         sel.Capability,
		Filter:             sel.FilterMode(),
		Availability:       snap.Availability,
		IgnoreAvailability: cfg.Options.IgnoreAccountAvailability,
		DisabledRegions:    disabled,
	}
}

// checkRegions replays the selection's regions through a controller so that
// unknown or unavailable regions are rejected the same way the picker rejects
// them. An empty catalog skips the check.
func checkRegions(cfg config.Config, snap catalog.Snapshot, sel config.Selection) error {
	if len(snap.Regions) == 0 || len(sel.Regions) == 0 {
		return nil
	}
	props := selectorProps(cfg, snap, sel, "")
	if sel.Mode == config.ModeSingle {
		s := selector.NewSingle(props, "", nil)
		if err := s.Pick(sel.Regions[0]); err != nil {
			return fmt.Errorf("region %s: %w", sel.Regions[0], err)
		}
		return nil
	}
	m := selector.NewMulti(props, nil, nil)
	for _, id := range sel.Regions {
		if contains(m.Selected(), id) {
			continue
		}
		if err := m.Pick(append(m.Selected(), id)); err != nil {
			return fmt.Errorf("region %s: %w", id, err)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
