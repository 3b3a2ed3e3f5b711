package selector

import "github.com/adrianmross/regionsel/pkg/regions"

// Tab identifies a panel of the two-step controller.
type Tab int

const (
	TabCore Tab = iota
	TabDistributed
)

func (t Tab) String() string {
	if t == TabDistributed {
		return "distributed"
	}
	return "core"
}

// TwoStep presents one logical selection under a Core tab and a Distributed
// tab with a geography sub-filter.
type TwoStep struct {
	props     Props
	core      *regions.Deriver
	dist      *regions.Deriver
	tab       Tab
	geography string
	selected  string
	onChange  func(id string)
}

// NewTwoStep returns a controller initialised with value. The active tab is
// the one whose candidates contain value, Core otherwise.
func NewTwoStep(props Props, value string, onChange func(id string)) *TwoStep {
	t := &TwoStep{
		props:    props,
		core:     regions.NewDeriver(0),
		dist:     regions.NewDeriver(0),
		selected: value,
		onChange: onChange,
	}
	if value != "" {
		if _, ok := regions.FindOption(t.tabOptions(TabDistributed), value); ok {
			t.tab = TabDistributed
		}
	}
	return t
}

func (t *TwoStep) mode(tab Tab) regions.FilterMode {
	if tab == TabCore {
		return regions.FilterCore
	}
	return regions.DistributedIn(t.geography)
}

func (t *TwoStep) tabOptions(tab Tab) []regions.Option {
	d := t.core
	if tab == TabDistributed {
		d = t.dist
	}
	return d.Derive(t.props.Regions, t.props.filter(t.mode(tab)))
}

// Options returns the candidates of the active tab.
func (t *TwoStep) Options() []regions.Option {
	return t.tabOptions(t.tab)
}

// Entries wraps the active tab's candidates as entries.
func (t *TwoStep) Entries() []Entry {
	return RegionEntries(t.Options())
}

// Tab returns the active tab.
func (t *TwoStep) Tab() Tab { return t.tab }

// SwitchTab changes the active tab. The selection is kept.
func (t *TwoStep) SwitchTab(tab Tab) {
	t.tab = tab
}

// Geography returns the continent code of the distributed sub-filter ("" for
// all).
func (t *TwoStep) Geography() string { return t.geography }

// SetGeography scopes the distributed tab to a continent code. The selection
// is kept.
func (t *TwoStep) SetGeography(continent string) {
	t.geography = continent
}

// Geographies returns the geography picker entries: All first, then one per
// continent.
func (t *TwoStep) Geographies() []Entry {
	out := make([]Entry, 0, len(regions.ContinentCodes)+1)
	out = append(out, controlEntry(GeographyKey(""), "All"))
	for _, code := range regions.ContinentCodes {
		out = append(out, controlEntry(GeographyKey(code), regions.GroupForContinent(code)))
	}
	return out
}

// Pick selects id from the active tab's candidates.
func (t *TwoStep) Pick(id string) error {
	if err := checkPick(t.Options(), id, t.props.Loading); err != nil {
		return err
	}
	t.selected = id
	if t.onChange != nil {
		t.onChange(id)
	}
	return nil
}

// SetValue applies an external change of the current id.
func (t *TwoStep) SetValue(id string) {
	t.selected = id
}

// SetProps replaces the inputs; the selection and tab are kept.
func (t *TwoStep) SetProps(p Props) {
	t.props = p
}

// Selected returns the selected id, if any.
func (t *TwoStep) Selected() (string, bool) {
	return t.selected, t.selected != ""
}

// SelectedOption resolves the selection against both tabs, Core first.
func (t *TwoStep) SelectedOption() (regions.Option, bool) {
	if t.selected == "" {
		return regions.Option{}, false
	}
	if o, ok := regions.FindOption(t.tabOptions(TabCore), t.selected); ok {
		return o, true
	}
	// Resolve regardless of the geography sub-filter.
	all := t.dist.Derive(t.props.Regions, t.props.filter(regions.FilterDistributed))
	return regions.FindOption(all, t.selected)
}

// Interactive reports whether the control accepts picks.
func (t *TwoStep) Interactive() bool { return !t.props.Loading }
