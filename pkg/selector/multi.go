package selector

import (
	"sort"

	"github.com/adrianmross/regionsel/pkg/regions"
)

// Multi holds an ordered, de-duplicated list of selected region ids.
type Multi struct {
	props    Props
	deriver  *regions.Deriver
	selected []string
	onChange func(ids []string)
}

// NewMulti returns a controller initialised with values. onChange may be nil.
func NewMulti(props Props, values []string, onChange func(ids []string)) *Multi {
	return &Multi{
		props:    props,
		deriver:  regions.NewDeriver(0),
		selected: dedupe(values),
		onChange: onChange,
	}
}

// Options returns every derived candidate, selected or not.
func (m *Multi) Options() []regions.Option {
	return m.deriver.Derive(m.props.Regions, m.props.filter(m.props.Filter))
}

// Candidates returns the Select All control followed by the options that are
// not selected yet.
func (m *Multi) Candidates() []Entry {
	chosen := m.selectedSet()
	out := []Entry{controlEntry(ControlSelectAll, "Select All")}
	for _, o := range m.Options() {
		if chosen[o.ID] {
			continue
		}
		out = append(out, Entry{Kind: EntryRegion, Option: o})
	}
	return out
}

// Pick replaces the selection with ids. Ids not already selected must be
// enabled candidates; ids carried over from the current selection are kept as
// they are, even when they no longer resolve or became unavailable.
func (m *Multi) Pick(ids []string) error {
	if m.props.Loading {
		return ErrLoading
	}
	opts := m.Options()
	current := m.selectedSet()
	next := dedupe(ids)
	for _, id := range next {
		if current[id] {
			continue
		}
		if err := checkPick(opts, id, false); err != nil {
			return err
		}
	}
	m.selected = next
	m.notify()
	return nil
}

// Toggle adds id when absent and removes it when present.
func (m *Multi) Toggle(id string) error {
	if m.selectedSet()[id] {
		return m.Remove(id)
	}
	next := append(m.Selected(), id)
	return m.Pick(next)
}

// SelectAll selects every enabled candidate in display order.
func (m *Multi) SelectAll() error {
	if m.props.Loading {
		return ErrLoading
	}
	var ids []string
	for _, o := range m.Options() {
		if !o.Disabled() {
			ids = append(ids, o.ID)
		}
	}
	m.selected = dedupe(ids)
	m.notify()
	return nil
}

// Remove drops one id and keeps the order of the rest.
func (m *Multi) Remove(id string) error {
	if m.props.Loading {
		return ErrLoading
	}
	out := make([]string, 0, len(m.selected))
	found := false
	for _, s := range m.selected {
		if s == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		return ErrUnknownOption
	}
	m.selected = out
	m.notify()
	return nil
}

// Clear empties the selection.
func (m *Multi) Clear() {
	m.selected = []string{}
	m.notify()
}

// Selected returns a copy of the stored selection order.
func (m *Multi) Selected() []string {
	out := make([]string, len(m.selected))
	copy(out, m.selected)
	return out
}

// Display resolves the selection to options for rendering. When cmp is not
// nil the result is sorted by it; the stored order is unaffected. Ids that do
// not resolve are returned as bare options carrying only the id.
func (m *Multi) Display(cmp func(a, b regions.Option) int) []regions.Option {
	opts := m.Options()
	out := make([]regions.Option, 0, len(m.selected))
	for _, id := range m.selected {
		o, ok := regions.FindOption(opts, id)
		if !ok {
			o = regions.Option{ID: id}
		}
		out = append(out, o)
	}
	if cmp != nil {
		sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) < 0 })
	}
	return out
}

// SetValue applies an external change of the selected ids.
func (m *Multi) SetValue(ids []string) {
	m.selected = dedupe(ids)
}

// SetProps replaces the inputs and prunes selected ids that are no longer
// candidates. The caller is notified when pruning changed the selection.
// Nothing is pruned while loading.
func (m *Multi) SetProps(p Props) {
	m.props = p
	if p.Loading {
		return
	}
	opts := m.Options()
	kept := make([]string, 0, len(m.selected))
	for _, id := range m.selected {
		if _, ok := regions.FindOption(opts, id); ok {
			kept = append(kept, id)
		}
	}
	if len(kept) != len(m.selected) {
		m.selected = kept
		m.notify()
	}
}

// Interactive reports whether the control accepts picks.
func (m *Multi) Interactive() bool { return !m.props.Loading }

func (m *Multi) selectedSet() map[string]bool {
	set := make(map[string]bool, len(m.selected))
	for _, id := range m.selected {
		set[id] = true
	}
	return set
}

func (m *Multi) notify() {
	if m.onChange != nil {
		m.onChange(m.Selected())
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
