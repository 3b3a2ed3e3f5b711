package selector

import "github.com/adrianmross/regionsel/pkg/regions"

// Single holds at most one selected region id.
type Single struct {
	props    Props
	deriver  *regions.Deriver
	selected string
	query    string
	onChange func(id string)
}

// NewSingle returns a controller initialised with value. onChange may be nil.
func NewSingle(props Props, value string, onChange func(id string)) *Single {
	return &Single{
		props:    props,
		deriver:  regions.NewDeriver(0),
		selected: value,
		onChange: onChange,
	}
}

// Options returns the derived candidates for the current props.
func (s *Single) Options() []regions.Option {
	return s.deriver.Derive(s.props.Regions, s.props.filter(s.props.Filter))
}

// Entries returns the candidates narrowed by the current query.
func (s *Single) Entries() []Entry {
	return RegionEntries(s.Matches())
}

// Matches returns the candidates whose label contains the current query.
func (s *Single) Matches() []regions.Option {
	return matchQuery(s.Options(), s.query)
}

// Pick selects id and notifies the caller. Disabled or unknown options and
// picks while loading are refused and leave the selection unchanged.
func (s *Single) Pick(id string) error {
	if err := checkPick(s.Options(), id, s.props.Loading); err != nil {
		return err
	}
	s.selected = id
	s.query = ""
	s.notify()
	return nil
}

// Clear drops the selection and notifies the caller with "".
func (s *Single) Clear() {
	s.selected = ""
	s.query = ""
	s.notify()
}

// SetValue applies an external change of the current id. An id that is not
// among the candidates is kept but resolves to no option.
func (s *Single) SetValue(id string) {
	s.selected = id
}

// SetProps replaces the inputs; the selection is kept.
func (s *Single) SetProps(p Props) {
	s.props = p
}

// EditQuery records search text typed without a committed pick. Any non-empty
// text drops the selection until an option is picked again.
func (s *Single) EditQuery(text string) {
	s.query = text
	if text != "" {
		s.selected = ""
	}
}

// Query returns the current search text.
func (s *Single) Query() string { return s.query }

// State reports whether an id is selected.
func (s *Single) State() State {
	if s.selected == "" {
		return Unselected
	}
	return Selected
}

// Selected returns the selected id, if any.
func (s *Single) Selected() (string, bool) {
	return s.selected, s.selected != ""
}

// SelectedOption resolves the selection against the candidates. ok is false
// when nothing is selected or the id is not among the candidates.
func (s *Single) SelectedOption() (regions.Option, bool) {
	if s.selected == "" {
		return regions.Option{}, false
	}
	return regions.FindOption(s.Options(), s.selected)
}

// Interactive reports whether the control accepts picks.
func (s *Single) Interactive() bool { return !s.props.Loading }

func (s *Single) notify() {
	if s.onChange != nil {
		s.onChange(s.selected)
	}
}
