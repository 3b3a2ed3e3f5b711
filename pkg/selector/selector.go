// Package selector holds the region selection state controllers: Single,
// Multi and TwoStep. Each controller owns its selection, derives its candidate
// options through regions.Deriver and reports changes through a callback that
// receives raw region ids.
//
// Controllers are not safe for concurrent use; they belong to one UI loop.
package selector

import (
	"errors"
	"strings"

	"github.com/adrianmross/regionsel/pkg/regions"
)

var (
	// ErrOptionUnavailable is returned when picking a disabled option.
	ErrOptionUnavailable = errors.New("region option is unavailable")
	// ErrUnknownOption is returned when picking an id missing from the candidates.
	ErrUnknownOption = errors.New("region option not found")
	// ErrLoading is returned when picking while region data is still loading.
	ErrLoading = errors.New("region data is loading")
)

// Props are the caller-supplied inputs shared by all controllers.
type Props struct {
	Regions            []regions.Region
	Capability         regions.Capability
	Filter             regions.FilterMode
	Availability       []regions.AccountAvailability
	IgnoreAvailability bool
	ForceIncludeIDs    []string
	DisabledRegions    map[string]string
	// Loading marks region or availability data as still being fetched.
	Loading bool
}

func (p Props) filter(mode regions.FilterMode) regions.Filter {
	return regions.Filter{
		Capability:         p.Capability,
		Mode:               mode,
		ForceIncludeIDs:    p.ForceIncludeIDs,
		Availability:       p.Availability,
		IgnoreAvailability: p.IgnoreAvailability,
		DisabledRegions:    p.DisabledRegions,
	}
}

// State is the single-select state.
type State int

const (
	Unselected State = iota
	Selected
)

func (s State) String() string {
	if s == Selected {
		return "selected"
	}
	return "unselected"
}

// checkPick validates a pick of id against the candidate options.
func checkPick(opts []regions.Option, id string, loading bool) error {
	if loading {
		return ErrLoading
	}
	o, ok := regions.FindOption(opts, id)
	if !ok {
		return ErrUnknownOption
	}
	if o.Disabled() {
		return ErrOptionUnavailable
	}
	return nil
}

// matchQuery filters options by a case-insensitive substring of the label.
func matchQuery(opts []regions.Option, query string) []regions.Option {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return opts
	}
	out := make([]regions.Option, 0, len(opts))
	for _, o := range opts {
		if strings.Contains(strings.ToLower(o.Label), q) {
			out = append(out, o)
		}
	}
	return out
}
