package regions

import (
	"fmt"
	"sort"
	"strings"
)

// FormatLabel renders the option label of a region: "{label} ({id})".
func FormatLabel(r Region) string {
	return fmt.Sprintf("%s (%s)", r.Label, r.ID)
}

// DeriveOptions filters regions against f, annotates availability and returns
// the options in display order. Caller data is never modified.
func DeriveOptions(regions []Region, f Filter) []Option {
	out := make([]Option, 0, len(regions))
	if len(regions) == 0 {
		return out
	}
	forced := make(map[string]bool, len(f.ForceIncludeIDs))
	for _, id := range f.ForceIncludeIDs {
		forced[id] = true
	}
	for _, r := range regions {
		if !forced[r.ID] && !passes(r, f) {
			continue
		}
		out = append(out, toOption(r, f))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return CompareOptions(out[i], out[j]) < 0
	})
	return out
}

func passes(r Region, f Filter) bool {
	if f.Capability != "" && !r.HasCapability(f.Capability) {
		return false
	}
	if f.Mode == FilterNone {
		return true
	}
	if r.SiteType != f.Mode.SiteType() {
		return false
	}
	if code := f.Mode.Continent(); code != "" {
		return Classify(r) == GroupForContinent(code)
	}
	return true
}

func toOption(r Region, f Filter) Option {
	o := Option{
		ID:    r.ID,
		Label: FormatLabel(r),
		Data: OptionData{
			Country: r.Country,
			Region:  Classify(r),
		},
		SiteType: r.SiteType,
	}
	if !f.IgnoreAvailability {
		o.Unavailable = IsUnavailable(f.Availability, f.Capability, r.ID)
	}
	if msg, ok := f.DisabledRegions[r.ID]; ok {
		o.DisabledReason = msg
	}
	return o
}

// groupRank orders display groups: Global, North America, named groups, Other.
func groupRank(group string) int {
	switch group {
	case GroupGlobal:
		return 0
	case GroupNorthAmerica:
		return 1
	case GroupOther, "":
		return 3
	default:
		return 2
	}
}

// CompareOptions is the display order comparator used by DeriveOptions.
//
// Within a group, an option in country "us" sorts before any other country.
// Other countries are not ordered among themselves, so labels decide.
func CompareOptions(a, b Option) int {
	ra, rb := groupRank(a.Data.Region), groupRank(b.Data.Region)
	if ra != rb {
		return ra - rb
	}
	if a.Data.Region != b.Data.Region {
		return strings.Compare(a.Data.Region, b.Data.Region)
	}
	aUS := strings.EqualFold(a.Data.Country, "us")
	bUS := strings.EqualFold(b.Data.Country, "us")
	if aUS != bUS {
		if aUS {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Label, b.Label)
}

// FindOption returns the option with the given id.
func FindOption(opts []Option, id string) (Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// GroupOptions splits an ordered option list into consecutive display groups.
func GroupOptions(opts []Option) []OptionGroup {
	var groups []OptionGroup
	for _, o := range opts {
		if n := len(groups); n > 0 && groups[n-1].Name == o.Data.Region {
			groups[n-1].Options = append(groups[n-1].Options, o)
			continue
		}
		groups = append(groups, OptionGroup{Name: o.Data.Region, Options: []Option{o}})
	}
	return groups
}

// OptionGroup is a named run of options sharing a display group.
type OptionGroup struct {
	Name    string   `json:"name" yaml:"name"`
	Options []Option `json:"options" yaml:"options"`
}
