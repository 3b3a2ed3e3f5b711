package regions

import "strings"

// DefaultDisabledMessage is shown for synthetic regions configured without one.
const DefaultDisabledMessage = "This region is currently unavailable."

// MergeSynthetic appends the regions of enabled specs to regions and returns the
// merged list together with the disabled message of every appended region.
//
// A spec is merged only when flags[spec.Flag] is true, no region with the same
// id is already present and path does not start with one of its excluded
// paths. The input slice is left untouched.
func MergeSynthetic(regions []Region, specs []SyntheticRegionSpec, flags map[string]bool, path string) ([]Region, map[string]string) {
	out := make([]Region, len(regions), len(regions)+len(specs))
	copy(out, regions)
	disabled := make(map[string]string)
	if len(specs) == 0 {
		return out, disabled
	}
	present := make(map[string]bool, len(out))
	for _, r := range out {
		present[r.ID] = true
	}
	for _, spec := range specs {
		if spec.Region.ID == "" || present[spec.Region.ID] {
			continue
		}
		if spec.Flag == "" || !flags[spec.Flag] {
			continue
		}
		if excludedPath(path, spec.ExcludedPaths) {
			continue
		}
		msg := spec.Message
		if msg == "" {
			msg = DefaultDisabledMessage
		}
		out = append(out, spec.Region)
		present[spec.Region.ID] = true
		disabled[spec.Region.ID] = msg
	}
	return out, disabled
}

func excludedPath(path string, excluded []string) bool {
	if path == "" {
		return false
	}
	for _, p := range excluded {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
