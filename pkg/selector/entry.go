package selector

import "github.com/adrianmross/regionsel/pkg/regions"

// EntryKind tags an Entry.
type EntryKind int

const (
	EntryRegion EntryKind = iota
	EntryControl
)

// Control keys for pseudo entries.
const (
	ControlSelectAll    = "select-all"
	ControlGeographyAll = "geography-all"
	controlGeography    = "geography-"
)

// Control is a non-region list entry that exists for interaction only.
type Control struct {
	Key   string
	Label string
}

// Entry is one row of a rendered list: either a region option or a control.
type Entry struct {
	Kind    EntryKind
	Option  regions.Option
	Control Control
}

// IsControl reports whether e is a pseudo entry.
func (e Entry) IsControl() bool { return e.Kind == EntryControl }

// Label returns the text to render for the entry.
func (e Entry) Label() string {
	if e.IsControl() {
		return e.Control.Label
	}
	return e.Option.Label
}

// RegionEntries wraps options as entries.
func RegionEntries(opts []regions.Option) []Entry {
	out := make([]Entry, 0, len(opts))
	for _, o := range opts {
		out = append(out, Entry{Kind: EntryRegion, Option: o})
	}
	return out
}

func controlEntry(key, label string) Entry {
	return Entry{Kind: EntryControl, Control: Control{Key: key, Label: label}}
}

// GeographyKey returns the control key for a continent code ("" for all).
func GeographyKey(continent string) string {
	if continent == "" {
		return ControlGeographyAll
	}
	return controlGeography + continent
}

// GeographyFromKey is the inverse of GeographyKey.
func GeographyFromKey(key string) (string, bool) {
	if key == ControlGeographyAll {
		return "", true
	}
	if len(key) > len(controlGeography) && key[:len(controlGeography)] == controlGeography {
		return key[len(controlGeography):], true
	}
	return "", false
}
