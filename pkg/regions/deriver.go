package regions

import (
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultDeriverSize bounds the number of memoized derivations.
const DefaultDeriverSize = 64

// Deriver memoizes DeriveOptions on a content hash of all of its inputs, so a
// changed region list, capability, mode or availability map always misses.
// It is safe for concurrent use.
type Deriver struct {
	mu     sync.Mutex
	max    int
	cache  map[uint64][]Option
	hits   uint64
	misses uint64
}

// NewDeriver returns a Deriver holding at most size results. A size <= 0 uses
// DefaultDeriverSize.
func NewDeriver(size int) *Deriver {
	if size <= 0 {
		size = DefaultDeriverSize
	}
	return &Deriver{max: size, cache: make(map[uint64][]Option, size)}
}

// Derive returns DeriveOptions(regions, f), reusing a previous result when the
// inputs hash the same. The returned slice is owned by the caller.
func (d *Deriver) Derive(regions []Region, f Filter) []Option {
	opts, _ := d.DeriveHit(regions, f)
	return opts
}

// DeriveHit is Derive that also reports whether the result came from the cache.
func (d *Deriver) DeriveHit(regions []Region, f Filter) ([]Option, bool) {
	key := deriveKey(regions, f)

	d.mu.Lock()
	if cached, ok := d.cache[key]; ok {
		d.hits++
		d.mu.Unlock()
		return cloneOptions(cached), true
	}
	d.misses++
	d.mu.Unlock()

	opts := DeriveOptions(regions, f)

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cache) >= d.max {
		// drop everything; derivations are cheap to rebuild
		d.cache = make(map[uint64][]Option, d.max)
	}
	d.cache[key] = cloneOptions(opts)
	return opts, false
}

// Stats reports cache hits and misses since creation.
func (d *Deriver) Stats() (hits, misses uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hits, d.misses
}

// Len returns the number of cached results.
func (d *Deriver) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cache)
}

func cloneOptions(in []Option) []Option {
	out := make([]Option, len(in))
	copy(out, in)
	return out
}

func deriveKey(regions []Region, f Filter) uint64 {
	h := xxhash.New()
	field := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	field(strconv.Itoa(len(regions)))
	for _, r := range regions {
		field(r.ID)
		field(r.Label)
		field(r.Country)
		field(string(r.SiteType))
		field(strconv.Itoa(len(r.Capabilities)))
		for _, c := range r.Capabilities {
			field(string(c))
		}
	}
	field(string(f.Capability))
	field(string(f.Mode))
	field(strconv.FormatBool(f.IgnoreAvailability))
	field(strconv.Itoa(len(f.ForceIncludeIDs)))
	for _, id := range f.ForceIncludeIDs {
		field(id)
	}
	field(strconv.Itoa(len(f.Availability)))
	for _, a := range f.Availability {
		field(a.Region)
		field(strconv.Itoa(len(a.Unavailable)))
		for _, c := range a.Unavailable {
			field(string(c))
		}
	}
	ids := make([]string, 0, len(f.DisabledRegions))
	for id := range f.DisabledRegions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	field(strconv.Itoa(len(ids)))
	for _, id := range ids {
		field(id)
		field(f.DisabledRegions[id])
	}
	return h.Sum64()
}
