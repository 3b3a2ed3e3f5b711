// Package catalog stores region catalog snapshots: the provider's region list
// together with the account availability records that were current when it
// was fetched.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/gofrs/flock"
	"k8s.io/klog/v2"
)

// ErrCatalogNotFound is returned by Load when the catalog file does not exist.
var ErrCatalogNotFound = errors.New("region catalog not found")

// Snapshot is the on-disk catalog.
type Snapshot struct {
	Source       string                        `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	FetchedAt    time.Time                     `json:"fetched_at" yaml:"fetched_at" toml:"fetched_at"`
	Regions      []regions.Region              `json:"regions" yaml:"regions" toml:"regions"`
	Availability []regions.AccountAvailability `json:"availability" yaml:"availability" toml:"availability"`
}

// Region looks up a region by id.
func (s Snapshot) Region(id string) (regions.Region, bool) {
	for _, r := range s.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return regions.Region{}, false
}

// Load reads a snapshot; the format follows the file extension.
func Load(path string) (Snapshot, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
	}
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return Snapshot{}, err
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
	}
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := config.Unmarshal(path, data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	snap.Regions = dropAnonymous(snap.Regions, path)
	return snap, nil
}

// Save writes a snapshot, creating the parent directory when needed.
func Save(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	data, err := config.Marshal(path, snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func dropAnonymous(in []regions.Region, path string) []regions.Region {
	out := in[:0:0]
	for i, r := range in {
		if r.ID == "" {
			klog.V(2).InfoS("Dropping catalog region without id", "path", path, "index", i, "label", r.Label)
			continue
		}
		out = append(out, r)
	}
	return out
}
