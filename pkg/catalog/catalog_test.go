package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Source:    "test",
		FetchedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Regions: []regions.Region{
			{ID: "us-east", Label: "Newark, NJ", Country: "us", SiteType: regions.SiteTypeCore, Capabilities: []regions.Capability{regions.CapabilityLinodes}},
			{ID: "fr-par-2", Label: "Paris 2, FR", Country: "fr", SiteType: regions.SiteTypeDistributed, Capabilities: []regions.Capability{regions.CapabilityLinodes}},
		},
		Availability: []regions.AccountAvailability{
			{Region: "fr-par-2", Unavailable: []regions.Capability{regions.CapabilityLinodes}},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".yml", ".json", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "catalog"+ext)
			want := sampleSnapshot()
			require.NoError(t, Save(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want.Source, got.Source)
			assert.True(t, want.FetchedAt.Equal(got.FetchedAt))
			assert.Equal(t, want.Regions, got.Regions)
			assert.Equal(t, want.Availability, got.Availability)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestLoadDropsRegionsWithoutID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	data := []byte(`regions:
  - id: us-east
    label: Newark, NJ
    country: us
  - label: Nameless
    country: de
availability: []
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	snap, err := Load(path)
	require.NoError(t, err)
	require.Len(t, snap.Regions, 1)
	assert.Equal(t, "us-east", snap.Regions[0].ID)

	_, ok := snap.Region("us-east")
	assert.True(t, ok)
	_, ok = snap.Region("nameless")
	assert.False(t, ok)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCatalogNotFound)
}
