package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrianmross/regionsel/pkg/catalog"
	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/spf13/cobra"
)

// pathsEqual normalizes symlinks (macOS /private/tmp) before comparison.
func pathsEqual(a, b string) bool {
	aAbs, _ := filepath.EvalSymlinks(a)
	bAbs, _ := filepath.EvalSymlinks(b)
	if aAbs == "" {
		aAbs = a
	}
	if bAbs == "" {
		bAbs = b
	}
	return aAbs == bAbs
}

// helper to run resolveConfigPath in a temp working directory with files created.
func withTempWd(t *testing.T, fn func(tmp string)) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	fn(tmp)
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	f.Close()
}

func linodes(extra ...regions.Capability) []regions.Capability {
	return append([]regions.Capability{regions.CapabilityLinodes}, extra...)
}

// testSnapshot has two US core regions, one EU distributed region and
// us-west without Linodes for the account.
func testSnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		Source: "test",
		Regions: []regions.Region{
			{ID: "us-east", Label: "Newark, NJ", Country: "us", SiteType: regions.SiteTypeCore, Capabilities: linodes(regions.CapabilityObjectStorage)},
			{ID: "us-west", Label: "Fremont, CA", Country: "us", SiteType: regions.SiteTypeCore, Capabilities: linodes()},
			{ID: "de-fra-2", Label: "Frankfurt 2, DE", Country: "de", SiteType: regions.SiteTypeDistributed, Capabilities: linodes()},
		},
		Availability: []regions.AccountAvailability{
			{Region: "us-west", Unavailable: []regions.Capability{regions.CapabilityLinodes}},
		},
	}
}

// writeFixture saves snap next to cfg and returns the config path. A nil
// snapshot leaves the catalog file absent.
func writeFixture(t *testing.T, cfg config.Config, snap *catalog.Snapshot) string {
	t.Helper()
	dir := t.TempDir()
	cfg.Options.CatalogPath = filepath.Join(dir, "catalog.yml")
	if snap != nil {
		if err := catalog.Save(cfg.Options.CatalogPath, *snap); err != nil {
			t.Fatalf("save catalog: %v", err)
		}
	}
	cfgPath := filepath.Join(dir, "config.yml")
	if err := config.Save(cfgPath, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	return cfgPath
}

func runCmd(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestResolveConfigPath_ProjectPriority(t *testing.T) {
	withTempWd(t, func(tmp string) {
		// create lower-priority file
		touch(t, filepath.Join(tmp, "regionsel.yml"))
		// higher-priority hidden top-level should win
		touch(t, filepath.Join(tmp, ".regionsel.yml"))

		got, err := resolveConfigPath("", false)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		want := filepath.Join(tmp, ".regionsel.yml")
		if !pathsEqual(got, want) {
			t.Fatalf("want %s, got %s", want, got)
		}
	})
}

func TestResolveConfigPath_DirectoryConfig(t *testing.T) {
	withTempWd(t, func(tmp string) {
		// prefer ./.regionsel/config.yml over ./regionsel.yml
		touch(t, filepath.Join(tmp, "regionsel.yml"))
		touch(t, filepath.Join(tmp, ".regionsel", "config.yml"))

		got, err := resolveConfigPath("", false)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		want := filepath.Join(tmp, ".regionsel", "config.yml")
		if !pathsEqual(got, want) {
			t.Fatalf("want %s, got %s", want, got)
		}
	})
}

func TestResolveConfigPath_TOMLBeforeJSON(t *testing.T) {
	withTempWd(t, func(tmp string) {
		touch(t, filepath.Join(tmp, ".regionsel.json"))
		touch(t, filepath.Join(tmp, ".regionsel.toml"))

		got, err := resolveConfigPath("", false)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		want := filepath.Join(tmp, ".regionsel.toml")
		if !pathsEqual(got, want) {
			t.Fatalf("want %s, got %s", want, got)
		}
	})
}

func TestResolveConfigPath_GlobalFlag(t *testing.T) {
	got, err := resolveConfigPath("", true)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".regionsel", "config.yml")
	if !pathsEqual(got, want) {
		t.Fatalf("want global %s, got %s", want, got)
	}
}

func TestResolveConfigPath_Explicit(t *testing.T) {
	got, err := resolveConfigPath("/tmp/custom.yml", false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "/tmp/custom.yml" {
		t.Fatalf("expected explicit path, got %s", got)
	}
}

func TestLoadSnapshotMissingCatalog(t *testing.T) {
	cfg := config.Config{Options: config.Options{CatalogPath: filepath.Join(t.TempDir(), "nope", "catalog.yml")}}
	snap, err := loadSnapshot(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Regions) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}
