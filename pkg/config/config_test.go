package config

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/adrianmross/regionsel/pkg/regions"
)

func sampleConfig() Config {
	cfg := DefaultConfig("/home/test")
	cfg.Options.Flags = map[string]bool{"gecko": true}
	cfg.SyntheticRegions = []SyntheticRegion{{
		ID:            "eu-fake-1",
		Label:         "Fake, DE",
		Country:       "de",
		Capabilities:  []regions.Capability{regions.CapabilityLinodes},
		Flag:          "gecko",
		ExcludedPaths: []string{"/linodes/create"},
	}}
	cfg.Selections = []Selection{
		{Name: "web", Mode: ModeMulti, Capability: regions.CapabilityLinodes, Filter: "core", Regions: []string{"us-east", "ca-central"}},
	}
	cfg.CurrentSelection = "web"
	return cfg
}

func TestSaveLoadFormats(t *testing.T) {
	for _, name := range []string{"config.yml", "config.toml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := sampleConfig()
			if err := Save(path, want); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got.CurrentSelection != "web" {
				t.Fatalf("current selection %q", got.CurrentSelection)
			}
			if !reflect.DeepEqual(got.Selections, want.Selections) {
				t.Fatalf("selections mismatch\nwant %+v\ngot  %+v", want.Selections, got.Selections)
			}
			if !reflect.DeepEqual(got.SyntheticRegions, want.SyntheticRegions) {
				t.Fatalf("synthetic regions mismatch\nwant %+v\ngot  %+v", want.SyntheticRegions, got.SyntheticRegions)
			}
			if got.Options.CatalogPath != want.Options.CatalogPath || !got.Options.Flags["gecko"] {
				t.Fatalf("options mismatch: %+v", got.Options)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.yml":   FormatYAML,
		"a.yaml":  FormatYAML,
		"a.TOML":  FormatTOML,
		"a.json":  FormatJSON,
		"a":       FormatYAML,
		"a.d/cfg": FormatYAML,
	}
	for path, want := range tests {
		if got := FormatOf(path); got != want {
			t.Fatalf("FormatOf(%q)=%q want %q", path, got, want)
		}
	}
}

func TestSelectionCRUD(t *testing.T) {
	var cfg Config
	if err := cfg.UpsertSelection(Selection{Name: "a", Mode: ModeSingle}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if cfg.CurrentSelection != "a" {
		t.Fatalf("first selection should become current")
	}
	_ = cfg.UpsertSelection(Selection{Name: "b", Mode: ModeMulti})
	_ = cfg.UpsertSelection(Selection{Name: "a", Mode: ModeSingle, Regions: []string{"us-east"}})
	if len(cfg.Selections) != 2 {
		t.Fatalf("expected update in place, got %d selections", len(cfg.Selections))
	}
	a, err := cfg.GetSelection("a")
	if err != nil || len(a.Regions) != 1 {
		t.Fatalf("get: %+v %v", a, err)
	}
	if err := cfg.RenameSelection("b", "a"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("rename onto existing: %v", err)
	}
	if err := cfg.RenameSelection("a", "prod"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if cfg.CurrentSelection != "prod" {
		t.Fatalf("current not renamed: %q", cfg.CurrentSelection)
	}
	if err := cfg.DeleteSelection("prod"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if cfg.CurrentSelection != "" {
		t.Fatalf("current should be cleared")
	}
	if err := cfg.DeleteSelection("prod"); !errors.Is(err, ErrSelectionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSelectionValidate(t *testing.T) {
	tests := []struct {
		name    string
		sel     Selection
		wantErr bool
	}{
		{name: "ok single", sel: Selection{Name: "a", Mode: ModeSingle, Regions: []string{"us-east"}}},
		{name: "ok multi scoped", sel: Selection{Name: "a", Mode: ModeMulti, Filter: "distributed-EU"}},
		{name: "missing name", sel: Selection{Mode: ModeSingle}, wantErr: true},
		{name: "bad mode", sel: Selection{Name: "a", Mode: "many"}, wantErr: true},
		{name: "single with two", sel: Selection{Name: "a", Mode: ModeSingle, Regions: []string{"x", "y"}}, wantErr: true},
		{name: "bad filter", sel: Selection{Name: "a", Mode: ModeMulti, Filter: "distributed-XX"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err=%v wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestSyntheticSpecs(t *testing.T) {
	specs := sampleConfig().SyntheticSpecs()
	if len(specs) != 1 {
		t.Fatalf("expected one spec, got %d", len(specs))
	}
	if specs[0].Region.ID != "eu-fake-1" || specs[0].Flag != "gecko" || specs[0].ExcludedPaths[0] != "/linodes/create" {
		t.Fatalf("unexpected spec %+v", specs[0])
	}
}
