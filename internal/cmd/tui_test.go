package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/adrianmross/regionsel/pkg/selector"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// loadedModel builds a picker and delivers the test catalog to it.
func loadedModel(t *testing.T, sel config.Selection, mode pickerMode) (tuiModel, string) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	m := newTuiModel(config.Config{}, cfgPath, sel, mode)
	model, _ := m.Update(catalogMsg{snap: testSnapshot()})
	return model.(tuiModel), cfgPath
}

func press(m tuiModel, msgs ...tea.Msg) tuiModel {
	for _, msg := range msgs {
		model, _ := m.Update(msg)
		m = model.(tuiModel)
	}
	return m
}

func highlight(t *testing.T, m *tuiModel, match func(entryItem) bool) {
	t.Helper()
	for i, it := range m.list.Items() {
		if ei, ok := it.(entryItem); ok && match(ei) {
			m.list.Select(i)
			return
		}
	}
	t.Fatalf("entry not listed")
}

func highlightRegion(t *testing.T, m *tuiModel, id string) {
	t.Helper()
	highlight(t, m, func(e entryItem) bool { return !e.IsControl() && e.Option.ID == id })
}

func listedIDs(m tuiModel) []string {
	var out []string
	for _, it := range m.list.Items() {
		if ei, ok := it.(entryItem); ok && !ei.IsControl() {
			out = append(out, ei.Option.ID)
		}
	}
	return out
}

func TestTUILoadingRefusesPicks(t *testing.T) {
	m := newTuiModel(config.Config{}, filepath.Join(t.TempDir(), "config.yml"), config.Selection{Name: "db"}, pickSingle)
	if len(m.list.Items()) != 0 || m.status != "Loading..." {
		t.Fatalf("expected empty loading list, got %d items status %q", len(m.list.Items()), m.status)
	}

	m = press(m, keySpace, runeKey('q'))
	if m.finalized {
		t.Fatalf("expected no save while loading")
	}
	if m.status != selector.ErrLoading.Error() {
		t.Fatalf("expected loading status, got %q", m.status)
	}
}

func TestTUISinglePickSaves(t *testing.T) {
	m, cfgPath := loadedModel(t, config.Selection{Name: "db", Mode: config.ModeSingle}, pickSingle)
	highlightRegion(t, &m, "us-east")

	m = press(m, keyEnter)
	if !m.finalized {
		t.Fatalf("expected finalized after enter, status %q", m.status)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	sel, err := cfg.GetSelection("db")
	if err != nil || cfg.CurrentSelection != "db" || strings.Join(sel.Regions, ",") != "us-east" {
		t.Fatalf("saved %+v current=%s err=%v", sel, cfg.CurrentSelection, err)
	}
}

func TestTUIDisabledOptionRefused(t *testing.T) {
	m, _ := loadedModel(t, config.Selection{Name: "db", Mode: config.ModeSingle, Capability: "Linodes"}, pickSingle)
	highlightRegion(t, &m, "us-west")

	m = press(m, keyEnter)
	if m.finalized {
		t.Fatalf("disabled region must not be saved")
	}
	if !strings.Contains(m.status, selector.ErrOptionUnavailable.Error()) {
		t.Fatalf("expected unavailable status, got %q", m.status)
	}
	if m.staged() != "" {
		t.Fatalf("expected nothing staged, got %s", m.staged())
	}
}

func TestTUISpaceStagesThenQSaves(t *testing.T) {
	m, cfgPath := loadedModel(t, config.Selection{Name: "db", Mode: config.ModeSingle, Regions: []string{"us-east"}}, pickSingle)
	highlightRegion(t, &m, "de-fra-2")

	m = press(m, keySpace)
	if m.finalized || m.staged() != "de-fra-2" {
		t.Fatalf("expected de-fra-2 staged, got %q finalized=%t", m.staged(), m.finalized)
	}
	m = press(m, runeKey('q'))
	if !m.finalized {
		t.Fatalf("expected q to save")
	}
	cfg, _ := config.Load(cfgPath)
	sel, _ := cfg.GetSelection("db")
	if strings.Join(sel.Regions, ",") != "de-fra-2" {
		t.Fatalf("saved regions %v", sel.Regions)
	}
}

func TestTUIMultiSelectAllAndRemove(t *testing.T) {
	m, cfgPath := loadedModel(t, config.Selection{Name: "web", Mode: config.ModeMulti, Capability: "Linodes"}, pickMulti)
	first, ok := m.list.Items()[0].(entryItem)
	if !ok || first.Control.Key != selector.ControlSelectAll {
		t.Fatalf("expected Select All first, got %+v", m.list.Items()[0])
	}
	m.list.Select(0)

	m = press(m, keySpace)
	if got := strings.Join(m.multi.Selected(), ","); got != "us-east,de-fra-2" {
		t.Fatalf("select all picked %s", got)
	}
	if got := listedIDs(m); len(got) != 1 || got[0] != "us-west" {
		t.Fatalf("remaining candidates %v", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, runeKey('q'))
	if !m.finalized {
		t.Fatalf("expected save, status %q", m.status)
	}
	cfg, _ := config.Load(cfgPath)
	sel, _ := cfg.GetSelection("web")
	if sel.Mode != config.ModeMulti || strings.Join(sel.Regions, ",") != "us-east" {
		t.Fatalf("saved %+v", sel)
	}
}

func TestTUIMultiPrunesVanishedRegions(t *testing.T) {
	m, _ := loadedModel(t, config.Selection{Name: "web", Mode: config.ModeMulti, Regions: []string{"us-east", "gone-1"}}, pickMulti)
	if got := strings.Join(m.multi.Selected(), ","); got != "us-east" {
		t.Fatalf("expected gone-1 pruned, got %s", got)
	}
	if !strings.Contains(m.status, "Dropped 1") {
		t.Fatalf("expected prune status, got %q", m.status)
	}
}

func TestTUIMultiKeepsUnavailableSavedRegion(t *testing.T) {
	// us-west is saved but unavailable for Linodes on this account.
	m, cfgPath := loadedModel(t, config.Selection{Name: "web", Mode: config.ModeMulti, Capability: "Linodes", Regions: []string{"us-west"}}, pickMulti)
	highlightRegion(t, &m, "us-east")

	m = press(m, keySpace)
	if got := strings.Join(m.multi.Selected(), ","); got != "us-west,us-east" {
		t.Fatalf("toggle with unavailable saved region: %s (status %q)", got, m.status)
	}
	m = press(m, runeKey('q'))
	if !m.finalized {
		t.Fatalf("expected save, status %q", m.status)
	}
	cfg, _ := config.Load(cfgPath)
	sel, _ := cfg.GetSelection("web")
	if strings.Join(sel.Regions, ",") != "us-west,us-east" {
		t.Fatalf("saved %+v", sel)
	}
}

func TestTUITwoStepTabsAndGeography(t *testing.T) {
	m, cfgPath := loadedModel(t, config.Selection{Name: "edge", Regions: []string{"de-fra-2"}}, pickTwoStep)
	if m.two.Tab() != selector.TabDistributed {
		t.Fatalf("expected to open on the distributed tab")
	}

	m = press(m, keyTab)
	if got := strings.Join(listedIDs(m), ","); got != "us-west,us-east" {
		t.Fatalf("core tab lists %s", got)
	}
	m = press(m, keyTab, runeKey('g'))
	if !m.choosingGeo {
		t.Fatalf("expected geography picker")
	}
	highlight(t, &m, func(e entryItem) bool { return e.Control.Key == selector.GeographyKey("AS") })
	m = press(m, keyEnter)
	if m.two.Geography() != "AS" || len(listedIDs(m)) != 0 {
		t.Fatalf("geography %s lists %v", m.two.Geography(), listedIDs(m))
	}

	m = press(m, runeKey('g'))
	highlight(t, &m, func(e entryItem) bool { return e.Control.Key == selector.GeographyKey("EU") })
	m = press(m, keyEnter)
	highlightRegion(t, &m, "de-fra-2")
	m = press(m, keyEnter)
	if !m.finalized {
		t.Fatalf("expected save, status %q", m.status)
	}
	cfg, _ := config.Load(cfgPath)
	sel, _ := cfg.GetSelection("edge")
	if sel.Mode != config.ModeSingle || strings.Join(sel.Regions, ",") != "de-fra-2" {
		t.Fatalf("saved %+v", sel)
	}
}

func TestTUIEscQuitsWithoutSave(t *testing.T) {
	m, cfgPath := loadedModel(t, config.Selection{Name: "db"}, pickSingle)
	highlightRegion(t, &m, "us-east")

	model, cmd := m.Update(keyEsc)
	res := model.(tuiModel)
	if res.finalized || cmd == nil {
		t.Fatalf("expected quit without finalize")
	}
	if _, err := os.Stat(cfgPath); !os.IsNotExist(err) {
		t.Fatalf("config must not be written on esc: %v", err)
	}
}

func TestTUIFilteringGuardsHotkeys(t *testing.T) {
	m, _ := loadedModel(t, config.Selection{Name: "db"}, pickSingle)
	m = press(m, runeKey('/'))
	if m.list.FilterState() != list.Filtering {
		t.Fatalf("expected filtering after /")
	}

	m = press(m, runeKey('q'))
	if m.finalized {
		t.Fatalf("q must be routed to the filter while filtering")
	}
	if m.list.FilterState() != list.Filtering {
		t.Fatalf("expected filtering state to remain active")
	}
}

func TestTUIEnterAppliesFilterAndExits(t *testing.T) {
	m, _ := loadedModel(t, config.Selection{Name: "db"}, pickSingle)
	m.list.SetFilteringEnabled(true)
	m.list.SetFilterState(list.Filtering)

	m = press(m, keyEnter)
	if m.list.FilterState() == list.Filtering {
		t.Fatalf("expected filtering to end after enter")
	}
	if m.finalized {
		t.Fatalf("applying a filter must not save")
	}
	if m.list.Index() != 0 {
		t.Fatalf("expected selection index 0 after enter, got %d", m.list.Index())
	}
}

func TestPromptFallback(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name    string
		mode    pickerMode
		regions []string
		input   string
		want    string
	}{
		{name: "single with query", mode: pickSingle, input: "newark 1\n", want: "us-east"},
		{name: "single without query", mode: pickSingle, input: "- 3\n", want: "de-fra-2"},
		{name: "multi toggles", mode: pickMulti, input: "1 3 1 2 0\n", want: "de-fra-2,us-east"},
		{name: "multi keeps saved regions", mode: pickMulti, regions: []string{"us-east"}, input: "3 0\n", want: "us-east,de-fra-2"},
		{name: "multi keeps stale saved regions", mode: pickMulti, regions: []string{"gone-1"}, input: "3 0\n", want: "gone-1,de-fra-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := writeFixture(t, config.Config{}, &snap)
			cfg, err := config.Load(cfgPath)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			cmd := &cobra.Command{}
			buf := &bytes.Buffer{}
			cmd.SetOut(buf)
			cmd.SetIn(strings.NewReader(tt.input))

			sel := config.Selection{Name: "p", Mode: tt.mode.storedMode(), Regions: tt.regions}
			if err := runPromptFallback(cmd, cfgPath, cfg, sel, tt.mode); err != nil {
				t.Fatalf("prompt: %v\n%s", err, buf.String())
			}
			saved, err := config.Load(cfgPath)
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			got, _ := saved.GetSelection("p")
			if strings.Join(got.Regions, ",") != tt.want || saved.CurrentSelection != "p" {
				t.Fatalf("saved %+v current=%s", got, saved.CurrentSelection)
			}
		})
	}
}

func TestPromptFallbackInvalidChoice(t *testing.T) {
	snap := testSnapshot()
	cfgPath := writeFixture(t, config.Config{}, &snap)
	cfg, _ := config.Load(cfgPath)
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("- 9\n"))

	err := runPromptFallback(cmd, cfgPath, cfg, config.Selection{Name: "p", Mode: config.ModeSingle}, pickSingle)
	if err != errInvalidChoice {
		t.Fatalf("expected invalid choice, got %v", err)
	}
}

func TestParsePickerMode(t *testing.T) {
	for in, want := range map[string]pickerMode{"": pickSingle, "Multi": pickMulti, "twostep": pickTwoStep} {
		got, err := parsePickerMode(in)
		if err != nil || got != want {
			t.Fatalf("parse %q: %s %v", in, got, err)
		}
	}
	if _, err := parsePickerMode("tree"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
