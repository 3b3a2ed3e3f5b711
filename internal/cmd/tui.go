package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/adrianmross/regionsel/pkg/catalog"
	"github.com/adrianmross/regionsel/pkg/config"
	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/adrianmross/regionsel/pkg/selector"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	stagedColor   = lipgloss.Color("205")
	infoColor     = lipgloss.Color("244")
	disabledColor = lipgloss.Color("240")
)

// tuiSnapshot is a seam so tests can feed the picker without a catalog file.
var tuiSnapshot = loadSnapshot

type pickerMode string

const (
	pickSingle  pickerMode = "single"
	pickMulti   pickerMode = "multi"
	pickTwoStep pickerMode = "twostep"
)

func parsePickerMode(s string) (pickerMode, error) {
	switch m := pickerMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", pickSingle:
		return pickSingle, nil
	case pickMulti, pickTwoStep:
		return m, nil
	}
	return "", fmt.Errorf("unknown picker mode %q (want single|multi|twostep)", s)
}

// storedMode is the config mode a picker mode persists as.
func (p pickerMode) storedMode() config.Mode {
	if p == pickMulti {
		return config.ModeMulti
	}
	return config.ModeSingle
}

func newTuiCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var name, mode, capability, filter string

	cmd := &cobra.Command{
		Use:   "tui [single|multi|twostep]",
		Short: "Interactive region picker for a saved selection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			sel := pickerSelection(cfg, name)
			if cmd.Flags().Changed("capability") {
				sel.Capability = regions.Capability(capability)
			}
			if cmd.Flags().Changed("filter") {
				if _, err := regions.ParseFilterMode(filter); err != nil {
					return err
				}
				sel.Filter = filter
			}
			switch {
			case len(args) == 1:
				mode = args[0]
			case !cmd.Flags().Changed("mode") && sel.Mode == config.ModeMulti:
				mode = string(pickMulti)
			}
			pm, err := parsePickerMode(mode)
			if err != nil {
				return err
			}
			sel.Mode = pm.storedMode()

			if !isTerminal() {
				return runPromptFallback(cmd, path, cfg, sel, pm)
			}

			m := newTuiModel(cfg, path, sel, pm)
			finalModel, err := tea.NewProgram(m).Run()
			if err != nil {
				return err
			}
			fm := finalModel.(tuiModel)
			if fm.finalized {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved selection %s (%s)\n", fm.sel.Name, strings.Join(fm.sel.Regions, ","))
			}
			return fm.err
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "Use global config (~/.regionsel/config.yml)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Selection to edit (default: current selection)")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(pickSingle), "Picker: single|multi|twostep")
	cmd.Flags().StringVarP(&capability, "capability", "C", "", "Only regions with this capability")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Site filter: core|distributed|distributed-<continent>")
	return cmd
}

// pickerSelection returns the selection the picker edits: the named one, the
// current one, or a new selection called "default".
func pickerSelection(cfg config.Config, name string) config.Selection {
	if name == "" {
		name = cfg.CurrentSelection
	}
	if name == "" {
		name = "default"
	}
	if sel, err := cfg.GetSelection(name); err == nil {
		sel.Regions = append([]string(nil), sel.Regions...)
		return sel
	}
	return config.Selection{Name: name, Mode: config.ModeSingle}
}

// isTerminal checks if stdout is a TTY.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// entryItem adapts a selector entry to the list component.
type entryItem struct{ selector.Entry }

func (e entryItem) Title() string {
	if e.IsControl() {
		return e.Label()
	}
	return e.Label() + optionNote(e.Option)
}

func (e entryItem) Description() string {
	if e.IsControl() {
		return ""
	}
	if e.Option.SiteType == "" {
		return e.Option.Data.Region
	}
	return fmt.Sprintf("%s • %s", e.Option.Data.Region, e.Option.SiteType)
}

func (e entryItem) FilterValue() string { return e.Label() }

type markedItem struct {
	base  list.Item
	title string
}

func (m markedItem) Title() string       { return m.title }
func (m markedItem) Description() string { return "" }
func (m markedItem) FilterValue() string { return m.base.FilterValue() }

func withStageMarker(item entryItem) list.Item {
	return markedItem{base: item, title: "[*] " + item.Title() + " [staged]"}
}

// entryDelegate colors the staged entry and dims disabled ones.
type entryDelegate struct {
	list.DefaultDelegate
	staged string
}

func newEntryDelegate(staged string) *entryDelegate {
	d := list.NewDefaultDelegate()
	d.SetHeight(2)
	d.SetSpacing(0)
	return &entryDelegate{DefaultDelegate: d, staged: staged}
}

func (d *entryDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	ei, ok := listItem.(entryItem)
	if !ok || ei.IsControl() {
		d.DefaultDelegate.Render(w, m, index, listItem)
		return
	}
	var title, desc lipgloss.Style
	item := list.Item(ei)
	switch {
	case d.staged != "" && ei.Option.ID == d.staged:
		title = d.Styles.SelectedTitle.Foreground(stagedColor).Bold(true)
		desc = d.Styles.SelectedDesc.Foreground(stagedColor).Bold(true)
		item = withStageMarker(ei)
	case ei.Option.Disabled():
		title = d.Styles.NormalTitle.Foreground(disabledColor).Faint(true)
		desc = d.Styles.NormalDesc.Foreground(disabledColor).Faint(true)
	default:
		d.DefaultDelegate.Render(w, m, index, listItem)
		return
	}
	orig := d.Styles
	d.Styles.NormalTitle = title
	d.Styles.NormalDesc = desc
	d.Styles.SelectedTitle = title
	d.Styles.SelectedDesc = desc
	d.DefaultDelegate.Render(w, m, index, item)
	d.Styles = orig
}

type catalogMsg struct {
	snap catalog.Snapshot
	err  error
}

type tuiModel struct {
	list        list.Model
	cfg         config.Config
	cfgPath     string
	sel         config.Selection
	mode        pickerMode
	single      *selector.Single
	multi       *selector.Multi
	two         *selector.TwoStep
	loading     bool
	choosingGeo bool
	status      string
	finalized   bool
	err         error
}

func newTuiModel(cfg config.Config, cfgPath string, sel config.Selection, mode pickerMode) tuiModel {
	// Set a reasonable default size to avoid zero-height rendering when no resize event arrives.
	defaultWidth, defaultHeight := 80, 20
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if w > 0 {
			defaultWidth = w
		}
		if h > 0 {
			defaultHeight = h - 4
		}
	}
	if defaultHeight < 10 {
		defaultHeight = 10
	}
	l := list.New(nil, list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	props := selector.Props{
		Capability: sel.Capability,
		Filter:     sel.FilterMode(),
		Loading:    true,
	}
	first := ""
	if len(sel.Regions) > 0 {
		first = sel.Regions[0]
	}
	m := tuiModel{
		list:    l,
		cfg:     cfg,
		cfgPath: cfgPath,
		sel:     sel,
		mode:    mode,
		loading: true,
		status:  "Loading...",
	}
	switch mode {
	case pickMulti:
		m.multi = selector.NewMulti(props, sel.Regions, nil)
	case pickTwoStep:
		m.two = selector.NewTwoStep(props, first, nil)
	default:
		m.single = selector.NewSingle(props, first, nil)
	}
	m.refreshItems()
	return m
}

func (m tuiModel) Init() tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		snap, err := tuiSnapshot(cfg)
		return catalogMsg{snap: snap, err: err}
	}
}

// applyCatalog hands the loaded regions to the active controller.
func (m *tuiModel) applyCatalog(msg catalogMsg) {
	m.loading = false
	if msg.err != nil {
		klog.ErrorS(msg.err, "Region catalog load failed", "path", m.cfg.Options.CatalogPath)
		m.status = fmt.Sprintf("Catalog load failed: %v", msg.err)
	} else if len(msg.snap.Regions) == 0 {
		m.status = "Catalog is empty; run regionsel import"
	} else {
		m.status = ""
	}
	props := selectorProps(m.cfg, msg.snap, m.sel, "")
	switch m.mode {
	case pickMulti:
		// An empty catalog would prune every stored region.
		if len(msg.snap.Regions) == 0 {
			break
		}
		before := len(m.multi.Selected())
		m.multi.SetProps(props)
		if dropped := before - len(m.multi.Selected()); dropped > 0 {
			m.status = fmt.Sprintf("Dropped %d regions no longer offered", dropped)
		}
	case pickTwoStep:
		// Reopen on the tab holding the stored region.
		id, _ := m.two.Selected()
		m.two = selector.NewTwoStep(props, id, nil)
	default:
		m.single.SetProps(props)
	}
	m.refreshItems()
}

// staged returns the id the single-value controllers currently hold.
func (m tuiModel) staged() string {
	switch m.mode {
	case pickTwoStep:
		id, _ := m.two.Selected()
		return id
	case pickSingle:
		id, _ := m.single.Selected()
		return id
	}
	return ""
}

func (m *tuiModel) refreshItems() {
	var entries []selector.Entry
	switch {
	case m.choosingGeo:
		entries = m.two.Geographies()
		m.list.Title = "Select geography"
	case m.mode == pickMulti:
		entries = m.multi.Candidates()
		m.list.Title = fmt.Sprintf("Add regions to %s", m.sel.Name)
	case m.mode == pickTwoStep:
		entries = m.two.Entries()
		m.list.Title = fmt.Sprintf("Select %s region for %s", m.two.Tab(), m.sel.Name)
	default:
		entries = m.single.Entries()
		m.list.Title = fmt.Sprintf("Select region for %s", m.sel.Name)
	}
	if m.loading {
		entries = nil
	}
	items := make([]list.Item, 0, len(entries))
	staged, at := m.staged(), 0
	for i, e := range entries {
		if !e.IsControl() && e.Option.ID == staged {
			at = i
		}
		items = append(items, entryItem{e})
	}
	m.list.SetItems(items)
	m.list.Select(at)
	m.list.SetDelegate(newEntryDelegate(staged))
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case catalogMsg:
		m.applyCatalog(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-4)
	case tea.KeyMsg:
		// If currently filtering, route all keys except Enter through the list to avoid triggering hotkeys.
		if m.list.FilterState() == list.Filtering && msg.String() != "enter" {
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "enter":
			// If currently filtering, apply the filtered subset and exit filter mode before acting.
			if m.list.FilterState() == list.Filtering {
				vis := m.list.VisibleItems()
				m.list.SetItems(vis)
				m.list.SetFilteringEnabled(false)
				if len(vis) > 0 {
					m.list.Select(0)
				}
				return m, nil
			}
			if m.choosingGeo {
				return m.chooseGeography(), nil
			}
			if m.mode == pickMulti {
				return m.toggleHighlighted(), nil
			}
			next, ok := m.stageHighlighted()
			if !ok {
				return next, nil
			}
			return next.saveAndQuit()
		case " ":
			if m.choosingGeo {
				return m.chooseGeography(), nil
			}
			if m.mode == pickMulti {
				return m.toggleHighlighted(), nil
			}
			next, _ := m.stageHighlighted()
			return next, nil
		case "backspace", "delete":
			if m.mode == pickMulti {
				selected := m.multi.Selected()
				if len(selected) == 0 {
					return m, nil
				}
				last := selected[len(selected)-1]
				if err := m.multi.Remove(last); err != nil {
					m.status = err.Error()
					return m, nil
				}
				m.status = fmt.Sprintf("Removed %s", last)
				m.refreshItems()
				return m, nil
			}
		case "tab":
			if m.mode == pickTwoStep && !m.choosingGeo {
				next := selector.TabDistributed
				if m.two.Tab() == selector.TabDistributed {
					next = selector.TabCore
				}
				m.two.SwitchTab(next)
				m.status = ""
				m.refreshItems()
				return m, nil
			}
		case "g":
			if m.mode == pickTwoStep && m.two.Tab() == selector.TabDistributed && !m.choosingGeo {
				m.choosingGeo = true
				m.refreshItems()
				return m, nil
			}
		case "ctrl+s", "q":
			return m.saveAndQuit()
		case "esc", "ctrl+c":
			if m.choosingGeo {
				m.choosingGeo = false
				m.refreshItems()
				return m, nil
			}
			// Exit without saving on explicit quit keys.
			return m, tea.Quit
		case "/":
			// Enable filtering explicitly via '/'; do not auto-start on arbitrary keys.
			m.list.SetFilteringEnabled(true)
			m.list.SetFilterText("")
			m.list.SetFilterState(list.Filtering)
			return m, nil
		}
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// interactive reports whether the active controller accepts picks.
func (m tuiModel) interactive() bool {
	switch m.mode {
	case pickMulti:
		return m.multi.Interactive()
	case pickTwoStep:
		return m.two.Interactive()
	}
	return m.single.Interactive()
}

func (m tuiModel) highlighted() (entryItem, bool) {
	it, ok := m.list.SelectedItem().(entryItem)
	return it, ok
}

// stageHighlighted picks the highlighted option in the single-value
// controllers. It reports false when the pick was refused.
func (m tuiModel) stageHighlighted() (tuiModel, bool) {
	if !m.interactive() {
		m.status = selector.ErrLoading.Error()
		return m, false
	}
	it, ok := m.highlighted()
	if !ok || it.IsControl() {
		return m, false
	}
	var err error
	if m.mode == pickTwoStep {
		err = m.two.Pick(it.Option.ID)
	} else {
		err = m.single.Pick(it.Option.ID)
	}
	if err != nil {
		m.status = fmt.Sprintf("%s: %v", it.Option.ID, err)
		return m, false
	}
	m.status = fmt.Sprintf("Staged %s (pending save; Ctrl+S/q to save)", it.Option.Label)
	m.list.SetDelegate(newEntryDelegate(it.Option.ID))
	return m, true
}

func (m tuiModel) toggleHighlighted() tuiModel {
	if !m.interactive() {
		m.status = selector.ErrLoading.Error()
		return m
	}
	it, ok := m.highlighted()
	if !ok {
		return m
	}
	var err error
	if it.IsControl() && it.Control.Key == selector.ControlSelectAll {
		err = m.multi.SelectAll()
	} else if !it.IsControl() {
		err = m.multi.Toggle(it.Option.ID)
	}
	if err != nil {
		m.status = fmt.Sprintf("%s: %v", it.Label(), err)
		return m
	}
	m.status = ""
	m.refreshItems()
	return m
}

func (m tuiModel) chooseGeography() tuiModel {
	it, ok := m.highlighted()
	if !ok {
		return m
	}
	if code, ok := selector.GeographyFromKey(it.Control.Key); ok {
		m.two.SetGeography(code)
	}
	m.choosingGeo = false
	m.refreshItems()
	return m
}

// saveAndQuit stores the controller's selection as the current selection and quits.
func (m tuiModel) saveAndQuit() (tea.Model, tea.Cmd) {
	if m.loading {
		m.status = selector.ErrLoading.Error()
		return m, nil
	}
	sel := m.sel
	sel.Mode = m.mode.storedMode()
	switch m.mode {
	case pickMulti:
		sel.Regions = m.multi.Selected()
	default:
		sel.Regions = nil
		if id := m.staged(); id != "" {
			sel.Regions = []string{id}
		}
	}
	if err := sel.Validate(); err != nil {
		m.status = err.Error()
		return m, nil
	}
	if err := m.cfg.UpsertSelection(sel); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.cfg.CurrentSelection = sel.Name
	if err := config.Save(m.cfgPath, m.cfg); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.sel = sel
	m.finalized = true
	return m, tea.Quit
}

func (m tuiModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v", m.err)
	}
	if m.finalized {
		return fmt.Sprintf("Saved selection %s (%s)\n", m.sel.Name, strings.Join(m.sel.Regions, ","))
	}
	info := lipgloss.NewStyle().Foreground(infoColor)
	var instructions string
	switch m.mode {
	case pickMulti:
		instructions = "multi | space/enter toggle • backspace remove last • / filter • q save • esc quit"
	case pickTwoStep:
		instructions = "twostep | space stage • enter pick+save • tab core/distributed • g geography • / filter • q save • esc quit"
	default:
		instructions = "single | space stage • enter pick+save • / filter • q save • esc quit"
	}
	view := m.list.View()
	if m.status != "" {
		view = fmt.Sprintf("%s\n%s", m.status, view)
	}
	if m.mode == pickMulti {
		view = fmt.Sprintf("%s\n%s", m.chips(), view)
	}
	return fmt.Sprintf("%s\n%s\n%s", info.Render(instructions), info.Render(compactMeta(m)), view)
}

// chips renders the multi selection in display order.
func (m tuiModel) chips() string {
	shown := m.multi.Display(regions.CompareOptions)
	if len(shown) == 0 {
		return "selected: -"
	}
	parts := make([]string, 0, len(shown))
	staged := lipgloss.NewStyle().Foreground(stagedColor).Bold(true)
	for _, o := range shown {
		label := o.Label
		if label == "" {
			label = o.ID
		}
		parts = append(parts, staged.Render("["+label+"]"))
	}
	return "selected: " + strings.Join(parts, " ")
}

func compactMeta(m tuiModel) string {
	staged := "-"
	if id := m.staged(); id != "" {
		staged = id
	}
	if m.mode == pickMulti {
		staged = fmt.Sprintf("%d regions", len(m.multi.Selected()))
	}
	filter := "off"
	if m.list.FilterState() == list.Filtering {
		filter = "on"
	}
	meta := fmt.Sprintf("mode:%s | selection:%s | staged:%s | filter:%s", m.mode, m.sel.Name, staged, filter)
	if m.mode == pickTwoStep {
		geo := m.two.Geography()
		if geo == "" {
			geo = "All"
		}
		meta += fmt.Sprintf(" | tab:%s | geo:%s", m.two.Tab(), geo)
	}
	return meta
}

// runPromptFallback provides a non-TTY prompt-based flow.
func runPromptFallback(cmd *cobra.Command, path string, cfg config.Config, sel config.Selection, mode pickerMode) error {
	snap, err := tuiSnapshot(cfg)
	if err != nil {
		return err
	}
	if len(snap.Regions) == 0 {
		return fmt.Errorf("no regions in catalog %s; run regionsel import", cfg.Options.CatalogPath)
	}
	props := selectorProps(cfg, snap, sel, "")
	out := cmd.OutOrStdout()

	if mode == pickMulti {
		m := selector.NewMulti(props, sel.Regions, nil)
		opts := m.Options()
		for {
			fmt.Fprintf(out, "Selected: %s\n", strings.Join(m.Selected(), ","))
			fmt.Fprintln(out, "Toggle region (or 0 to finish):")
			printPromptOptions(out, opts)
			idx, err := readChoiceZero(cmd, len(opts))
			if err != nil {
				return err
			}
			if idx == -1 {
				break
			}
			if err := m.Toggle(opts[idx].ID); err != nil {
				fmt.Fprintf(out, "%s: %v\n", opts[idx].ID, err)
			}
		}
		sel.Regions = m.Selected()
	} else {
		// The two-step panels collapse into one list without a terminal.
		if mode == pickTwoStep {
			props.Filter = regions.FilterNone
		}
		s := selector.NewSingle(props, "", nil)
		fmt.Fprintln(out, "Filter regions (- for all):")
		var query string
		if _, err := fmt.Fscan(cmd.InOrStdin(), &query); err != nil {
			return err
		}
		if query != "-" {
			s.EditQuery(query)
		}
		opts := s.Matches()
		if len(opts) == 0 {
			return fmt.Errorf("no regions match %q", query)
		}
		fmt.Fprintln(out, "Select region:")
		printPromptOptions(out, opts)
		idx, err := readChoice(cmd, len(opts))
		if err != nil {
			return err
		}
		if err := s.Pick(opts[idx].ID); err != nil {
			return fmt.Errorf("region %s: %w", opts[idx].ID, err)
		}
		id, _ := s.Selected()
		sel.Regions = []string{id}
	}

	if err := cfg.UpsertSelection(sel); err != nil {
		return err
	}
	cfg.CurrentSelection = sel.Name
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved selection %s (%s)\n", sel.Name, strings.Join(sel.Regions, ","))
	return nil
}

func printPromptOptions(w io.Writer, opts []regions.Option) {
	for i, o := range opts {
		fmt.Fprintf(w, "%d) %s%s\n", i+1, o.Label, optionNote(o))
	}
}

var errInvalidChoice = errors.New("invalid choice")

func readChoice(cmd *cobra.Command, n int) (int, error) {
	var choice int
	if _, err := fmt.Fscan(cmd.InOrStdin(), &choice); err != nil {
		return 0, err
	}
	if choice < 1 || choice > n {
		return 0, errInvalidChoice
	}
	return choice - 1, nil
}

func readChoiceZero(cmd *cobra.Command, n int) (int, error) {
	var choice int
	if _, err := fmt.Fscan(cmd.InOrStdin(), &choice); err != nil {
		return 0, err
	}
	if choice == 0 {
		return -1, nil
	}
	if choice < 1 || choice > n {
		return 0, errInvalidChoice
	}
	return choice - 1, nil
}
