package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrianmross/regionsel/internal/httpapi"
	srvipc "github.com/adrianmross/regionsel/internal/ipc"
	"github.com/adrianmross/regionsel/internal/metrics"
	"github.com/adrianmross/regionsel/pkg/catalog"
	"github.com/adrianmross/regionsel/pkg/config"
	ipcmsg "github.com/adrianmross/regionsel/pkg/ipc"
	"github.com/adrianmross/regionsel/pkg/regions"
	"k8s.io/klog/v2"
)

var (
	ErrNoCurrentSelection = errors.New("no current selection set")
	ErrRegionNotFound     = errors.New("region not found")
)

// Service holds daemon state.
type Service struct {
	cfgPath string
	deriver *regions.Deriver

	mu   sync.RWMutex
	cfg  config.Config
	snap catalog.Snapshot
}

// NewService loads config and the region catalog and returns a Service. A
// missing catalog is tolerated; the service then answers with empty lists.
func NewService(cfgPath string) (*Service, error) {
	s := &Service{cfgPath: cfgPath, deriver: regions.NewDeriver(0)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads config and catalog from disk.
func (s *Service) Reload() error {
	cfg, err := config.Load(s.cfgPath)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return err
	}
	snap, err := loadCatalog(cfg.Options.CatalogPath)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.snap = snap
	s.mu.Unlock()
	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	metrics.CatalogRegions.Set(float64(len(snap.Regions)))
	klog.V(1).InfoS("Loaded region catalog", "path", cfg.Options.CatalogPath, "regions", len(snap.Regions), "source", snap.Source)
	return nil
}

func loadCatalog(path string) (catalog.Snapshot, error) {
	if path == "" {
		return catalog.Snapshot{}, nil
	}
	snap, err := catalog.Load(path)
	if errors.Is(err, catalog.ErrCatalogNotFound) {
		klog.InfoS("Region catalog missing, serving empty region list", "path", path)
		return catalog.Snapshot{}, nil
	}
	return snap, err
}

// Serve runs the IPC server and, when configured, the HTTP listener.
func (s *Service) Serve() error {
	s.mu.RLock()
	socket := s.cfg.Options.SocketPath
	addr := s.cfg.Options.HTTPAddr
	s.mu.RUnlock()

	if addr != "" {
		srv := &http.Server{Addr: addr, Handler: httpapi.NewServer(s).Handler()}
		go func() {
			klog.InfoS("HTTP server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				klog.ErrorS(err, "HTTP server stopped", "addr", addr)
			}
		}()
	}
	if err := os.MkdirAll(filepath.Dir(socket), 0o755); err != nil {
		return err
	}
	return srvipc.Serve(socket, s.Handle)
}

// Handle dispatches one IPC request.
func (s *Service) Handle(req ipcmsg.Request) (interface{}, error) {
	switch req.Method {
	case ipcmsg.MethodOptions:
		q := ipcmsg.OptionsQuery{}
		if req.Query != nil {
			q = *req.Query
		}
		return s.Options(q)
	case ipcmsg.MethodClassify:
		return s.Classify(req.Region)
	case ipcmsg.MethodAvailability:
		return s.Availability(req.Capability, req.Region), nil
	case ipcmsg.MethodList:
		return s.Selections(), nil
	case ipcmsg.MethodGetCurrent:
		return s.Current()
	case ipcmsg.MethodUseSelection:
		return s.useSelection(req.Name)
	case ipcmsg.MethodAddSelection:
		return s.addSelection(req.Selection)
	case ipcmsg.MethodDeleteSelection:
		return s.deleteSelection(req.Name)
	case ipcmsg.MethodExport:
		return s.export(req.Format)
	case ipcmsg.MethodReload:
		if err := s.Reload(); err != nil {
			return nil, err
		}
		return map[string]int{"regions": len(s.Regions())}, nil
	default:
		return nil, srvipc.ErrNotImplemented
	}
}

// Regions returns the catalog regions.
func (s *Service) Regions() []regions.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]regions.Region(nil), s.snap.Regions...)
}

// Options derives the option list for q over the catalog merged with the
// configured synthetic regions.
func (s *Service) Options(q ipcmsg.OptionsQuery) ([]regions.Option, error) {
	mode, err := regions.ParseFilterMode(q.Filter)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	merged, disabled := regions.MergeSynthetic(s.snap.Regions, s.cfg.SyntheticSpecs(), s.cfg.Options.Flags, q.Path)
	f := regions.Filter{
		Capability:         regions.Capability(q.Capability),
		Mode:               mode,
		ForceIncludeIDs:    splitList(q.Force),
		Availability:       s.snap.Availability,
		IgnoreAvailability: q.IgnoreAvailability || s.cfg.Options.IgnoreAccountAvailability,
		DisabledRegions:    disabled,
	}
	s.mu.RUnlock()

	opts, hit := s.deriver.DeriveHit(merged, f)
	if hit {
		metrics.Derivations.WithLabelValues("hit").Inc()
	} else {
		metrics.Derivations.WithLabelValues("miss").Inc()
	}
	metrics.OptionsReturned.Observe(float64(len(opts)))
	return opts, nil
}

// Classify reports the display group of a catalog region.
func (s *Service) Classify(id string) (ipcmsg.Classification, error) {
	s.mu.RLock()
	r, ok := s.snap.Region(id)
	s.mu.RUnlock()
	if !ok {
		return ipcmsg.Classification{}, fmt.Errorf("%w: %s", ErrRegionNotFound, id)
	}
	return ipcmsg.Classification{
		ID:        r.ID,
		Country:   r.Country,
		Continent: regions.ContinentOf(r.Country),
		Group:     regions.Classify(r),
	}, nil
}

// Availability reports whether capability is unavailable in region, or lists
// every unavailable region when region is empty.
func (s *Service) Availability(capability, region string) ipcmsg.Availability {
	s.mu.RLock()
	records := s.snap.Availability
	s.mu.RUnlock()
	c := regions.Capability(capability)
	if region == "" {
		return ipcmsg.Availability{Capability: capability, Regions: regions.UnavailableIn(records, c)}
	}
	return ipcmsg.Availability{Capability: capability, Region: region, Unavailable: regions.IsUnavailable(records, c, region)}
}

// Selections returns the saved selections.
func (s *Service) Selections() []config.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]config.Selection(nil), s.cfg.Selections...)
}

// Current returns the current selection.
func (s *Service) Current() (config.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.CurrentSelection == "" {
		return config.Selection{}, ErrNoCurrentSelection
	}
	return s.cfg.GetSelection(s.cfg.CurrentSelection)
}

func (s *Service) useSelection(name string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.cfg.GetSelection(name); err != nil {
		return nil, err
	}
	s.cfg.CurrentSelection = name
	if err := config.Save(s.cfgPath, s.cfg); err != nil {
		return nil, err
	}
	return map[string]string{"current_selection": name}, nil
}

func (s *Service) addSelection(raw json.RawMessage) (interface{}, error) {
	var sel config.Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		return nil, err
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cfg.UpsertSelection(sel); err != nil {
		return nil, err
	}
	if err := config.Save(s.cfgPath, s.cfg); err != nil {
		return nil, err
	}
	return sel, nil
}

func (s *Service) deleteSelection(name string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cfg.DeleteSelection(name); err != nil {
		return nil, err
	}
	if err := config.Save(s.cfgPath, s.cfg); err != nil {
		return nil, err
	}
	return map[string]string{"deleted": name}, nil
}

func (s *Service) export(format string) (interface{}, error) {
	sel, err := s.Current()
	if err != nil {
		return nil, err
	}
	switch format {
	case "env":
		return map[string][]string{"env": ExportEnv(sel)}, nil
	case "json", "":
		return sel, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ExportEnv renders a selection as environment assignments.
func ExportEnv(sel config.Selection) []string {
	lines := []string{
		fmt.Sprintf("REGIONSEL_SELECTION=%s", sel.Name),
		fmt.Sprintf("REGIONSEL_REGIONS=%s", strings.Join(sel.Regions, ",")),
	}
	if len(sel.Regions) > 0 {
		lines = append(lines, fmt.Sprintf("REGIONSEL_REGION=%s", sel.Regions[0]))
	}
	if sel.Capability != "" {
		lines = append(lines, fmt.Sprintf("REGIONSEL_CAPABILITY=%s", sel.Capability))
	}
	return lines
}

// splitList flattens comma separated values.
func splitList(in []string) []string {
	var out []string
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// EnsureConfig ensures config exists at path.
func EnsureConfig(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, ".regionsel", "config.yml")
	}
	if err := config.EnsureDefaultConfig(path); err != nil {
		return "", err
	}
	return path, nil
}
