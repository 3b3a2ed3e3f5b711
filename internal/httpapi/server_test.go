package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianmross/regionsel/pkg/config"
	ipcmsg "github.com/adrianmross/regionsel/pkg/ipc"
	"github.com/adrianmross/regionsel/pkg/regions"
)

type fakeBackend struct {
	regions   []regions.Region
	lastQuery ipcmsg.OptionsQuery
}

func (f *fakeBackend) Regions() []regions.Region { return f.regions }

func (f *fakeBackend) Options(q ipcmsg.OptionsQuery) ([]regions.Option, error) {
	f.lastQuery = q
	mode, err := regions.ParseFilterMode(q.Filter)
	if err != nil {
		return nil, err
	}
	return regions.DeriveOptions(f.regions, regions.Filter{Capability: regions.Capability(q.Capability), Mode: mode}), nil
}

func (f *fakeBackend) Classify(id string) (ipcmsg.Classification, error) {
	for _, r := range f.regions {
		if r.ID == id {
			return ipcmsg.Classification{ID: id, Country: r.Country, Group: regions.Classify(r)}, nil
		}
	}
	return ipcmsg.Classification{}, fmt.Errorf("region not found: %s", id)
}

func (f *fakeBackend) Selections() []config.Selection {
	return []config.Selection{{Name: "web", Mode: config.ModeSingle, Regions: []string{"us-east"}}}
}

func newTestServer() (*fakeBackend, http.Handler) {
	b := &fakeBackend{regions: []regions.Region{
		{ID: "us-east", Label: "Newark, NJ", Country: "us", SiteType: regions.SiteTypeCore, Capabilities: []regions.Capability{regions.CapabilityLinodes}},
		{ID: "fr-par", Label: "Paris, FR", Country: "fr", SiteType: regions.SiteTypeCore},
	}}
	return b, NewServer(b).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	_, h := newTestServer()
	tests := []struct {
		target     string
		wantStatus int
		wantBody   string
	}{
		{"/health", http.StatusOK, `"status":"ok"`},
		{"/v1/regions", http.StatusOK, `"id":"fr-par"`},
		{"/v1/regions/fr-par/group", http.StatusOK, `"group":"Europe"`},
		{"/v1/regions/nowhere/group", http.StatusNotFound, "region not found"},
		{"/v1/selections", http.StatusOK, `"name":"web"`},
		{"/v1/options?filter=bogus", http.StatusBadRequest, "invalid region filter mode"},
		{"/v1/options?ignore_availability=maybe", http.StatusBadRequest, "boolean"},
		{"/v1/options?grouped=true", http.StatusOK, `"name":"North America"`},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status %d want %d body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("body %s missing %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestOptionsQuery(t *testing.T) {
	b, h := newTestServer()
	rec := get(t, h, "/v1/options?capability=Linodes&force=fr-par,x&force=y&path=/linodes/create&ignore_availability=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var opts []regions.Option
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts) != 1 || opts[0].ID != "us-east" {
		t.Fatalf("options %+v", opts)
	}
	q := b.lastQuery
	if q.Capability != "Linodes" || q.Path != "/linodes/create" || !q.IgnoreAvailability {
		t.Fatalf("query %+v", q)
	}
	if len(q.Force) != 2 || q.Force[0] != "fr-par,x" || q.Force[1] != "y" {
		t.Fatalf("force %v", q.Force)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer()
	get(t, h, "/v1/regions")
	rec := get(t, h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "regionsel_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}
