package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorsRegistered(t *testing.T) {
	Derivations.WithLabelValues("hit").Inc()
	OptionsReturned.Observe(12)
	RequestsTotal.WithLabelValues("http", "options", "ok").Inc()
	RequestDuration.WithLabelValues("ipc", "list").Observe(0.002)
	CatalogRegions.Set(4)
	CatalogReloads.WithLabelValues("ok").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, name := range []string{
		"regionsel_derivations_total",
		"regionsel_options_returned",
		"regionsel_requests_total",
		"regionsel_request_duration_seconds",
		"regionsel_catalog_regions",
		"regionsel_catalog_reloads_total",
	} {
		if !names[name] {
			t.Errorf("%s not found in gathered metrics", name)
		}
	}
}
