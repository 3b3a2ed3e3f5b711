package oci

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrianmross/regionsel/pkg/catalog"
	"github.com/adrianmross/regionsel/pkg/regions"
	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/identity"
	"k8s.io/klog/v2"
)

// SourceName is recorded in snapshots built from the identity service.
const SourceName = "oci"

// Subscription is a region the tenancy is subscribed to.
type Subscription struct {
	Name   string
	Key    string
	Status string
	Home   bool
}

type place struct {
	city    string
	country string
}

// places maps OCI region names to display data.
var places = map[string]place{
	"af-johannesburg-1": {"Johannesburg", "za"},
	"ap-chuncheon-1":    {"Chuncheon", "kr"},
	"ap-hyderabad-1":    {"Hyderabad", "in"},
	"ap-melbourne-1":    {"Melbourne", "au"},
	"ap-mumbai-1":       {"Mumbai", "in"},
	"ap-osaka-1":        {"Osaka", "jp"},
	"ap-seoul-1":        {"Seoul", "kr"},
	"ap-singapore-1":    {"Singapore", "sg"},
	"ap-singapore-2":    {"Singapore 2", "sg"},
	"ap-sydney-1":       {"Sydney", "au"},
	"ap-tokyo-1":        {"Tokyo", "jp"},
	"ap-batam-1":        {"Batam", "id"},
	"ca-montreal-1":     {"Montreal", "ca"},
	"ca-toronto-1":      {"Toronto", "ca"},
	"eu-amsterdam-1":    {"Amsterdam", "nl"},
	"eu-frankfurt-1":    {"Frankfurt", "de"},
	"eu-madrid-1":       {"Madrid", "es"},
	"eu-marseille-1":    {"Marseille", "fr"},
	"eu-milan-1":        {"Milan", "it"},
	"eu-paris-1":        {"Paris", "fr"},
	"eu-stockholm-1":    {"Stockholm", "se"},
	"eu-zurich-1":       {"Zurich", "ch"},
	"il-jerusalem-1":    {"Jerusalem", "il"},
	"me-abudhabi-1":     {"Abu Dhabi", "ae"},
	"me-dubai-1":        {"Dubai", "ae"},
	"me-jeddah-1":       {"Jeddah", "sa"},
	"me-riyadh-1":       {"Riyadh", "sa"},
	"mx-monterrey-1":    {"Monterrey", "mx"},
	"mx-queretaro-1":    {"Queretaro", "mx"},
	"sa-bogota-1":       {"Bogota", "co"},
	"sa-santiago-1":     {"Santiago", "cl"},
	"sa-saopaulo-1":     {"Sao Paulo", "br"},
	"sa-valparaiso-1":   {"Valparaiso", "cl"},
	"sa-vinhedo-1":      {"Vinhedo", "br"},
	"uk-cardiff-1":      {"Cardiff", "gb"},
	"uk-london-1":       {"London", "gb"},
	"us-ashburn-1":      {"Ashburn", "us"},
	"us-chicago-1":      {"Chicago", "us"},
	"us-phoenix-1":      {"Phoenix", "us"},
	"us-saltlake-2":     {"Salt Lake City", "us"},
	"us-sanjose-1":      {"San Jose", "us"},
}

// prefixCountry resolves the country of regions missing from places.
var prefixCountry = map[string]string{
	"us": "us",
	"ca": "ca",
	"mx": "mx",
	"uk": "gb",
	"il": "il",
}

// FetchCatalog lists every region of the realm and the tenancy's
// subscriptions, and returns them as a catalog snapshot. Regions the tenancy
// is not subscribed to are recorded as unavailable for all capabilities.
func FetchCatalog(ctx context.Context, profileConfigPath, profile string, capabilities []regions.Capability) (catalog.Snapshot, error) {
	if profileConfigPath == "" {
		return catalog.Snapshot{}, fmt.Errorf("oci config path required")
	}
	provider, err := common.ConfigurationProviderFromFileWithProfile(profileConfigPath, profile, "")
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("config provider: %w", err)
	}
	client, err := identity.NewIdentityClientWithConfigurationProvider(provider)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("identity client: %w", err)
	}
	tid, err := provider.TenancyOCID()
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("tenancy ocid: %w", err)
	}

	all, err := client.ListRegions(ctx)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("list regions: %w", err)
	}
	names := make([]string, 0, len(all.Items))
	for _, r := range all.Items {
		if r.Name != nil {
			names = append(names, *r.Name)
		}
	}

	subResp, err := client.ListRegionSubscriptions(ctx, identity.ListRegionSubscriptionsRequest{
		TenancyId: common.String(tid),
	})
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("list region subscriptions: %w", err)
	}
	subs := make([]Subscription, 0, len(subResp.Items))
	for _, s := range subResp.Items {
		subs = append(subs, Subscription{
			Name:   deref(s.RegionName),
			Key:    deref(s.RegionKey),
			Status: string(s.Status),
			Home:   s.IsHomeRegion != nil && *s.IsHomeRegion,
		})
	}
	klog.V(2).InfoS("Fetched OCI regions", "profile", profile, "regions", len(names), "subscriptions", len(subs))

	return toSnapshot(names, subs, capabilities, time.Now().UTC()), nil
}

// toSnapshot maps realm region names and subscriptions to a catalog snapshot.
func toSnapshot(names []string, subs []Subscription, capabilities []regions.Capability, now time.Time) catalog.Snapshot {
	subscribed := make(map[string]bool, len(subs))
	for _, s := range subs {
		if s.Name != "" && (s.Status == "" || s.Status == string(identity.RegionSubscriptionStatusReady)) {
			subscribed[s.Name] = true
		}
	}

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	snap := catalog.Snapshot{
		Source:       SourceName,
		FetchedAt:    now,
		Regions:      make([]regions.Region, 0, len(sorted)),
		Availability: []regions.AccountAvailability{},
	}
	seen := make(map[string]bool, len(sorted))
	for _, name := range sorted {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		snap.Regions = append(snap.Regions, toRegion(name, capabilities))
		if !subscribed[name] && len(capabilities) > 0 {
			snap.Availability = append(snap.Availability, regions.AccountAvailability{
				Region:      name,
				Unavailable: append([]regions.Capability(nil), capabilities...),
			})
		}
	}
	return snap
}

func toRegion(name string, capabilities []regions.Capability) regions.Region {
	p, ok := places[name]
	if !ok {
		p = guessPlace(name)
	}
	label := p.city
	if p.country != "" {
		label = fmt.Sprintf("%s, %s", p.city, strings.ToUpper(p.country))
	}
	return regions.Region{
		ID:           name,
		Label:        label,
		Country:      p.country,
		Capabilities: append([]regions.Capability(nil), capabilities...),
		SiteType:     regions.SiteTypeCore,
	}
}

// guessPlace derives a city from names like "xx-city-1".
func guessPlace(name string) place {
	parts := strings.Split(name, "-")
	if len(parts) < 2 {
		return place{city: name}
	}
	city := parts[1]
	if city != "" {
		city = strings.ToUpper(city[:1]) + city[1:]
	}
	return place{city: city, country: prefixCountry[parts[0]]}
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
