package regions

import (
	"errors"
	"fmt"
	"strings"
)

// Capability is a feature or service tag a region may support.
type Capability string

const (
	CapabilityLinodes           Capability = "Linodes"
	CapabilityObjectStorage     Capability = "Object Storage"
	CapabilityBlockStorage      Capability = "Block Storage"
	CapabilityBlockStorageCrypt Capability = "Block Storage Encryption"
	CapabilityVPCs              Capability = "VPCs"
	CapabilityDistributedPlans  Capability = "Distributed Plans"
	CapabilityPremiumPlans      Capability = "Premium Plans"
	CapabilityGPULinodes        Capability = "GPU Linodes"
	CapabilityKubernetes        Capability = "Kubernetes"
	CapabilityCloudFirewall     Capability = "Cloud Firewall"
	CapabilityManagedDatabases  Capability = "Managed Databases"
	CapabilityNodeBalancers     Capability = "NodeBalancers"
	CapabilityPlacementGroup    Capability = "Placement Group"
	CapabilityVlans             Capability = "Vlans"
	CapabilityMetadata          Capability = "Metadata"
)

// SiteType classifies a region as a main or an edge location.
type SiteType string

const (
	SiteTypeCore        SiteType = "core"
	SiteTypeDistributed SiteType = "distributed"
)

// Region is a deployable location as reported by the provider.
type Region struct {
	ID           string       `json:"id" yaml:"id" toml:"id"`
	Label        string       `json:"label" yaml:"label" toml:"label"`
	Country      string       `json:"country" yaml:"country" toml:"country"`
	Capabilities []Capability `json:"capabilities" yaml:"capabilities" toml:"capabilities"`
	SiteType     SiteType     `json:"site_type,omitempty" yaml:"site_type,omitempty" toml:"site_type,omitempty"`
}

// HasCapability reports whether the region lists c.
func (r Region) HasCapability(c Capability) bool {
	for _, have := range r.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// AccountAvailability lists the capabilities an account cannot use in one region.
type AccountAvailability struct {
	Region      string       `json:"region" yaml:"region" toml:"region"`
	Unavailable []Capability `json:"unavailable" yaml:"unavailable" toml:"unavailable"`
}

// OptionData carries the grouping fields of an option.
type OptionData struct {
	Country string `json:"country" yaml:"country"`
	Region  string `json:"region" yaml:"region"` // display group
}

// Option is a derived, display-ready region entry.
type Option struct {
	ID             string     `json:"id" yaml:"id"`
	Label          string     `json:"label" yaml:"label"`
	Data           OptionData `json:"data" yaml:"data"`
	SiteType       SiteType   `json:"site_type,omitempty" yaml:"site_type,omitempty"`
	Unavailable    bool       `json:"unavailable" yaml:"unavailable"`
	DisabledReason string     `json:"disabled_reason,omitempty" yaml:"disabled_reason,omitempty"`
}

// Value returns the raw region id.
func (o Option) Value() string { return o.ID }

// Disabled reports whether the option must be rendered non-interactive.
func (o Option) Disabled() bool { return o.Unavailable || o.DisabledReason != "" }

// FilterMode restricts derived options by site type and, for scoped distributed
// modes, by continent.
type FilterMode string

const (
	FilterNone           FilterMode = ""
	FilterCore           FilterMode = "core"
	FilterDistributed    FilterMode = "distributed"
	FilterDistributedAll FilterMode = "distributed-ALL"
)

const distributedPrefix = "distributed-"

// ErrInvalidFilterMode is returned by ParseFilterMode for unknown modes.
var ErrInvalidFilterMode = errors.New("invalid region filter mode")

// DistributedIn returns the distributed filter scoped to a continent code.
// An empty code yields the unscoped distributed filter.
func DistributedIn(continent string) FilterMode {
	if continent == "" {
		return FilterDistributed
	}
	return FilterMode(distributedPrefix + strings.ToUpper(continent))
}

// ParseFilterMode validates a filter string such as "core" or "distributed-EU".
func ParseFilterMode(s string) (FilterMode, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "all":
		return FilterNone, nil
	case string(FilterCore):
		return FilterCore, nil
	case string(FilterDistributed), strings.ToLower(string(FilterDistributedAll)):
		return FilterDistributed, nil
	}
	if len(s) > len(distributedPrefix) && strings.EqualFold(s[:len(distributedPrefix)], distributedPrefix) {
		code := strings.ToUpper(s[len(distributedPrefix):])
		if _, ok := continentGroups[code]; ok {
			return FilterMode(distributedPrefix + code), nil
		}
	}
	return FilterNone, fmt.Errorf("%w: %q", ErrInvalidFilterMode, s)
}

// SiteType returns the site type the mode admits, or "" when the mode does not
// filter by site type.
func (m FilterMode) SiteType() SiteType {
	switch {
	case m == FilterNone:
		return ""
	case m == FilterCore:
		return SiteTypeCore
	default:
		return SiteTypeDistributed
	}
}

// Continent returns the continent code of a scoped distributed mode, or "".
func (m FilterMode) Continent() string {
	if m == FilterDistributed || m == FilterDistributedAll {
		return ""
	}
	s := string(m)
	if strings.HasPrefix(s, distributedPrefix) {
		return s[len(distributedPrefix):]
	}
	return ""
}

// Filter holds the derivation inputs besides the region list.
type Filter struct {
	Capability         Capability
	Mode               FilterMode
	ForceIncludeIDs    []string
	Availability       []AccountAvailability
	IgnoreAvailability bool
	// DisabledRegions maps region id to the message shown for a legacy
	// synthetic region.
	DisabledRegions map[string]string
}

// SyntheticRegionSpec describes a region the upstream API does not return yet.
type SyntheticRegionSpec struct {
	Region        Region
	Message       string
	Flag          string
	ExcludedPaths []string
}
