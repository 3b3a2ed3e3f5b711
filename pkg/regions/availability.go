package regions

// IsUnavailable reports whether the account lacks capability in the region with
// the given id. Gating applies only when both records and capability are given;
// missing records or fields read as available. When several records name the
// same region, the first one wins.
func IsUnavailable(records []AccountAvailability, capability Capability, regionID string) bool {
	if len(records) == 0 || capability == "" {
		return false
	}
	for _, rec := range records {
		if rec.Region != regionID {
			continue
		}
		for _, c := range rec.Unavailable {
			if c == capability {
				return true
			}
		}
		return false
	}
	return false
}

// UnavailableIn returns the ids of regions whose availability record lists
// capability, in record order and without duplicates.
func UnavailableIn(records []AccountAvailability, capability Capability) []string {
	seen := make(map[string]bool, len(records))
	var out []string
	for _, rec := range records {
		if seen[rec.Region] {
			continue
		}
		seen[rec.Region] = true
		if IsUnavailable(records, capability, rec.Region) {
			out = append(out, rec.Region)
		}
	}
	return out
}
