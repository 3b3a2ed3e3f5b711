package oci

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Profile holds the OCI CLI profile fields the region source depends on.
type Profile struct {
	Name    string
	Tenancy string
	Region  string
}

// LoadProfiles parses an OCI CLI config file (~/.oci/config). Profiles are
// returned sorted by name; ones without a tenancy cannot list subscriptions
// and are reported as an error.
func LoadProfiles(path string) ([]Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	byName := make(map[string]*Profile)
	var current *Profile
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			if byName[name] == nil {
				byName[name] = &Profile{Name: name}
			}
			current = byName[name]
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok || current == nil {
			continue
		}
		switch strings.TrimSpace(key) {
		case "tenancy":
			current.Tenancy = strings.TrimSpace(val)
		case "region":
			current.Region = strings.TrimSpace(val)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	out := make([]Profile, 0, len(byName))
	for _, p := range byName {
		if p.Tenancy == "" {
			return nil, fmt.Errorf("profile %s missing tenancy", p.Name)
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindProfile returns the named profile from an OCI CLI config file.
func FindProfile(path, name string) (Profile, error) {
	profiles, err := LoadProfiles(path)
	if err != nil {
		return Profile{}, err
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("profile %s not found in %s", name, path)
}
