package regions

import "strings"

// Display groups.
const (
	GroupGlobal       = "Global"
	GroupNorthAmerica = "North America"
	GroupSouthAmerica = "South America"
	GroupEurope       = "Europe"
	GroupAsia         = "Asia"
	GroupOceania      = "Oceania"
	GroupAfrica       = "Africa"
	GroupAntarctica   = "Antarctica"
	GroupOther        = "Other"
)

var continentGroups = map[string]string{
	"NA": GroupNorthAmerica,
	"SA": GroupSouthAmerica,
	"EU": GroupEurope,
	"AS": GroupAsia,
	"OC": GroupOceania,
	"AF": GroupAfrica,
	"AN": GroupAntarctica,
}

// ContinentCodes lists the continent codes in geography-picker order.
var ContinentCodes = []string{"NA", "EU", "AS", "SA", "OC", "AF", "AN"}

// countryContinents maps ISO 3166-1 alpha-2 codes (upper case) to continent codes.
var countryContinents = map[string]string{
	// North America
	"US": "NA", "CA": "NA", "MX": "NA", "GT": "NA", "BZ": "NA", "SV": "NA", "HN": "NA",
	"NI": "NA", "CR": "NA", "PA": "NA", "CU": "NA", "DO": "NA", "HT": "NA", "JM": "NA",
	"PR": "NA", "BS": "NA", "BB": "NA", "TT": "NA", "GL": "NA", "BM": "NA", "KY": "NA",
	"AG": "NA", "DM": "NA", "GD": "NA", "KN": "NA", "LC": "NA", "VC": "NA", "AW": "NA",
	"CW": "NA", "VG": "NA", "VI": "NA", "TC": "NA", "MQ": "NA", "GP": "NA", "PM": "NA",
	// South America
	"BR": "SA", "AR": "SA", "CL": "SA", "CO": "SA", "PE": "SA", "VE": "SA", "EC": "SA",
	"BO": "SA", "PY": "SA", "UY": "SA", "GY": "SA", "SR": "SA", "GF": "SA", "FK": "SA",
	// Europe
	"GB": "EU", "UK": "EU", "IE": "EU", "FR": "EU", "DE": "EU", "NL": "EU", "BE": "EU",
	"LU": "EU", "CH": "EU", "AT": "EU", "IT": "EU", "ES": "EU", "PT": "EU", "SE": "EU",
	"NO": "EU", "FI": "EU", "DK": "EU", "IS": "EU", "PL": "EU", "CZ": "EU", "SK": "EU",
	"HU": "EU", "RO": "EU", "BG": "EU", "GR": "EU", "HR": "EU", "SI": "EU", "RS": "EU",
	"BA": "EU", "ME": "EU", "MK": "EU", "AL": "EU", "EE": "EU", "LV": "EU", "LT": "EU",
	"BY": "EU", "UA": "EU", "MD": "EU", "RU": "EU", "MT": "EU", "MC": "EU", "LI": "EU",
	"SM": "EU", "VA": "EU", "AD": "EU", "GI": "EU", "IM": "EU", "JE": "EU", "GG": "EU",
	"FO": "EU", "XK": "EU",
	// Asia
	"JP": "AS", "KR": "AS", "KP": "AS", "CN": "AS", "HK": "AS", "MO": "AS", "TW": "AS",
	"MN": "AS", "IN": "AS", "PK": "AS", "BD": "AS", "LK": "AS", "NP": "AS", "BT": "AS",
	"MV": "AS", "SG": "AS", "MY": "AS", "ID": "AS", "TH": "AS", "VN": "AS", "PH": "AS",
	"KH": "AS", "LA": "AS", "MM": "AS", "BN": "AS", "TL": "AS", "AE": "AS", "SA": "AS",
	"QA": "AS", "KW": "AS", "BH": "AS", "OM": "AS", "YE": "AS", "IL": "AS", "JO": "AS",
	"LB": "AS", "SY": "AS", "IQ": "AS", "IR": "AS", "AF": "AS", "TR": "AS", "CY": "AS",
	"GE": "AS", "AM": "AS", "AZ": "AS", "KZ": "AS", "UZ": "AS", "TM": "AS", "KG": "AS",
	"TJ": "AS", "PS": "AS",
	// Oceania
	"AU": "OC", "NZ": "OC", "FJ": "OC", "PG": "OC", "NC": "OC", "PF": "OC", "WS": "OC",
	"TO": "OC", "VU": "OC", "SB": "OC", "GU": "OC", "KI": "OC", "FM": "OC", "MH": "OC",
	"PW": "OC", "NR": "OC", "TV": "OC", "MP": "OC", "AS": "OC", "CK": "OC",
	// Africa
	"ZA": "AF", "NG": "AF", "KE": "AF", "EG": "AF", "MA": "AF", "DZ": "AF", "TN": "AF",
	"LY": "AF", "GH": "AF", "CI": "AF", "SN": "AF", "ET": "AF", "TZ": "AF", "UG": "AF",
	"RW": "AF", "AO": "AF", "ZM": "AF", "ZW": "AF", "MZ": "AF", "BW": "AF", "NA": "AF",
	"MU": "AF", "MG": "AF", "CM": "AF", "CD": "AF", "CG": "AF", "GA": "AF", "SD": "AF",
	"SS": "AF", "SO": "AF", "DJ": "AF", "ER": "AF", "ML": "AF", "NE": "AF", "BF": "AF",
	"TD": "AF", "MR": "AF", "GM": "AF", "GN": "AF", "SL": "AF", "LR": "AF", "TG": "AF",
	"BJ": "AF", "MW": "AF", "LS": "AF", "SZ": "AF", "SC": "AF", "CV": "AF", "RE": "AF",
	// Antarctica
	"AQ": "AN",
}

// ContinentOf returns the continent code for a country code, or "" when unknown.
func ContinentOf(country string) string {
	return countryContinents[strings.ToUpper(strings.TrimSpace(country))]
}

// GroupForContinent returns the display group for a continent code.
func GroupForContinent(code string) string {
	if g, ok := continentGroups[strings.ToUpper(code)]; ok {
		return g
	}
	return GroupOther
}

func isGlobalCountry(country string) bool {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "global", "gl-global", "xx":
		return true
	}
	return false
}

// Classify returns the display group of a region. Regions without a known
// country fall into GroupOther.
func Classify(r Region) string {
	if isGlobalCountry(r.Country) {
		return GroupGlobal
	}
	code := ContinentOf(r.Country)
	if code == "" {
		return GroupOther
	}
	return GroupForContinent(code)
}
