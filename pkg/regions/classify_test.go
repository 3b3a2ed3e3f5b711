package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"us", GroupNorthAmerica},
		{"US", GroupNorthAmerica},
		{"ca", GroupNorthAmerica},
		{"br", GroupSouthAmerica},
		{"gb", GroupEurope},
		{"de", GroupEurope},
		{"jp", GroupAsia},
		{"in", GroupAsia},
		{"au", GroupOceania},
		{"za", GroupAfrica},
		{"aq", GroupAntarctica},
		{"global", GroupGlobal},
		{"", GroupOther},
		{"zz", GroupOther},
		{"  fr ", GroupEurope},
	}
	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			r := Region{ID: "r", Country: tt.country}
			assert.Equal(t, tt.want, Classify(r))
			// stable across calls
			assert.Equal(t, Classify(r), Classify(r))
		})
	}
}

func TestGroupForContinent(t *testing.T) {
	assert.Equal(t, GroupEurope, GroupForContinent("eu"))
	assert.Equal(t, GroupOther, GroupForContinent("XX"))
	assert.Equal(t, "NA", ContinentOf("mx"))
	assert.Equal(t, "", ContinentOf("nowhere"))
}
