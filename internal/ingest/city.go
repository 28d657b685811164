package ingest

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	geodist "github.com/karo-care/directory-cli/internal/geo"
	"github.com/karo-care/directory-cli/internal/model"
)

// UnknownCity is assigned when no signal places the record anywhere.
const UnknownCity = "Unknown"

// City is one configured service city with its center and catchment radius.
type City struct {
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	Lat      float64  `yaml:"lat"`
	Lng      float64  `yaml:"lng"`
	RadiusKM float64  `yaml:"radius_km"`
}

type cityFile struct {
	Cities []City `yaml:"cities"`
}

// LoadCities reads the city configuration.
func LoadCities(path string) ([]City, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read cities file")
	}
	var f cityFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "ingest: parse cities file")
	}
	if len(f.Cities) == 0 {
		return nil, eris.Errorf("ingest: no cities configured in %s", path)
	}
	return f.Cities, nil
}

// CityAssigner resolves each record to one configured city so the dedup
// city scoping is stable across runs.
type CityAssigner struct {
	cities []City
}

// NewCityAssigner builds an assigner over the configured cities.
func NewCityAssigner(cities []City) *CityAssigner {
	return &CityAssigner{cities: cities}
}

// Assign resolves a record's city. Signals are tried in reliability order:
// a city name or alias in the address text, then the nearest configured
// center whose radius covers the coordinates, then the search-context hint.
func (ca *CityAssigner) Assign(r model.Record) string {
	address := strings.ToLower(r.AddressText)
	for _, c := range ca.cities {
		if containsWord(address, strings.ToLower(c.Name)) {
			return c.Name
		}
		for _, alias := range c.Aliases {
			if containsWord(address, strings.ToLower(alias)) {
				return c.Name
			}
		}
	}

	if r.HasCoordinates() {
		point := geom.Coord{*r.Longitude, *r.Latitude}
		bestName := ""
		bestDist := 0.0
		for _, c := range ca.cities {
			d := geodist.Haversine(point, geom.Coord{c.Lng, c.Lat})
			if d <= c.RadiusKM*1000 && (bestName == "" || d < bestDist) {
				bestName, bestDist = c.Name, d
			}
		}
		if bestName != "" {
			return bestName
		}
	}

	if r.CityHint != "" {
		return r.CityHint
	}
	return UnknownCity
}

// AssignAll returns records with City populated.
func (ca *CityAssigner) AssignAll(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	unknown := 0
	for i, r := range records {
		r.City = ca.Assign(r)
		if r.City == UnknownCity {
			unknown++
		}
		out[i] = r
	}
	if unknown > 0 {
		zap.L().Warn("records without resolvable city",
			zap.Int("count", unknown),
		)
	}
	return out
}

// containsWord matches needle in haystack at word boundaries, so "pune"
// does not match "punekar road" mid-token but does match "pune, 411001".
func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(needle)
		beforeOK := start == 0 || !isAlnum(haystack[start-1])
		afterOK := end == len(haystack) || !isAlnum(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
