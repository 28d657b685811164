// Package geo provides great-circle distance and proximity clustering for
// discovered business records.
package geo

import (
	"math"

	"github.com/twpayne/go-geom"

	"github.com/karo-care/directory-cli/internal/model"
)

// earthRadiusMeters is the spherical-earth approximation radius.
const earthRadiusMeters = 6371000

// Haversine returns the great-circle distance in meters between two
// coordinates. Coords follow the geom convention: X is longitude, Y is
// latitude, in degrees.
func Haversine(a, b geom.Coord) float64 {
	lat1 := a.Y() * math.Pi / 180
	lat2 := b.Y() * math.Pi / 180
	dLat := (b.Y() - a.Y()) * math.Pi / 180
	dLng := (b.X() - a.X()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Site is the clustering view of a record: its id, its coordinate and
// whether a coordinate exists at all.
type Site struct {
	ID      string
	Coord   geom.Coord
	Located bool
}

// SiteOf builds a Site from a record. Records without coordinates produce
// an unlocated site, which the clusterer never merges with anything.
func SiteOf(r model.Record) Site {
	s := Site{ID: r.ID}
	if r.HasCoordinates() {
		s.Coord = geom.Coord{*r.Longitude, *r.Latitude}
		s.Located = true
	}
	return s
}
