// Package geo holds the geographic position type agents move around with.
//
// Movement and local vectors use a spherical approximation that is singular at
// the poles; do not rely on them above roughly 80 degrees of latitude.
package geo

import (
	"math"
	"strconv"

	"github.com/bytearena/geoswarm/common/utils/vector"
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
)

const (
	EquatorialRadius = 6378137.0    // metres, WGS84
	PolarRadius      = 6356752.3142 // metres, WGS84
)

var eccentricitySq = 1 - (PolarRadius*PolarRadius)/(EquatorialRadius*EquatorialRadius)

var ErrInvalidPosition = errors.New("invalid position")

// Position is latitude and longitude in degrees, elevation in metres.
type Position struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
	Elevation float64 `json:"elevation" yaml:"elevation"`
}

func FromDegrees(lat, lon, elevation float64) Position {
	return Position{
		Latitude:  lat,
		Longitude: lon,
		Elevation: elevation,
	}
}

func (p Position) Validate() error {
	for _, v := range []float64{p.Latitude, p.Longitude, p.Elevation} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidPosition, "%s has a non finite component", p)
		}
	}

	if p.Latitude < -90 || p.Latitude > 90 {
		return errors.Wrapf(ErrInvalidPosition, "latitude %f out of [-90, 90]", p.Latitude)
	}

	if p.Longitude < -180 || p.Longitude > 180 {
		return errors.Wrapf(ErrInvalidPosition, "longitude %f out of [-180, 180]", p.Longitude)
	}

	return nil
}

// Move applies an east/north/up displacement in metres. The same
// degrees-per-metre factor is used for both axes.
func (p Position) Move(east, north, up float64) Position {
	radius := EquatorialRadius + p.Elevation
	degreesPerMeter := 360 / (2 * math.Pi * radius)

	return Position{
		Latitude:  p.Latitude + degreesPerMeter*north,
		Longitude: p.Longitude + degreesPerMeter*east,
		Elevation: p.Elevation + up,
	}
}

// ECEF projects the position on the WGS84 ellipsoid, in metres.
func (p Position) ECEF() vector.Vector3 {
	lat := toRadians(p.Latitude)
	lon := toRadians(p.Longitude)

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	n := EquatorialRadius / math.Sqrt(1-eccentricitySq*sinLat*sinLat)

	return vector.MakeVector3(
		(n+p.Elevation)*cosLat*math.Cos(lon),
		(n+p.Elevation)*cosLat*math.Sin(lon),
		(n*(1-eccentricitySq)+p.Elevation)*sinLat,
	)
}

// Distance3D is the straight line (chord) distance between both ECEF
// projections. At sub-kilometre ranges it is indistinguishable from the
// geodesic distance and is monotonic with it.
func (p Position) Distance3D(other Position) float64 {
	return other.ECEF().Sub(p.ECEF()).Mag()
}

// LocalVector approximates the east/north/up displacement from p to other.
func (p Position) LocalVector(other Position) vector.Vector3 {
	dLat := toRadians(other.Latitude - p.Latitude)
	dLon := toRadians(other.Longitude - p.Longitude)

	return vector.MakeVector3(
		dLon*(EquatorialRadius+p.Elevation),
		dLat*(PolarRadius+p.Elevation),
		other.Elevation-p.Elevation,
	)
}

func (p Position) ToOrbPoint() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// GreatCircleDistance ignores elevation. Diagnostics only; neighbourhood is
// always decided with Distance3D.
func (p Position) GreatCircleDistance(other Position) float64 {
	return orbgeo.Distance(p.ToOrbPoint(), other.ToOrbPoint())
}

func (p Position) String() string {
	return "<Position(" +
		strconv.FormatFloat(p.Latitude, 'f', 6, 64) + ", " +
		strconv.FormatFloat(p.Longitude, 'f', 6, 64) + ", " +
		strconv.FormatFloat(p.Elevation, 'f', 2, 64) + ")>"
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
