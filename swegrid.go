// Package swegrid converts coordinates between the map projections in common
// use in Sweden. The package-level functions cover the two projections most
// data is exchanged in, RT 90 2.5 gon V and SWEREF 99 TM; the projection
// subpackage exposes the full catalog.
//
// "WGS 84" in the function names means geodetic latitude/longitude in decimal
// degrees. Strictly the geodetic side is SWEREF 99, but the two agree to well
// under a meter and GPS users know the coordinates as WGS 84.
package swegrid

import (
	"sync"

	"github.com/eskils/swegrid/projection"
)

// The two projections served by the package-level conversions.
const (
	rt90Name     = "rt90_2.5_gon_v"
	sweref99Name = "sweref_99_tm"
)

var (
	mu           sync.Mutex
	transformers = make(map[string]*projection.Transformer)
)

// Transformer returns a shared transformer for the named projection,
// constructing it on first use. Safe for concurrent callers; the same
// instance is returned for every call with the same name.
func Transformer(name string) (*projection.Transformer, error) {
	mu.Lock()
	defer mu.Unlock()
	if t, ok := transformers[name]; ok {
		return t, nil
	}
	t, err := projection.New(name)
	if err != nil {
		return nil, err
	}
	transformers[name] = t
	return t, nil
}

// RT90ToSWEREF99TM converts RT 90 2.5 gon V grid coordinates (x, y in
// meters) to SWEREF 99 TM grid coordinates (north, east in meters).
func RT90ToSWEREF99TM(x, y float64) (north, east float64, err error) {
	rt90, err := Transformer(rt90Name)
	if err != nil {
		return 0, 0, err
	}
	sweref, err := Transformer(sweref99Name)
	if err != nil {
		return 0, 0, err
	}
	return rt90.ConvertTo(sweref, x, y)
}

// SWEREF99TMToRT90 converts SWEREF 99 TM grid coordinates to
// RT 90 2.5 gon V grid coordinates.
func SWEREF99TMToRT90(north, east float64) (x, y float64, err error) {
	sweref, err := Transformer(sweref99Name)
	if err != nil {
		return 0, 0, err
	}
	rt90, err := Transformer(rt90Name)
	if err != nil {
		return 0, 0, err
	}
	return sweref.ConvertTo(rt90, north, east)
}

// WGS84ToRT90 converts geodetic coordinates in decimal degrees to
// RT 90 2.5 gon V grid coordinates.
func WGS84ToRT90(latitude, longitude float64) (x, y float64, err error) {
	rt90, err := Transformer(rt90Name)
	if err != nil {
		return 0, 0, err
	}
	return rt90.GeodeticToGrid(latitude, longitude)
}

// RT90ToWGS84 converts RT 90 2.5 gon V grid coordinates to geodetic
// coordinates in decimal degrees.
func RT90ToWGS84(x, y float64) (latitude, longitude float64, err error) {
	rt90, err := Transformer(rt90Name)
	if err != nil {
		return 0, 0, err
	}
	return rt90.GridToGeodetic(x, y)
}

// WGS84ToSWEREF99TM converts geodetic coordinates in decimal degrees to
// SWEREF 99 TM grid coordinates.
func WGS84ToSWEREF99TM(latitude, longitude float64) (north, east float64, err error) {
	sweref, err := Transformer(sweref99Name)
	if err != nil {
		return 0, 0, err
	}
	return sweref.GeodeticToGrid(latitude, longitude)
}

// SWEREF99TMToWGS84 converts SWEREF 99 TM grid coordinates to geodetic
// coordinates in decimal degrees.
func SWEREF99TMToWGS84(north, east float64) (latitude, longitude float64, err error) {
	sweref, err := Transformer(sweref99Name)
	if err != nil {
		return 0, 0, err
	}
	return sweref.GridToGeodetic(north, east)
}
