// Package projection implements the Gauss Conformal Projection (Transverse
// Mercator) by Krüger's series, with parameters for the map projections in
// common use in Sweden: RT 90 (on GRS 80 and Bessel 1841) and SWEREF 99.
//
// Formulas and parameters follow Lantmäteriet's published "Gauss Conformal
// Projection (Transverse Mercator), Krügers Formulas".
package projection

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownProjection is returned when a projection name is not in the catalog.
var ErrUnknownProjection = errors.New("unknown projection")

// Parameters describes one named projection: the reference ellipsoid plus the
// Transverse Mercator projection constants.
type Parameters struct {
	// Axis is the semi-major axis of the ellipsoid, in meters.
	Axis float64
	// Flattening of the ellipsoid.
	Flattening float64
	// CentralMeridian of the projection, in degrees.
	CentralMeridian float64
	// LatitudeOfOrigin in degrees. Kept for fidelity with the reference
	// parameter tables; the Krüger formulas do not use it.
	LatitudeOfOrigin float64
	// Scale factor on the central meridian.
	Scale float64
	// FalseNorthing and FalseEasting are grid origin offsets in meters.
	FalseNorthing float64
	FalseEasting  float64
}

// Ellipsoid presets. Each named projection starts from one of these and
// overrides per-variant constants.

func grs80() Parameters {
	return Parameters{
		Axis:       6378137.0,
		Flattening: 1.0 / 298.257222101,
	}
}

func bessel1841() Parameters {
	return Parameters{
		Axis:          6377397.155,
		Flattening:    1.0 / 299.1528128,
		Scale:         1.0,
		FalseNorthing: 0.0,
		FalseEasting:  1500000.0,
	}
}

func sweref99() Parameters {
	return Parameters{
		Axis:          6378137.0,
		Flattening:    1.0 / 298.257222101,
		Scale:         1.0,
		FalseNorthing: 0.0,
		FalseEasting:  150000.0,
	}
}

// rt90 builds an RT 90 variant on GRS 80. The scale and offsets differ per
// zone: they are chosen to eliminate the numeric differences between the
// Bessel 1841 and GRS 80 ellipsoids, so coordinates match historical RT 90.
func rt90(meridian, scale, falseNorthing, falseEasting float64) Parameters {
	p := grs80()
	p.CentralMeridian = meridian
	p.Scale = scale
	p.FalseNorthing = falseNorthing
	p.FalseEasting = falseEasting
	return p
}

// besselRT90 builds an RT 90 variant on the original Bessel 1841 ellipsoid.
// Only meaningful for coordinates surveyed against Bessel 1841.
func besselRT90(meridian float64) Parameters {
	p := bessel1841()
	p.CentralMeridian = meridian
	return p
}

// sweref99ddmm builds a local SWEREF 99 projection (the "dd mm" zones).
func sweref99ddmm(meridian float64) Parameters {
	p := sweref99()
	p.CentralMeridian = meridian
	return p
}

func sweref99tm() Parameters {
	p := sweref99()
	p.CentralMeridian = 15.00
	p.LatitudeOfOrigin = 0.0
	p.Scale = 0.9996
	p.FalseNorthing = 0.0
	p.FalseEasting = 500000.0
	return p
}

// testCase is the reference verification projection from Lantmäteriet:
// lat 66°00'00", lon 24°00'00" must map to
// x 1135809.413803, y 555304.016555.
func testCase() Parameters {
	return Parameters{
		Axis:             6378137.0,
		Flattening:       1.0 / 298.257222101,
		CentralMeridian:  13.0 + 35.0/60.0 + 7.692000/3600.0,
		LatitudeOfOrigin: 0.0,
		Scale:            1.000002540000,
		FalseNorthing:    -6226307.8640,
		FalseEasting:     84182.8790,
	}
}

// catalog is the fixed set of supported projections. The central meridians
// for RT 90 zones are given in degrees, arc minutes and arc seconds; the
// literal arithmetic is kept as published so the values reproduce exactly.
var catalog = map[string]Parameters{
	// RT 90, GRS 80 ellipsoid.
	"rt90_7.5_gon_v": rt90(11.0+18.375/60.0, 1.000006000000, -667.282, 1500025.141),
	"rt90_5.0_gon_v": rt90(13.0+33.376/60.0, 1.000005800000, -667.130, 1500044.695),
	"rt90_2.5_gon_v": rt90(15.0+48.0/60.0+22.624306/3600.0, 1.00000561024, -667.711, 1500064.274),
	"rt90_0.0_gon_v": rt90(18.0+3.378/60.0, 1.000005400000, -668.844, 1500083.521),
	"rt90_2.5_gon_o": rt90(20.0+18.379/60.0, 1.000005200000, -670.706, 1500102.765),
	"rt90_5.0_gon_o": rt90(22.0+33.380/60.0, 1.000004900000, -672.557, 1500121.846),

	// RT 90, Bessel 1841 ellipsoid.
	"bessel_rt90_7.5_gon_v": besselRT90(11.0+18.0/60.0+29.8/3600.0),
	"bessel_rt90_5.0_gon_v": besselRT90(13.0+33.0/60.0+29.8/3600.0),
	"bessel_rt90_2.5_gon_v": besselRT90(15.0+48.0/60.0+29.8/3600.0),
	"bessel_rt90_0.0_gon_v": besselRT90(18.0+3.0/60.0+29.8/3600.0),
	"bessel_rt90_2.5_gon_o": besselRT90(20.0+18.0/60.0+29.8/3600.0),
	"bessel_rt90_5.0_gon_o": besselRT90(22.0+33.0/60.0+29.8/3600.0),

	// SWEREF 99 TM and the local SWEREF 99 dd mm zones.
	"sweref_99_tm":   sweref99tm(),
	"sweref_99_1200": sweref99ddmm(12.00),
	"sweref_99_1330": sweref99ddmm(13.50),
	"sweref_99_1500": sweref99ddmm(15.00),
	"sweref_99_1630": sweref99ddmm(16.50),
	"sweref_99_1800": sweref99ddmm(18.00),
	"sweref_99_1415": sweref99ddmm(14.25),
	"sweref_99_1545": sweref99ddmm(15.75),
	"sweref_99_1715": sweref99ddmm(17.25),
	"sweref_99_1845": sweref99ddmm(18.75),
	"sweref_99_2015": sweref99ddmm(20.25),
	"sweref_99_2145": sweref99ddmm(21.75),
	"sweref_99_2315": sweref99ddmm(23.25),

	"test_case": testCase(),
}

// ParametersFor returns the parameters for a named projection.
// The name must match the catalog exactly.
func ParametersFor(name string) (Parameters, error) {
	p, ok := catalog[name]
	if !ok {
		return Parameters{}, fmt.Errorf("%w: %q", ErrUnknownProjection, name)
	}
	return p, nil
}

// Names returns all supported projection names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
