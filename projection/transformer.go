package projection

import (
	"errors"
	"math"
)

// ErrNotInitialized is returned by transforms on a zero-value Transformer.
var ErrNotInitialized = errors.New("transformer not initialized")

// series holds the precomputed Krüger series coefficients for one ellipsoid
// and projection. All terms are fixed 4th-order truncations in n and e².
type series struct {
	aRoof float64

	// Forward terms, geodetic to grid.
	a, b, c, d                 float64
	beta1, beta2, beta3, beta4 float64

	// Inverse terms, grid to geodetic.
	delta1, delta2, delta3, delta4 float64
	aStar, bStar, cStar, dStar     float64
}

// prepare computes the series coefficients from the ellipsoid shape.
// Depends only on axis and flattening, never on input points.
func prepare(p Parameters) series {
	f := p.Flattening
	e2 := f * (2.0 - f)
	n := f / (2.0 - f)

	var s series
	s.aRoof = p.Axis / (1.0 + n) * (1.0 + n*n/4.0 + n*n*n*n/64.0)

	s.a = e2
	s.b = (5.0*e2*e2 - e2*e2*e2) / 6.0
	s.c = (104.0*e2*e2*e2 - 45.0*e2*e2*e2*e2) / 120.0
	s.d = (1237.0 * e2 * e2 * e2 * e2) / 1260.0

	s.beta1 = n/2.0 - 2.0*n*n/3.0 + 5.0*n*n*n/16.0 + 41.0*n*n*n*n/180.0
	s.beta2 = 13.0*n*n/48.0 - 3.0*n*n*n/5.0 + 557.0*n*n*n*n/1440.0
	s.beta3 = 61.0*n*n*n/240.0 - 103.0*n*n*n*n/140.0
	s.beta4 = 49561.0 * n * n * n * n / 161280.0

	s.delta1 = n/2.0 - 2.0*n*n/3.0 + 37.0*n*n*n/96.0 - n*n*n*n/360.0
	s.delta2 = n*n/48.0 + n*n*n/15.0 - 437.0*n*n*n*n/1440.0
	s.delta3 = 17.0*n*n*n/480.0 - 37.0*n*n*n*n/840.0
	s.delta4 = 4397.0 * n * n * n * n / 161280.0

	s.aStar = e2 + e2*e2 + e2*e2*e2 + e2*e2*e2*e2
	s.bStar = -(7.0*e2*e2 + 17.0*e2*e2*e2 + 30.0*e2*e2*e2*e2) / 6.0
	s.cStar = (224.0*e2*e2*e2 + 889.0*e2*e2*e2*e2) / 120.0
	s.dStar = -(4279.0 * e2 * e2 * e2 * e2) / 1260.0

	return s
}

// Transformer converts between geodetic coordinates (latitude/longitude in
// degrees on the projection's ellipsoid) and grid coordinates (north/east in
// meters). It is immutable after construction and safe for concurrent use.
//
// The zero value is not usable; both transforms report ErrNotInitialized.
type Transformer struct {
	params Parameters
	coef   series
	ready  bool
}

// New returns a Transformer for a named projection from the catalog.
func New(name string) (*Transformer, error) {
	p, err := ParametersFor(name)
	if err != nil {
		return nil, err
	}
	return NewFromParameters(p), nil
}

// NewFromParameters returns a Transformer for explicit projection parameters.
// Coefficient preparation happens here, once; the transforms reuse it.
func NewFromParameters(p Parameters) *Transformer {
	return &Transformer{
		params: p,
		coef:   prepare(p),
		ready:  true,
	}
}

// Parameters returns the projection parameters the Transformer was built from.
func (t *Transformer) Parameters() Parameters {
	return t.params
}

const degToRad = math.Pi / 180.0

// GeodeticToGrid transforms geodetic coordinates to grid coordinates.
// North corresponds to X in RT 90 and N in SWEREF 99; east to Y and E.
//
// Inputs are not validated: points outside the projection's area of use,
// or non-finite values, flow through the formulas and produce a numeric
// result rather than an error.
func (t *Transformer) GeodeticToGrid(latitude, longitude float64) (north, east float64, err error) {
	if !t.ready {
		return 0, 0, ErrNotInitialized
	}

	phi := latitude * degToRad
	lambda := longitude * degToRad
	lambdaZero := t.params.CentralMeridian * degToRad

	// Conformal latitude: removes the ellipsoidal distortion, reducing the
	// problem to a transverse Mercator projection of the conformal sphere.
	sin2 := math.Sin(phi) * math.Sin(phi)
	phiStar := phi - math.Sin(phi)*math.Cos(phi)*
		(t.coef.a+t.coef.b*sin2+t.coef.c*sin2*sin2+t.coef.d*sin2*sin2*sin2)

	deltaLambda := lambda - lambdaZero
	xiPrim := math.Atan(math.Tan(phiStar) / math.Cos(deltaLambda))
	etaPrim := math.Atanh(math.Cos(phiStar) * math.Sin(deltaLambda))

	k := t.params.Scale * t.coef.aRoof
	north = k*(xiPrim+
		t.coef.beta1*math.Sin(2.0*xiPrim)*math.Cosh(2.0*etaPrim)+
		t.coef.beta2*math.Sin(4.0*xiPrim)*math.Cosh(4.0*etaPrim)+
		t.coef.beta3*math.Sin(6.0*xiPrim)*math.Cosh(6.0*etaPrim)+
		t.coef.beta4*math.Sin(8.0*xiPrim)*math.Cosh(8.0*etaPrim)) +
		t.params.FalseNorthing
	east = k*(etaPrim+
		t.coef.beta1*math.Cos(2.0*xiPrim)*math.Sinh(2.0*etaPrim)+
		t.coef.beta2*math.Cos(4.0*xiPrim)*math.Sinh(4.0*etaPrim)+
		t.coef.beta3*math.Cos(6.0*xiPrim)*math.Sinh(6.0*etaPrim)+
		t.coef.beta4*math.Cos(8.0*xiPrim)*math.Sinh(8.0*etaPrim)) +
		t.params.FalseEasting
	return north, east, nil
}

// GridToGeodetic transforms grid coordinates to geodetic coordinates,
// in degrees. The inverse of GeodeticToGrid to the precision of the
// 4th-order series.
func (t *Transformer) GridToGeodetic(north, east float64) (latitude, longitude float64, err error) {
	if !t.ready {
		return 0, 0, ErrNotInitialized
	}

	lambdaZero := t.params.CentralMeridian * degToRad
	k := t.params.Scale * t.coef.aRoof
	xi := (north - t.params.FalseNorthing) / k
	eta := (east - t.params.FalseEasting) / k

	xiPrim := xi -
		t.coef.delta1*math.Sin(2.0*xi)*math.Cosh(2.0*eta) -
		t.coef.delta2*math.Sin(4.0*xi)*math.Cosh(4.0*eta) -
		t.coef.delta3*math.Sin(6.0*xi)*math.Cosh(6.0*eta) -
		t.coef.delta4*math.Sin(8.0*xi)*math.Cosh(8.0*eta)
	etaPrim := eta -
		t.coef.delta1*math.Cos(2.0*xi)*math.Sinh(2.0*eta) -
		t.coef.delta2*math.Cos(4.0*xi)*math.Sinh(4.0*eta) -
		t.coef.delta3*math.Cos(6.0*xi)*math.Sinh(6.0*eta) -
		t.coef.delta4*math.Cos(8.0*xi)*math.Sinh(8.0*eta)

	phiStar := math.Asin(math.Sin(xiPrim) / math.Cosh(etaPrim))
	deltaLambda := math.Atan(math.Sinh(etaPrim) / math.Cos(xiPrim))

	lonRadian := lambdaZero + deltaLambda
	sin2 := math.Sin(phiStar) * math.Sin(phiStar)
	latRadian := phiStar + math.Sin(phiStar)*math.Cos(phiStar)*
		(t.coef.aStar+t.coef.bStar*sin2+t.coef.cStar*sin2*sin2+t.coef.dStar*sin2*sin2*sin2)

	latitude = latRadian * 180.0 / math.Pi
	longitude = lonRadian * 180.0 / math.Pi
	return latitude, longitude, nil
}

// ConvertTo converts a grid coordinate in t's projection to dst's projection
// through the shared geodetic intermediate. Round-trip error is bounded by
// two applications of the series truncation rather than one.
func (t *Transformer) ConvertTo(dst *Transformer, north, east float64) (dstNorth, dstEast float64, err error) {
	lat, lon, err := t.GridToGeodetic(north, east)
	if err != nil {
		return 0, 0, err
	}
	return dst.GeodeticToGrid(lat, lon)
}
