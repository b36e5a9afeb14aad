package swegrid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eskils/swegrid/projection"
)

func TestWGS84RoundTrips(t *testing.T) {
	points := []struct {
		name     string
		lat, lon float64
	}{
		{"Stockholm", 59.3293, 18.0686},
		{"Gothenburg", 57.7089, 11.9746},
		{"Kiruna", 67.8558, 20.2253},
		{"Malmö", 55.6050, 13.0038},
	}

	for _, pt := range points {
		t.Run(pt.name+"_sweref", func(t *testing.T) {
			n, e, err := WGS84ToSWEREF99TM(pt.lat, pt.lon)
			require.NoError(t, err)
			lat, lon, err := SWEREF99TMToWGS84(n, e)
			require.NoError(t, err)
			assert.InDelta(t, pt.lat, lat, 1e-6)
			assert.InDelta(t, pt.lon, lon, 1e-6)
		})
		t.Run(pt.name+"_rt90", func(t *testing.T) {
			x, y, err := WGS84ToRT90(pt.lat, pt.lon)
			require.NoError(t, err)
			lat, lon, err := RT90ToWGS84(x, y)
			require.NoError(t, err)
			assert.InDelta(t, pt.lat, lat, 1e-6)
			assert.InDelta(t, pt.lon, lon, 1e-6)
		})
	}
}

func TestGridRoundTrip(t *testing.T) {
	// Start from RT 90 grid coordinates near Stockholm.
	x, y, err := WGS84ToRT90(59.3293, 18.0686)
	require.NoError(t, err)

	n, e, err := RT90ToSWEREF99TM(x, y)
	require.NoError(t, err)
	gotX, gotY, err := SWEREF99TMToRT90(n, e)
	require.NoError(t, err)

	// Two series applications each way; a few centimeters.
	assert.InDelta(t, x, gotX, 0.05)
	assert.InDelta(t, y, gotY, 0.05)
}

func TestConversionPathsAgree(t *testing.T) {
	// WGS84 -> RT90 -> SWEREF99TM must agree with WGS84 -> SWEREF99TM to
	// within the composition error.
	lat, lon := 63.8258, 20.2630 // Umeå

	directN, directE, err := WGS84ToSWEREF99TM(lat, lon)
	require.NoError(t, err)

	x, y, err := WGS84ToRT90(lat, lon)
	require.NoError(t, err)
	viaN, viaE, err := RT90ToSWEREF99TM(x, y)
	require.NoError(t, err)

	assert.InDelta(t, directN, viaN, 0.05)
	assert.InDelta(t, directE, viaE, 0.05)
}

func TestTransformerMemoized(t *testing.T) {
	a, err := Transformer("sweref_99_1500")
	require.NoError(t, err)
	b, err := Transformer("sweref_99_1500")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestTransformerUnknown(t *testing.T) {
	_, err := Transformer("not_a_projection")
	assert.ErrorIs(t, err, projection.ErrUnknownProjection)
}

func TestTransformerConcurrent(t *testing.T) {
	const goroutines = 32

	var wg sync.WaitGroup
	results := make([]*projection.Transformer, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr, err := Transformer("sweref_99_1630")
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = tr
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i], "goroutine %d got a different instance", i)
	}
}
