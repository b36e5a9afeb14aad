package batch

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eskils/swegrid/projection"
)

func TestNewConverter_UnknownProjection(t *testing.T) {
	_, err := NewConverter("not_a_projection", "sweref_99_tm")
	assert.ErrorIs(t, err, projection.ErrUnknownProjection)

	_, err = NewConverter("wgs84", "also_not_a_projection")
	assert.ErrorIs(t, err, projection.ErrUnknownProjection)
}

func TestConverter_GeodeticToGeodetic(t *testing.T) {
	c, err := NewConverter(GeodeticName, GeodeticName)
	require.NoError(t, err)

	lat, lon, err := c.Convert(59.3293, 18.0686)
	require.NoError(t, err)
	assert.Equal(t, 59.3293, lat)
	assert.Equal(t, 18.0686, lon)
}

func TestConverter_RoundTrip(t *testing.T) {
	fwd, err := NewConverter(GeodeticName, "sweref_99_tm")
	require.NoError(t, err)
	back, err := NewConverter("sweref_99_tm", GeodeticName)
	require.NoError(t, err)

	n, e, err := fwd.Convert(63.8258, 20.2630)
	require.NoError(t, err)
	lat, lon, err := back.Convert(n, e)
	require.NoError(t, err)

	assert.InDelta(t, 63.8258, lat, 1e-6)
	assert.InDelta(t, 20.2630, lon, 1e-6)
}

func TestRun_ConvertsAndPreservesColumns(t *testing.T) {
	c, err := NewConverter(GeodeticName, "sweref_99_tm")
	require.NoError(t, err)

	in := strings.Join([]string{
		"59.3293,18.0686,stockholm",
		"57.7089,11.9746,gothenburg",
		"67.8558,20.2253,kiruna",
	}, "\n")

	var out bytes.Buffer
	stats, err := Run(c, Options{Concurrency: 2}, strings.NewReader(in), &out)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Rows)
	assert.Equal(t, int64(3), stats.Converted)
	assert.Equal(t, int64(0), stats.Skipped)

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Input order and passthrough columns survive.
	assert.Equal(t, "stockholm", rows[0][2])
	assert.Equal(t, "gothenburg", rows[1][2])
	assert.Equal(t, "kiruna", rows[2][2])

	// Converted values are sane SWEREF 99 TM coordinates.
	north, err := strconv.ParseFloat(rows[0][0], 64)
	require.NoError(t, err)
	east, err := strconv.ParseFloat(rows[0][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 6.58e6, north, 0.1e6, "Stockholm northing")
	assert.InDelta(t, 0.67e6, east, 0.1e6, "Stockholm easting")
}

func TestRun_SkipsUnparsableRows(t *testing.T) {
	c, err := NewConverter(GeodeticName, "sweref_99_tm")
	require.NoError(t, err)

	in := strings.Join([]string{
		"lat,lon,name", // header: not numeric, skipped
		"59.3293,18.0686,stockholm",
		"not-a-number,18.0,bad",
	}, "\n")

	var out bytes.Buffer
	stats, err := Run(c, Options{Concurrency: 1}, strings.NewReader(in), &out)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Rows)
	assert.Equal(t, int64(1), stats.Converted)
	assert.Equal(t, int64(2), stats.Skipped)

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "stockholm", rows[0][2])
}

func TestRun_GridToGrid(t *testing.T) {
	fwd, err := NewConverter("rt90_2.5_gon_v", "sweref_99_tm")
	require.NoError(t, err)
	back, err := NewConverter("sweref_99_tm", "rt90_2.5_gon_v")
	require.NoError(t, err)

	// RT 90 coordinates for a Stockholm point.
	in := "6580000.000,1628000.000\n"
	var mid, out bytes.Buffer
	_, err = Run(fwd, Options{}, strings.NewReader(in), &mid)
	require.NoError(t, err)
	_, err = Run(back, Options{}, bytes.NewReader(mid.Bytes()), &out)
	require.NoError(t, err)

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	gotX, err := strconv.ParseFloat(rows[0][0], 64)
	require.NoError(t, err)
	gotY, err := strconv.ParseFloat(rows[0][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 6580000.0, gotX, 0.05)
	assert.InDelta(t, 1628000.0, gotY, 0.05)
}

func TestRun_Progress(t *testing.T) {
	c, err := NewConverter(GeodeticName, "sweref_99_tm")
	require.NoError(t, err)

	var out, prog bytes.Buffer
	in := "59.3293,18.0686\n57.7089,11.9746\n"
	_, err = Run(c, Options{Progress: true, ProgressOut: &prog, Label: "test"}, strings.NewReader(in), &out)
	require.NoError(t, err)

	assert.Contains(t, prog.String(), "2/2 rows")
}

func TestLoadJobs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  - name: rt90 to sweref
    from: rt90_2.5_gon_v
    to: sweref_99_tm
    input: in.csv
    output: out.csv
  - name: wgs84 to rt90
    from: wgs84
    to: rt90_2.5_gon_v
    input: a.csv
    output: b.csv
    concurrency: 4
`), 0o644))

	jobs, err := LoadJobs(path)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "rt90_2.5_gon_v", jobs[0].From)
	assert.Equal(t, "sweref_99_tm", jobs[0].To)
	assert.Equal(t, 4, jobs[1].Concurrency)
}

func TestLoadJobs_Invalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("jobs: []\n"), 0o644))
	_, err := LoadJobs(empty)
	assert.Error(t, err)

	missing := filepath.Join(dir, "missing.yaml")
	require.NoError(t, os.WriteFile(missing, []byte(`
jobs:
  - name: broken
    from: wgs84
    input: in.csv
    output: out.csv
`), 0o644))
	_, err = LoadJobs(missing)
	assert.ErrorContains(t, err, "from and to are required")
}
