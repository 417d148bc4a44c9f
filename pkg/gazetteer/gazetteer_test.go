package gazetteer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/geoserve/pkg/geocode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placesTOML = `
[[place]]
id = "berlin"
name = "Berlin"
label = "Berlin, Germany"
lon = 13.405
lat = 52.52
bbox = [13.088, 52.338, 13.761, 52.675]
rank = 90

[[place]]
id = "bern"
name = "Bern"
label = "Bern, Switzerland"
lon = 7.447
lat = 46.948
rank = 60

[[place]]
id = "berlingen"
name = "Berlingen"
lon = 9.018
lat = 47.671
rank = 5

[[place]]
id = "nyc"
name = "New York"
alt_names = ["NYC", "Big Apple"]
lon = -74.006
lat = 40.713
rank = 95

[[place]]
id = "york"
name = "York"
lon = -1.082
lat = 53.959
rank = 40

[[place]]
id = "broken"
name = "Nowhere"
lon = 500.0
lat = 0.0
`

func loadSample(t *testing.T, opts Options) *Gazetteer {
	t.Helper()
	places, err := ReadPlaces(strings.NewReader(placesTOML), FormatTOML)
	require.NoError(t, err)
	g := New(opts)
	require.NoError(t, g.AddAll(places))
	return g
}

func names(rs []geocode.Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Text
	}
	return out
}

func TestReadPlacesSkipsInvalid(t *testing.T) {
	places, err := ReadPlaces(strings.NewReader(placesTOML), FormatTOML)
	require.NoError(t, err)
	assert.Len(t, places, 5)
}

func TestSearchOrdersByRank(t *testing.T) {
	g := loadSample(t, Options{})

	assert.Equal(t, []string{"Berlin", "Bern", "Berlingen"}, names(g.Search("ber", 0)))
	assert.Equal(t, []string{"Berlin", "Berlingen"}, names(g.Search("BERL", 0)))
	assert.Equal(t, []string{"Berlin"}, names(g.Search("ber", 1)))
}

func TestSearchExactMatchFirst(t *testing.T) {
	g := loadSample(t, Options{})

	// "york" is an exact name for York and a word suffix of New York
	assert.Equal(t, []string{"York", "New York"}, names(g.Search("york", 0)))
	assert.Equal(t, []string{"New York", "York"}, names(g.Search("yor", 0)))
}

func TestSearchAltNames(t *testing.T) {
	g := loadSample(t, Options{})
	assert.Equal(t, []string{"New York"}, names(g.Search("big app", 0)))
	assert.Equal(t, []string{"New York"}, names(g.Search("nyc", 0)))
}

func TestSearchShortOrJunkQuery(t *testing.T) {
	g := loadSample(t, Options{})
	assert.Nil(t, g.Search("b", 5))
	assert.Nil(t, g.Search("  ", 5))
	assert.Nil(t, g.Search("1234", 5))
}

func TestSearchResultFields(t *testing.T) {
	g := loadSample(t, Options{})
	rs := g.Search("berlin", 1)
	require.Len(t, rs, 1)

	r := rs[0]
	assert.Equal(t, "berlin", r.ID)
	assert.Equal(t, "Berlin, Germany", r.PlaceName)
	assert.Equal(t, geocode.SourceLocal, r.Source)
	assert.Equal(t, geocode.LngLat{Lon: 13.405, Lat: 52.52}, r.Center)
	require.NotNil(t, r.BBox)
	assert.Equal(t, 13.088, r.BBox.West)
	assert.InDelta(t, 90.0/95.0, r.Relevance, 1e-9)

	bern := g.Search("bern", 1)
	require.Len(t, bern, 1)
	assert.Nil(t, bern[0].BBox)
}

func TestSearchFuzzyFallback(t *testing.T) {
	g := loadSample(t, Options{Fuzzy: true})
	assert.Equal(t, []string{"Berlin", "Berlingen"}, names(g.Search("berln", 0)))
	assert.Equal(t, []string{"New York"}, names(g.Search("new yrok", 0)))

	strict := loadSample(t, Options{})
	assert.Empty(t, strict.Search("berln", 0))
}

func TestGeocoderAdapter(t *testing.T) {
	g := loadSample(t, Options{})
	local := g.Geocoder(2)
	assert.Len(t, local("ber"), 2)
}

func TestSaveAndOpenSnapshot(t *testing.T) {
	g := loadSample(t, Options{})
	path := filepath.Join(t.TempDir(), "places.bin")
	require.NoError(t, g.Save(path))

	loaded, err := Open(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, g.Len(), loaded.Len())
	assert.Equal(t, g.Places(), loaded.Places())
	assert.Equal(t, names(g.Search("ber", 0)), names(loaded.Search("ber", 0)))
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.toml")
	require.NoError(t, os.WriteFile(path, []byte(placesTOML), 0o644))

	g, err := Open(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, g.Len())
	assert.Equal(t, 5, g.Stats()["places"])
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Open("places.csv", Options{})
	assert.Error(t, err)

	_, err = Open(filepath.Join(t.TempDir(), "missing.toml"), Options{})
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePlaces(&buf, nil))
	_, err = ReadPlaces(&buf, FormatUnknown)
	assert.Error(t, err)
}

func TestAddRejectsInvalid(t *testing.T) {
	g := New(Options{})
	assert.Error(t, g.Add(Place{Name: ""}))
	assert.Error(t, g.Add(Place{Name: "X", BBox: []float64{1, 2, 3}}))
	assert.Error(t, g.Add(Place{Name: "X", BBox: []float64{0, 10, 1, 5}}))
	assert.Zero(t, g.Len())
}
