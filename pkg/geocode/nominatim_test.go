package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimForward(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Damrak Amsterdam", r.URL.Query().Get("q"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "nl", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "geoserve-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[
			{"place_id": 42, "name": "Damrak", "display_name": "Damrak, Amsterdam, Nederland",
			 "lat": "52.3759", "lon": "4.8975", "boundingbox": ["52.37", "52.38", "4.89", "4.90"],
			 "importance": 0.51, "category": "highway", "type": "primary"},
			{"place_id": 43, "display_name": "broken", "lat": "x", "lon": "4.1"}
		]`))
	}))
	defer srv.Close()

	c := NewNominatimClient(WithEndpoint(srv.URL), WithRateInterval(0), WithUserAgent("geoserve-test"))
	resp, err := c.Forward(context.Background(), "Damrak Amsterdam", Params{Limit: 2, Values: map[string]string{"countrycodes": "nl"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	r := resp.Results[0]
	assert.Equal(t, "osm.42", r.ID)
	assert.Equal(t, "Damrak", r.Text)
	assert.Equal(t, "Damrak, Amsterdam, Nederland", r.Label())
	assert.InDelta(t, 52.3759, r.Center.Lat, 1e-9)
	assert.InDelta(t, 4.8975, r.Center.Lon, 1e-9)
	require.NotNil(t, r.BBox)
	assert.Equal(t, BBox{West: 4.89, South: 52.37, East: 4.90, North: 52.38}, *r.BBox)
	assert.Equal(t, "highway", r.Properties["category"])
}

func TestNominatimServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewNominatimClient(WithEndpoint(srv.URL), WithRateInterval(0))
	_, err := c.Forward(context.Background(), "x", Params{})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Temporary())
}
