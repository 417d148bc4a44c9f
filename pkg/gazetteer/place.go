package gazetteer

import (
	"fmt"

	"github.com/bastiangx/geoserve/pkg/geocode"
)

// Place is one gazetteer record as stored on disk.
type Place struct {
	ID       string    `toml:"id" msgpack:"id"`
	Name     string    `toml:"name" msgpack:"n"`
	AltNames []string  `toml:"alt_names" msgpack:"a,omitempty"`
	Label    string    `toml:"label" msgpack:"l,omitempty"`
	Lon      float64   `toml:"lon" msgpack:"x"`
	Lat      float64   `toml:"lat" msgpack:"y"`
	BBox     []float64 `toml:"bbox" msgpack:"b,omitempty"` // west, south, east, north
	Rank     int       `toml:"rank" msgpack:"r"`
}

// Validate reports the first problem with p.
func (p Place) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("place %q: missing name", p.ID)
	}
	if p.Lon < -180 || p.Lon > 180 || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("place %q: coordinates %.5f,%.5f out of range", p.Name, p.Lon, p.Lat)
	}
	if len(p.BBox) > 0 {
		if _, ok := geocode.NewBBox(p.BBox); !ok {
			return fmt.Errorf("place %q: invalid bbox %v", p.Name, p.BBox)
		}
	}
	return nil
}

// Result converts p into a local geocode.Result.
func (p Place) Result() geocode.Result {
	label := p.Label
	if label == "" {
		label = p.Name
	}
	r := geocode.Result{
		ID:        p.ID,
		PlaceName: label,
		Text:      p.Name,
		Center:    geocode.LngLat{Lon: p.Lon, Lat: p.Lat},
		Relevance: 1,
		Source:    geocode.SourceLocal,
	}
	if b, ok := geocode.NewBBox(p.BBox); ok {
		r.BBox = b
	}
	return r
}
