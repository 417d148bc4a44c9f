/*
Package geocode defines place results and the forward geocoding contract used by the autocomplete controller.

A Client turns free text into an ordered list of Results. The package ships two HTTP providers
(Mapbox and Nominatim) and a CachingClient that can wrap either of them.

Results are immutable once returned. Callers that need to change a Result copy it first.
*/
package geocode

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strconv"
	"strings"
)

// Source tells where a Result came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// LngLat is a WGS84 coordinate pair.
type LngLat struct {
	Lon float64 `msgpack:"lon" toml:"lon"`
	Lat float64 `msgpack:"lat" toml:"lat"`
}

// BBox is a geographic bounding box in degrees.
type BBox struct {
	West  float64 `msgpack:"w"`
	South float64 `msgpack:"s"`
	East  float64 `msgpack:"e"`
	North float64 `msgpack:"n"`
}

// NewBBox builds a BBox from the [west, south, east, north] order used by GeoJSON.
func NewBBox(v []float64) (*BBox, bool) {
	if len(v) != 4 {
		return nil, false
	}
	b := &BBox{West: v[0], South: v[1], East: v[2], North: v[3]}
	if !b.Valid() {
		return nil, false
	}
	return b, true
}

// Valid reports whether the box has ordered latitudes and in-range coordinates.
func (b BBox) Valid() bool {
	if b.South > b.North {
		return false
	}
	if b.South < -90 || b.North > 90 {
		return false
	}
	return b.West >= -180 && b.West <= 180 && b.East >= -180 && b.East <= 180
}

// Result is a single place candidate.
type Result struct {
	ID         string            `msgpack:"id"`
	PlaceName  string            `msgpack:"name"`
	Text       string            `msgpack:"text,omitempty"`
	Center     LngLat            `msgpack:"center"`
	BBox       *BBox             `msgpack:"bbox,omitempty"`
	Relevance  float64           `msgpack:"rel,omitempty"`
	Source     Source            `msgpack:"src"`
	Properties map[string]string `msgpack:"props,omitempty"`
}

// Label returns the display name, falling back to Text.
func (r Result) Label() string {
	if r.PlaceName != "" {
		return r.PlaceName
	}
	return r.Text
}

// Params carries the request options of a forward geocode call.
// Values are provider specific query parameters (country, proximity, language ...).
type Params struct {
	Limit  int
	Values map[string]string
}

// WithLimit returns a copy of p with Limit replaced.
func (p Params) WithLimit(limit int) Params {
	return Params{Limit: limit, Values: maps.Clone(p.Values)}
}

// Key returns a stable string for caching: limit plus sorted values.
func (p Params) Key() string {
	keys := make([]string, 0, len(p.Values))
	for k := range p.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(strconv.Itoa(p.Limit))
	for _, k := range keys {
		fmt.Fprintf(&b, "&%s=%s", k, p.Values[k])
	}
	return b.String()
}

// Response is the outcome of a successful forward geocode.
type Response struct {
	Query   string
	Results []Result
}

// Client performs forward geocoding.
// Implementations return ctx errors when the context is cancelled before completion.
type Client interface {
	Forward(ctx context.Context, query string, params Params) (*Response, error)
}

// ClientFunc adapts a plain function to Client.
type ClientFunc func(ctx context.Context, query string, params Params) (*Response, error)

// Forward calls f.
func (f ClientFunc) Forward(ctx context.Context, query string, params Params) (*Response, error) {
	return f(ctx, query, params)
}

// LocalGeocoder is a synchronous lookup that never touches the network.
type LocalGeocoder func(query string) []Result
