package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultNominatimEndpoint is the public OSM Nominatim instance.
const DefaultNominatimEndpoint = "https://nominatim.openstreetmap.org"

// NominatimClient talks to an OSM Nominatim search endpoint.
type NominatimClient struct {
	http *httpTransport
}

// NewNominatimClient creates a Nominatim client. The public instance asks for
// an identifying User-Agent and at most one request per second.
func NewNominatimClient(opts ...Option) *NominatimClient {
	return &NominatimClient{http: newTransport("nominatim", DefaultNominatimEndpoint, opts)}
}

// nominatimPlace mirrors the relevant parts of the jsonv2 search payload.
type nominatimPlace struct {
	PlaceID     int64    `json:"place_id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	BoundingBox []string `json:"boundingbox"`
	Importance  float64  `json:"importance"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
}

// Forward geocodes query against /search.
func (c *NominatimClient) Forward(ctx context.Context, query string, params Params) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	values := url.Values{}
	for k, v := range params.Values {
		values.Set(k, v)
	}
	values.Set("q", query)
	values.Set("format", "jsonv2")
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}

	reqURL := fmt.Sprintf("%s/search?%s", strings.TrimRight(c.http.endpoint, "/"), values.Encode())

	body, err := c.http.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var raw []nominatimPlace
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode nominatim payload: %w", err)
	}

	results := make([]Result, 0, len(raw))
	for _, p := range raw {
		r, ok := nominatimResult(p)
		if !ok {
			continue
		}
		results = append(results, r)
	}
	return &Response{Query: query, Results: results}, nil
}

func nominatimResult(p nominatimPlace) (Result, bool) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Result{}, false
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Result{}, false
	}

	r := Result{
		ID:        "osm." + strconv.FormatInt(p.PlaceID, 10),
		PlaceName: p.DisplayName,
		Text:      p.Name,
		Center:    LngLat{Lon: lon, Lat: lat},
		Relevance: p.Importance,
		Source:    SourceRemote,
	}
	if p.Category != "" || p.Type != "" {
		r.Properties = map[string]string{"category": p.Category, "type": p.Type}
	}

	// boundingbox is [south, north, west, east] as strings.
	if len(p.BoundingBox) == 4 {
		var v [4]float64
		for i, s := range p.BoundingBox {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return r, true
			}
			v[i] = f
		}
		if b, ok := NewBBox([]float64{v[2], v[0], v[3], v[1]}); ok {
			r.BBox = b
		}
	}
	return r, true
}
