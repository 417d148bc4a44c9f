package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultMapboxEndpoint is the mapbox.places forward geocoding base URL.
const DefaultMapboxEndpoint = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// MapboxClient talks to the Mapbox forward geocoding API.
type MapboxClient struct {
	token string
	http  *httpTransport
}

// NewMapboxClient creates a client authenticated with the given access token.
func NewMapboxClient(token string, opts ...Option) *MapboxClient {
	return &MapboxClient{
		token: token,
		http:  newTransport("mapbox", DefaultMapboxEndpoint, opts),
	}
}

type mapboxFeature struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	PlaceName  string         `json:"place_name"`
	Relevance  float64        `json:"relevance"`
	Center     []float64      `json:"center"`
	BBox       []float64      `json:"bbox"`
	PlaceType  []string       `json:"place_type"`
	Properties map[string]any `json:"properties"`
}

type mapboxResponse struct {
	Features []mapboxFeature `json:"features"`
}

// Forward geocodes query. Params.Values are passed through as query parameters.
func (c *MapboxClient) Forward(ctx context.Context, query string, params Params) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	values := url.Values{}
	for k, v := range params.Values {
		values.Set(k, v)
	}
	values.Set("access_token", c.token)
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}

	reqURL := fmt.Sprintf("%s/%s.json?%s", strings.TrimRight(c.http.endpoint, "/"), url.PathEscape(query), values.Encode())

	body, err := c.http.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var raw mapboxResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode mapbox payload: %w", err)
	}

	results := make([]Result, 0, len(raw.Features))
	for _, f := range raw.Features {
		r, ok := mapboxResult(f)
		if !ok {
			continue
		}
		results = append(results, r)
	}
	return &Response{Query: query, Results: results}, nil
}

func mapboxResult(f mapboxFeature) (Result, bool) {
	if len(f.Center) != 2 {
		return Result{}, false
	}
	r := Result{
		ID:        f.ID,
		PlaceName: f.PlaceName,
		Text:      f.Text,
		Center:    LngLat{Lon: f.Center[0], Lat: f.Center[1]},
		Relevance: f.Relevance,
		Source:    SourceRemote,
	}
	if b, ok := NewBBox(f.BBox); ok {
		r.BBox = b
	}
	if len(f.Properties) > 0 || len(f.PlaceType) > 0 {
		r.Properties = make(map[string]string, len(f.Properties)+1)
		for k, v := range f.Properties {
			r.Properties[k] = fmt.Sprint(v)
		}
		if len(f.PlaceType) > 0 {
			r.Properties["place_type"] = strings.Join(f.PlaceType, ",")
		}
	}
	return r, true
}
