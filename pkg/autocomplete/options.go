package autocomplete

import (
	"time"

	"github.com/bastiangx/geoserve/pkg/geocode"
	"github.com/bastiangx/geoserve/pkg/viewport"
	"github.com/charmbracelet/log"
)

const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultLimit     = 5
	DefaultPointZoom = 16.0
)

// Options configures a Controller.
type Options struct {
	// Client performs remote lookups. Required unless LocalOnly.
	Client geocode.Client
	// LocalGeocoder is consulted first on every dispatch.
	LocalGeocoder geocode.LocalGeocoder
	// QueryParams are merged into every remote request.
	QueryParams map[string]string

	Debounce           time.Duration
	Limit              int
	LocalOnly          bool
	PointZoom          float64
	TransitionDuration time.Duration
	HideOnSelect       bool

	// Viewport is the initial projection base; see Controller.SetViewport.
	Viewport viewport.Viewport

	FormatInputItem func(geocode.Result) string
	FormatListItem  func(geocode.Result) string

	// OnSelect receives the target viewport and the chosen result. Required.
	OnSelect func(viewport.Viewport, geocode.Result)
	// OnChange receives a snapshot after every asynchronous state change.
	OnChange func(SearchState)
	// OnError receives remote failures. They are also kept in SearchState.Err.
	OnError func(query string, err error)

	Clock  Clock
	Logger *log.Logger
}

// DefaultOptions returns the stock settings: 300ms debounce, 5 results, zoom 16.
func DefaultOptions() Options {
	return Options{
		Debounce:        DefaultDebounce,
		Limit:           DefaultLimit,
		PointZoom:       DefaultPointZoom,
		FormatInputItem: formatPlaceName,
		FormatListItem:  formatPlaceName,
	}
}

func formatPlaceName(r geocode.Result) string {
	return r.Label()
}

// Validate checks the options without modifying them.
func (o Options) Validate() error {
	if o.Limit <= 0 {
		return ErrInvalidLimit
	}
	if o.OnSelect == nil {
		return ErrMissingSelectHandler
	}
	if o.Client == nil && !o.LocalOnly {
		return ErrMissingClient
	}
	if o.Debounce < 0 {
		return ErrInvalidDebounce
	}
	if o.PointZoom < 0 || o.PointZoom > viewport.MaxZoom {
		return ErrInvalidZoom
	}
	return nil
}

func (o *Options) fillDefaults() {
	if o.FormatInputItem == nil {
		o.FormatInputItem = formatPlaceName
	}
	if o.FormatListItem == nil {
		o.FormatListItem = formatPlaceName
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Logger == nil {
		o.Logger = log.Default().WithPrefix("autocomplete")
	}
}
