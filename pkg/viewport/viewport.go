// Package viewport turns a chosen place into the map view that should show it.
package viewport

import (
	"fmt"
	"time"

	"github.com/bastiangx/geoserve/pkg/geocode"
)

// Viewport is the map camera consumed by the view layer.
type Viewport struct {
	Longitude          float64
	Latitude           float64
	Zoom               float64
	Bearing            float64
	Pitch              float64
	Width              int
	Height             int
	TransitionDuration time.Duration
}

func (v Viewport) String() string {
	return fmt.Sprintf("%.5f,%.5f z%.2f", v.Longitude, v.Latitude, v.Zoom)
}

// size returns the pixel dimensions used for fitting, 512x512 when unset.
func (v Viewport) size() (float64, float64) {
	w, h := v.Width, v.Height
	if w <= 0 {
		w = defaultSize
	}
	if h <= 0 {
		h = defaultSize
	}
	return float64(w), float64(h)
}

// Project computes the viewport for r on top of current.
// Results with a bounding box are fitted into current's dimensions,
// others are centered at pointZoom. Only longitude, latitude, zoom and
// transition duration are replaced.
func Project(current Viewport, r geocode.Result, pointZoom float64, transition time.Duration) Viewport {
	next := current
	next.TransitionDuration = transition

	if r.BBox != nil {
		w, h := current.size()
		b := r.BBox
		next.Longitude, next.Latitude, next.Zoom = FitBounds(w, h, b.West, b.South, b.East, b.North, FitOptions{})
		return next
	}

	next.Longitude = r.Center.Lon
	next.Latitude = r.Center.Lat
	next.Zoom = pointZoom
	return next
}

// Contains reports whether the lng/lat point falls inside v's pixel area.
func (v Viewport) Contains(lng, lat float64) bool {
	w, h := v.size()
	cx, cy := Pixel(v.Longitude, v.Latitude, v.Zoom)
	px, py := Pixel(lng, lat, v.Zoom)
	const eps = 1e-6
	return px >= cx-w/2-eps && px <= cx+w/2+eps && py >= cy-h/2-eps && py <= cy+h/2+eps
}
