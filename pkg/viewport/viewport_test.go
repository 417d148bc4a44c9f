package viewport

import (
	"math"
	"testing"
	"time"

	"github.com/bastiangx/geoserve/pkg/geocode"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func TestProjectBBoxFitsBox(t *testing.T) {
	current := Viewport{Longitude: 50, Latitude: 50, Zoom: 2, Width: 800, Height: 600, Bearing: 10}
	r := geocode.Result{
		Center: geocode.LngLat{Lon: 1, Lat: 1},
		BBox:   &geocode.BBox{West: -10, South: -10, East: 10, North: 10},
	}

	vp := Project(current, r, 16, 250*time.Millisecond)

	if !near(vp.Longitude, 0) || !near(vp.Latitude, 0) {
		t.Fatalf("center = (%f, %f), want box center", vp.Longitude, vp.Latitude)
	}
	if vp.Zoom <= 3 || vp.Zoom >= 5 {
		t.Fatalf("zoom = %f, want between 3 and 5", vp.Zoom)
	}
	if vp.TransitionDuration != 250*time.Millisecond {
		t.Errorf("transition = %v", vp.TransitionDuration)
	}

	// untouched fields
	if vp.Width != 800 || vp.Height != 600 || vp.Bearing != 10 {
		t.Errorf("size or bearing changed: %+v", vp)
	}

	for _, c := range [][2]float64{{-10, -10}, {-10, 10}, {10, -10}, {10, 10}} {
		if !vp.Contains(c[0], c[1]) {
			t.Errorf("corner %v not visible", c)
		}
	}

	// one zoom level deeper would crop the box
	tighter := vp
	tighter.Zoom += 1
	if tighter.Contains(10, 10) {
		t.Error("box still fits one level deeper")
	}
}

func TestProjectPointUsesPointZoom(t *testing.T) {
	current := Viewport{Longitude: -3, Latitude: 40, Zoom: 3, Width: 400, Height: 300, Pitch: 30}
	r := geocode.Result{Center: geocode.LngLat{Lon: 5, Lat: 5}}

	vp := Project(current, r, 16, 0)

	want := Viewport{Longitude: 5, Latitude: 5, Zoom: 16, Width: 400, Height: 300, Pitch: 30}
	if vp != want {
		t.Fatalf("Project() = %+v, want %+v", vp, want)
	}
}

func TestProjectZeroSizeViewportFallsBack(t *testing.T) {
	r := geocode.Result{BBox: &geocode.BBox{West: -10, South: -10, East: 10, North: 10}}
	vp := Project(Viewport{}, r, 16, 0)

	lng, lat, zoom := FitBounds(512, 512, -10, -10, 10, 10, FitOptions{})
	if !near(lng, vp.Longitude) || !near(lat, vp.Latitude) || !near(zoom, vp.Zoom) {
		t.Fatalf("Project() = %+v, want fit on 512x512 (%f, %f, %f)", vp, lng, lat, zoom)
	}
}

func TestFitBoundsDegenerateBoxCapsZoom(t *testing.T) {
	lng, lat, zoom := FitBounds(800, 600, 13.4, 52.5, 13.4, 52.5, FitOptions{})
	if zoom != MaxZoom {
		t.Errorf("zoom = %f, want %f", zoom, MaxZoom)
	}
	if !near(lng, 13.4) || !near(lat, 52.5) {
		t.Errorf("center = (%f, %f)", lng, lat)
	}

	_, _, zoom = FitBounds(800, 600, 13.4, 52.5, 13.4, 52.5, FitOptions{MaxZoom: 18})
	if zoom != 18 {
		t.Errorf("zoom = %f, want 18", zoom)
	}
}

func TestFitBoundsPaddingZoomsOut(t *testing.T) {
	_, _, plain := FitBounds(800, 600, -10, -10, 10, 10, FitOptions{})
	_, _, padded := FitBounds(800, 600, -10, -10, 10, 10, FitOptions{Padding: 100})
	if padded >= plain {
		t.Fatalf("padded zoom %f not below %f", padded, plain)
	}
}

func TestWorldRoundTrip(t *testing.T) {
	for _, c := range [][2]float64{{0, 0}, {13.4, 52.5}, {-122.42, 37.77}, {151.2, -33.86}} {
		x, y := lngLatToWorld(c[0], c[1])
		lng, lat := worldToLngLat(x, y)
		if !near(c[0], lng) || !near(c[1], lat) {
			t.Errorf("round trip of %v gave (%f, %f)", c, lng, lat)
		}
	}
	if got := WorldSize(1); got != 1024 {
		t.Errorf("WorldSize(1) = %f, want 1024", got)
	}
}
