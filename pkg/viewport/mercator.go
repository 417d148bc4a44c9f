package viewport

import "math"

const (
	// TileSize is the world size in pixels at zoom 0.
	TileSize = 512.0
	// MaxZoom caps every computed zoom level.
	MaxZoom = 24.0
	// MaxLatitude is the Web Mercator latitude limit.
	MaxLatitude = 85.051129

	defaultSize = 512
)

// FitOptions tunes FitBounds.
type FitOptions struct {
	Padding   float64 // pixels kept free on every side
	MaxZoom   float64 // 0 means MaxZoom
	MinExtent float64 // minimum box size in world pixels, avoids infinite zoom on points
}

// lngLatToWorld projects to world pixels at zoom 0 (y grows southward).
func lngLatToWorld(lng, lat float64) (float64, float64) {
	lambda := lng * math.Pi / 180
	phi := clamp(lat, -MaxLatitude, MaxLatitude) * math.Pi / 180
	x := TileSize * (lambda + math.Pi) / (2 * math.Pi)
	y := TileSize * (math.Pi - math.Log(math.Tan(math.Pi/4+phi*0.5))) / (2 * math.Pi)
	return x, y
}

// worldToLngLat is the inverse of lngLatToWorld.
func worldToLngLat(x, y float64) (float64, float64) {
	lambda := x/TileSize*(2*math.Pi) - math.Pi
	phi := 2 * (math.Atan(math.Exp(math.Pi-y/TileSize*(2*math.Pi))) - math.Pi/4)
	return lambda * 180 / math.Pi, phi * 180 / math.Pi
}

// FitBounds returns the center and zoom at which box [west,south]-[east,north]
// is fully visible in a width x height pixel viewport.
func FitBounds(width, height float64, west, south, east, north float64, opts FitOptions) (lng, lat, zoom float64) {
	maxZoom := opts.MaxZoom
	if maxZoom <= 0 {
		maxZoom = MaxZoom
	}

	nwX, nwY := lngLatToWorld(west, north)
	seX, seY := lngLatToWorld(east, south)

	sizeX := math.Max(math.Abs(seX-nwX), opts.MinExtent)
	sizeY := math.Max(math.Abs(seY-nwY), opts.MinExtent)

	targetX := width - 2*opts.Padding
	targetY := height - 2*opts.Padding
	if targetX <= 0 || targetY <= 0 {
		targetX, targetY = width, height
	}

	scale := math.Min(targetX/sizeX, targetY/sizeY)
	zoom = math.Min(maxZoom, math.Log2(math.Abs(scale)))

	lng, lat = worldToLngLat((nwX+seX)/2, (nwY+seY)/2)
	return lng, lat, zoom
}

// WorldSize returns the world width in pixels at zoom.
func WorldSize(zoom float64) float64 {
	return TileSize * math.Pow(2, zoom)
}

// Pixel projects lng/lat to absolute world pixels at zoom.
func Pixel(lng, lat, zoom float64) (float64, float64) {
	x, y := lngLatToWorld(lng, lat)
	scale := math.Pow(2, zoom)
	return x * scale, y * scale
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
