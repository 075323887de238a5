package geom

import "math"

// TileSize is the edge length of a web map tile in pixels.
const TileSize = 256

// Mercator projects a latitude and longitude to global pixel coordinates at
// the given map zoom level.
func Mercator(lat, lng, zoom float64) Point {
	scale := TileSize * math.Exp2(zoom)
	sin := math.Sin(clamp(lat, -85.05112878, 85.05112878) * math.Pi / 180)
	x := (lng + 180) / 360 * scale
	y := (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return Point{x, y}
}

// InverseMercator converts global pixel coordinates back to latitude and
// longitude.
func InverseMercator(p Point, zoom float64) (lat, lng float64) {
	scale := TileSize * math.Exp2(zoom)
	lng = p.X/scale*360 - 180
	n := math.Pi - 2*math.Pi*p.Y/scale
	lat = 180 / math.Pi * math.Atan(math.Sinh(n))
	return lat, lng
}
