package geo

import (
	"errors"
	"math"
)

const earthRadiusMeters = 6371000.0

// BBox is a lon/lat axis-aligned bounding box.
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Valid reports whether the box has non-inverted extents within lon/lat range.
func (b BBox) Valid() bool {
	return b.MinLon <= b.MaxLon && b.MinLat <= b.MaxLat &&
		b.MinLon >= -180 && b.MaxLon <= 180 &&
		b.MinLat >= -90 && b.MaxLat <= 90
}

// Intersects reports whether the two boxes overlap or touch.
func (b BBox) Intersects(o BBox) bool {
	return b.MinLon <= o.MaxLon && o.MinLon <= b.MaxLon &&
		b.MinLat <= o.MaxLat && o.MinLat <= b.MaxLat
}

// Bounds computes the bounding box over every vertex of the feature. It
// fails when the raw coordinates do not decode, which Decode deliberately
// does not rule out.
func (f Feature) Bounds() (BBox, error) {
	rings, err := f.rings()
	if err != nil {
		return BBox{}, err
	}
	b := BBox{MinLon: math.Inf(1), MinLat: math.Inf(1), MaxLon: math.Inf(-1), MaxLat: math.Inf(-1)}
	count := 0
	for _, ring := range rings {
		for _, pos := range ring {
			if len(pos) < 2 {
				continue
			}
			lon, lat := pos[0], pos[1]
			b.MinLon = math.Min(b.MinLon, lon)
			b.MaxLon = math.Max(b.MaxLon, lon)
			b.MinLat = math.Min(b.MinLat, lat)
			b.MaxLat = math.Max(b.MaxLat, lat)
			count++
		}
	}
	if count == 0 {
		return BBox{}, errors.New("geo: feature has no coordinates")
	}
	return b, nil
}

// Centroid returns the vertex average of the outer rings. Good enough for
// nearby-distance ranking of small areas of interest; not a true area
// centroid.
func (f Feature) Centroid() (lat, lon float64, err error) {
	outers, err := f.outerRings()
	if err != nil {
		return 0, 0, err
	}
	var sumLon, sumLat float64
	count := 0
	for _, ring := range outers {
		// Skip the closing vertex when the ring is explicitly closed.
		n := len(ring)
		if n > 1 && len(ring[0]) >= 2 && len(ring[n-1]) >= 2 &&
			ring[0][0] == ring[n-1][0] && ring[0][1] == ring[n-1][1] {
			n--
		}
		for _, pos := range ring[:n] {
			if len(pos) < 2 {
				continue
			}
			sumLon += pos[0]
			sumLat += pos[1]
			count++
		}
	}
	if count == 0 {
		return 0, 0, errors.New("geo: feature has no coordinates")
	}
	return sumLat / float64(count), sumLon / float64(count), nil
}

// ApproxAreaKm2 computes the planar shoelace area of the outer rings on an
// equirectangular projection anchored at the feature's mean latitude. The
// error is negligible for the neighborhood-to-city sized areas users draw.
func (f Feature) ApproxAreaKm2() (float64, error) {
	outers, err := f.outerRings()
	if err != nil {
		return 0, err
	}
	midLat, _, err := f.Centroid()
	if err != nil {
		return 0, err
	}
	cosLat := math.Cos(midLat * math.Pi / 180)
	metersPerDegree := earthRadiusMeters * math.Pi / 180

	var total float64
	for _, ring := range outers {
		var sum float64
		n := len(ring)
		for i := 0; i < n; i++ {
			p, q := ring[i], ring[(i+1)%n]
			if len(p) < 2 || len(q) < 2 {
				return 0, errors.New("geo: malformed ring coordinate")
			}
			xi, yi := p[0]*cosLat*metersPerDegree, p[1]*metersPerDegree
			xj, yj := q[0]*cosLat*metersPerDegree, q[1]*metersPerDegree
			sum += xi*yj - xj*yi
		}
		total += math.Abs(sum) / 2
	}
	return total / 1e6, nil
}

// HaversineMeters returns the great-circle distance between two lat/lon
// points.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := math.Pi / 180
	dLat := (lat2 - lat1) * toRad
	dLon := (lon2 - lon1) * toRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*toRad)*math.Cos(lat2*toRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
