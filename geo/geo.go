// Package geo provides the planar and geographic math used by the scenery
// pipeline: great-circle distances, X-Plane style headings (clockwise,
// 0 = north/+Y), point rotation and extrusion, segment intersection, and
// bezier curve evaluation.
//
// All functions are pure. Degenerate geometric configurations are reported
// with a false/-1 sentinel rather than an error.
package geo

import "math"

// EarthRadius is the radius, in meters, used for all world-distance math.
const EarthRadius = 6372797.56085

const degToRad = math.Pi / 180.0

// WorldDistance returns the haversine great-circle distance in meters
// between two lat/lon coordinates in decimal degrees.
func WorldDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1 *= degToRad
	lon1 *= degToRad
	lat2 *= degToRad
	lon2 *= degToRad

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadius * c
}

// WorldOffset displaces a lat/lon coordinate by dx/dy meters (east/north).
// Small-displacement approximation; not valid for large offsets or near the
// poles.
func WorldOffset(lat, lon, dx, dy float64) (newLat, newLon float64) {
	dLat := dy / EarthRadius
	dLon := dx / (EarthRadius * math.Cos(math.Pi*lat/180))

	newLat = lat + dLat*180/math.Pi
	newLon = lon + dLon*180/math.Pi
	return newLat, newLon
}

// WorldHeading returns the bearing in degrees [0,360) from the first lat/lon
// coordinate to the second, with longitude-wrap correction.
func WorldHeading(lat1, lon1, lat2, lon2 float64) float64 {
	lat1 *= degToRad
	lon1 *= degToRad
	lat2 *= degToRad
	lon2 *= degToRad

	dLon := lon2 - lon1
	dPhi := math.Log(math.Tan(lat2/2+math.Pi/4) / math.Tan(lat1/2+math.Pi/4))

	if math.Abs(dLon) > math.Pi {
		if dLon > 0 {
			dLon = -(2*math.Pi - dLon)
		} else {
			dLon = 2*math.Pi + dLon
		}
	}

	return math.Mod(math.Atan2(dLon, dPhi)*(180/math.Pi)+360, 360)
}

// Heading returns the planar heading in degrees [0,360) from (x1,y1) to
// (x2,y2). Clockwise, 0 = +Y.
func Heading(x1, y1, x2, y2 float64) float64 {
	h := 90 - math.Atan2(y2-y1, x2-x1)*180/math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

// Distance returns the planar Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Pitch returns the pitch angle in degrees for a given rise over run.
// A non-positive run yields 0.
func Pitch(rise, run float64) float64 {
	if run <= 0 {
		return 0
	}
	return math.Atan(rise/run) * 180 / math.Pi
}

// RotatePoint rotates (x,y) clockwise by angle degrees about (cx,cy).
// Note the clockwise convention (newX picks up +y·sin); the bezier point
// codec depends on this exact form.
func RotatePoint(x, y, cx, cy, angle float64) (newX, newY float64) {
	rad := angle * degToRad

	x -= cx
	y -= cy

	newX = x*math.Cos(rad) + y*math.Sin(rad)
	newY = y*math.Cos(rad) - x*math.Sin(rad)

	return newX + cx, newY + cy
}

// ExtrudePoint returns the point dist units from (cx,cy) along the given
// heading. Clockwise, 0 = +Y.
func ExtrudePoint(cx, cy, dist, angle float64) (x, y float64) {
	return RotatePoint(cx, cy+dist, cx, cy, angle)
}

// IntersectRays finds the intersection of two infinite rays given by a point
// and a heading each. Returns false when the rays are parallel.
func IntersectRays(x1, y1, heading1, x2, y2, heading2 float64) (x, y float64, ok bool) {
	m1 := math.Tan(math.Pi/2 - heading1*degToRad)
	m2 := math.Tan(math.Pi/2 - heading2*degToRad)

	if math.Abs(m1-m2) < 1e-9 {
		return 0, 0, false
	}

	x = (m1*x1 - m2*x2 + y2 - y1) / (m1 - m2)
	y = m1*(x-x1) + y1
	return x, y, true
}

// Intersection returns the intersection point of the segments (x1,y1)-(x2,y2)
// and (x3,y3)-(x4,y4). Returns false when the segments do not cross within
// their extents.
func Intersection(x1, y1, x2, y2, x3, y3, x4, y4 float64) (x, y float64, ok bool) {
	adx := x2 - x1
	ady := y2 - y1
	bdx := x4 - x3
	bdy := y4 - y3

	denom := -bdx*ady + adx*bdy
	s := (-ady*(x1-x3) + adx*(y1-y3)) / denom
	t := (bdx*(y1-y3) - bdy*(x1-x3)) / denom

	if s >= 0 && s <= 1 && t >= 0 && t <= 1 {
		return x1 + t*adx, y1 + t*ady, true
	}
	return 0, 0, false
}

// AreParallel reports whether the headings of two segments agree within
// tolerance degrees.
func AreParallel(x1, y1, x2, y2, x3, y3, x4, y4, tolerance float64) bool {
	h1 := Heading(x1, y1, x2, y2)
	h2 := Heading(x3, y3, x4, y4)
	return math.Abs(h1-h2) < tolerance
}

// DistanceBetweenParallels measures from the midpoint of the first segment,
// perpendicular to it, to the second segment. Probes maxDistance to either
// side; returns -1 when the perpendicular never reaches the second segment.
func DistanceBetweenParallels(x1, y1, x2, y2, x3, y3, x4, y4, maxDistance float64) float64 {
	h := Heading(x1, y1, x2, y2)
	cx := (x1 + x2) / 2
	cy := (y1 + y2) / 2

	px1, py1 := ExtrudePoint(cx, cy, maxDistance, h+90)
	px2, py2 := ExtrudePoint(cx, cy, maxDistance, h-90)

	if ix, iy, ok := Intersection(px1, py1, px2, py2, x3, y3, x4, y4); ok {
		return Distance(cx, cy, ix, iy)
	}
	return -1
}

// ResolveHeading wraps a heading into [0,360).
func ResolveHeading(heading float64) float64 {
	for heading > 360 {
		heading -= 360
	}
	for heading < 0 {
		heading += 360
	}
	return heading
}

// AverageHeading returns the vector average of two headings in degrees.
func AverageHeading(heading1, heading2 float64) float64 {
	x := math.Cos(heading1*degToRad) + math.Cos(heading2*degToRad)
	y := math.Sin(heading1*degToRad) + math.Sin(heading2*degToRad)
	avg := math.Atan2(y, x) * 180 / math.Pi
	if avg < 0 {
		avg += 360
	}
	return avg
}
