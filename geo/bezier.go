package geo

import "github.com/paulmach/orb"

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// PointOnSimpleCurve evaluates a quadratic bezier at t in [0,1] by repeated
// interpolation.
func PointOnSimpleCurve(start, control, end orb.Point, t float64) orb.Point {
	xa := lerp(start[0], control[0], t)
	ya := lerp(start[1], control[1], t)
	xb := lerp(control[0], end[0], t)
	yb := lerp(control[1], end[1], t)
	return orb.Point{lerp(xa, xb, t), lerp(ya, yb, t)}
}

// SubdivideSimpleCurve subdivides a quadratic bezier into segments straight
// pieces. The first output point is the literal start point; the remaining
// points are samples at t = i/segments.
func SubdivideSimpleCurve(start, control, end orb.Point, segments int) []orb.Point {
	out := make([]orb.Point, 0, segments+1)
	out = append(out, start)

	for i := 1; i <= segments; i++ {
		t := float64(i) / float64(segments)
		out = append(out, PointOnSimpleCurve(start, control, end, t))
	}
	return out
}

// MeasureSimpleCurve approximates the planar length of a quadratic bezier by
// subdividing it and summing the segment lengths.
func MeasureSimpleCurve(start, control, end orb.Point, segments int) float64 {
	return polylineLength(SubdivideSimpleCurve(start, control, end, segments))
}

// MeasureSimpleCurveWorld is MeasureSimpleCurve measured with WorldDistance,
// for curves whose points are lon/lat degrees.
func MeasureSimpleCurveWorld(start, control, end orb.Point, segments int) float64 {
	return polylineLengthWorld(SubdivideSimpleCurve(start, control, end, segments))
}

// PointOnBezier evaluates a cubic bezier at t in [0,1] using the Bernstein
// form. startControl is the start point's exit control, endControl the end
// point's entry control.
func PointOnBezier(start, startControl, end, endControl orb.Point, t float64) orb.Point {
	u := 1 - t
	x := u*u*u*start[0] + 3*u*u*t*startControl[0] + 3*u*t*t*endControl[0] + t*t*t*end[0]
	y := u*u*u*start[1] + 3*u*u*t*startControl[1] + 3*u*t*t*endControl[1] + t*t*t*end[1]
	return orb.Point{x, y}
}

// SubdivideBezierCurve subdivides a cubic bezier into numSegments straight
// pieces. The first output point is the literal start point; the remaining
// points are samples at t = i/numSegments.
func SubdivideBezierCurve(start, startControl, end, endControl orb.Point, numSegments int) []orb.Point {
	out := make([]orb.Point, 0, numSegments+1)
	out = append(out, start)

	for i := 1; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		out = append(out, PointOnBezier(start, startControl, end, endControl, t))
	}
	return out
}

// MeasureBezierCurve approximates the planar length of a cubic bezier by
// subdividing it and summing the segment lengths.
func MeasureBezierCurve(start, startControl, end, endControl orb.Point, numSegments int) float64 {
	return polylineLength(SubdivideBezierCurve(start, startControl, end, endControl, numSegments))
}

// MeasureBezierCurveWorld is MeasureBezierCurve measured with WorldDistance,
// for curves whose points are lon/lat degrees.
func MeasureBezierCurveWorld(start, startControl, end, endControl orb.Point, numSegments int) float64 {
	return polylineLengthWorld(SubdivideBezierCurve(start, startControl, end, endControl, numSegments))
}

func polylineLength(pts []orb.Point) float64 {
	var length float64
	for i := 0; i+1 < len(pts); i++ {
		length += Distance(pts[i][0], pts[i][1], pts[i+1][0], pts[i+1][1])
	}
	return length
}

func polylineLengthWorld(pts []orb.Point) float64 {
	var length float64
	for i := 0; i+1 < len(pts); i++ {
		length += WorldDistance(pts[i][1], pts[i][0], pts[i+1][1], pts[i+1][0])
	}
	return length
}
