package dsf

import (
	"github.com/paulmach/orb"

	"github.com/scenery-tools/xpdsf/geo"
)

// This file implements the conversion between the native bezier form of a
// winding and X-Plane's packed point encoding.
//
// The encoding stores at most one explicit control point per physical
// POLYGON_POINT, in the U/V slot, and uses colocation of consecutive points
// to express the remaining cases:
//
//   - three consecutive colocated points: entry control (U/V, mirrored 180°
//     about the anchor), the anchor itself, exit control (U/V as-is)
//   - two consecutive colocated points: one handle; the point whose U/V
//     equals its own X/Y is the anchor, the other is the handle
//   - a single point whose U/V differs from X/Y: symmetric handles, the
//     stored U/V is the exit control and the entry control is its 180°
//     mirror
//   - a single point with U/V equal to X/Y: no handles
//
// On closed windings the entry control of the first point is stored as the
// last point in file order.

// SubdivideBezierSpan subdivides the curve between two bezier nodes into
// numSegments straight pieces. Absent controls are treated as coincident
// with the nearest anchor. The first and last output nodes carry the
// CurveStart/CurveEnd flags unless the span is a straight line.
func SubdivideBezierSpan(start, end BezierNode, numSegments int) []Node {
	if !start.HasExitControl && !end.HasEntryControl {
		n1 := Node{X: start.Point.X, Y: start.Point.Y, Properties: start.Point.Properties}
		n2 := Node{X: end.Point.X, Y: end.Point.Y, Properties: end.Point.Properties}
		return []Node{n1, n2}
	}

	exit := orb.Point{start.Point.X, start.Point.Y}
	if start.HasExitControl {
		exit = orb.Point{start.ExitControl.X, start.ExitControl.Y}
	}
	entry := orb.Point{end.Point.X, end.Point.Y}
	if end.HasEntryControl {
		entry = orb.Point{end.EntryControl.X, end.EntryControl.Y}
	}

	p0 := orb.Point{start.Point.X, start.Point.Y}
	p1 := orb.Point{end.Point.X, end.Point.Y}

	verts := make([]Node, 0, numSegments+1)
	verts = append(verts, Node{X: start.Point.X, Y: start.Point.Y})

	for i := 1; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		p := geo.PointOnBezier(p0, exit, p1, entry, t)
		verts = append(verts, Node{
			X:          p[0],
			Y:          p[1],
			Z:          start.Point.Z,
			Properties: start.Point.Properties,
		})
	}

	verts[0].CurveStart = true
	verts[len(verts)-1].CurveEnd = true
	return verts
}

// VertsToBezierNodes decodes a point list in the X-Plane encoding into
// bezier nodes with explicit controls.
func VertsToBezierNodes(verts []Node, closed bool) []BezierNode {
	if len(verts) == 0 {
		return nil
	}

	// Work on a copy; the closed-winding rotation below must not be
	// visible to the caller.
	vs := make([]Node, len(verts))
	copy(vs, verts)

	// On a closed line the last point in file order is the entry control
	// of the first; rotate it to the front.
	if closed && vs[0].Colocated(vs[len(vs)-1]) {
		last := vs[len(vs)-1]
		copy(vs[1:], vs[:len(vs)-1])
		vs[0] = last
	}

	nodes := make([]BezierNode, 0, len(vs))

	for i := 0; i < len(vs); i++ {
		v := vs[i]
		vn := vs[(i+1)%len(vs)]
		vnn := vs[(i+2)%len(vs)]

		bp := NewBezierNode(v)

		switch {
		// Two independent handles: entry control, anchor, exit control.
		case v.Colocated(vn) && v.Colocated(vnn):
			ex, ey := geo.RotatePoint(v.U, v.V, vn.X, vn.Y, 180)
			bp.HasEntryControl = true
			bp.HasExitControl = true
			bp.EntryControl = Node{X: ex, Y: ey, Properties: v.Properties}
			bp.ExitControl = Node{X: vnn.U, Y: vnn.V, Properties: vnn.Properties}
			bp.Point.X = vn.X
			bp.Point.Y = vn.Y
			i += 2

		// One handle; pick out the anchor by whose U/V matches its own
		// position.
		case v.Colocated(vn):
			if v.U == v.X && v.V == v.Y {
				bp.HasExitControl = true
				bp.ExitControl = Node{X: vn.U, Y: vn.V, Properties: vn.Properties}
				bp.Point.X = v.X
				bp.Point.Y = v.Y
			} else {
				ex, ey := geo.RotatePoint(v.U, v.V, v.X, v.Y, 180)
				bp.HasEntryControl = true
				bp.EntryControl = Node{X: ex, Y: ey, Properties: v.Properties}
				bp.Point.X = vn.X
				bp.Point.Y = vn.Y
			}
			i++

		// Symmetric handles: stored U/V is the exit, the entry is its
		// mirror about the point.
		case v.X != v.U || v.Y != v.V:
			ex, ey := geo.RotatePoint(v.U, v.V, v.X, v.Y, 180)
			bp.HasEntryControl = true
			bp.HasExitControl = true
			bp.EntryControl = Node{X: ex, Y: ey, Properties: v.Properties}
			bp.ExitControl = Node{X: v.U, Y: v.V, Properties: v.Properties}

		default:
			// No handles.
		}

		nodes = append(nodes, bp)
	}

	// Anchors can lose their property bag in the collapse above; recover it
	// from a control-point sibling.
	for i := range nodes {
		bp := &nodes[i]
		if !propsEqual(bp.Point.Properties, bp.EntryControl.Properties) && len(bp.EntryControl.Properties) > 0 {
			bp.Point.Properties = bp.EntryControl.Properties
		} else if !propsEqual(bp.Point.Properties, bp.ExitControl.Properties) && len(bp.ExitControl.Properties) > 0 {
			bp.Point.Properties = bp.ExitControl.Properties
		}
	}

	return nodes
}

// BezierNodesToXPVerts encodes bezier nodes back into the X-Plane point
// list. The inverse of VertsToBezierNodes, deterministic but lossy with
// respect to how the handles were originally spelled.
func BezierNodesToXPVerts(nodes []BezierNode, closed bool) []Node {
	if len(nodes) == 0 {
		return nil
	}

	verts := make([]Node, 0, len(nodes))

	for _, v := range nodes {
		switch {
		case v.HasEntryControl && v.HasExitControl:
			// Mirrored entry control, the anchor, then the exit control.
			u, vv := geo.RotatePoint(v.EntryControl.X, v.EntryControl.Y, v.Point.X, v.Point.Y, 180)
			verts = append(verts,
				Node{X: v.Point.X, Y: v.Point.Y, U: u, V: vv, Properties: v.Point.Properties},
				Node{X: v.Point.X, Y: v.Point.Y, U: v.Point.X, V: v.Point.Y, Properties: v.Point.Properties},
				Node{X: v.Point.X, Y: v.Point.Y, U: v.ExitControl.X, V: v.ExitControl.Y, Properties: v.Point.Properties})

		case v.HasEntryControl:
			u, vv := geo.RotatePoint(v.EntryControl.X, v.EntryControl.Y, v.Point.X, v.Point.Y, 180)
			verts = append(verts,
				Node{X: v.Point.X, Y: v.Point.Y, U: u, V: vv, Properties: v.Point.Properties},
				Node{X: v.Point.X, Y: v.Point.Y, U: v.Point.X, V: v.Point.Y, Properties: v.Point.Properties})

		case v.HasExitControl:
			verts = append(verts,
				Node{X: v.Point.X, Y: v.Point.Y, U: v.Point.X, V: v.Point.Y, Properties: v.Point.Properties},
				Node{X: v.Point.X, Y: v.Point.Y, U: v.ExitControl.X, V: v.ExitControl.Y, Properties: v.Point.Properties})

		default:
			verts = append(verts,
				Node{X: v.Point.X, Y: v.Point.Y, U: v.Point.X, V: v.Point.Y, Properties: v.Point.Properties})
		}
	}

	// Mirror of the decode-side rotation: on a closed winding the first
	// point's entry control lives at the end of the file order.
	if closed && nodes[0].HasEntryControl {
		first := verts[0]
		verts = append(verts[1:], first)
	}

	return verts
}

// BezierNodesToRealVerts resolves a winding to a straight polyline,
// subdividing each curve span into resolution segments and removing the
// colocated duplicates the concatenation produces. Curve boundary flags are
// transferred onto the surviving neighbor.
func BezierNodesToRealVerts(nodes []BezierNode, closed bool, resolution int) []Node {
	if len(nodes) == 0 {
		return nil
	}

	end := len(nodes) - 1
	if closed {
		end = len(nodes)
	}

	var out []Node
	for i := 0; i < end; i++ {
		span := SubdivideBezierSpan(nodes[i], nodes[(i+1)%len(nodes)], resolution)
		out = append(out, span...)
	}

	for i := 0; i < len(out); i++ {
		pi := (i - 1 + len(out)) % len(out)
		v := out[i]
		vp := out[pi]

		if !v.Colocated(vp) {
			continue
		}

		start, endFlag := v.CurveStart, v.CurveEnd
		switch {
		case v.CurveStart && vp.CurveEnd:
			// The curve between them degenerated to nothing.
			start, endFlag = false, false
		case vp.CurveEnd:
			endFlag = true
		case vp.CurveStart:
			start = true
		}

		idx := i
		if pi < i {
			idx = i - 1
		}
		out = append(out[:pi], out[pi+1:]...)
		out[idx].CurveStart = start
		out[idx].CurveEnd = endFlag
		i--
	}

	return out
}

// MergeByDistance collapses runs of nearly colocated points, replacing each
// close pair with its midpoint. Used to clean up heading artifacts from
// extremely short curve-subdivision segments.
func MergeByDistance(verts []Node, mergeDistance float64) []Node {
	out := make([]Node, len(verts))
	copy(out, verts)

	for i := 0; i+1 < len(out); i++ {
		if geo.Distance(out[i].X, out[i].Y, out[i+1].X, out[i+1].Y) < mergeDistance {
			out[i].X = (out[i].X + out[i+1].X) / 2
			out[i].Y = (out[i].Y + out[i+1].Y) / 2
			out = append(out[:i+1], out[i+2:]...)
			i--
		}
	}
	return out
}

func propsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
