package dsf

import "github.com/paulmach/orb"

// Winding is an ordered chain of bezier nodes describing one boundary of a
// polygonal feature. It exposes three views of the same curve data: the
// native bezier form (Nodes), the X-Plane encoded point list (XPNodes), and
// a subdivided straight-line approximation (RealNodes).
//
// On a closed winding closure is implicit via wraparound; the node list
// never carries a repeated trailing point.
type Winding struct {
	Nodes  []BezierNode
	Closed bool
}

// LoadFromXPNodes rebuilds the winding from a point list in the X-Plane
// encoding.
func (w *Winding) LoadFromXPNodes(nodes []Node, closed bool) {
	w.Nodes = VertsToBezierNodes(nodes, closed)
	w.Closed = closed
}

// LoadFromStraightNodes rebuilds the winding from plain vertices with no
// curve handling. A trailing duplicate of the first point is dropped on
// closed windings.
func (w *Winding) LoadFromStraightNodes(nodes []Node, closed bool) {
	w.Nodes = make([]BezierNode, 0, len(nodes))
	for _, n := range nodes {
		w.Nodes = append(w.Nodes, NewBezierNode(n))
	}
	w.Closed = closed

	if closed && len(w.Nodes) >= 2 && w.Nodes[0].Colocated(w.Nodes[len(w.Nodes)-1]) {
		w.Nodes = w.Nodes[:len(w.Nodes)-1]
	}
}

// XPNodes returns the winding in the X-Plane encoded point form.
func (w *Winding) XPNodes() []Node {
	return BezierNodesToXPVerts(w.Nodes, w.Closed)
}

// RealNodes returns the winding resolved into straight lines, with each
// curve span subdivided into subdivisions segments. 10 is a good value for
// most uses.
func (w *Winding) RealNodes(subdivisions int) []Node {
	return BezierNodesToRealVerts(w.Nodes, w.Closed, subdivisions)
}

// IsClockwise reports the winding orientation by the shoelace sign over a
// cheap subdivision. X-Plane's winding-order convention is the caller's
// responsibility to enforce.
func (w *Winding) IsClockwise() bool {
	verts := w.RealNodes(3)
	var sum float64
	for i := range verts {
		v1 := verts[i]
		v2 := verts[(i+1)%len(verts)]
		sum += (v2.X - v1.X) * (v2.Y + v1.Y)
	}
	return sum > 0
}

// LineString returns the resolved winding as an orb line string.
func (w *Winding) LineString(subdivisions int) orb.LineString {
	verts := w.RealNodes(subdivisions)
	ls := make(orb.LineString, 0, len(verts))
	for _, v := range verts {
		ls = append(ls, orb.Point{v.X, v.Y})
	}
	return ls
}

// Ring returns the resolved winding as a closed orb ring.
func (w *Winding) Ring(subdivisions int) orb.Ring {
	ls := w.LineString(subdivisions)
	r := orb.Ring(ls)
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}
