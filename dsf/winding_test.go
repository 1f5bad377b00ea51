package dsf

import "testing"

func TestLoadFromStraightNodesClosedDedup(t *testing.T) {
	var w Winding
	w.LoadFromStraightNodes([]Node{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 0},
	}, true)

	if len(w.Nodes) != 3 {
		t.Fatalf("expected trailing duplicate dropped, got %d nodes", len(w.Nodes))
	}
	if !w.Closed {
		t.Error("expected winding closed")
	}
}

func TestLoadFromStraightNodesOpenKeepsAll(t *testing.T) {
	var w Winding
	w.LoadFromStraightNodes([]Node{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 0, Y: 0},
	}, false)

	if len(w.Nodes) != 3 {
		t.Fatalf("expected all 3 nodes on an open winding, got %d", len(w.Nodes))
	}
}

func TestStraightRoundTrip(t *testing.T) {
	input := []Node{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
	}

	var w Winding
	w.LoadFromStraightNodes(input, true)

	var w2 Winding
	w2.LoadFromXPNodes(w.XPNodes(), true)

	if len(w2.Nodes) != len(input) {
		t.Fatalf("expected %d nodes, got %d", len(input), len(w2.Nodes))
	}
	for i, n := range w2.Nodes {
		if n.HasEntryControl || n.HasExitControl {
			t.Errorf("node %d: unexpected control points", i)
		}
		if n.Point.X != input[i].X || n.Point.Y != input[i].Y {
			t.Errorf("node %d: expected (%v, %v), got (%v, %v)",
				i, input[i].X, input[i].Y, n.Point.X, n.Point.Y)
		}
	}
}

func TestIsClockwise(t *testing.T) {
	cw := []Node{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	ccw := []Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	var w Winding
	w.LoadFromStraightNodes(cw, true)
	if !w.IsClockwise() {
		t.Error("expected clockwise")
	}

	w.LoadFromStraightNodes(ccw, true)
	if w.IsClockwise() {
		t.Error("expected counter-clockwise")
	}
}

func TestRealNodesClosedWrapsAround(t *testing.T) {
	var w Winding
	w.LoadFromStraightNodes([]Node{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
	}, true)

	verts := w.RealNodes(10)
	// Three straight spans including the wraparound, deduplicated.
	if len(verts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(verts))
	}
}

func TestRing(t *testing.T) {
	var w Winding
	w.LoadFromStraightNodes([]Node{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
	}, true)

	r := w.Ring(10)
	if len(r) < 4 {
		t.Fatalf("expected a closed ring, got %d points", len(r))
	}
	if r[0] != r[len(r)-1] {
		t.Error("expected first and last ring points equal")
	}
}

func TestLineString(t *testing.T) {
	var w Winding
	w.LoadFromStraightNodes([]Node{
		{X: 0, Y: 0},
		{X: 2, Y: 0},
	}, false)

	ls := w.LineString(10)
	if len(ls) != 2 {
		t.Fatalf("expected 2 points, got %d", len(ls))
	}
	if ls[1][0] != 2 {
		t.Errorf("expected x=2, got %v", ls[1][0])
	}
}
