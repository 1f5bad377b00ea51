package dsf

import (
	"math"
	"testing"

	"github.com/scenery-tools/xpdsf/geo"
)

func TestThreePointCollapse(t *testing.T) {
	verts := []Node{
		{X: 5, Y: 5, U: 4, V: 6},
		{X: 5, Y: 5, U: 4, V: 6},
		{X: 5, Y: 5, U: 6, V: 6},
	}

	nodes := VertsToBezierNodes(verts, false)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}

	n := nodes[0]
	if n.Point.X != 5 || n.Point.Y != 5 {
		t.Errorf("expected anchor (5, 5), got (%v, %v)", n.Point.X, n.Point.Y)
	}
	if !n.HasEntryControl || !n.HasExitControl {
		t.Fatal("expected both controls present")
	}

	wantX, wantY := geo.RotatePoint(4, 6, 5, 5, 180)
	if n.EntryControl.X != wantX || n.EntryControl.Y != wantY {
		t.Errorf("expected entry control (%v, %v), got (%v, %v)",
			wantX, wantY, n.EntryControl.X, n.EntryControl.Y)
	}
	if n.ExitControl.X != 6 || n.ExitControl.Y != 6 {
		t.Errorf("expected exit control (6, 6), got (%v, %v)", n.ExitControl.X, n.ExitControl.Y)
	}
}

func TestTwoPointSingleHandle(t *testing.T) {
	t.Run("AnchorFirst", func(t *testing.T) {
		// First point's U/V sits on its own position, so it is the
		// anchor and the second supplies the exit control.
		verts := []Node{
			{X: 2, Y: 2, U: 2, V: 2},
			{X: 2, Y: 2, U: 3, V: 4},
			{X: 9, Y: 9, U: 9, V: 9},
		}
		nodes := VertsToBezierNodes(verts, false)
		if len(nodes) != 2 {
			t.Fatalf("expected 2 nodes, got %d", len(nodes))
		}
		n := nodes[0]
		if !n.HasExitControl || n.HasEntryControl {
			t.Fatal("expected exit control only")
		}
		if n.ExitControl.X != 3 || n.ExitControl.Y != 4 {
			t.Errorf("expected exit control (3, 4), got (%v, %v)", n.ExitControl.X, n.ExitControl.Y)
		}
	})

	t.Run("ControlFirst", func(t *testing.T) {
		// First point carries the handle, so it is the entry control of
		// the second, mirrored about its own position.
		verts := []Node{
			{X: 2, Y: 2, U: 3, V: 4},
			{X: 2, Y: 2, U: 2, V: 2},
			{X: 9, Y: 9, U: 9, V: 9},
		}
		nodes := VertsToBezierNodes(verts, false)
		if len(nodes) != 2 {
			t.Fatalf("expected 2 nodes, got %d", len(nodes))
		}
		n := nodes[0]
		if !n.HasEntryControl || n.HasExitControl {
			t.Fatal("expected entry control only")
		}
		wantX, wantY := geo.RotatePoint(3, 4, 2, 2, 180)
		if n.EntryControl.X != wantX || n.EntryControl.Y != wantY {
			t.Errorf("expected entry control (%v, %v), got (%v, %v)",
				wantX, wantY, n.EntryControl.X, n.EntryControl.Y)
		}
	})
}

func TestSymmetricHandles(t *testing.T) {
	verts := []Node{
		{X: 0, Y: 0, U: 1, V: 1},
		{X: 5, Y: 0, U: 5, V: 0},
	}

	nodes := VertsToBezierNodes(verts, false)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}

	n := nodes[0]
	if !n.HasEntryControl || !n.HasExitControl {
		t.Fatal("expected symmetric handles")
	}
	if n.ExitControl.X != 1 || n.ExitControl.Y != 1 {
		t.Errorf("expected exit control (1, 1), got (%v, %v)", n.ExitControl.X, n.ExitControl.Y)
	}
	if n.EntryControl.X != -1 || n.EntryControl.Y != -1 {
		t.Errorf("expected entry control (-1, -1), got (%v, %v)", n.EntryControl.X, n.EntryControl.Y)
	}
}

func TestDecodeDoesNotMutateInput(t *testing.T) {
	verts := []Node{
		{X: 0, Y: 0, U: 0, V: 0},
		{X: 1, Y: 0, U: 1, V: 0},
		{X: 1, Y: 1, U: 1, V: 1},
		{X: 0, Y: 0, U: 0, V: 0},
	}
	orig := make([]Node, len(verts))
	copy(orig, verts)

	VertsToBezierNodes(verts, true)

	for i := range verts {
		if !verts[i].SameAs(orig[i]) {
			t.Fatalf("input vertex %d mutated", i)
		}
	}
}

func TestEncodeDecodeStable(t *testing.T) {
	// The XP encoding is lossy in spelling but deterministic: decoding an
	// encoded winding and encoding it again must reproduce the same point
	// list.
	nodes := []BezierNode{
		{
			HasEntryControl: true,
			HasExitControl:  true,
			Point:           Node{X: 0, Y: 0},
			EntryControl:    Node{X: -1, Y: 0},
			ExitControl:     Node{X: 1, Y: 0},
		},
		{Point: Node{X: 5, Y: 0}},
		{
			HasExitControl: true,
			Point:          Node{X: 5, Y: 5},
			ExitControl:    Node{X: 4, Y: 5},
		},
	}

	first := BezierNodesToXPVerts(nodes, false)
	second := BezierNodesToXPVerts(VertsToBezierNodes(first, false), false)

	if len(first) != len(second) {
		t.Fatalf("expected %d verts, got %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].SameAs(second[i]) {
			t.Errorf("vert %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestClosedWindingRotation(t *testing.T) {
	// On a closed winding the first point's entry control is stored last
	// in file order; encode must move it there and decode must bring it
	// back.
	nodes := []BezierNode{
		{
			HasEntryControl: true,
			HasExitControl:  true,
			Point:           Node{X: 0, Y: 0},
			EntryControl:    Node{X: -1, Y: -1},
			ExitControl:     Node{X: 1, Y: 1},
		},
		{Point: Node{X: 5, Y: 0}},
		{Point: Node{X: 5, Y: 5}},
	}

	verts := BezierNodesToXPVerts(nodes, true)
	last := verts[len(verts)-1]
	if last.X != 0 || last.Y != 0 {
		t.Fatalf("expected the first anchor's entry control at the end, got (%v, %v)", last.X, last.Y)
	}

	decoded := VertsToBezierNodes(verts, true)
	if len(decoded) != len(nodes) {
		t.Fatalf("expected %d nodes, got %d", len(nodes), len(decoded))
	}
	n := decoded[0]
	if !n.HasEntryControl || !n.HasExitControl {
		t.Fatal("expected both controls on the first node")
	}
	if n.EntryControl.X != -1 || n.EntryControl.Y != -1 {
		t.Errorf("expected entry control (-1, -1), got (%v, %v)", n.EntryControl.X, n.EntryControl.Y)
	}
	if n.ExitControl.X != 1 || n.ExitControl.Y != 1 {
		t.Errorf("expected exit control (1, 1), got (%v, %v)", n.ExitControl.X, n.ExitControl.Y)
	}
}

func TestSubdivideBezierSpanStraight(t *testing.T) {
	start := NewBezierNode(Node{X: 0, Y: 0})
	end := NewBezierNode(Node{X: 10, Y: 0})

	verts := SubdivideBezierSpan(start, end, 10)
	if len(verts) != 2 {
		t.Fatalf("expected a straight span to stay 2 points, got %d", len(verts))
	}
	if verts[0].CurveStart || verts[1].CurveEnd {
		t.Error("straight spans must not carry curve flags")
	}
}

func TestSubdivideBezierSpanCurved(t *testing.T) {
	start := BezierNode{
		HasExitControl: true,
		Point:          Node{X: 0, Y: 0},
		ExitControl:    Node{X: 0, Y: 5},
	}
	end := BezierNode{
		HasEntryControl: true,
		Point:           Node{X: 10, Y: 0},
		EntryControl:    Node{X: 10, Y: 5},
	}

	verts := SubdivideBezierSpan(start, end, 8)
	if len(verts) != 9 {
		t.Fatalf("expected 9 points, got %d", len(verts))
	}
	if !verts[0].CurveStart {
		t.Error("expected CurveStart on the first point")
	}
	if !verts[len(verts)-1].CurveEnd {
		t.Error("expected CurveEnd on the last point")
	}
	if verts[0].X != 0 || verts[0].Y != 0 {
		t.Errorf("expected the literal start point first, got (%v, %v)", verts[0].X, verts[0].Y)
	}
	endV := verts[len(verts)-1]
	if math.Abs(endV.X-10) > 1e-9 || math.Abs(endV.Y) > 1e-9 {
		t.Errorf("expected the end anchor last, got (%v, %v)", endV.X, endV.Y)
	}
}

func TestRealVertsDeduplication(t *testing.T) {
	// Adjacent straight spans share their junction anchor; resolving must
	// drop the duplicates.
	nodes := []BezierNode{
		{Point: Node{X: 0, Y: 0}},
		{Point: Node{X: 1, Y: 0}},
		{Point: Node{X: 1, Y: 1}},
	}

	verts := BezierNodesToRealVerts(nodes, false, 10)
	if len(verts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(verts))
	}
	for i := 1; i < len(verts); i++ {
		if verts[i].Colocated(verts[i-1]) {
			t.Errorf("duplicate point at %d", i)
		}
	}
}

func TestRealVertsCurveFlagsSurviveDedup(t *testing.T) {
	nodes := []BezierNode{
		{Point: Node{X: 0, Y: 0}},
		{
			HasEntryControl: true,
			HasExitControl:  true,
			Point:           Node{X: 5, Y: 0},
			EntryControl:    Node{X: 4, Y: 2},
			ExitControl:     Node{X: 6, Y: 2},
		},
		{Point: Node{X: 10, Y: 0}},
	}

	verts := BezierNodesToRealVerts(nodes, false, 10)

	var starts, ends int
	for _, v := range verts {
		if v.CurveStart {
			starts++
		}
		if v.CurveEnd {
			ends++
		}
	}
	if starts == 0 || ends == 0 {
		t.Errorf("expected curve flags to survive deduplication, got %d starts and %d ends", starts, ends)
	}
}

func TestMergeByDistance(t *testing.T) {
	verts := []Node{
		{X: 0, Y: 0},
		{X: 0.0001, Y: 0},
		{X: 5, Y: 5},
	}

	out := MergeByDistance(verts, 0.001)
	if len(out) != 2 {
		t.Fatalf("expected 2 points, got %d", len(out))
	}
	if math.Abs(out[0].X-0.00005) > 1e-12 {
		t.Errorf("expected merged midpoint, got %v", out[0].X)
	}
	if out[1].X != 5 || out[1].Y != 5 {
		t.Errorf("expected far point untouched, got (%v, %v)", out[1].X, out[1].Y)
	}
}

func TestMergeByDistanceLeavesInput(t *testing.T) {
	verts := []Node{{X: 0, Y: 0}, {X: 0.0001, Y: 0}}
	MergeByDistance(verts, 0.001)
	if verts[0].X != 0 {
		t.Error("input slice mutated")
	}
}
