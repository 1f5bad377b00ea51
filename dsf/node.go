package dsf

// Node is one vertex. X/Y are typically longitude/latitude degrees and Z
// meters of elevation. U/V are overloaded: raw texture coordinates for
// terrain patches, or encoded bezier-control coordinates for curve points.
// CurveStart/CurveEnd mark vertices that came out of curve subdivision;
// they are carried for downstream density-of-detail logic and never
// consulted here.
type Node struct {
	X, Y, Z    float64
	U, V       float64
	Properties map[string]string
	CurveStart bool
	CurveEnd   bool
}

// Colocated reports whether two nodes share the exact same position.
// Comparison is bit-exact: the X-Plane point encoding is defined in terms
// of exact colocation, so no epsilon is applied.
func (n Node) Colocated(other Node) bool {
	return n.X == other.X && n.Y == other.Y && n.Z == other.Z
}

// SameAs reports whether two nodes share position and UV exactly.
func (n Node) SameAs(other Node) bool {
	return n.Colocated(other) && n.U == other.U && n.V == other.V
}

// Property returns a property value, or fallback when the key is absent.
func (n Node) Property(key, fallback string) string {
	if v, ok := n.Properties[key]; ok {
		return v
	}
	return fallback
}

// SetProperty sets a property, allocating the bag on first use.
func (n *Node) SetProperty(key, value string) {
	if n.Properties == nil {
		n.Properties = make(map[string]string)
	}
	n.Properties[key] = value
}

// BezierNode is one curve vertex: an anchor point plus optional entry and
// exit control points, each guarded by a presence flag.
type BezierNode struct {
	HasEntryControl bool
	HasExitControl  bool
	Point           Node
	EntryControl    Node
	ExitControl     Node
}

// NewBezierNode wraps a plain node as a control-free bezier node.
func NewBezierNode(point Node) BezierNode {
	return BezierNode{Point: point}
}

// Colocated reports whether the anchor and both control points match
// exactly.
func (b BezierNode) Colocated(other BezierNode) bool {
	return b.Point.Colocated(other.Point) &&
		b.EntryControl.Colocated(other.EntryControl) &&
		b.ExitControl.Colocated(other.ExitControl)
}
