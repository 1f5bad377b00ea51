package dsf

import "github.com/paulmach/orb"

// FeatureKind tags the concrete feature type. Bookkeeping only; dispatch is
// never done on it.
type FeatureKind uint8

const (
	KindForest FeatureKind = iota
	KindFacade
	KindObject
	KindPolygon
	KindObjectString
	KindLine
	KindNetwork
	KindExclusion
	KindTerrainPatch
)

// FeatureInfo carries the fields every placed feature shares: the airport
// the feature belongs to (empty = global, used for exclusion filtering) and
// the relative art-asset path it places.
type FeatureInfo struct {
	Airport  string
	Resource string
}

// PolygonalFeature is the shared shape of every winding-backed feature.
// Holes are only meaningful for forests and draped polygons.
type PolygonalFeature struct {
	FeatureInfo
	Vertices    Winding
	Holes       []Winding
	Curved      bool
	ExplicitUVs bool
}

// Forest is a vegetation fill area (.for).
type Forest struct {
	PolygonalFeature
	FillMode int     // ForestFillZone, ForestFillLine or ForestFillPoints
	Density  float64 // 0..1
}

// Facade is an extruded building outline (.fac).
type Facade struct {
	PolygonalFeature
	Height    int
	Closed    bool
	PickWalls bool // wall index carried per node in the "wall" property
}

// Object is a single placed 3D object (.obj).
type Object struct {
	FeatureInfo
	Lat     float64
	Lon     float64
	Heading float64
	Alt     float64
}

// Polygon is a draped polygon (.pol).
type Polygon struct {
	PolygonalFeature
	Heading float64
}

// ObjectString is a row of repeated objects along a path (.str).
type ObjectString struct {
	PolygonalFeature
	Spacing float64 // meters between repetitions
}

// Line is a painted line feature (.lin).
type Line struct {
	PolygonalFeature
	Closed bool
}

// NetworkSegment is one road-network segment with parallel per-vertex
// coordinate arrays.
type NetworkSegment struct {
	FeatureInfo
	Lats            []float64
	Lons            []float64
	Elevations      []float64
	Subtype         string
	StartJunctionID int
	EndJunctionID   int
}

// Exclusion suppresses autogen scenery of one kind inside a lat/lon box.
// Type is one of the sim/exclude_* property names.
type Exclusion struct {
	West  float64
	South float64
	East  float64
	North float64
	Type  string
}

// Bound returns the exclusion rectangle as an orb bound.
func (e Exclusion) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{e.West, e.South},
		Max: orb.Point{e.East, e.North},
	}
}

// TerrainPatch is a base-mesh patch: a terrain definition plus the
// primitives read for it. Read-only; the writer never emits patches.
type TerrainPatch struct {
	FeatureInfo
	Primitives []Winding
}
