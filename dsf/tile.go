package dsf

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// AddOutcome reports what an Add call did with the feature. Callers that
// ignore it keep the lenient drop-on-degenerate behavior; strict callers
// and tests can detect rejections.
type AddOutcome int

const (
	Added AddOutcome = iota
	RejectedTooFewVertices
)

// Tile aggregates all scenery features for one 1°x1° lat/lon tile.
//
// Each feature category has its own mutex, so adds of different kinds can
// run concurrently. Write and Clear take every lock, in a fixed order.
// Read assumes exclusive ownership of the tile and takes no locks; never
// call it concurrently with anything else on the same tile.
type Tile struct {
	mtForests  sync.Mutex
	mtFacades  sync.Mutex
	mtObjects  sync.Mutex
	mtPolygons sync.Mutex
	mtStrings  sync.Mutex
	mtLines    sync.Mutex
	mtRoads    sync.Mutex
	mtExcludes sync.Mutex

	Forests  []Forest
	Facades  []Facade
	Objects  []Object
	Polygons []Polygon
	Strings  []ObjectString
	Lines    []Line
	Roads    []NetworkSegment
	Excludes []Exclusion

	// Terrain patches are read-only payload; no dedicated lock.
	TerrainPatches []TerrainPatch

	log *zap.Logger
}

// NewTile returns an empty tile.
func NewTile() *Tile {
	return &Tile{log: zap.NewNop()}
}

// SetLogger attaches a logger for diagnostics. A nil logger disables them.
func (t *Tile) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	t.log = log
}

func (t *Tile) logger() *zap.Logger {
	if t.log == nil {
		return zap.NewNop()
	}
	return t.log
}

// AddForest adds a forest. Forests with fewer than 3 vertices are rejected.
func (t *Tile) AddForest(f Forest) AddOutcome {
	t.mtForests.Lock()
	defer t.mtForests.Unlock()

	if len(f.Vertices.Nodes) < 3 {
		t.logger().Debug("dropping degenerate forest", zap.String("resource", f.Resource))
		return RejectedTooFewVertices
	}
	t.Forests = append(t.Forests, f)
	return Added
}

// AddFacade adds a facade. Facades with fewer than 3 vertices are rejected.
func (t *Tile) AddFacade(f Facade) AddOutcome {
	t.mtFacades.Lock()
	defer t.mtFacades.Unlock()

	if len(f.Vertices.Nodes) < 3 {
		t.logger().Debug("dropping degenerate facade", zap.String("resource", f.Resource))
		return RejectedTooFewVertices
	}
	t.Facades = append(t.Facades, f)
	return Added
}

// AddObject adds a placed object. Objects are never rejected.
func (t *Tile) AddObject(o Object) AddOutcome {
	t.mtObjects.Lock()
	defer t.mtObjects.Unlock()

	t.Objects = append(t.Objects, o)
	return Added
}

// AddPolygon adds a draped polygon. Polygons with fewer than 3 vertices are
// rejected.
func (t *Tile) AddPolygon(p Polygon) AddOutcome {
	t.mtPolygons.Lock()
	defer t.mtPolygons.Unlock()

	if len(p.Vertices.Nodes) < 3 {
		t.logger().Debug("dropping degenerate polygon", zap.String("resource", p.Resource))
		return RejectedTooFewVertices
	}
	t.Polygons = append(t.Polygons, p)
	return Added
}

// AddObjectString adds an object string. Strings with fewer than 2 vertices
// are rejected.
func (t *Tile) AddObjectString(s ObjectString) AddOutcome {
	t.mtStrings.Lock()
	defer t.mtStrings.Unlock()

	if len(s.Vertices.Nodes) < 2 {
		t.logger().Debug("dropping degenerate object string", zap.String("resource", s.Resource))
		return RejectedTooFewVertices
	}
	t.Strings = append(t.Strings, s)
	return Added
}

// AddLine adds a painted line. Lines with fewer than 2 vertices are
// rejected.
func (t *Tile) AddLine(l Line) AddOutcome {
	t.mtLines.Lock()
	defer t.mtLines.Unlock()

	if len(l.Vertices.Nodes) < 2 {
		t.logger().Debug("dropping degenerate line", zap.String("resource", l.Resource))
		return RejectedTooFewVertices
	}
	t.Lines = append(t.Lines, l)
	return Added
}

// AddRoadSegment adds a road-network segment. Never rejected.
func (t *Tile) AddRoadSegment(s NetworkSegment) AddOutcome {
	t.mtRoads.Lock()
	defer t.mtRoads.Unlock()

	t.Roads = append(t.Roads, s)
	return Added
}

// AddExclude adds an exclusion zone. Never rejected.
func (t *Tile) AddExclude(e Exclusion) AddOutcome {
	t.mtExcludes.Lock()
	defer t.mtExcludes.Unlock()

	t.Excludes = append(t.Excludes, e)
	return Added
}

// IsEmpty reports whether the tile holds no placed features.
func (t *Tile) IsEmpty() bool {
	t.lockAll()
	defer t.unlockAll()

	return len(t.Forests) == 0 && len(t.Facades) == 0 && len(t.Objects) == 0 &&
		len(t.Polygons) == 0 && len(t.Strings) == 0 && len(t.Lines) == 0 &&
		len(t.Roads) == 0 && len(t.Excludes) == 0
}

// Clear drops every feature under all locks.
func (t *Tile) Clear() {
	t.lockAll()
	defer t.unlockAll()
	t.clearLocked()
}

func (t *Tile) clearLocked() {
	t.Forests = nil
	t.Facades = nil
	t.Objects = nil
	t.Polygons = nil
	t.Strings = nil
	t.Lines = nil
	t.Roads = nil
	t.Excludes = nil
	t.TerrainPatches = nil
}

// Merge appends every feature of other into t. Both tiles are locked for
// the duration, ordered by address so that two tiles merging into each
// other cannot deadlock.
func (t *Tile) Merge(other *Tile) {
	if other == nil || other == t {
		return
	}

	first, second := t, other
	if reflect.ValueOf(t).Pointer() > reflect.ValueOf(other).Pointer() {
		first, second = other, t
	}
	first.lockAll()
	second.lockAll()
	defer first.unlockAll()
	defer second.unlockAll()

	t.Forests = append(t.Forests, other.Forests...)
	t.Facades = append(t.Facades, other.Facades...)
	t.Objects = append(t.Objects, other.Objects...)
	t.Polygons = append(t.Polygons, other.Polygons...)
	t.Strings = append(t.Strings, other.Strings...)
	t.Lines = append(t.Lines, other.Lines...)
	t.Roads = append(t.Roads, other.Roads...)
	t.Excludes = append(t.Excludes, other.Excludes...)
	t.TerrainPatches = append(t.TerrainPatches, other.TerrainPatches...)
}

// Lock order: forests, facades, objects, polygons, strings, lines, roads,
// excludes. Every all-lock path must use this order.
func (t *Tile) lockAll() {
	t.mtForests.Lock()
	t.mtFacades.Lock()
	t.mtObjects.Lock()
	t.mtPolygons.Lock()
	t.mtStrings.Lock()
	t.mtLines.Lock()
	t.mtRoads.Lock()
	t.mtExcludes.Lock()
}

func (t *Tile) unlockAll() {
	t.mtForests.Unlock()
	t.mtFacades.Unlock()
	t.mtObjects.Unlock()
	t.mtPolygons.Unlock()
	t.mtStrings.Unlock()
	t.mtLines.Unlock()
	t.mtRoads.Unlock()
	t.mtExcludes.Unlock()
}
