package dsf

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// fallbackResource replaces empty or degenerate resource paths in the
// definition tables. A long-standing placeholder carried over from the
// format's history with XGrinder-produced files.
const fallbackResource = "lib/vegetation/trees/deciduous/birch_medium.for"

// roadNetworkDef is the network definition emitted whenever the tile has
// road segments.
const roadNetworkDef = "lib/g10/roads.net"

// dsfFloat formats a coordinate with 12 significant digits, fixed decimal,
// trailing zeros kept. Matches the precision the text grammar is written
// with everywhere.
func dsfFloat(v float64) string {
	av := math.Abs(v)
	digits := 1
	if av >= 1 {
		digits = int(math.Floor(math.Log10(av))) + 1
	}
	prec := 12 - digits
	if prec < 0 {
		prec = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// TileName returns the base file name for a tile: sign-prefixed south
// latitude, then the west longitude zero-padded to three digits.
func TileName(south, west int) string {
	var b strings.Builder

	if south > 0 {
		fmt.Fprintf(&b, "+%d", south)
	} else {
		fmt.Fprintf(&b, "%d", south)
	}

	if west > 0 {
		if west < 100 {
			fmt.Fprintf(&b, "+0%d", west)
		} else {
			fmt.Fprintf(&b, "+%d", west)
		}
	} else {
		if west > -100 {
			fmt.Fprintf(&b, "-0%d", -west)
		} else {
			fmt.Fprintf(&b, "-%d", -west)
		}
	}

	return b.String()
}

// Write serializes the tile to <dir>/<tilename>.txt in the text DSF grammar
// and returns the path written. All category locks are held for the
// duration of the call.
func (t *Tile) Write(dir string, south, west int) (string, error) {
	t.lockAll()
	defer t.unlockAll()

	outPath := filepath.Join(dir, TileName(south, west)+".txt")

	var b strings.Builder
	t.encodeLocked(&b, south, west)

	if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("dsf: writing %s: %w", outPath, err)
	}

	t.logger().Info("wrote tile",
		zap.String("path", outPath),
		zap.Int("south", south),
		zap.Int("west", west))
	return outPath, nil
}

// encodeLocked emits the whole text grammar. Callers hold all locks.
func (t *Tile) encodeLocked(b *strings.Builder, south, west int) {
	allResources, airports := t.collectResources()

	// An empty tile stays an empty file.
	if len(allResources) == 0 && len(t.Roads) == 0 {
		return
	}

	// Split into object and polygon resources; index position in the
	// sorted lists becomes the integer reference in the grammar, so the
	// sort order is load-bearing.
	var objectResources, polygonResources []string
	for _, res := range allResources {
		switch {
		case len(res) <= 4:
			polygonResources = append(polygonResources, fallbackResource)
		case strings.HasSuffix(res, ".obj"):
			objectResources = append(objectResources, res)
		default:
			polygonResources = append(polygonResources, res)
		}
	}
	sort.Strings(objectResources)
	sort.Strings(polygonResources)
	sort.Strings(airports)

	objIndex := indexOf(objectResources)
	polIndex := indexOf(polygonResources)
	aptIndex := indexOf(airports)

	// Header.
	b.WriteString("I\n800\nDSF2TEXT\n\n")
	fmt.Fprintf(b, "PROPERTY sim/west %d\n", west)
	fmt.Fprintf(b, "PROPERTY sim/east %d\n", west+1)
	fmt.Fprintf(b, "PROPERTY sim/north %d\n", south+1)
	fmt.Fprintf(b, "PROPERTY sim/south %d\n", south)
	b.WriteString("PROPERTY sim/planet earth\n")
	b.WriteString("PROPERTY sim/creation_agent DSFTileClass\n")
	b.WriteString("PROPERTY laminar/internal_revision 0\n")
	b.WriteString("PROPERTY sim/overlay 1\n")
	b.WriteString("PROPERTY sim/require_agpoint 1/0\n")
	b.WriteString("PROPERTY sim/require_object 1/0\n")
	b.WriteString("PROPERTY sim/require_facade 1/0\n")

	for _, apt := range airports {
		fmt.Fprintf(b, "PROPERTY sim/filter/aptid %s\n", apt)
	}

	for _, ex := range t.Excludes {
		fmt.Fprintf(b, "PROPERTY %s %s/%s/%s/%s\n", ex.Type,
			dsfFloat(ex.West), dsfFloat(ex.South), dsfFloat(ex.East), dsfFloat(ex.North))
	}

	for _, res := range objectResources {
		fmt.Fprintf(b, "OBJECT_DEF %s\n", res)
	}
	for _, res := range polygonResources {
		fmt.Fprintf(b, "POLYGON_DEF %s\n", res)
	}
	if len(t.Roads) > 0 {
		fmt.Fprintf(b, "NETWORK_DEF %s\n", roadNetworkDef)
	}

	// Group same-airport features contiguously so one FILTER directive
	// covers each run.
	sortByAirport(t.Forests, func(f Forest) string { return f.Airport })
	sortByAirport(t.Facades, func(f Facade) string { return f.Airport })
	sortByAirport(t.Objects, func(o Object) string { return o.Airport })
	sortByAirport(t.Polygons, func(p Polygon) string { return p.Airport })
	sortByAirport(t.Strings, func(s ObjectString) string { return s.Airport })
	sortByAirport(t.Lines, func(l Line) string { return l.Airport })

	filter := filterEmitter{index: aptIndex, enabled: len(airports) > 0}

	for _, f := range t.Forests {
		filter.emit(b, f.Airport)
		param := int(255*f.Density + 256*float64(f.FillMode))
		fmt.Fprintf(b, "BEGIN_POLYGON %d %d 2\n", polIndex[resourceOrFallback(f.Resource)], param)
		emitWinding(b, &f.Vertices, false)
		for i := range f.Holes {
			emitWinding(b, &f.Holes[i], false)
		}
		b.WriteString("END_POLYGON\n")
	}

	for _, f := range t.Facades {
		filter.emit(b, f.Airport)
		mode := 2
		if f.PickWalls {
			mode++
		}
		if f.Curved {
			mode += 2
		}
		fmt.Fprintf(b, "BEGIN_POLYGON %d %d %d\n", polIndex[resourceOrFallback(f.Resource)], f.Height, mode)
		b.WriteString("BEGIN_WINDING\n")
		for _, v := range f.Vertices.XPNodes() {
			fmt.Fprintf(b, "POLYGON_POINT %s %s", dsfFloat(v.X), dsfFloat(v.Y))
			if f.PickWalls {
				fmt.Fprintf(b, " %s", v.Property("wall", "0"))
			}
			if f.Curved {
				fmt.Fprintf(b, " %s %s", dsfFloat(v.U), dsfFloat(v.V))
			}
			b.WriteByte('\n')
		}
		b.WriteString("END_WINDING\nEND_POLYGON\n")
	}

	for _, o := range t.Objects {
		filter.emit(b, o.Airport)
		fmt.Fprintf(b, "OBJECT %d %s %s %s\n", objIndex[o.Resource],
			dsfFloat(o.Lon), dsfFloat(o.Lat), dsfFloat(o.Heading))
	}

	for _, p := range t.Polygons {
		filter.emit(b, p.Airport)
		param1 := "65535"
		if p.ExplicitUVs {
			param1 = dsfFloat(p.Heading)
		}
		param2 := "2"
		if p.Curved || p.ExplicitUVs {
			param2 = "4"
		}
		fmt.Fprintf(b, "BEGIN_POLYGON %d %s %s\n", polIndex[resourceOrFallback(p.Resource)], param1, param2)
		withUV := p.Curved || p.ExplicitUVs
		emitWinding(b, &p.Vertices, withUV)
		for i := range p.Holes {
			emitWinding(b, &p.Holes[i], withUV)
		}
		b.WriteString("END_POLYGON\n")
	}

	for _, s := range t.Strings {
		filter.emit(b, s.Airport)
		fmt.Fprintf(b, "BEGIN_POLYGON %d %s 2\n", polIndex[resourceOrFallback(s.Resource)], dsfFloat(s.Spacing))
		emitWinding(b, &s.Vertices, false)
		b.WriteString("END_POLYGON\n")
	}

	for _, l := range t.Lines {
		filter.emit(b, l.Airport)
		closed := "0"
		if l.Closed {
			closed = "1"
		}
		param2 := "2"
		if l.Curved {
			param2 = "4"
		}
		fmt.Fprintf(b, "BEGIN_POLYGON %d %s %s\n", polIndex[resourceOrFallback(l.Resource)], closed, param2)
		emitWinding(b, &l.Vertices, l.Curved)
		b.WriteString("END_POLYGON\n")
	}

	for _, r := range t.Roads {
		if len(r.Lons) < 2 || len(r.Lons) != len(r.Lats) || len(r.Lons) != len(r.Elevations) {
			t.logger().Warn("skipping malformed road segment",
				zap.Int("points", len(r.Lons)), zap.String("subtype", r.Subtype))
			continue
		}
		last := len(r.Lons) - 1
		fmt.Fprintf(b, "BEGIN_SEGMENT 0 %s %d %s %s %s\n", r.Subtype, r.StartJunctionID,
			dsfFloat(r.Lons[0]), dsfFloat(r.Lats[0]), dsfFloat(r.Elevations[0]))
		for i := 1; i < last; i++ {
			fmt.Fprintf(b, "SHAPE_POINT %s %s %s\n",
				dsfFloat(r.Lons[i]), dsfFloat(r.Lats[i]), dsfFloat(r.Elevations[i]))
		}
		fmt.Fprintf(b, "END_SEGMENT %d %s %s %s\n", r.EndJunctionID,
			dsfFloat(r.Lons[last]), dsfFloat(r.Lats[last]), dsfFloat(r.Elevations[last]))
	}
}

// collectResources gathers distinct resource paths and airport names across
// every placed feature category.
func (t *Tile) collectResources() (resources, airports []string) {
	seenRes := make(map[string]bool)
	seenApt := make(map[string]bool)

	add := func(resource, airport string) {
		if !seenRes[resource] {
			seenRes[resource] = true
			resources = append(resources, resource)
		}
		if airport != "" && !seenApt[airport] {
			seenApt[airport] = true
			airports = append(airports, airport)
		}
	}

	for _, f := range t.Forests {
		add(f.Resource, f.Airport)
	}
	for _, f := range t.Facades {
		add(f.Resource, f.Airport)
	}
	for _, o := range t.Objects {
		add(o.Resource, o.Airport)
	}
	for _, p := range t.Polygons {
		add(p.Resource, p.Airport)
	}
	for _, s := range t.Strings {
		add(s.Resource, s.Airport)
	}
	for _, l := range t.Lines {
		add(l.Resource, l.Airport)
	}
	return resources, airports
}

// emitWinding writes one BEGIN_WINDING block using the winding's X-Plane
// encoded points. withUV adds the U/V tokens.
func emitWinding(b *strings.Builder, w *Winding, withUV bool) {
	b.WriteString("BEGIN_WINDING\n")
	for _, v := range w.XPNodes() {
		if withUV {
			fmt.Fprintf(b, "POLYGON_POINT %s %s %s %s\n",
				dsfFloat(v.X), dsfFloat(v.Y), dsfFloat(v.U), dsfFloat(v.V))
		} else {
			fmt.Fprintf(b, "POLYGON_POINT %s %s\n", dsfFloat(v.X), dsfFloat(v.Y))
		}
	}
	b.WriteString("END_WINDING\n")
}

// filterEmitter writes a FILTER directive whenever the airport of the
// feature stream changes. Index -1 returns to global scope.
type filterEmitter struct {
	index   map[string]int
	enabled bool
	current string
}

func (f *filterEmitter) emit(b *strings.Builder, airport string) {
	if !f.enabled || airport == f.current {
		return
	}
	f.current = airport
	if airport == "" {
		b.WriteString("FILTER -1\n")
		return
	}
	fmt.Fprintf(b, "FILTER %d\n", f.index[airport])
}

func resourceOrFallback(resource string) string {
	if len(resource) <= 4 {
		return fallbackResource
	}
	return resource
}

func indexOf(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		if _, ok := m[v]; !ok {
			m[v] = i
		}
	}
	return m
}

func sortByAirport[T any](items []T, key func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]) < key(items[j])
	})
}
