package dsf

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/scenery-tools/xpdsf/geo"
)

// Read converts a binary DSF to text through the converter, then parses the
// produced text file into the tile. All prior contents are dropped first.
//
// Read assumes exclusive ownership of the tile; see the Tile doc comment.
func (t *Tile) Read(ctx context.Context, path string, conv BinaryTextConverter) error {
	if conv == nil {
		return ErrNoConverter
	}
	txtPath, err := conv.ToText(ctx, path)
	if err != nil {
		return err
	}
	return t.ReadText(txtPath)
}

// ReadText parses an already-converted text DSF file into the tile. All
// prior contents are dropped first.
func (t *Tile) ReadText(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dsf: opening %s: %w", path, err)
	}
	defer f.Close()

	t.clearLocked()

	p := &tileParser{tile: t, log: t.logger(), curAirport: -1}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		p.lineNo++
		if err := p.handleLine(strings.TrimRight(sc.Text(), "\r")); err != nil {
			return fmt.Errorf("dsf: %s:%d: %w", path, p.lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("dsf: reading %s: %w", path, err)
	}
	return nil
}

// tileParser holds the running decode tables and the per-polygon scratch
// state of one ReadText call.
type tileParser struct {
	tile *Tile
	log  *zap.Logger

	lineNo int

	objAssets []string
	polAssets []string
	terAssets []string
	netAssets []string
	airports  []string

	curAirport int // index into airports, -1 = global

	// Open polygon scratch, reset at every END_POLYGON.
	polValid       bool
	polIsFac       bool
	polClosed      bool
	polCurved      bool
	polExplicitUVs bool
	polParam1      float64
	polHeading     float64
	facHeight      float64
	facPickWalls   bool
	curAsset       string
	curVerts       [][]Node

	// Open road segment scratch.
	roadOpen bool
	curRoad  NetworkSegment
}

func (p *tileParser) handleLine(line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}

	switch tokens[0] {
	case "PROPERTY":
		return p.handleProperty(tokens)
	case "FILTER":
		idx, err := parseInt(tokens, 1)
		if err != nil {
			return err
		}
		p.curAirport = idx
	case "OBJECT_DEF":
		p.objAssets = append(p.objAssets, restOfLine(line, tokens[0]))
	case "POLYGON_DEF":
		p.polAssets = append(p.polAssets, restOfLine(line, tokens[0]))
	case "TERRAIN_DEF":
		p.terAssets = append(p.terAssets, restOfLine(line, tokens[0]))
	case "NETWORK_DEF":
		p.netAssets = append(p.netAssets, restOfLine(line, tokens[0]))
	case "OBJECT":
		return p.handleObject(tokens, false)
	case "OBJECT_MSL":
		return p.handleObject(tokens, true)
	case "BEGIN_POLYGON":
		return p.handleBeginPolygon(tokens)
	case "BEGIN_WINDING":
		if p.polValid {
			p.curVerts = append(p.curVerts, nil)
		}
	case "POLYGON_POINT":
		return p.handlePolygonPoint(tokens)
	case "END_WINDING":
		// Winding already accumulated.
	case "END_POLYGON":
		p.finishPolygon()
	case "BEGIN_PATCH":
		idx, err := parseInt(tokens, 1)
		if err != nil {
			return err
		}
		p.curAsset = ""
		if idx >= 0 && idx < len(p.terAssets) {
			p.curAsset = p.terAssets[idx]
		}
	case "BEGIN_PRIMITIVE":
		p.curVerts = append(p.curVerts, nil)
	case "PATCH_VERTEX":
		return p.handlePatchVertex(tokens)
	case "END_PATCH":
		p.finishPatch()
	case "BEGIN_SEGMENT":
		return p.handleBeginSegment(tokens)
	case "SHAPE_POINT":
		return p.handleShapePoint(tokens)
	case "END_SEGMENT":
		return p.handleEndSegment(tokens)
	default:
		// Unknown directives are skipped; the grammar grows over format
		// revisions and partial understanding is fine for overlays.
	}
	return nil
}

func (p *tileParser) handleProperty(tokens []string) error {
	if len(tokens) < 2 {
		return nil
	}
	switch {
	case tokens[1] == "sim/filter/aptid" && len(tokens) == 3:
		p.airports = append(p.airports, tokens[2])
	case strings.HasPrefix(tokens[1], "sim/exclude_") && len(tokens) == 3:
		parts := strings.Split(tokens[2], "/")
		if len(parts) != 4 {
			return fmt.Errorf("%w: exclusion bounds %q", ErrBadToken, tokens[2])
		}
		var bounds [4]float64
		for i, s := range parts {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrBadToken, s)
			}
			bounds[i] = v
		}
		p.tile.Excludes = append(p.tile.Excludes, Exclusion{
			West:  bounds[0],
			South: bounds[1],
			East:  bounds[2],
			North: bounds[3],
			Type:  tokens[1],
		})
	}
	return nil
}

func (p *tileParser) handleObject(tokens []string, msl bool) error {
	want := 5
	if msl {
		want = 6
	}
	if len(tokens) != want {
		return fmt.Errorf("%w: OBJECT wants %d tokens, got %d", ErrMissingTokens, want, len(tokens))
	}

	idx, err := parseInt(tokens, 1)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(p.objAssets) {
		return fmt.Errorf("%w: object %d of %d declared", ErrBadResourceIndex, idx, len(p.objAssets))
	}

	obj := Object{FeatureInfo: FeatureInfo{Resource: p.objAssets[idx]}}
	if obj.Lon, err = parseFloat(tokens, 2); err != nil {
		return err
	}
	if obj.Lat, err = parseFloat(tokens, 3); err != nil {
		return err
	}
	next := 4
	if msl {
		if obj.Alt, err = parseFloat(tokens, 4); err != nil {
			return err
		}
		next = 5
	}
	if obj.Heading, err = parseFloat(tokens, next); err != nil {
		return err
	}
	if p.curAirport >= 0 && p.curAirport < len(p.airports) {
		obj.Airport = p.airports[p.curAirport]
	}

	p.tile.Objects = append(p.tile.Objects, obj)
	return nil
}

func (p *tileParser) handleBeginPolygon(tokens []string) error {
	if len(tokens) != 4 {
		return fmt.Errorf("%w: BEGIN_POLYGON wants 4 tokens, got %d", ErrMissingTokens, len(tokens))
	}

	idx, err := parseInt(tokens, 1)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(p.polAssets) {
		return fmt.Errorf("%w: polygon %d of %d declared", ErrBadResourceIndex, idx, len(p.polAssets))
	}
	asset := p.polAssets[idx]

	if !hasAnySuffix(asset, ".lin", ".pol", ".str", ".fac", ".for") {
		// Unsupported placement kind; its windings are skipped up to the
		// matching END_POLYGON.
		p.log.Debug("skipping unsupported polygon resource", zap.String("resource", asset))
		return nil
	}

	p.polIsFac = false
	p.curVerts = nil
	p.polValid = true
	p.curAsset = asset

	p.polClosed = tokens[2] == "1" && strings.HasSuffix(asset, ".lin")
	p.polCurved = tokens[3] == "4" && tokens[2] != "65535"
	if p.polParam1, err = parseFloat(tokens, 2); err != nil {
		return err
	}

	if strings.HasSuffix(asset, ".str") {
		p.polClosed = false // strings are never closed
	}

	if strings.HasSuffix(asset, ".fac") {
		p.facHeight = p.polParam1
		mode, err := parseInt(tokens, 3)
		if err != nil {
			return err
		}
		switch mode {
		case 2:
			p.facPickWalls, p.polCurved = false, false
		case 3:
			p.facPickWalls, p.polCurved = true, false
		case 4:
			p.facPickWalls, p.polCurved = false, true
		case 5:
			p.facPickWalls, p.polCurved = true, true
		}
		p.polIsFac = true
	}

	p.polExplicitUVs = tokens[3] == "4" && tokens[2] == "65535"
	if !p.polExplicitUVs {
		p.polHeading = geo.ResolveHeading(360 - (p.polParam1/360 + floatMod(p.polParam1, 360)))
	}
	return nil
}

func (p *tileParser) handlePolygonPoint(tokens []string) error {
	if !p.polValid || len(p.curVerts) == 0 {
		return nil
	}
	if len(tokens) < 3 {
		return fmt.Errorf("%w: POLYGON_POINT wants at least 3 tokens", ErrMissingTokens)
	}

	var v Node
	var err error
	if v.X, err = parseFloat(tokens, 1); err != nil {
		return err
	}
	if v.Y, err = parseFloat(tokens, 2); err != nil {
		return err
	}
	// A point without control tokens must keep U/V on its anchor, or the
	// codec would mistake it for a symmetric-handle point.
	v.U, v.V = v.X, v.Y

	if p.polIsFac {
		// Pick-walls facades carry the wall index in token 3, shifting
		// any curve controls to tokens 4/5.
		uv := 3
		if p.facPickWalls {
			if len(tokens) < 4 {
				return fmt.Errorf("%w: facade point missing wall index", ErrMissingTokens)
			}
			v.SetProperty("wall", tokens[3])
			uv = 4
		}
		if p.polCurved {
			if v.U, err = parseFloat(tokens, uv); err != nil {
				return err
			}
			if v.V, err = parseFloat(tokens, uv+1); err != nil {
				return err
			}
		}
	} else if p.polExplicitUVs || p.polCurved {
		// For curved points U/V hold the encoded control coordinates
		// until the winding is decoded.
		if v.U, err = parseFloat(tokens, 3); err != nil {
			return err
		}
		if v.V, err = parseFloat(tokens, 4); err != nil {
			return err
		}
	}

	last := len(p.curVerts) - 1
	p.curVerts[last] = append(p.curVerts[last], v)
	return nil
}

func (p *tileParser) finishPolygon() {
	if !p.polValid || len(p.curVerts) == 0 || len(p.curVerts[0]) == 0 {
		p.resetPolygon()
		return
	}

	airport := ""
	if p.curAirport >= 0 && p.curAirport < len(p.airports) {
		airport = p.airports[p.curAirport]
	}

	poly := PolygonalFeature{
		FeatureInfo: FeatureInfo{Airport: airport, Resource: p.curAsset},
		Curved:      p.polCurved,
		ExplicitUVs: p.polExplicitUVs,
	}

	switch {
	case strings.HasSuffix(p.curAsset, ".pol"):
		f := Polygon{PolygonalFeature: poly, Heading: p.polHeading}
		f.Vertices.LoadFromXPNodes(p.curVerts[0], true)
		f.Holes = p.loadHoles()
		p.tile.Polygons = append(p.tile.Polygons, f)

	case strings.HasSuffix(p.curAsset, ".lin"):
		f := Line{PolygonalFeature: poly, Closed: p.polClosed}
		f.Vertices.LoadFromXPNodes(p.curVerts[0], f.Closed)
		p.tile.Lines = append(p.tile.Lines, f)

	case strings.HasSuffix(p.curAsset, ".str"):
		f := ObjectString{PolygonalFeature: poly, Spacing: p.polParam1}
		f.Vertices.LoadFromXPNodes(p.curVerts[0], false)
		p.tile.Strings = append(p.tile.Strings, f)

	case strings.HasSuffix(p.curAsset, ".fac"):
		// Whether a facade ring is open is a property of the .fac asset
		// itself, which is not visible here; treat them all as closed.
		f := Facade{
			PolygonalFeature: poly,
			Closed:           true,
			Height:           int(p.facHeight),
			PickWalls:        p.facPickWalls,
		}
		f.Vertices.LoadFromXPNodes(p.curVerts[0], f.Closed)
		p.tile.Facades = append(p.tile.Facades, f)

	case strings.HasSuffix(p.curAsset, ".for"):
		param := int(p.polParam1)
		f := Forest{
			PolygonalFeature: poly,
			FillMode:         param / 256,
			Density:          float64(param%256) / 255,
		}
		f.Vertices.LoadFromXPNodes(p.curVerts[0], true)
		f.Holes = p.loadHoles()
		p.tile.Forests = append(p.tile.Forests, f)
	}

	p.resetPolygon()
}

func (p *tileParser) loadHoles() []Winding {
	var holes []Winding
	for _, verts := range p.curVerts[1:] {
		var w Winding
		w.LoadFromXPNodes(verts, true)
		holes = append(holes, w)
	}
	return holes
}

func (p *tileParser) resetPolygon() {
	p.curVerts = nil
	p.polValid = false
	p.polIsFac = false
	p.polClosed = false
	p.polCurved = false
	p.polExplicitUVs = false
	p.polParam1 = 0
	p.polHeading = 0
	p.facHeight = 0
	p.facPickWalls = false
	p.curAsset = ""
}

func (p *tileParser) handlePatchVertex(tokens []string) error {
	if len(p.curVerts) == 0 {
		return nil
	}
	if len(tokens) < 4 {
		return fmt.Errorf("%w: PATCH_VERTEX wants at least 4 tokens", ErrMissingTokens)
	}

	// lon, lat, elevation, normal x, normal y, then optional U/V. The
	// normal is ignored.
	var v Node
	var err error
	if v.X, err = parseFloat(tokens, 1); err != nil {
		return err
	}
	if v.Y, err = parseFloat(tokens, 2); err != nil {
		return err
	}
	if v.Z, err = parseFloat(tokens, 3); err != nil {
		return err
	}
	if len(tokens) >= 7 {
		if v.U, err = parseFloat(tokens, 5); err != nil {
			return err
		}
		if v.V, err = parseFloat(tokens, 6); err != nil {
			return err
		}
	}

	last := len(p.curVerts) - 1
	p.curVerts[last] = append(p.curVerts[last], v)
	return nil
}

func (p *tileParser) finishPatch() {
	if len(p.curVerts) == 0 {
		p.curAsset = ""
		return
	}
	patch := TerrainPatch{FeatureInfo: FeatureInfo{Resource: p.curAsset}}
	for _, verts := range p.curVerts {
		var w Winding
		w.LoadFromStraightNodes(verts, true)
		patch.Primitives = append(patch.Primitives, w)
	}
	p.tile.TerrainPatches = append(p.tile.TerrainPatches, patch)
	p.curVerts = nil
	p.curAsset = ""
}

func (p *tileParser) handleBeginSegment(tokens []string) error {
	if len(tokens) != 7 {
		return fmt.Errorf("%w: BEGIN_SEGMENT wants 7 tokens, got %d", ErrMissingTokens, len(tokens))
	}

	p.curRoad = NetworkSegment{Subtype: tokens[2]}
	netIdx, err := parseInt(tokens, 1)
	if err != nil {
		return err
	}
	if netIdx >= 0 && netIdx < len(p.netAssets) {
		p.curRoad.Resource = p.netAssets[netIdx]
	}
	if p.curRoad.StartJunctionID, err = parseInt(tokens, 3); err != nil {
		return err
	}
	if err := p.appendRoadPoint(tokens, 4); err != nil {
		return err
	}
	p.roadOpen = true
	return nil
}

func (p *tileParser) handleShapePoint(tokens []string) error {
	if !p.roadOpen {
		return nil
	}
	if len(tokens) != 4 {
		return fmt.Errorf("%w: SHAPE_POINT wants 4 tokens, got %d", ErrMissingTokens, len(tokens))
	}
	return p.appendRoadPoint(tokens, 1)
}

func (p *tileParser) handleEndSegment(tokens []string) error {
	if !p.roadOpen {
		return nil
	}
	if len(tokens) != 5 {
		return fmt.Errorf("%w: END_SEGMENT wants 5 tokens, got %d", ErrMissingTokens, len(tokens))
	}

	var err error
	if p.curRoad.EndJunctionID, err = parseInt(tokens, 1); err != nil {
		return err
	}
	if err := p.appendRoadPoint(tokens, 2); err != nil {
		return err
	}

	p.tile.Roads = append(p.tile.Roads, p.curRoad)
	p.curRoad = NetworkSegment{}
	p.roadOpen = false
	return nil
}

func (p *tileParser) appendRoadPoint(tokens []string, at int) error {
	lon, err := parseFloat(tokens, at)
	if err != nil {
		return err
	}
	lat, err := parseFloat(tokens, at+1)
	if err != nil {
		return err
	}
	elev, err := parseFloat(tokens, at+2)
	if err != nil {
		return err
	}
	p.curRoad.Lons = append(p.curRoad.Lons, lon)
	p.curRoad.Lats = append(p.curRoad.Lats, lat)
	p.curRoad.Elevations = append(p.curRoad.Elevations, elev)
	return nil
}

// restOfLine returns everything after the leading directive token with
// interior spacing preserved; resource paths may contain spaces.
func restOfLine(line, directive string) string {
	return strings.TrimLeft(line[len(directive):], " \t")
}

func parseFloat(tokens []string, at int) (float64, error) {
	if at >= len(tokens) {
		return 0, fmt.Errorf("%w: token %d", ErrMissingTokens, at)
	}
	v, err := strconv.ParseFloat(tokens[at], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadToken, tokens[at])
	}
	return v, nil
}

func parseInt(tokens []string, at int) (int, error) {
	if at >= len(tokens) {
		return 0, fmt.Errorf("%w: token %d", ErrMissingTokens, at)
	}
	v, err := strconv.Atoi(tokens[at])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadToken, tokens[at])
	}
	return v, nil
}

func floatMod(v, m float64) float64 {
	return v - m*float64(int(v/m))
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
