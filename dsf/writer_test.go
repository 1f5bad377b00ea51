package dsf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTileName(t *testing.T) {
	tests := []struct {
		name        string
		south, west int
		expected    string
	}{
		{"NorthWestHemisphere", 38, -122, "+38-122"},
		{"SouthEastHemisphere", -34, 151, "-34+151"},
		{"SmallWest", 47, 8, "+47+008"},
		{"SmallNegativeWest", -1, -5, "-1-005"},
		{"ThreeDigitWest", 10, 100, "+10+100"},
		{"Equator", 0, 8, "0+008"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TileName(tt.south, tt.west); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDSFFloat(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{"Zero", 0, "0.00000000000"},
		{"Unit", 1, "1.00000000000"},
		{"Longitude", -121.5, "-121.500000000"},
		{"Latitude", 38.25, "38.2500000000"},
		{"Small", 0.5, "0.50000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dsfFloat(tt.value); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestWriteEmptyTile(t *testing.T) {
	dir := t.TempDir()
	tile := NewTile()

	path, err := tile.Write(dir, 38, -122)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "+38-122.txt" {
		t.Errorf("unexpected file name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("expected an empty file for an empty tile, got %d bytes", len(data))
	}
}

func TestResourceIndexStability(t *testing.T) {
	tile := NewTile()
	tri := straightWinding(true, [2]float64{-121.9, 38.1}, [2]float64{-121.8, 38.1}, [2]float64{-121.8, 38.2})

	// Added out of sorted order on purpose.
	tile.AddPolygon(Polygon{PolygonalFeature: PolygonalFeature{
		FeatureInfo: FeatureInfo{Resource: "lib/c.pol"}, Vertices: tri}})
	tile.AddPolygon(Polygon{PolygonalFeature: PolygonalFeature{
		FeatureInfo: FeatureInfo{Resource: "lib/b.pol"}, Vertices: tri}})
	tile.AddObject(Object{FeatureInfo: FeatureInfo{Resource: "lib/a.obj"}, Lat: 38.1, Lon: -121.9})

	path, err := tile.Write(t.TempDir(), 38, -122)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	// Definitions come out sorted, so indices are stable across writes.
	bDef := strings.Index(text, "POLYGON_DEF lib/b.pol")
	cDef := strings.Index(text, "POLYGON_DEF lib/c.pol")
	if bDef < 0 || cDef < 0 || bDef > cDef {
		t.Errorf("expected sorted polygon definitions, got:\n%s", text)
	}
	if !strings.Contains(text, "OBJECT_DEF lib/a.obj") {
		t.Errorf("missing object definition:\n%s", text)
	}
	if !strings.Contains(text, "OBJECT 0 ") {
		t.Errorf("expected object to reference index 0:\n%s", text)
	}
	if !strings.Contains(text, "BEGIN_POLYGON 0 65535 2") {
		t.Errorf("expected a polygon on index 0:\n%s", text)
	}
	if !strings.Contains(text, "BEGIN_POLYGON 1 65535 2") {
		t.Errorf("expected a polygon on index 1:\n%s", text)
	}
}

func TestWriteHeader(t *testing.T) {
	tile := NewTile()
	tile.AddObject(Object{FeatureInfo: FeatureInfo{Resource: "lib/a.obj"}, Lat: 38.5, Lon: -121.5})
	tile.AddExclude(Exclusion{West: -122, South: 38, East: -121, North: 39, Type: ExcludeObjects})

	path, err := tile.Write(t.TempDir(), 38, -122)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	for _, want := range []string{
		"I\n800\nDSF2TEXT\n",
		"PROPERTY sim/west -122\n",
		"PROPERTY sim/east -121\n",
		"PROPERTY sim/south 38\n",
		"PROPERTY sim/north 39\n",
		"PROPERTY sim/overlay 1\n",
		"PROPERTY sim/exclude_obj -122.000000000/38.0000000000/-121.000000000/39.0000000000\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestWriteFilterGrouping(t *testing.T) {
	tile := NewTile()
	tile.AddObject(Object{FeatureInfo: FeatureInfo{Resource: "lib/a.obj", Airport: "KSFO"}, Lat: 38.1, Lon: -121.9})
	tile.AddObject(Object{FeatureInfo: FeatureInfo{Resource: "lib/a.obj"}, Lat: 38.2, Lon: -121.8})
	tile.AddObject(Object{FeatureInfo: FeatureInfo{Resource: "lib/a.obj", Airport: "KSFO"}, Lat: 38.3, Lon: -121.7})

	path, err := tile.Write(t.TempDir(), 38, -122)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if !strings.Contains(text, "PROPERTY sim/filter/aptid KSFO\n") {
		t.Fatalf("missing aptid property:\n%s", text)
	}
	// Global features first, then a single FILTER run for the airport.
	if strings.Count(text, "FILTER 0\n") != 1 {
		t.Errorf("expected exactly one FILTER 0, got:\n%s", text)
	}
	if strings.Contains(text, "FILTER -1") {
		t.Errorf("global run first should need no FILTER -1:\n%s", text)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	tile := NewTile()
	corners := [][2]float64{
		{-121.75, 38.25},
		{-121.25, 38.25},
		{-121.25, 38.75},
		{-121.75, 38.75},
	}
	tile.AddPolygon(Polygon{PolygonalFeature: PolygonalFeature{
		FeatureInfo: FeatureInfo{Resource: "lib/test.pol"},
		Vertices:    straightWinding(true, corners...),
	}})

	path, err := tile.Write(t.TempDir(), 38, -122)
	if err != nil {
		t.Fatal(err)
	}

	got := NewTile()
	if err := got.ReadText(path); err != nil {
		t.Fatal(err)
	}

	if len(got.Polygons) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(got.Polygons))
	}
	p := got.Polygons[0]
	if p.Resource != "lib/test.pol" {
		t.Errorf("expected resource lib/test.pol, got %q", p.Resource)
	}
	if len(p.Vertices.Nodes) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(p.Vertices.Nodes))
	}
	for i, n := range p.Vertices.Nodes {
		if n.HasEntryControl || n.HasExitControl {
			t.Errorf("vertex %d: unexpected controls", i)
		}
		dx := n.Point.X - corners[i][0]
		dy := n.Point.Y - corners[i][1]
		if dx > 1e-9 || dx < -1e-9 || dy > 1e-9 || dy < -1e-9 {
			t.Errorf("vertex %d: expected (%v, %v), got (%v, %v)",
				i, corners[i][0], corners[i][1], n.Point.X, n.Point.Y)
		}
	}
}

func TestWriteFallbackResource(t *testing.T) {
	tile := NewTile()
	tri := straightWinding(true, [2]float64{-121.9, 38.1}, [2]float64{-121.8, 38.1}, [2]float64{-121.8, 38.2})
	tile.AddForest(Forest{PolygonalFeature: PolygonalFeature{Vertices: tri}, Density: 1})

	path, err := tile.Write(t.TempDir(), 38, -122)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "POLYGON_DEF "+fallbackResource) {
		t.Errorf("expected the fallback resource definition:\n%s", data)
	}
}

func TestWriteRoads(t *testing.T) {
	tile := NewTile()
	tile.AddRoadSegment(NetworkSegment{
		Subtype:    "5",
		Lons:       []float64{-121.9, -121.8, -121.7},
		Lats:       []float64{38.1, 38.15, 38.2},
		Elevations: []float64{0, 0, 0},
	})
	// Malformed segment, skipped with a warning.
	tile.AddRoadSegment(NetworkSegment{Subtype: "5", Lons: []float64{-121.9}, Lats: []float64{38.1}, Elevations: []float64{0}})

	path, err := tile.Write(t.TempDir(), 38, -122)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if !strings.Contains(text, "NETWORK_DEF "+roadNetworkDef) {
		t.Errorf("missing network definition:\n%s", text)
	}
	if strings.Count(text, "BEGIN_SEGMENT") != 1 {
		t.Errorf("expected exactly one segment:\n%s", text)
	}
	if strings.Count(text, "SHAPE_POINT") != 1 {
		t.Errorf("expected one shape point:\n%s", text)
	}
	if strings.Count(text, "END_SEGMENT") != 1 {
		t.Errorf("expected one segment end:\n%s", text)
	}
}
