package dsf

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders every placed feature as GeoJSON, with curved
// windings subdivided at the default resolution. Useful for inspecting a
// tile in any GIS viewer.
func (t *Tile) FeatureCollection() *geojson.FeatureCollection {
	t.lockAll()
	defer t.unlockAll()

	fc := geojson.NewFeatureCollection()

	for i := range t.Forests {
		f := &t.Forests[i]
		gf := geojson.NewFeature(windingPolygon(&f.Vertices, f.Holes))
		tagFeature(gf, "forest", f.FeatureInfo)
		gf.Properties["density"] = f.Density
		fc.Append(gf)
	}

	for i := range t.Facades {
		f := &t.Facades[i]
		gf := geojson.NewFeature(windingPolygon(&f.Vertices, nil))
		tagFeature(gf, "facade", f.FeatureInfo)
		gf.Properties["height"] = f.Height
		fc.Append(gf)
	}

	for i := range t.Objects {
		o := &t.Objects[i]
		gf := geojson.NewFeature(orb.Point{o.Lon, o.Lat})
		tagFeature(gf, "object", o.FeatureInfo)
		gf.Properties["heading"] = o.Heading
		fc.Append(gf)
	}

	for i := range t.Polygons {
		f := &t.Polygons[i]
		gf := geojson.NewFeature(windingPolygon(&f.Vertices, f.Holes))
		tagFeature(gf, "polygon", f.FeatureInfo)
		fc.Append(gf)
	}

	for i := range t.Strings {
		f := &t.Strings[i]
		gf := geojson.NewFeature(f.Vertices.LineString(DefaultCurveResolution))
		tagFeature(gf, "string", f.FeatureInfo)
		gf.Properties["spacing"] = f.Spacing
		fc.Append(gf)
	}

	for i := range t.Lines {
		f := &t.Lines[i]
		var g orb.Geometry
		if f.Closed {
			g = orb.Polygon{f.Vertices.Ring(DefaultCurveResolution)}
		} else {
			g = f.Vertices.LineString(DefaultCurveResolution)
		}
		gf := geojson.NewFeature(g)
		tagFeature(gf, "line", f.FeatureInfo)
		fc.Append(gf)
	}

	for i := range t.Roads {
		r := &t.Roads[i]
		ls := make(orb.LineString, 0, len(r.Lons))
		for j := range r.Lons {
			ls = append(ls, orb.Point{r.Lons[j], r.Lats[j]})
		}
		gf := geojson.NewFeature(ls)
		tagFeature(gf, "road", r.FeatureInfo)
		gf.Properties["subtype"] = r.Subtype
		fc.Append(gf)
	}

	for _, e := range t.Excludes {
		gf := geojson.NewFeature(e.Bound().ToPolygon())
		gf.Properties["kind"] = "exclusion"
		gf.Properties["type"] = e.Type
		fc.Append(gf)
	}

	return fc
}

func windingPolygon(outer *Winding, holes []Winding) orb.Polygon {
	poly := orb.Polygon{outer.Ring(DefaultCurveResolution)}
	for i := range holes {
		poly = append(poly, holes[i].Ring(DefaultCurveResolution))
	}
	return poly
}

func tagFeature(gf *geojson.Feature, kind string, info FeatureInfo) {
	gf.Properties["kind"] = kind
	gf.Properties["resource"] = info.Resource
	if info.Airport != "" {
		gf.Properties["airport"] = info.Airport
	}
}
