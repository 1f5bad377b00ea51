package dsf

// Layer groups order overlapping ground elements when X-Plane draws them.
// Each named group owns a band of 11 draw offsets; the mapping is a pure
// table with no state.

// Base draw offsets per layer group.
const (
	LayerTerrain      = 5
	LayerBeaches      = 16
	LayerShoulders    = 27
	LayerTaxiways     = 38
	LayerRunways      = 49
	LayerMarkings     = 60
	LayerAirports     = 71
	LayerRoads        = 82
	LayerObjects      = 93
	LayerLightObjects = 104
	LayerCars         = 115
)

var layerGroupBases = map[string]int{
	"terrain":       LayerTerrain,
	"beaches":       LayerBeaches,
	"shoulders":     LayerShoulders,
	"taxiways":      LayerTaxiways,
	"runways":       LayerRunways,
	"markings":      LayerMarkings,
	"airports":      LayerAirports,
	"roads":         LayerRoads,
	"objects":       LayerObjects,
	"light_objects": LayerLightObjects,
	"cars":          LayerCars,
}

// ResolveLayerGroup converts a layer group name plus a relative offset into
// an absolute draw offset. Unknown groups resolve as terrain.
func ResolveLayerGroup(group string, offset int) int {
	if base, ok := layerGroupBases[group]; ok {
		return base + offset
	}
	return LayerTerrain + offset
}

// LayerGroupForOffset converts an absolute draw offset back into a group
// name and relative offset.
func LayerGroupForOffset(offset int) (string, int) {
	switch {
	case offset < 11:
		return "terrain", offset - LayerTerrain
	case offset < 22:
		return "beaches", offset - LayerBeaches
	case offset < 33:
		return "shoulders", offset - LayerShoulders
	case offset < 44:
		return "taxiways", offset - LayerTaxiways
	case offset < 55:
		return "runways", offset - LayerRunways
	case offset < 66:
		return "markings", offset - LayerMarkings
	case offset < 77:
		return "airports", offset - LayerAirports
	case offset < 88:
		return "roads", offset - LayerRoads
	case offset < 99:
		return "objects", offset - LayerObjects
	case offset < 110:
		return "light_objects", offset - LayerLightObjects
	case offset < 121:
		return "cars", offset - LayerCars
	}
	return "terrain", 1
}
