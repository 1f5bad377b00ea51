// Package dsf models one X-Plane scenery tile's vector features (forests,
// facades, polygons, object strings, lines, roads, objects, exclusion zones,
// terrain patches) and serializes them to and from the text form of the
// Distribution Scenery Format.
//
// Only the text grammar is spoken directly; conversion to and from the
// compact binary .dsf container is delegated to an external DSFTool binary
// behind the BinaryTextConverter interface.
package dsf

// Exclusion zone property names understood by X-Plane.
const (
	ExcludeObjects  = "sim/exclude_obj"
	ExcludeFacades  = "sim/exclude_fac"
	ExcludeForests  = "sim/exclude_for"
	ExcludeBeaches  = "sim/exclude_bch"
	ExcludeNetworks = "sim/exclude_net"
	ExcludeLines    = "sim/exclude_lin"
	ExcludePolygons = "sim/exclude_pol"
	ExcludeStrings  = "sim/exclude_str"
)

// Forest fill modes.
const (
	ForestFillZone   = 0
	ForestFillLine   = 1
	ForestFillPoints = 2
)

// DefaultCurveResolution is the number of straight segments each bezier
// span is subdivided into when a winding is resolved.
const DefaultCurveResolution = 10
