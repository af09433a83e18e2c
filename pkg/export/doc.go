// Package export renders scene geometry in interchange formats: a GeoJSON
// FeatureCollection for the whole scene and WKT text per node. Planes,
// groups and query results have no bounded geometry and are left out.
package export
