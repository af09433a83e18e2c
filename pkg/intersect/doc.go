// Package intersect implements the geometric predicates and intersection
// routines of geomkit: the 2D orientation test, segment-segment intersection
// in the plane and segment-plane classification in space.
//
// Every function is pure. Outcomes that have no unique point (disjoint
// segments, collinear overlap, a segment lying in a plane) are reported as
// explicit result kinds, never as a placeholder coordinate.
package intersect
