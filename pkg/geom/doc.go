// Package geom defines the value types of geomkit: fixed-dimension points,
// line segments, planes, simplices and surfaces, generic over the numeric
// coordinate type.
//
// Values are plain data. Apart from Surface.AddFacet every operation returns
// a new value and leaves its inputs untouched, so the functions in this
// package are safe to call concurrently on shared values.
//
// Tolerance-sensitive operations accept Option values; without options they
// use DefaultEpsilon.
package geom
