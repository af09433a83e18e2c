// Package scene defines the scene produced by evaluating a geomkit program.
// A scene is a collection of named geometric values (points, segments,
// planes, triangles, surfaces), groups of them, and recorded query results.
// Each evaluation produces a new scene; nothing mutates it afterwards.
package scene
