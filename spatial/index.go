package spatial

import "github.com/fenwick-geo/meshfront/types"

// Index provides spatial queries over ids of type T located at points.
type Index[T any] interface {
	// FindVerticesNear returns ids within radius of point p.
	FindVerticesNear(p types.Point, radius float64) []T
	// AddVertex adds an id to the index.
	AddVertex(id T, p types.Point)
	// Build finalizes the index structure.
	Build()
}
