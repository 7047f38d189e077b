package mesh

import "errors"

var (
	// ErrInvalidVertexID indicates a vertex ID is out of range or negative.
	ErrInvalidVertexID = errors.New("mesh: invalid vertex id")

	// ErrInvalidTriangleIndex indicates a triangle index is out of range.
	ErrInvalidTriangleIndex = errors.New("mesh: invalid triangle index")

	// ErrDegenerateTriangle indicates triangle vertices are collinear.
	ErrDegenerateTriangle = errors.New("mesh: degenerate triangle (collinear)")

	// ErrDuplicateTriangle indicates the same three vertices already exist.
	ErrDuplicateTriangle = errors.New("mesh: duplicate triangle (any winding)")

	// ErrOpposingWindingDuplicate indicates the same three vertices exist with opposite winding direction.
	ErrOpposingWindingDuplicate = errors.New("mesh: duplicate triangle with opposing winding")

	// ErrVertexInsideTriangle indicates an existing vertex lies strictly inside the triangle being added.
	ErrVertexInsideTriangle = errors.New("mesh: vertex lies inside triangle")

	// ErrEdgeIntersection indicates a triangle edge would intersect an existing mesh edge.
	ErrEdgeIntersection = errors.New("mesh: edge intersection with existing mesh")

	// ErrEdgeCrossesPerimeter indicates a triangle edge would cross a perimeter or hole boundary.
	ErrEdgeCrossesPerimeter = errors.New("mesh: edge crosses perimeter or hole boundary")
)
