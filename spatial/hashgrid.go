package spatial

import (
	"math"

	"github.com/fenwick-geo/meshfront/types"
)

// HashGrid implements Index using a uniform spatial hash grid. It is generic
// over the id type it stores: mesh's vertex-merge lookup keys it on
// types.VertexID (see Index), while cdt.Triangulation keys a grid of its own
// on types.NodeID to seed point location with a nearby node instead of
// walking from whatever cell Locate last touched.
type HashGrid[T any] struct {
	cellSize float64
	cells    map[[2]int][]T
}

// NewHashGrid creates a hash grid index with the given cell size.
func NewHashGrid[T any](cellSize float64) *HashGrid[T] {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &HashGrid[T]{
		cellSize: cellSize,
		cells:    make(map[[2]int][]T),
	}
}

// FindVerticesNear returns ids in cells overlapping the query radius.
func (h *HashGrid[T]) FindVerticesNear(p types.Point, radius float64) []T {
	if radius < 0 {
		radius = 0
	}

	if radius == 0 {
		cell := h.pointToCell(p)
		return append([]T(nil), h.cells[cell]...)
	}

	min := h.pointToCell(types.Point{X: p.X - radius, Y: p.Y - radius})
	max := h.pointToCell(types.Point{X: p.X + radius, Y: p.Y + radius})

	var result []T
	for cy := min[1]; cy <= max[1]; cy++ {
		for cx := min[0]; cx <= max[0]; cx++ {
			if ids, ok := h.cells[[2]int{cx, cy}]; ok {
				result = append(result, ids...)
			}
		}
	}

	return result
}

// AddVertex adds an id to the cell covering p.
func (h *HashGrid[T]) AddVertex(id T, p types.Point) {
	cell := h.pointToCell(p)
	h.cells[cell] = append(h.cells[cell], id)
}

// Build is a no-op for hash grid (incremental structure).
func (h *HashGrid[T]) Build() {}

func (h *HashGrid[T]) pointToCell(p types.Point) [2]int {
	return [2]int{
		int(math.Floor(p.X / h.cellSize)),
		int(math.Floor(p.Y / h.cellSize)),
	}
}
