package types

// NodeID, EdgeID and CellID are stable integer indices into the arenas of a
// container.Mesh (see the container package). Unlike VertexID, these ids are
// recycled via tombstones: a deleted slot's id is reused by a later insertion
// that supplies the same _index hint, so "stable" means "valid for the
// lifetime of the referenced entity", not "never reassigned".
type (
	NodeID int
	EdgeID int
	CellID int
)

// Sentinel values distinguishing "no such entity" (NilNode/NilEdge/NilCell),
// "boundary of the convex hull" (InfCell), a reserved-but-unused id
// (InfNode), and the two adjacency states that must never compare equal:
// "not yet meshed" (Unmeshed) vs. "will never be meshed" (Undefined).
//
// All sentinels are distinct negative values so that comparisons between
// them never alias.
const (
	NilNode NodeID = -1
	NilEdge EdgeID = -1
	NilCell CellID = -1

	// InfCell marks the exterior side of a convex-hull boundary edge. It is
	// distinct from NilCell: NilCell means "this slot has no value at all",
	// InfCell means "this slot legitimately refers to the unbounded outer
	// face".
	InfCell CellID = -2

	// InfNode is reserved for internal hole-filling bookkeeping (the "∞"
	// sentinel of fill_hole's boundary loops). It is never a valid index
	// into the node arena and must never be returned from a public API.
	InfNode NodeID = -3

	// Unmeshed marks a cell slot on an edge that borders the unmeshed
	// interior the advancing front has not yet reached.
	Unmeshed CellID = -4

	// Undefined marks a cell slot that will never be filled (e.g. an edge
	// explicitly excluded from meshing).
	Undefined CellID = -5
)

// IsValid reports whether id refers to a live slot candidate (non-negative).
func (id NodeID) IsValid() bool { return id >= 0 }

// IsValid reports whether id refers to a live slot candidate (non-negative).
func (id EdgeID) IsValid() bool { return id >= 0 }

// IsValid reports whether id refers to a live slot candidate (non-negative).
func (id CellID) IsValid() bool { return id >= 0 }

// Finite reports whether id is a real cell, as opposed to InfCell, Unmeshed
// or Undefined.
func (id CellID) Finite() bool { return id >= 0 }
