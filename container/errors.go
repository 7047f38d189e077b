package container

import "errors"

// Sentinel errors for the mesh container API, in the spirit of the
// teacher's mesh/errors.go.
var (
	// ErrInvalidNode indicates a NodeID is out of range or tombstoned.
	ErrInvalidNode = errors.New("container: invalid node id")
	// ErrInvalidEdge indicates an EdgeID is out of range or tombstoned.
	ErrInvalidEdge = errors.New("container: invalid edge id")
	// ErrInvalidCell indicates a CellID is out of range or tombstoned.
	ErrInvalidCell = errors.New("container: invalid cell id")
	// ErrEdgeExists indicates AddEdge was called for a node pair that
	// already has a live edge.
	ErrEdgeExists = errors.New("container: edge already exists")
	// ErrVetoed indicates a before-hook rejected the pending mutation.
	ErrVetoed = errors.New("container: mutation vetoed by subscriber")
)
