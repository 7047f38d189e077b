package cdt

import (
	"errors"
	"fmt"
)

// Sentinel and structured errors for the CDT core (spec §7).
var (
	// ErrDuplicateNode: insertion target coincides with an existing node.
	ErrDuplicateNode = errors.New("cdt: duplicate node")

	// ErrBadConstraint is the supertype of the two constraint-insertion
	// failures below; callers that only care "did the constraint fail"
	// can match on this with errors.Is.
	ErrBadConstraint = errors.New("cdt: bad constraint")

	// ErrConstraintCollinearNode: a third node lies on the interior of a
	// requested constrained edge; the caller must split the edge first.
	ErrConstraintCollinearNode = errors.New("cdt: constraint collinear node")

	// ErrIntersectingConstraints: the requested constrained edge crosses
	// an existing constrained edge.
	ErrIntersectingConstraints = errors.New("cdt: intersecting constraints")

	// ErrGridException: a post-operation invariant check failed. Only
	// raised when WithPostCheck is enabled.
	ErrGridException = errors.New("cdt: invariant check failed")
)

// isBadConstraint reports whether err is ErrConstraintCollinearNode or
// ErrIntersectingConstraints, both of which wrap ErrBadConstraint.
func isBadConstraint(err error) bool {
	return errors.Is(err, ErrConstraintCollinearNode) || errors.Is(err, ErrIntersectingConstraints)
}

// collinearNodeError reports that node n lies collinearly between the
// requested constraint endpoints. It satisfies errors.Is against both
// ErrConstraintCollinearNode and ErrBadConstraint.
func collinearNodeError(n int) error {
	return fmt.Errorf("%w: %w (node %d)", ErrBadConstraint, ErrConstraintCollinearNode, n)
}

// intersectingConstraintError reports that the requested edge would cross
// an existing constrained edge j. It satisfies errors.Is against both
// ErrIntersectingConstraints and ErrBadConstraint.
func intersectingConstraintError(j int) error {
	return fmt.Errorf("%w: %w (edge %d)", ErrBadConstraint, ErrIntersectingConstraints, j)
}
