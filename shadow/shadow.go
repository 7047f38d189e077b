// Package shadow implements the shadow CDT (C4) of spec §4.9: a secondary
// Triangulation that mirrors every mutation of a primary container.Mesh via
// its pub/sub event bus, so the shadow's invariants (full, unconstrained-
// locally-Delaunay) can be checked independently of whatever constraints
// the primary carries.
package shadow

import (
	"fmt"

	"github.com/fenwick-geo/meshfront/cdt"
	"github.com/fenwick-geo/meshfront/container"
	"github.com/fenwick-geo/meshfront/types"
)

// Shadow mirrors a primary mesh's node/edge topology into an owned
// *cdt.Triangulation, keyed by a primary->shadow NodeID mapping (spec
// P5: this mapping must stay a bijection over live nodes at every
// quiescent point).
type Shadow struct {
	tri *cdt.Triangulation

	toShadow map[types.NodeID]types.NodeID
}

// New constructs a Shadow and subscribes it to primary's mutation events.
// The shadow starts empty; it only reflects mutations that occur after
// this call, matching the teacher's attach-then-observe debug-hook pattern
// (mesh/config.go's debugAddVertex/debugAddEdge).
func New(primary *container.Mesh, opts ...cdt.Option) *Shadow {
	s := &Shadow{
		tri:      cdt.New(opts...),
		toShadow: make(map[types.NodeID]types.NodeID),
	}

	// add_node has no before-hook on the primary (the id doesn't exist
	// until the call commits), so the shadow mirrors it after the fact;
	// it cannot veto a node insertion.
	primary.SubscribeAfter(container.OpAddNode, func(evt container.Event) {
		m, err := s.tri.AddNode(evt.Pos)
		if err != nil {
			// Surface as a permanent mapping gap rather than panicking;
			// callers that care can notice evt.Node missing from ShadowOf.
			return
		}
		s.toShadow[evt.Node] = m
	})

	primary.SubscribeBefore(container.OpModifyNode, func(evt container.Event) error {
		if evt.Pos == evt.OldPos {
			return nil
		}
		m, ok := s.toShadow[evt.Node]
		if !ok {
			return fmt.Errorf("shadow: modify_node: no shadow mapping for primary node %d", evt.Node)
		}
		return s.tri.ModifyNode(m, evt.Pos)
	})

	primary.SubscribeBefore(container.OpDeleteNode, func(evt container.Event) error {
		m, ok := s.toShadow[evt.Node]
		if !ok {
			return fmt.Errorf("shadow: delete_node: no shadow mapping for primary node %d", evt.Node)
		}
		if err := s.tri.DeleteNode(m); err != nil {
			return err
		}
		delete(s.toShadow, evt.Node)
		return nil
	})

	primary.SubscribeBefore(container.OpAddEdge, func(evt container.Event) error {
		m0, m1, err := s.mapPair(evt.EdgeNodes)
		if err != nil {
			return err
		}
		return s.tri.AddConstraint(m0, m1)
	})

	primary.SubscribeBefore(container.OpModifyEdge, func(evt container.Event) error {
		oldM0, oldM1, err := s.mapPair(evt.OldEdgeNodes)
		if err != nil {
			return err
		}
		if err := s.tri.RemoveConstraint(oldM0, oldM1); err != nil {
			return err
		}
		newM0, newM1, err := s.mapPair(evt.EdgeNodes)
		if err != nil {
			return err
		}
		return s.tri.AddConstraint(newM0, newM1)
	})

	primary.SubscribeBefore(container.OpDeleteEdge, func(evt container.Event) error {
		m0, m1, err := s.mapPair(evt.EdgeNodes)
		if err != nil {
			return err
		}
		return s.tri.RemoveConstraint(m0, m1)
	})

	return s
}

func (s *Shadow) mapPair(nodes [2]types.NodeID) (types.NodeID, types.NodeID, error) {
	m0, ok0 := s.toShadow[nodes[0]]
	m1, ok1 := s.toShadow[nodes[1]]
	if !ok0 || !ok1 {
		return types.NilNode, types.NilNode, fmt.Errorf("shadow: no mapping for primary node pair (%d,%d)", nodes[0], nodes[1])
	}
	return m0, m1, nil
}

// Triangulation exposes the owned shadow triangulation for read-only checks
// (CheckLocalDelaunay, CheckGlobalDelaunay).
func (s *Shadow) Triangulation() *cdt.Triangulation { return s.tri }

// ShadowOf returns the shadow node id mirroring primary node n, per spec P5.
func (s *Shadow) ShadowOf(n types.NodeID) (types.NodeID, bool) {
	m, ok := s.toShadow[n]
	return m, ok
}

// Len reports the number of primary nodes currently mirrored.
func (s *Shadow) Len() int { return len(s.toShadow) }
