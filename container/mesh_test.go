package container

import (
	"testing"

	"github.com/fenwick-geo/meshfront/types"
)

func TestAddNodeTombstoneReuse(t *testing.T) {
	m := NewMesh()
	a, err := m.AddNode(types.Point{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	b, _ := m.AddNode(types.Point{X: 1, Y: 0})
	_ = b

	if err := m.DeleteNode(a); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if m.IsValidNode(a) {
		t.Fatalf("expected node %d to be tombstoned", a)
	}

	reused, err := m.AddNodeAt(a, types.Point{X: 5, Y: 5})
	if err != nil {
		t.Fatalf("AddNodeAt: %v", err)
	}
	if reused != a {
		t.Fatalf("expected reused id %d, got %d", a, reused)
	}
	if got := m.Node(reused).Pos; got != (types.Point{X: 5, Y: 5}) {
		t.Fatalf("unexpected position after reinsert: %+v", got)
	}
}

func TestEdgeAdjacencyAndHalfedgeNav(t *testing.T) {
	m := NewMesh()
	a, _ := m.AddNode(types.Point{X: 0, Y: 0})
	b, _ := m.AddNode(types.Point{X: 1, Y: 0})
	c, _ := m.AddNode(types.Point{X: 0, Y: 1})

	eAB, err := m.AddEdge(a, b)
	if err != nil {
		t.Fatalf("AddEdge ab: %v", err)
	}
	eBC, _ := m.AddEdge(b, c)
	eCA, _ := m.AddEdge(c, a)

	cell, err := m.AddCell([3]types.NodeID{a, b, c}, [3]types.EdgeID{eBC, eCA, eAB})
	if err != nil {
		t.Fatalf("AddCell: %v", err)
	}
	if err := m.SetEdgeCells(eAB, cell, types.InfCell); err != nil {
		t.Fatal(err)
	}
	if err := m.SetEdgeCells(eBC, cell, types.InfCell); err != nil {
		t.Fatal(err)
	}
	if err := m.SetEdgeCells(eCA, cell, types.InfCell); err != nil {
		t.Fatal(err)
	}

	if got, ok := m.NodesToEdge(a, b); !ok || got != eAB {
		t.Fatalf("NodesToEdge(a,b) = %v,%v want %v,true", got, ok, eAB)
	}

	he, ok := m.NodesToHalfedge(a, b)
	if !ok {
		t.Fatalf("expected halfedge a->b")
	}
	if m.NodeRev(he) != a || m.NodeFwd(he) != b {
		t.Fatalf("halfedge endpoints wrong: rev=%v fwd=%v", m.NodeRev(he), m.NodeFwd(he))
	}
	if m.HeCell(he) != cell {
		t.Fatalf("expected HeCell(a->b) = %v, got %v", cell, m.HeCell(he))
	}

	next := m.HeFwd(he)
	if m.NodeRev(next) != b {
		t.Fatalf("HeFwd should start at b, got %v", m.NodeRev(next))
	}
	if m.NodeFwd(next) != c {
		t.Fatalf("HeFwd(a->b) should reach c, got %v", m.NodeFwd(next))
	}

	nodes := m.NodeToNodes(a)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 neighbors of a, got %d", len(nodes))
	}
}

func TestSubscribeBeforeCanVeto(t *testing.T) {
	m := NewMesh()
	a, _ := m.AddNode(types.Point{X: 0, Y: 0})
	b, _ := m.AddNode(types.Point{X: 1, Y: 1})

	vetoed := false
	m.SubscribeBefore(OpAddEdge, func(evt Event) error {
		vetoed = true
		return ErrVetoed
	})

	if _, err := m.AddEdge(a, b); err == nil {
		t.Fatalf("expected veto error")
	}
	if !vetoed {
		t.Fatalf("before hook did not run")
	}
	if _, ok := m.NodesToEdge(a, b); ok {
		t.Fatalf("edge should not have been created after veto")
	}
}

func TestModifyNodeFiresBeforeAndAfterInOrder(t *testing.T) {
	m := NewMesh()
	a, _ := m.AddNode(types.Point{X: 0, Y: 0})

	var order []string
	m.SubscribeBefore(OpModifyNode, func(evt Event) error {
		order = append(order, "before")
		return nil
	})
	m.SubscribeAfter(OpModifyNode, func(evt Event) {
		order = append(order, "after")
	})

	if err := m.ModifyNode(a, types.Point{X: 2, Y: 2}, true); err != nil {
		t.Fatalf("ModifyNode: %v", err)
	}
	if len(order) != 2 || order[0] != "before" || order[1] != "after" {
		t.Fatalf("unexpected hook order: %v", order)
	}
	if m.Node(a).Pos != (types.Point{X: 2, Y: 2}) {
		t.Fatalf("position not updated")
	}
}
