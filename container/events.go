package container

import "github.com/fenwick-geo/meshfront/types"

// Op identifies a mutating operation that subscribers can hook into.
type Op int

const (
	OpAddNode Op = iota
	OpModifyNode
	OpDeleteNode
	OpAddEdge
	OpModifyEdge
	OpDeleteEdge
	OpAddCell
	OpDeleteCell
	numOps
)

// Event carries the fields relevant to whichever Op fired it. Unused fields
// are left at their zero value.
type Event struct {
	Op Op

	Node   types.NodeID
	Pos    types.Point // AddNode: new position. ModifyNode: new position.
	OldPos types.Point // ModifyNode: previous position.

	Edge         types.EdgeID
	EdgeNodes    [2]types.NodeID // AddEdge/DeleteEdge: endpoints. ModifyEdge: new endpoints.
	OldEdgeNodes [2]types.NodeID // ModifyEdge: previous endpoints.
	Constrained  bool

	Cell types.CellID
}

// BeforeFunc may return an error to veto the pending mutation. Subscribers
// fire in registration order; the first error aborts the call and the
// remaining before-hooks for that mutation do not run.
type BeforeFunc func(Event) error

// AfterFunc observes a mutation that has already committed.
type AfterFunc func(Event)

// SubscribeBefore registers fn to run, in order, before every future
// mutation tagged op. fn may return an error to veto the mutation.
func (m *Mesh) SubscribeBefore(op Op, fn BeforeFunc) {
	m.beforeHooks[op] = append(m.beforeHooks[op], fn)
}

// SubscribeAfter registers fn to run, in order, after every future mutation
// tagged op has committed.
func (m *Mesh) SubscribeAfter(op Op, fn AfterFunc) {
	m.afterHooks[op] = append(m.afterHooks[op], fn)
}

func (m *Mesh) fireBefore(evt Event) error {
	for _, fn := range m.beforeHooks[evt.Op] {
		if err := fn(evt); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) fireAfter(evt Event) {
	for _, fn := range m.afterHooks[evt.Op] {
		fn(evt)
	}
}
