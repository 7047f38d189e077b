package front

import (
	"fmt"
	"math"

	"github.com/fenwick-geo/meshfront/container"
	"github.com/fenwick-geo/meshfront/types"
)

// Edits lists everything a Strategy created or touched, for optimizeEdits
// to relax afterward.
type Edits struct {
	Nodes []types.NodeID
	Cells []types.CellID
	Edges []types.EdgeID
}

// Strategy closes a TriangleSite one way. Metric returns +Inf when the
// strategy cannot apply to the given site.
type Strategy interface {
	Name() string
	Metric(site *TriangleSite) float64
	Execute(site *TriangleSite) (Edits, error)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func rotate(theta float64, v types.Point) types.Point {
	s, c := math.Sin(theta), math.Cos(theta)
	return types.Point{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y}
}

// wallStrategy places a new FREE node across the gap at 60 degrees from BC
// and closes the triangle (b,c,newNode).
type wallStrategy struct{}

func (wallStrategy) Name() string { return "Wall" }

func (wallStrategy) Metric(site *TriangleSite) float64 {
	thetaDeg := site.InternalAngle() * 180 / math.Pi
	return clip((90-thetaDeg)/30, 0, 1)
}

func (wallStrategy) Execute(site *TriangleSite) (Edits, error) {
	f := site.Front
	b, c := site.ABC[1], site.ABC[2]

	bPos, cPos := f.grid.Node(b).Pos, f.grid.Node(c).Pos
	bc := types.Point{X: cPos.X - bPos.X, Y: cPos.Y - bPos.Y}
	d := rotate(math.Pi/3, bc)
	newX := types.Point{X: bPos.X + d.X, Y: bPos.Y + d.Y}

	nd, err := f.grid.AddNode(newX)
	if err != nil {
		return Edits{}, err
	}
	if err := f.grid.SetNodeAttrs(nd, types.Free, container.NoCurve, 0); err != nil {
		return Edits{}, err
	}

	jBC, ok := f.grid.NodesToEdge(b, c)
	if !ok {
		return Edits{}, fmt.Errorf("missing site edge (%d,%d)", b, c)
	}
	jCD, err := f.grid.AddEdgeCells(c, nd, types.Unmeshed, types.Unmeshed)
	if err != nil {
		return Edits{}, err
	}
	jBD, err := f.grid.AddEdgeCells(b, nd, types.Unmeshed, types.Unmeshed)
	if err != nil {
		return Edits{}, err
	}

	cell, err := f.addTriangleCCW(b, c, nd, jCD, jBD, jBC)
	if err != nil {
		return Edits{}, err
	}
	return Edits{Nodes: []types.NodeID{nd}, Cells: []types.CellID{cell}}, nil
}

// cutoffStrategy closes the triangle (a,b,c) directly, adding the closing
// edge (c,a) if it isn't already there.
type cutoffStrategy struct{}

func (cutoffStrategy) Name() string { return "Cutoff" }

func (cutoffStrategy) Metric(site *TriangleSite) float64 {
	theta := site.InternalAngle()
	if theta > 89*math.Pi/180 {
		return math.Inf(1)
	}
	scaleFactor := site.EdgeLength() / site.LocalLength()
	ideal := (60 + (1-scaleFactor)*30) * math.Pi / 180
	return math.Abs(theta - ideal)
}

func (cutoffStrategy) Execute(site *TriangleSite) (Edits, error) {
	f := site.Front
	a, b, c := site.ABC[0], site.ABC[1], site.ABC[2]

	jAB, ok := f.grid.NodesToEdge(a, b)
	if !ok {
		return Edits{}, fmt.Errorf("missing site edge (%d,%d)", a, b)
	}
	jBC, ok := f.grid.NodesToEdge(b, c)
	if !ok {
		return Edits{}, fmt.Errorf("missing site edge (%d,%d)", b, c)
	}
	jCA, ok := f.grid.NodesToEdge(c, a)
	if !ok {
		var err error
		jCA, err = f.grid.AddEdgeCells(c, a, types.Unmeshed, types.Unmeshed)
		if err != nil {
			return Edits{}, err
		}
	}

	cell, err := f.addTriangleCCW(a, b, c, jBC, jCA, jAB)
	if err != nil {
		return Edits{}, err
	}
	return Edits{Cells: []types.CellID{cell}}, nil
}

// joinStrategy collapses one of the site's two movable endpoints (a or c)
// into the other, deleting the mover and rebuilding everything that was
// incident to it against the anchor in its place.
type joinStrategy struct{}

func (joinStrategy) Name() string { return "Join" }

func (joinStrategy) Metric(site *TriangleSite) float64 {
	theta := site.InternalAngle()
	if theta > 89*math.Pi/180 {
		return math.Inf(1)
	}
	scaleFactor := site.EdgeLength() / site.LocalLength()
	return scaleFactor * theta
}

func (joinStrategy) Execute(site *TriangleSite) (Edits, error) {
	f := site.Front
	a, b, c := site.ABC[0], site.ABC[1], site.ABC[2]

	mover, anchor, err := chooseMoverAnchor(f, a, c)
	if err != nil {
		return Edits{}, err
	}

	type cellSnap struct {
		nodes [3]types.NodeID
	}
	type edgeSnap struct {
		nodes       [2]types.NodeID
		left, right types.CellID
	}
	var cellsArchived []cellSnap
	var edgesArchived []edgeSnap
	cellSeen := make(map[types.CellID]bool)

	archiveCell := func(cid types.CellID) error {
		if cellSeen[cid] {
			return nil
		}
		cellSeen[cid] = true
		cellsArchived = append(cellsArchived, cellSnap{nodes: f.grid.CellToNodes(cid)})
		return f.grid.DeleteCell(cid)
	}
	archiveEdge := func(eid types.EdgeID) error {
		edge := f.grid.Edge(eid)
		for _, cid := range [2]types.CellID{edge.CellLeft, edge.CellRight} {
			if cid.Finite() {
				if err := archiveCell(cid); err != nil {
					return err
				}
			}
		}
		edgesArchived = append(edgesArchived, edgeSnap{
			nodes: [2]types.NodeID{edge.N0, edge.N1},
			left:  edge.CellLeft,
			right: edge.CellRight,
		})
		return f.grid.DeleteEdge(eid)
	}

	for _, eid := range f.grid.NodeToEdges(mover) {
		if err := archiveEdge(eid); err != nil {
			return Edits{}, err
		}
	}
	if err := f.grid.DeleteNode(mover); err != nil {
		return Edits{}, err
	}

	var edits Edits
	for _, es := range edgesArchived {
		nodes := es.nodes
		skip := false
		for i := 0; i < 2; i++ {
			if nodes[i] == mover {
				if nodes[1-i] == b {
					skip = true
				} else {
					nodes[i] = anchor
				}
				break
			}
		}
		if skip {
			continue
		}
		left, right := es.left, es.right
		// A real cell on either side was already archived (deleted)
		// above; joinPendingCell marks the slot as "owed a cell",
		// filled back in by addTriangleCCW below.
		if left.Finite() {
			left = joinPendingCell
		}
		if right.Finite() {
			right = joinPendingCell
		}
		jnew, err := f.grid.AddEdgeCells(nodes[0], nodes[1], left, right)
		if err != nil {
			return Edits{}, err
		}
		edits.Edges = append(edits.Edges, jnew)
	}

	for _, cs := range cellsArchived {
		nodes := cs.nodes
		for i, nd := range nodes {
			if nd == mover {
				nodes[i] = anchor
			}
		}
		e0, ok0 := f.grid.NodesToEdge(nodes[1], nodes[2])
		e1, ok1 := f.grid.NodesToEdge(nodes[2], nodes[0])
		e2, ok2 := f.grid.NodesToEdge(nodes[0], nodes[1])
		if !ok0 || !ok1 || !ok2 {
			return Edits{}, fmt.Errorf("join: rebuilt cell (%d,%d,%d) is missing an edge", nodes[0], nodes[1], nodes[2])
		}
		cell, err := f.addTriangleCCW(nodes[0], nodes[1], nodes[2], e0, e1, e2)
		if err != nil {
			return Edits{}, err
		}
		edits.Cells = append(edits.Cells, cell)
	}

	edits.Nodes = []types.NodeID{anchor}
	return edits, nil
}

// joinPendingCell is a transient "this slot is owed a real cell" marker
// used only within joinStrategy.Execute, between archiving the old cells
// and rebuilding the new ones. It shares types.InfCell's numeric value but
// not its meaning (that sentinel means "outside the convex hull" in a
// cdt.Triangulation); front's own mesh never triangulates a convex hull,
// so the two meanings never collide.
const joinPendingCell = types.InfCell

// chooseMoverAnchor decides which of a,c absorbs into the other: if they
// already share an edge, the shared edge is removed and whichever endpoint
// is FREE or SLIDE becomes the mover (preferring a); otherwise either may
// become the mover as long as it is FREE.
func chooseMoverAnchor(f *Front, a, c types.NodeID) (mover, anchor types.NodeID, err error) {
	jAC, hasAC := f.grid.NodesToEdge(a, c)
	aFixed, cFixed := f.grid.Node(a).Fixed, f.grid.Node(c).Fixed

	if !hasAC {
		switch {
		case aFixed == types.Free:
			return a, c, nil
		case cFixed == types.Free:
			return c, a, nil
		default:
			return 0, 0, fmt.Errorf("%w: neither node is movable", ErrStrategyFailed)
		}
	}

	edgeAC := f.grid.Edge(jAC)
	if edgeAC.CellLeft.Finite() || edgeAC.CellRight.Finite() {
		return 0, 0, fmt.Errorf("%w: closing edge already borders a real cell", ErrStrategyFailed)
	}

	switch {
	case aFixed == types.Free || aFixed == types.Slide:
		mover, anchor = a, c
	case cFixed == types.Free || cFixed == types.Slide:
		mover, anchor = c, a
	default:
		return 0, 0, fmt.Errorf("%w: neither node can be moved", ErrStrategyFailed)
	}
	if err := f.grid.DeleteEdge(jAC); err != nil {
		return 0, 0, err
	}
	return mover, anchor, nil
}
