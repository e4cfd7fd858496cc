package engine

import (
	"context"

	"github.com/vogtb/occursheet/internal/cell"
	"github.com/vogtb/occursheet/internal/coord"
	"github.com/vogtb/occursheet/internal/depgraph"
	"github.com/vogtb/occursheet/internal/telemetry"
)

// Quarantine repeatedly topologically sorts a working copy of the
// graph, and on every failure faults the entire undirected connected
// component reachable from a cycle participant, until no cycle
// remains. It mutates s in place (faulting cells, shrinking the
// pending set, and removing the faulted nodes from s.graph). The
// working copy is cloned once; each round removes the faulted nodes
// from it as well, so the next TopoSort sees only the live edges.
func Quarantine(ctx context.Context, s *Sheet) {
	working := s.graph.Clone()

	for {
		_, cycleNode, ok := working.TopoSort()
		if ok {
			return
		}

		component := family(s, working, cycleNode)
		for _, c := range component {
			faultCell(s, c)
			working.RemoveNode(c)
		}
		telemetry.QuarantineRound(ctx, cycleNode.String(), len(component))
	}
}

// family computes the undirected connected component reachable from
// start, refusing to expand through (or collect) Const cells. A Const
// cell has no outgoing edges, so the walk already halts there in the
// downward direction; this additionally blocks the upward direction
// (a Const cell that some faulty formula merely points at is not
// itself tainted).
func family(s *Sheet, g *depgraph.Graph, start coord.Coordinate) []coord.Coordinate {
	visited := make(map[coord.Coordinate]struct{})
	var order []coord.Coordinate

	var walk func(c coord.Coordinate)
	walk = func(c coord.Coordinate) {
		if s.Cell(c).Kind == cell.KindConst {
			return
		}
		if _, seen := visited[c]; seen {
			return
		}
		visited[c] = struct{}{}
		order = append(order, c)

		for _, n := range g.Out(c) {
			walk(n)
		}
		for _, n := range g.In(c) {
			walk(n)
		}
	}

	walk(start)
	return order
}

// faultCell marks the cell at c Faulty, removes it from the pending
// set, and removes its node (with every edge touching it) from
// s.graph. Quarantine removes the same node from its own working copy.
func faultCell(s *Sheet, c coord.Coordinate) {
	cl := s.Cell(c)
	cl.SetFaulty()
	s.setCell(c, cl)
	delete(s.pending, c)
	// A Faulty cell has no outgoing edges (invariant), and since the
	// family walk already pulled in every live parent that pointed at
	// c, removing the node outright keeps s.graph and the cell table
	// in agreement without leaving dangling references either way.
	s.graph.RemoveNode(c)
}
