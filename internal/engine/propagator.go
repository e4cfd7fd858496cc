package engine

import (
	"context"

	"github.com/vogtb/occursheet/internal/cell"
	"github.com/vogtb/occursheet/internal/coord"
	"github.com/vogtb/occursheet/internal/telemetry"
)

// ApplyEdit applies one edit command — replace the cell at `at` with
// the one `desc` describes — and returns the changelog of every
// coordinate whose displayed value changed as a result. The returned
// map is not itself ordered; callers needing coordinate order sort its
// keys.
func ApplyEdit(ctx context.Context, s *Sheet, at coord.Coordinate, desc cell.Descriptor) map[coord.Coordinate]string {
	changelog := make(map[coord.Coordinate]string)

	old := s.Cell(at)
	oldVal, oldOk := old.Reported()

	newCell := cell.FromDescriptor(desc)
	if newCell.Kind == cell.KindOccur && !newCell.Region.InBounds(s.Rows(), s.Cols()) {
		newCell = cell.Faulty()
	}

	s.graph.RemoveOutgoingEdges(at)
	s.setCell(at, newCell)

	if newCell.Kind == cell.KindOccur {
		s.pending[at] = struct{}{}
		newCell.Region.Each(func(covered coord.Coordinate) {
			s.graph.AddEdge(at, covered)
		})

		// The sheet was acyclic before this edit, so the only cycle it
		// can introduce runs through `at`'s new edges: a single
		// TopoSort call is enough to detect it, unlike the full
		// family-closure quarantine run at load time. Only the edited
		// cell itself is faulted here — its ancestors learn about the
		// change through spread, below.
		if _, _, ok := s.graph.Clone().TopoSort(); !ok {
			faultInPlace(s, at)
		} else {
			evaluateOne(s, at)
			delete(s.pending, at)
		}
	}

	spread(s, changelog, at, oldVal, oldOk)

	telemetry.EditApplied(ctx, at.Row, at.Col, len(changelog))
	return changelog
}

// faultInPlace marks c Faulty and drops its outgoing edges, but keeps
// its incoming edges intact so spread can still walk from c to its
// parents. This is deliberately different from quarantine's faultCell,
// which fully disconnects the node — quarantine faults an entire
// undirected component at once, so no live node is ever left pointing
// at a quarantined one, while a single edit only faults the one cell,
// leaving its ancestors to react via spread.
func faultInPlace(s *Sheet, c coord.Coordinate) {
	cl := s.Cell(c)
	cl.SetFaulty()
	s.setCell(c, cl)
	delete(s.pending, c)
	s.graph.RemoveOutgoingEdges(c)
}

// spread recomputes node's current reported value, and if it differs
// from oldVal/oldOk, records the change and walks every parent (an
// Occur cell with an outgoing edge to node), adjusting each parent's
// count by whether node's old or new value matched that parent's
// target.
func spread(s *Sheet, changelog map[coord.Coordinate]string, node coord.Coordinate, oldVal uint8, oldOk bool) {
	cur := s.Cell(node)
	newVal, newOk := cur.Reported()
	if newOk == oldOk && (!newOk || newVal == oldVal) {
		return
	}

	changelog[node] = cur.Display()

	for _, parent := range s.graph.In(node) {
		p := s.Cell(parent)
		if p.Kind != cell.KindOccur {
			continue
		}
		parentOldVal, parentOldOk := p.Reported()

		switch {
		case !newOk:
			faultInPlace(s, parent)
			spread(s, changelog, parent, parentOldVal, parentOldOk)
		case newVal == p.Target:
			p.IncrementCount()
			s.setCell(parent, p)
			spread(s, changelog, parent, parentOldVal, parentOldOk)
		case oldOk && oldVal == p.Target:
			p.DecrementCount()
			s.setCell(parent, p)
			spread(s, changelog, parent, parentOldVal, parentOldOk)
		}
		// else: this parent's count is unaffected; don't recurse.
	}
}
