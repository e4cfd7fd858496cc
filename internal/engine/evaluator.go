package engine

import (
	"context"

	"github.com/vogtb/occursheet/internal/cell"
	"github.com/vogtb/occursheet/internal/coord"
	"github.com/vogtb/occursheet/internal/telemetry"
)

// EvaluateAll evaluates every pending Occur cell in dependency order.
// Precondition: Quarantine has already run, so s.graph is acyclic
// among the cells still pending. A cell becomes ready once none of its
// outgoing neighbours (the cells its region covers) is still pending;
// ready cells are evaluated and removed from the pending set,
// repeating until it's empty.
//
// As a defensive measure, every still-pending cell's region is
// re-checked against the sheet's bounds on each pass; any that now
// fail (which should not happen after Load already checked, but costs
// nothing to re-verify) are faulted instead of evaluated.
func EvaluateAll(ctx context.Context, s *Sheet) {
	evaluated := 0
	for len(s.pending) > 0 {
		ready := readyCells(s)
		if len(ready) == 0 {
			// Acyclic graphs always have a ready cell; if quarantine
			// ran, this cannot happen. Guard against infinite looping
			// rather than hang if that invariant is ever violated.
			break
		}
		for _, c := range ready {
			evaluateOne(s, c)
			delete(s.pending, c)
			evaluated++
		}
	}
	telemetry.EvaluationComplete(ctx, evaluated)
}

// readyCells returns every pending cell whose outgoing neighbours are
// all already evaluated (i.e. none of them is still pending).
func readyCells(s *Sheet) []coord.Coordinate {
	var ready []coord.Coordinate
	for c := range s.pending {
		cl := s.Cell(c)
		if cl.Kind == cell.KindOccur && !cl.Region.InBounds(s.Rows(), s.Cols()) {
			faultCell(s, c)
			continue
		}
		if !hasPendingChild(s, c) {
			ready = append(ready, c)
		}
	}
	return ready
}

func hasPendingChild(s *Sheet, c coord.Coordinate) bool {
	for _, child := range s.graph.Out(c) {
		if _, stillPending := s.pending[child]; stillPending {
			return true
		}
	}
	return false
}

// evaluateOne computes the count for the single Occur cell at c: the
// saturating sum, over every coordinate in its region, of whether that
// coordinate's reported value equals the target. Self-coverage (c's
// own coordinate inside its own region) uses the count value produced
// by this very call, since that's the only value available; in
// practice this case is a self-edge and is always quarantined before
// reaching here.
func evaluateOne(s *Sheet, c coord.Coordinate) {
	cl := s.Cell(c)
	if cl.Kind != cell.KindOccur {
		return
	}

	count := 0
	cl.Region.Each(func(p coord.Coordinate) {
		v, ok := s.Cell(p).Reported()
		if ok && v == cl.Target {
			count++
		}
	})
	cl.SetCount(count)
	s.setCell(c, cl)
}
