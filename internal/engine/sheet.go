// Package engine implements the loader, cycle quarantine, bulk
// evaluator, and incremental propagator on top of internal/grid and
// internal/depgraph. Its orchestrator, Sheet, bundles three
// collaborators: a grid index, a dependency graph, and a dense cell
// slice.
package engine

import (
	"github.com/vogtb/occursheet/internal/cell"
	"github.com/vogtb/occursheet/internal/coord"
	"github.com/vogtb/occursheet/internal/depgraph"
	"github.com/vogtb/occursheet/internal/grid"
)

// Sheet is the evaluation engine's full state: the grid's dimensions,
// its dependency graph, the cells themselves, and the set of Occur
// cells still awaiting their first evaluation.
type Sheet struct {
	idx     *grid.Index
	graph   *depgraph.Graph
	cells   []cell.Cell // indexed by idx.Handle(coordinate)
	pending map[coord.Coordinate]struct{}
}

func newSheet(rows, cols uint32) *Sheet {
	idx := grid.New(rows, cols)
	return &Sheet{
		idx:     idx,
		graph:   depgraph.New(),
		cells:   make([]cell.Cell, idx.Size()),
		pending: make(map[coord.Coordinate]struct{}),
	}
}

// Rows returns the sheet's row count.
func (s *Sheet) Rows() uint32 { return s.idx.Rows() }

// Cols returns the sheet's column count.
func (s *Sheet) Cols() uint32 { return s.idx.Cols() }

// Cell returns the cell currently at c. Callers must only pass
// in-bounds coordinates; use InBounds to check first.
func (s *Sheet) Cell(c coord.Coordinate) cell.Cell {
	return s.cells[s.idx.Handle(c)]
}

// InBounds reports whether c lies within the sheet.
func (s *Sheet) InBounds(c coord.Coordinate) bool {
	return s.idx.InBounds(c)
}

// PendingCount returns the number of Occur cells awaiting evaluation.
// Exposed for telemetry and tests.
func (s *Sheet) PendingCount() int {
	return len(s.pending)
}

func (s *Sheet) setCell(c coord.Coordinate, v cell.Cell) {
	s.cells[s.idx.Handle(c)] = v
}

// Each calls fn for every coordinate in row-major order, exposing the
// live cell at each one. Used by the snapshot writer.
func (s *Sheet) Each(fn func(coord.Coordinate, cell.Cell)) {
	s.idx.All(func(c coord.Coordinate) {
		fn(c, s.Cell(c))
	})
}
