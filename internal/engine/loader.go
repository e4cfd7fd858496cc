package engine

import (
	"context"

	"github.com/vogtb/occursheet/internal/cell"
	"github.com/vogtb/occursheet/internal/coord"
	"github.com/vogtb/occursheet/internal/telemetry"
)

// Load builds a Sheet from a row-major grid of descriptors. rows must
// be rectangular: every row the same length. An empty grid (zero rows,
// or rows of zero length) is legal and produces an empty Sheet with no
// work to do.
//
// After classifying every cell, Load builds the dependency graph: each
// surviving Occur cell gets an outgoing edge to every coordinate its
// region covers. An Occur whose region is not well-formed or not
// in-bounds is coerced to Faulty and gets no edges at all; it is never
// inserted into the pending set.
func Load(ctx context.Context, rows [][]cell.Descriptor) (*Sheet, error) {
	if len(rows) == 0 {
		return newSheet(0, 0), nil
	}
	width := len(rows[0])
	for _, row := range rows {
		if len(row) != width {
			return nil, newAppError(InvalidArgument, "ragged grid: row lengths differ (%d vs %d)", width, len(row))
		}
	}

	s := newSheet(uint32(len(rows)), uint32(width))

	for r, row := range rows {
		for c, d := range row {
			at := coord.New(uint32(r), uint32(c))
			s.setCell(at, cell.FromDescriptor(d))
			s.graph.AddNode(at)
		}
	}

	for r, row := range rows {
		for c := range row {
			at := coord.New(uint32(r), uint32(c))
			linkOccurEdges(s, at)
		}
	}

	telemetry.LoadSummary(ctx, s.Rows(), s.Cols(), s.PendingCount())
	return s, nil
}

// linkOccurEdges builds the outgoing edges for the Occur cell at `at`,
// or faults it in place if its region fails the in-bounds check that
// FromDescriptor could not perform (it doesn't know the sheet's
// dimensions). Surviving Occur cells are inserted into the pending set.
func linkOccurEdges(s *Sheet, at coord.Coordinate) {
	c := s.Cell(at)
	if c.Kind != cell.KindOccur {
		return
	}
	if !c.Region.InBounds(s.Rows(), s.Cols()) {
		c.SetFaulty()
		s.setCell(at, c)
		return
	}
	c.Region.Each(func(covered coord.Coordinate) {
		s.graph.AddEdge(at, covered)
	})
	s.pending[at] = struct{}{}
}
