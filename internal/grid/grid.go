// Package grid provides the bidirectional mapping between (row, col)
// coordinates and the linear node handles used by the dependency graph.
package grid

import "github.com/vogtb/occursheet/internal/coord"

// Index maps coordinates to node handles and back for a sheet of fixed
// dimensions. Handles are assigned row-major: handle(r, c) = r*Cols + c.
// This is a dense, fully-populated grid rather than a sparse name
// table, so the mapping is pure arithmetic with no lookup table at all.
type Index struct {
	rows uint32
	cols uint32
}

// New builds an Index for a sheet of the given dimensions.
func New(rows, cols uint32) *Index {
	return &Index{rows: rows, cols: cols}
}

// Rows returns the sheet's row count.
func (idx *Index) Rows() uint32 { return idx.rows }

// Cols returns the sheet's column count.
func (idx *Index) Cols() uint32 { return idx.cols }

// Handle returns the node handle for a coordinate.
func (idx *Index) Handle(c coord.Coordinate) uint64 {
	return uint64(c.Row)*uint64(idx.cols) + uint64(c.Col)
}

// Coordinate returns the coordinate for a node handle.
func (idx *Index) Coordinate(handle uint64) coord.Coordinate {
	cols := uint64(idx.cols)
	return coord.New(uint32(handle/cols), uint32(handle%cols))
}

// InBounds reports whether a coordinate lies within the sheet.
func (idx *Index) InBounds(c coord.Coordinate) bool {
	return c.Row < idx.rows && c.Col < idx.cols
}

// Size returns the total number of cells in the sheet.
func (idx *Index) Size() int {
	return int(idx.rows) * int(idx.cols)
}

// All calls fn for every coordinate in the sheet, in row-major order.
func (idx *Index) All(fn func(coord.Coordinate)) {
	for r := uint32(0); r < idx.rows; r++ {
		for c := uint32(0); c < idx.cols; c++ {
			fn(coord.New(r, c))
		}
	}
}
