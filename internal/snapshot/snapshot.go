// Package snapshot implements the final rendered-grid writer: one line
// per row, cells separated by ";", a Faulty cell rendered as "P".
package snapshot

import (
	"strings"

	"github.com/vogtb/occursheet/internal/cell"
	"github.com/vogtb/occursheet/internal/coord"
)

// Sheet is the minimal view the writer needs: dimensions plus
// per-coordinate cell lookup. internal/engine.Sheet satisfies it.
type Sheet interface {
	Rows() uint32
	Cols() uint32
	Cell(c coord.Coordinate) cell.Cell
}

// Render builds the snapshot text for the whole sheet, one row per
// line, LF-terminated.
func Render(s Sheet) string {
	var b strings.Builder
	rows, cols := s.Rows(), s.Cols()
	for r := uint32(0); r < rows; r++ {
		for c := uint32(0); c < cols; c++ {
			if c > 0 {
				b.WriteByte(';')
			}
			b.WriteString(s.Cell(coord.New(r, c)).Display())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
