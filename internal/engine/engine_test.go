package engine_test

import (
	"context"
	"testing"

	"github.com/vogtb/occursheet/internal/cell"
	"github.com/vogtb/occursheet/internal/coord"
	"github.com/vogtb/occursheet/internal/descriptor"
	"github.com/vogtb/occursheet/internal/engine"
	"github.com/vogtb/occursheet/internal/snapshot"
)

// EngineTestCase is a fluent builder over a loaded, quarantined, and
// evaluated Sheet: each method mutates the sheet or asserts against it
// and returns the receiver so calls chain.
type EngineTestCase struct {
	t     *testing.T
	name  string
	ctx   context.Context
	sheet *engine.Sheet
}

// NewEngineTestCase loads rows (each a ";"-separated data.csv-style
// row) and runs quarantine and bulk evaluation.
func NewEngineTestCase(t *testing.T, name string, rows ...string) *EngineTestCase {
	descRows := make([][]cell.Descriptor, len(rows))
	for i, row := range rows {
		descRows[i] = descriptor.ClassifyRow(row)
	}
	ctx := context.Background()
	sheet, err := engine.Load(ctx, descRows)
	if err != nil {
		t.Fatalf("%s: Load failed: %v", name, err)
	}
	engine.Quarantine(ctx, sheet)
	engine.EvaluateAll(ctx, sheet)
	return &EngineTestCase{t: t, name: name, ctx: ctx, sheet: sheet}
}

// Edit applies one edit and returns the resulting changelog.
func (tc *EngineTestCase) Edit(row, col uint32, raw string) map[coord.Coordinate]string {
	d := descriptor.Classify(raw)
	return engine.ApplyEdit(tc.ctx, tc.sheet, coord.New(row, col), d)
}

func (tc *EngineTestCase) ExpectCell(row, col uint32, want string) *EngineTestCase {
	got := tc.sheet.Cell(coord.New(row, col)).Display()
	if got != want {
		tc.t.Errorf("%s: cell (%d,%d) = %q, want %q", tc.name, row, col, got, want)
	}
	return tc
}

func (tc *EngineTestCase) ExpectSnapshot(want string) *EngineTestCase {
	got := snapshot.Render(tc.sheet)
	if got != want {
		tc.t.Errorf("%s: snapshot =\n%q\nwant\n%q", tc.name, got, want)
	}
	return tc
}

func (tc *EngineTestCase) ExpectPending(want int) *EngineTestCase {
	if got := tc.sheet.PendingCount(); got != want {
		tc.t.Errorf("%s: pending = %d, want %d", tc.name, got, want)
	}
	return tc
}

func expectChangelog(t *testing.T, name string, got map[coord.Coordinate]string, want map[coord.Coordinate]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: changelog has %d entries, want %d (got %v, want %v)", name, len(got), len(want), got, want)
		return
	}
	for at, wantVal := range want {
		gotVal, ok := got[at]
		if !ok {
			t.Errorf("%s: changelog missing entry for %s", name, at)
			continue
		}
		if gotVal != wantVal {
			t.Errorf("%s: changelog[%s] = %q, want %q", name, at, gotVal, wantVal)
		}
	}
}

func TestScenarioBasicCount(t *testing.T) {
	// S1: three Occur formulas counting over overlapping regions of a
	// 3x3 constant grid.
	tc := NewEngineTestCase(t, "S1",
		"2;3;1",
		"0;1;3",
		"2;1;4",
		"=#(0,1,2,2,1);=#(1,0,2,1,0);=#(0,0,2,2,3)",
	)
	// row4 col0 counts 1s in rows0-2,cols1-2: (0,2),(1,1),(2,1) -> 3.
	// row4 col1 counts 0s in rows1-2,cols0-1: (1,0) -> 1.
	// row4 col2 counts 3s in the whole grid: (0,1),(1,2) -> 2.
	tc.ExpectCell(3, 0, "3").ExpectCell(3, 1, "1").ExpectCell(3, 2, "2")
}

func TestScenarioSelfCycle(t *testing.T) {
	// S2
	tc := NewEngineTestCase(t, "S2", "=#(0,0,0,0,5)")
	tc.ExpectCell(0, 0, "P")
}

func TestScenarioMutualCycle(t *testing.T) {
	// S3
	tc := NewEngineTestCase(t, "S3", "=#(0,1,0,1,0);=#(0,0,0,0,0)")
	tc.ExpectCell(0, 0, "P").ExpectCell(0, 1, "P")
}

func TestScenarioSaturation(t *testing.T) {
	// S4: a 1x256 row of all 7s, plus a second row whose first cell
	// counts 7s across the whole first row (256 of them, saturating at
	// 255). The second row's remaining 255 columns are filler constants
	// so the grid stays rectangular; they fall outside the formula's
	// region and don't affect the result.
	row0 := ""
	row1 := "=#(0,0,0,255,7)"
	for i := 0; i < 256; i++ {
		if i > 0 {
			row0 += ";7"
			row1 += ";0"
		} else {
			row0 += "7"
		}
	}
	tc := NewEngineTestCase(t, "S4", row0, row1)
	tc.ExpectCell(1, 0, "255")
}

func TestScenarioIncrementalPropagation(t *testing.T) {
	// S5: after S1, edit (0,1) from 3 to 1.
	tc := NewEngineTestCase(t, "S5",
		"2;3;1",
		"0;1;3",
		"2;1;4",
		"=#(0,1,2,2,1);=#(1,0,2,1,0);=#(0,0,2,2,3)",
	)
	changed := tc.Edit(0, 1, "1")

	// (0,1) lies inside row-4 col 0's region (rows0-2,cols1-2) and
	// inside row-4 col 2's region (the whole grid), but outside row-4
	// col 1's region (rows1-2,cols0-1). Was 3 (not target 1, was
	// target 3): gains a match for col 0 (3->4), loses one for col 2
	// (2->1). Col 1 is untouched and so absent from the changelog.
	expectChangelog(t, "S5", changed, map[coord.Coordinate]string{
		coord.New(0, 1): "1",
		coord.New(3, 0): "4",
		coord.New(3, 2): "1",
	})
	tc.ExpectCell(0, 1, "1").
		ExpectCell(3, 0, "4").
		ExpectCell(3, 1, "1").
		ExpectCell(3, 2, "1")
}

func TestScenarioEditIntroducesCycle(t *testing.T) {
	// S6: an edit that turns a one-directional dependency into a
	// mutual cycle. (0,1) already counts over (0,0); editing (0,0)
	// into a formula that counts over (0,1) closes the loop.
	tc := NewEngineTestCase(t, "S6", "5;=#(0,0,0,0,2)")
	tc.ExpectCell(0, 1, "0")

	changed := tc.Edit(0, 0, "=#(0,1,0,1,2)")

	// Only the edited cell is faulted directly by the cycle check;
	// (0,1) learns about it through spread, not a second
	// family-closure pass, and ends up Faulty too since its region now
	// contains a Faulty cell.
	expectChangelog(t, "S6", changed, map[coord.Coordinate]string{
		coord.New(0, 0): "P",
		coord.New(0, 1): "P",
	})
	tc.ExpectCell(0, 0, "P").ExpectCell(0, 1, "P")
}

func TestEmptyGrid(t *testing.T) {
	tc := NewEngineTestCase(t, "empty")
	tc.ExpectSnapshot("").ExpectPending(0)
}

func TestSingleCellGrid(t *testing.T) {
	tc := NewEngineTestCase(t, "single-cell", "9")
	tc.ExpectSnapshot("9\n")
}

func TestWholeGridRegion(t *testing.T) {
	tc := NewEngineTestCase(t, "whole-grid-region",
		"5;5",
		"5;=#(0,0,1,1,5)",
	)
	// The formula sits at (1,1), which its own whole-grid region
	// covers: a self-edge, quarantined before evaluation.
	tc.ExpectCell(1, 1, "P")
}

func TestSingleCellRegionNotSelfCovering(t *testing.T) {
	tc := NewEngineTestCase(t, "single-cell-region",
		"5;=#(0,0,0,0,5)",
	)
	tc.ExpectCell(0, 1, "1")
}

func TestSelfCoveringRegionIsQuarantined(t *testing.T) {
	tc := NewEngineTestCase(t, "self-covering",
		"=#(0,0,0,1,9);9",
	)
	tc.ExpectCell(0, 0, "P")
}

func TestIdempotentEditProducesEmptyChangelogOnSecondApplication(t *testing.T) {
	tc := NewEngineTestCase(t, "idempotent",
		"2;3;1",
		"0;1;3",
		"2;1;4",
		"=#(0,1,2,2,1);=#(1,0,2,1,0);=#(0,0,2,2,3)",
	)
	tc.Edit(0, 1, "1")
	second := tc.Edit(0, 1, "1")
	if len(second) != 0 {
		t.Errorf("idempotent: second identical edit produced non-empty changelog: %v", second)
	}
}

func TestOutOfBoundsRegionIsFaulty(t *testing.T) {
	tc := NewEngineTestCase(t, "out-of-bounds", "=#(0,0,5,5,1)")
	tc.ExpectCell(0, 0, "P")
}

func TestConstOutOfRangeIsFaulty(t *testing.T) {
	tc := NewEngineTestCase(t, "out-of-range-const", "300")
	tc.ExpectCell(0, 0, "P")
}

func TestRaggedGridIsRejected(t *testing.T) {
	rows := [][]cell.Descriptor{
		descriptor.ClassifyRow("1;2;3"),
		descriptor.ClassifyRow("1;2"),
	}
	if _, err := engine.Load(context.Background(), rows); err == nil {
		t.Error("ragged grid: expected Load to return an error")
	}
}
