// Package ioformat implements the engine's four external file formats:
// reading data.csv and user.txt, and writing view.csv and changes.txt.
// It is the boundary layer the core's Sheet, Load, Quarantine,
// EvaluateAll, and ApplyEdit never import.
package ioformat

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vogtb/occursheet/internal/cell"
	"github.com/vogtb/occursheet/internal/coord"
	"github.com/vogtb/occursheet/internal/descriptor"
	"github.com/vogtb/occursheet/internal/telemetry"
)

// editLineRe is the edit-stream line grammar: "<row> <col> <descriptor>"
// where descriptor is a decimal integer of one to three digits or an
// Occur formula. Value ranges are not checked here: descriptor.Classify
// turns an out-of-range value into a Faulty descriptor.
var editLineRe = regexp.MustCompile(
	`^(\d+) (\d+) (=#\(\s*\d+\s*,\s*\d+\s*,\s*\d+\s*,\s*\d+\s*,\s*\d+\s*\)|\d{1,3})$`)

// ReadGrid reads data.csv: LF-separated rows, ";"-separated cells, and
// classifies every field into a cell.Descriptor. A trailing blank line
// at end-of-file is ignored.
func ReadGrid(path string) ([][]cell.Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ioformat: open data grid: %w", err)
	}
	defer f.Close()

	var rows [][]cell.Descriptor
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rows = append(rows, descriptor.ClassifyRow(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ioformat: read data grid: %w", err)
	}
	return rows, nil
}

// Edit is one parsed, validated edit-stream command.
type Edit struct {
	At   coord.Coordinate
	Desc cell.Descriptor
	Line string // the original line text, used verbatim in the changelog header
}

// ReadEdits reads user.txt and validates every line against the
// edit-line grammar. A line that fails validation is rejected at this
// boundary and never reaches the core; it is logged and skipped rather
// than aborting the whole run.
func ReadEdits(ctx context.Context, path string) ([]Edit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ioformat: open edit stream: %w", err)
	}
	defer f.Close()

	var edits []Edit
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		m := editLineRe.FindStringSubmatch(line)
		if m == nil {
			telemetry.RejectedEdit(ctx, line)
			continue
		}
		row, err1 := strconv.ParseUint(m[1], 10, 32)
		col, err2 := strconv.ParseUint(m[2], 10, 32)
		if err1 != nil || err2 != nil {
			telemetry.RejectedEdit(ctx, line)
			continue
		}
		edits = append(edits, Edit{
			At:   coord.New(uint32(row), uint32(col)),
			Desc: descriptor.Classify(m[3]),
			Line: line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ioformat: read edit stream: %w", err)
	}
	return edits, nil
}

// WriteGrid truncates (or creates) path and writes the rendered
// snapshot text verbatim.
func WriteGrid(path, rendered string) error {
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("ioformat: write view grid: %w", err)
	}
	return nil
}

// ChangeLog appends per-edit blocks to changes.txt: an
// `after "<edit-line>":` header followed by one `<row> <col> <value>`
// line per changed coordinate, in coordinate order.
type ChangeLog struct {
	f *os.File
}

// NewChangeLog truncates (or creates) path. The file is cleared up
// front, before any edits are known to exist, so a run whose edit
// stream turns out empty still leaves behind an empty changelog rather
// than a stale one from a previous run.
func NewChangeLog(path string) (*ChangeLog, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("ioformat: create changelog: %w", err)
	}
	return &ChangeLog{f: f}, nil
}

// Append writes one block for the edit line `after` and the changed
// coordinates in entries, sorted by coordinate.
func (c *ChangeLog) Append(after string, entries map[coord.Coordinate]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "after %q:\n", after)

	coords := make([]coord.Coordinate, 0, len(entries))
	for at := range entries {
		coords = append(coords, at)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })

	for _, at := range coords {
		fmt.Fprintf(&b, "%d %d %s\n", at.Row, at.Col, entries[at])
	}

	if _, err := c.f.WriteString(b.String()); err != nil {
		return fmt.Errorf("ioformat: append changelog: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (c *ChangeLog) Close() error {
	return c.f.Close()
}
