// Package cell implements the tagged Const/Occur/Faulty cell model
// and the classification of raw descriptors into cells.
package cell

import (
	"strconv"

	"github.com/vogtb/occursheet/internal/coord"
)

// Kind tags which variant a Cell currently holds.
type Kind uint8

const (
	// KindConst holds a plain byte value.
	KindConst Kind = iota
	// KindOccur holds a region/target/count occurrence formula.
	KindOccur
	// KindFaulty holds nothing displayable.
	KindFaulty
)

// MaxValue is the largest representable byte value; counts saturate at
// this bound, and a constant above it classifies as Faulty.
const MaxValue = 255

// Descriptor is the parsed, not-yet-bounds-checked shape of a cell as
// read from input: either a constant, an Occur formula, or Faulty
// (unparseable). Descriptor is produced by internal/descriptor and
// consumed by the loader and the incremental propagator.
type Descriptor struct {
	Kind   Kind
	Const  uint8
	Region coord.Rectangle
	Target uint8
}

// ConstDescriptor builds a Descriptor for a constant value.
func ConstDescriptor(v uint8) Descriptor {
	return Descriptor{Kind: KindConst, Const: v}
}

// OccurDescriptor builds a Descriptor for an Occur formula.
func OccurDescriptor(region coord.Rectangle, target uint8) Descriptor {
	return Descriptor{Kind: KindOccur, Region: region, Target: target}
}

// FaultyDescriptor builds a Descriptor for an unparseable input.
func FaultyDescriptor() Descriptor {
	return Descriptor{Kind: KindFaulty}
}

// Cell is one grid position: a Const byte, an Occur formula with its
// live count, or Faulty (no value).
type Cell struct {
	Kind   Kind
	Value  uint8           // valid when Kind == KindConst
	Region coord.Rectangle // valid when Kind == KindOccur
	Target uint8           // valid when Kind == KindOccur
	Count  uint8           // valid when Kind == KindOccur, recomputed by the engine
}

// FromDescriptor classifies a Descriptor into a Cell. An Occur
// descriptor whose region is not well-formed is coerced to Faulty here;
// out-of-bounds checking is the caller's responsibility because it
// depends on sheet dimensions not yet known to this package.
func FromDescriptor(d Descriptor) Cell {
	switch d.Kind {
	case KindConst:
		return Cell{Kind: KindConst, Value: d.Const}
	case KindOccur:
		if !d.Region.WellFormed() {
			return Cell{Kind: KindFaulty}
		}
		return Cell{Kind: KindOccur, Region: d.Region, Target: d.Target}
	default:
		return Cell{Kind: KindFaulty}
	}
}

// Faulty returns the Faulty cell.
func Faulty() Cell {
	return Cell{Kind: KindFaulty}
}

// SetFaulty transitions the cell to Faulty in place.
func (c *Cell) SetFaulty() {
	*c = Cell{Kind: KindFaulty}
}

// Reported returns the cell's reported value: its Value for Const, its
// Count for Occur, and (0, false) for Faulty.
func (c Cell) Reported() (uint8, bool) {
	switch c.Kind {
	case KindConst:
		return c.Value, true
	case KindOccur:
		return c.Count, true
	default:
		return 0, false
	}
}

// IncrementCount saturates Count at MaxValue. No-op on non-Occur cells.
func (c *Cell) IncrementCount() {
	if c.Kind != KindOccur {
		return
	}
	if c.Count < MaxValue {
		c.Count++
	}
}

// DecrementCount saturates Count at 0. No-op on non-Occur cells.
func (c *Cell) DecrementCount() {
	if c.Kind != KindOccur {
		return
	}
	if c.Count > 0 {
		c.Count--
	}
}

// SetCount assigns a freshly-computed count, clamped to [0, MaxValue].
func (c *Cell) SetCount(n int) {
	if c.Kind != KindOccur {
		return
	}
	if n < 0 {
		n = 0
	} else if n > MaxValue {
		n = MaxValue
	}
	c.Count = uint8(n)
}

// Display renders the cell's reported value as it appears in a
// snapshot or changelog line: decimal digits, or "P" for Faulty.
func (c Cell) Display() string {
	v, ok := c.Reported()
	if !ok {
		return "P"
	}
	return strconv.Itoa(int(v))
}
