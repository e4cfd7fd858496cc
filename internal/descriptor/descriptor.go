// Package descriptor classifies one raw text field (a data.csv cell,
// or the descriptor portion of a user.txt edit line) into a
// cell.Descriptor: a decimal integer 0-255, an Occur formula
// "=#(r1,c1,r2,c2,v)", or anything else (Faulty). Whitespace is
// permitted around the integer and inside the formula's parentheses.
package descriptor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vogtb/occursheet/internal/cell"
	"github.com/vogtb/occursheet/internal/coord"
)

var (
	valueRe = regexp.MustCompile(`^\s*([0-9]{1,3})\s*$`)
	occurRe = regexp.MustCompile(`^\s*=#\(\s*([0-9]+)\s*,\s*([0-9]+)\s*,\s*([0-9]+)\s*,\s*([0-9]+)\s*,\s*([0-9]+)\s*\)\s*$`)
)

// Classify parses raw into a Descriptor. Anything that doesn't match
// either grammar classifies as Faulty — this is never an error, only a
// signal to the caller that the resulting cell has no value.
func Classify(raw string) cell.Descriptor {
	if m := valueRe.FindStringSubmatch(raw); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > cell.MaxValue {
			return cell.FaultyDescriptor()
		}
		return cell.ConstDescriptor(uint8(n))
	}

	if m := occurRe.FindStringSubmatch(raw); m != nil {
		nums := make([]int, 5)
		for i, group := range m[1:] {
			n, err := strconv.Atoi(group)
			if err != nil {
				return cell.FaultyDescriptor()
			}
			nums[i] = n
		}
		r1, c1, r2, c2, target := nums[0], nums[1], nums[2], nums[3], nums[4]
		if target > cell.MaxValue {
			return cell.FaultyDescriptor()
		}
		region := coord.NewRectangle(coord.New(uint32(r1), uint32(c1)), coord.New(uint32(r2), uint32(c2)))
		return cell.OccurDescriptor(region, uint8(target))
	}

	return cell.FaultyDescriptor()
}

// ClassifyRow splits a data.csv row on ";" and classifies every field.
func ClassifyRow(row string) []cell.Descriptor {
	fields := strings.Split(row, ";")
	out := make([]cell.Descriptor, len(fields))
	for i, f := range fields {
		out[i] = Classify(f)
	}
	return out
}
