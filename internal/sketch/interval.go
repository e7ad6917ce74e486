package sketch

import (
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
)

// IntervalSketch is a conservative [min, max] range synopsis for ordered
// scalar fields (time, duration, and other totally-ordered types) where
// tracking every distinct value is wasteful — §3.5's "per-field range
// synopsis".
type IntervalSketch struct {
	min, max evtype.Data
}

// NewIntervalSketch builds a range sketch spanning [min, max]; min and max
// must be the same evtype.Kind and mutually ordered, the way a partition
// builder would derive them from the field's observed values.
func NewIntervalSketch(min, max evtype.Data) *IntervalSketch {
	return &IntervalSketch{min: min, max: max}
}

// Lookup implements Sketch. It answers the ordering operators from the
// tracked bounds and OpEQ/OpNE as a special case of range membership; it
// cannot answer in/ni/match and returns Unknown for those.
func (s *IntervalSketch) Lookup(op expr.RelOp, d evtype.Data) Answer {
	switch op {
	case expr.OpEQ:
		if below(d, s.min) || above(d, s.max) {
			return DefinitelyAbsent
		}
		return Unknown
	case expr.OpLT:
		if cmp, ok := evtype.Compare(s.min, d); ok && cmp >= 0 {
			return DefinitelyAbsent
		}
		return Unknown
	case expr.OpLE:
		if cmp, ok := evtype.Compare(s.min, d); ok && cmp > 0 {
			return DefinitelyAbsent
		}
		return Unknown
	case expr.OpGT:
		if cmp, ok := evtype.Compare(s.max, d); ok && cmp <= 0 {
			return DefinitelyAbsent
		}
		return Unknown
	case expr.OpGE:
		if cmp, ok := evtype.Compare(s.max, d); ok && cmp < 0 {
			return DefinitelyAbsent
		}
		return Unknown
	default:
		return Unknown
	}
}

func below(d, min evtype.Data) bool {
	cmp, ok := evtype.Compare(d, min)
	return ok && cmp < 0
}

func above(d, max evtype.Data) bool {
	cmp, ok := evtype.Compare(d, max)
	return ok && cmp > 0
}
