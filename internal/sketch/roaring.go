package sketch

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
)

// RoaringSketch is an exact synopsis over a partition's distinct integer
// values (§3.5's "per-field discrete-value synopsis" for int/uint/enum
// columns with small cardinality), backed by a roaring bitmap of ordinals.
// Roaring bitmaps index uint32s, so arbitrary int64 values are interned
// into ordinals through a dictionary built at construction time.
type RoaringSketch struct {
	bitmap  *roaring.Bitmap
	ordinal map[int64]uint32
	min     int64
	max     int64
	empty   bool
}

// NewRoaringSketch builds an exact sketch over the given distinct values.
func NewRoaringSketch(values []int64) *RoaringSketch {
	s := &RoaringSketch{
		bitmap:  roaring.New(),
		ordinal: make(map[int64]uint32, len(values)),
		empty:   true,
	}
	for _, v := range values {
		if _, exists := s.ordinal[v]; exists {
			continue
		}
		ord := uint32(len(s.ordinal))
		s.ordinal[v] = ord
		s.bitmap.Add(ord)
		if s.empty || v < s.min {
			s.min = v
		}
		if s.empty || v > s.max {
			s.max = v
		}
		s.empty = false
	}
	return s
}

// Lookup implements Sketch, answering equality exactly via the dictionary
// and ordering operators conservatively via the tracked min/max bounds.
func (s *RoaringSketch) Lookup(op expr.RelOp, d evtype.Data) Answer {
	if s.empty {
		return DefinitelyAbsent
	}
	v, ok := intValue(d)
	if !ok {
		return Unknown
	}
	switch op {
	case expr.OpEQ:
		if ord, found := s.ordinal[v]; found && s.bitmap.Contains(ord) {
			return MaybePresent
		}
		return DefinitelyAbsent
	case expr.OpLT:
		if s.min >= v {
			return DefinitelyAbsent
		}
		return Unknown
	case expr.OpLE:
		if s.min > v {
			return DefinitelyAbsent
		}
		return Unknown
	case expr.OpGT:
		if s.max <= v {
			return DefinitelyAbsent
		}
		return Unknown
	case expr.OpGE:
		if s.max < v {
			return DefinitelyAbsent
		}
		return Unknown
	default:
		return Unknown
	}
}

// ByteSize reports the bitmap's serialized footprint plus the dictionary,
// satisfying the optional sizer interface memusage() estimation uses.
func (s *RoaringSketch) ByteSize() uint64 {
	return s.bitmap.GetSizeInBytes() + uint64(len(s.ordinal))*16
}

func intValue(d evtype.Data) (int64, bool) {
	if v, ok := d.Int(); ok {
		return v, true
	}
	if v, ok := d.Uint(); ok {
		return int64(v), true
	}
	return 0, false
}
