package sketch

import (
	"github.com/cespare/xxhash/v2"
	"github.com/holiman/bloomfilter/v2"

	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
)

// BloomSketch answers OpEQ/OpNE membership probes against a probabilistic
// set of a field's string values, per §3.5's "per-field string synopsis".
// Every other operator is Unknown: a Bloom filter has no notion of order.
type BloomSketch struct {
	filter *bloomfilter.Filter
}

// NewBloomSketch builds a filter sized for maxElements distinct values at
// the given false-positive rate and adds every value in values.
func NewBloomSketch(values []string, maxElements uint64, falsePositiveRate float64) (*BloomSketch, error) {
	if maxElements == 0 {
		maxElements = 1
	}
	filter, err := bloomfilter.NewOptimal(maxElements, falsePositiveRate)
	if err != nil {
		return nil, err
	}
	s := &BloomSketch{filter: filter}
	for _, v := range values {
		s.filter.Add(digestOf(v))
	}
	return s, nil
}

func digestOf(s string) *xxhash.Digest {
	h := xxhash.New()
	_, _ = h.WriteString(s)
	return h
}

// Lookup implements Sketch. A Bloom filter can only ever answer "definitely
// absent" (on a miss) or "unknown" (on a hit, since hits may be false
// positives) — it can never claim MaybePresent with any more confidence
// than Unknown already conveys, so a hit and Unknown collapse to the same
// verdict here; only a provable miss narrows the candidate set.
func (s *BloomSketch) Lookup(op expr.RelOp, d evtype.Data) Answer {
	str, ok := d.Str()
	if !ok {
		return Unknown
	}
	present := s.filter.Contains(digestOf(str))
	switch op {
	case expr.OpEQ:
		if !present {
			return DefinitelyAbsent
		}
		return Unknown
	case expr.OpNE:
		return Unknown
	default:
		return Unknown
	}
}

// ByteSize reports the filter's bit-array footprint, satisfying the
// optional sizer interface memusage() estimation uses.
func (s *BloomSketch) ByteSize() uint64 {
	return s.filter.M() / 8
}
