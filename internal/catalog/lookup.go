package catalog

import (
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/partition"
	"github.com/basalt-db/evcat/internal/setutil"
	"github.com/basalt-db/evcat/internal/sketch"
	"github.com/basalt-db/evcat/internal/synopsis"
)

// lookupImpl evaluates expr against one schema's bucket, implementing
// §4.1's recursive lookup_impl over the already resolved-and-pruned
// expression. It returns the sorted-by-uuid candidate set.
func (c *Catalog) lookupImpl(schemaFP uint64, e expr.Expr) []partition.Info {
	b := c.buckets[schemaFP]
	if b == nil {
		return nil
	}
	ev := &evaluator{bucket: b}
	return ev.eval(e)
}

func infoFor(id evtype.UUID, s *synopsis.PartitionSynopsis) partition.Info {
	return partition.Info{
		UUID:          id,
		Events:        s.Events,
		MaxImportTime: s.MaxImportTime,
		Schema:        s.Schema,
		Version:       s.Version,
	}
}

// evaluator carries the per-call memoization lookup_impl needs for
// all_partitions() (§4.1: "computed lazily, memoized per call").
type evaluator struct {
	bucket      *bucket
	allCache    []partition.Info
	allComputed bool
}

func (ev *evaluator) allPartitions() []partition.Info {
	if ev.allComputed {
		return ev.allCache
	}
	out := make([]partition.Info, 0, len(ev.bucket.order))
	for _, u := range ev.bucket.order {
		out = append(out, infoFor(u, ev.bucket.byUUID[u]))
	}
	partition.SortByUUID(out)
	ev.allCache = out
	ev.allComputed = true
	return out
}

// eval recurses on expr's shape exactly per §4.1's lookup_impl.
func (ev *evaluator) eval(e expr.Expr) []partition.Info {
	switch x := e.(type) {
	case expr.Conj:
		if len(x.Operands) == 0 {
			return ev.allPartitions()
		}
		result := ev.eval(x.Operands[0])
		for _, operand := range x.Operands[1:] {
			if len(result) == 0 {
				break // short-circuit: conjunction already empty
			}
			next := ev.eval(operand)
			result = setutil.Intersect(result, next, partition.Key)
		}
		return result

	case expr.Disj:
		all := ev.allPartitions()
		var result []partition.Info
		for _, operand := range x.Operands {
			next := ev.eval(operand)
			result = setutil.Union(result, next, partition.Key)
			if len(result) == len(all) {
				return all // short-circuit: already the full partition set
			}
		}
		return result

	case expr.Neg:
		// Negation always returns all_partitions() (§4.1): one-sided
		// sketch answers would become false negatives if negated. This is
		// also why True() is represented as Neg{None} rather than its own
		// Expr variant — this case covers both.
		return ev.allPartitions()

	case expr.Pred:
		return ev.evalPred(x)

	default:
		return ev.allPartitions() // None or any other shape: conservative
	}
}

func (ev *evaluator) evalPred(p expr.Pred) []partition.Info {
	selector := p.Lhs
	data, ok := p.Rhs.(expr.DataOperand)
	if !ok {
		data = p.Lhs.(expr.DataOperand)
		selector = p.Rhs
	}

	switch sel := selector.(type) {
	case expr.MetaExtractor:
		return ev.evalMeta(sel, p.Op, data.Value)
	case expr.FieldExtractor:
		return ev.searchPass(func(f synopsis.QRF) bool {
			return MatchesSuffix(sel.Key, f.SchemaName, f.FieldName) && expr.Compatible(f.Type, p.Op, data.Value)
		}, p.Op, data.Value)
	case expr.TypeExtractor:
		if sel.Type.Name == "" {
			return ev.searchPass(func(f synopsis.QRF) bool {
				return evtype.Congruent(f.Type, sel.Type)
			}, p.Op, data.Value)
		}
		return ev.searchPass(func(f synopsis.QRF) bool {
			return f.Type.Name == sel.Type.Name && expr.Compatible(f.Type, p.Op, data.Value)
		}, p.Op, data.Value)
	default:
		return ev.allPartitions() // §4.1 case 4: anything else is conservative
	}
}

// searchPass implements §4.1's search pass: scan each partition's
// field_synopses, include the partition on the first field that matches
// and doesn't answer DefinitelyAbsent, falling back to type_synopses for
// the no-dedicated-sketch sentinel.
func (ev *evaluator) searchPass(match func(synopsis.QRF) bool, op expr.RelOp, d evtype.Data) []partition.Info {
	var out []partition.Info
	for _, u := range ev.bucket.order {
		s := ev.bucket.byUUID[u]
		if partitionMatches(s, match, op, d) {
			out = append(out, infoFor(u, s))
		}
	}
	partition.SortByUUID(out)
	return out
}

func partitionMatches(s *synopsis.PartitionSynopsis, match func(synopsis.QRF) bool, op expr.RelOp, d evtype.Data) bool {
	for _, fs := range s.FieldSketches {
		if !match(fs.Field) {
			continue
		}
		if fs.Sketch != nil {
			if fs.Sketch.Lookup(op, d) != sketch.DefinitelyAbsent {
				return true
			}
			continue
		}
		// sentinel: no dedicated sketch, fall back to the field's
		// normalized-type entry in type_synopses.
		normalized := fs.Field.Type.Normalized()
		if ts, ok := s.TypeSketchFor(normalized); ok {
			if ts.Lookup(op, d) != sketch.DefinitelyAbsent {
				return true
			}
			continue
		}
		return true // no fallback either: include conservatively
	}
	return false
}
