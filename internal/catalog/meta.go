package catalog

import (
	"regexp"

	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/partition"
	"github.com/basalt-db/evcat/internal/sketch"
	"github.com/basalt-db/evcat/internal/taxonomy"
)

// MatchesSuffix is §4.1's field-extractor suffix match; the algorithm
// itself lives in taxonomy (concept resolution needs the same logic
// against a schema's own leaves) and is re-exported here so the evaluator
// doesn't need to import taxonomy for an unrelated reason.
func MatchesSuffix(key, schemaName, fieldName string) bool {
	return taxonomy.MatchesSuffix(key, schemaName, fieldName)
}

// evalMeta implements §4.1 case 1, the four MetaExtractor kinds.
func (ev *evaluator) evalMeta(m expr.MetaExtractor, op expr.RelOp, d evtype.Data) []partition.Info {
	switch m.Kind {
	case expr.MetaSchema:
		return ev.evalMetaSchema(op, d)
	case expr.MetaSchemaID:
		return ev.evalMetaSchemaID(op, d)
	case expr.MetaImportTime:
		return ev.evalMetaImportTime(op, d)
	case expr.MetaInternal:
		return ev.evalMetaInternal(op, d)
	default:
		return ev.allPartitions()
	}
}

// evalMetaSchema includes a partition if any of its leaf fields' schema
// name satisfies op(schema_name, data).
func (ev *evaluator) evalMetaSchema(op expr.RelOp, d evtype.Data) []partition.Info {
	var out []partition.Info
	for _, u := range ev.bucket.order {
		s := ev.bucket.byUUID[u]
		matched := false
		for _, fs := range s.FieldSketches {
			if matchOp(op, evtype.String(fs.Field.SchemaName), d) {
				matched = true
				break
			}
		}
		if matched {
			out = append(out, infoFor(u, s))
		}
	}
	partition.SortByUUID(out)
	return out
}

// evalMetaSchemaID evaluates op(fingerprint(schema), data) once per schema
// and includes all partitions in the bucket when it holds.
func (ev *evaluator) evalMetaSchemaID(op expr.RelOp, d evtype.Data) []partition.Info {
	fp := ev.bucket.schema.Fingerprint()
	if matchOp(op, evtype.Uint(fp), d) {
		return ev.allPartitions()
	}
	return nil
}

// evalMetaImportTime treats each partition's [min, max] import-time span
// as an interval sketch and queries it one-sidedly.
func (ev *evaluator) evalMetaImportTime(op expr.RelOp, d evtype.Data) []partition.Info {
	var out []partition.Info
	for _, u := range ev.bucket.order {
		s := ev.bucket.byUUID[u]
		sk := sketch.NewIntervalSketch(evtype.TimeData(s.MinImportTime), evtype.TimeData(s.MaxImportTime))
		if sk.Lookup(op, d) != sketch.DefinitelyAbsent {
			out = append(out, infoFor(u, s))
		}
	}
	partition.SortByUUID(out)
	return out
}

// evalMetaInternal includes every partition iff op(present_as_bool, data)
// holds for the schema's "internal" attribute.
func (ev *evaluator) evalMetaInternal(op expr.RelOp, d evtype.Data) []partition.Info {
	_, present := ev.bucket.schema.Attribute("internal")
	if matchOp(op, evtype.Bool(present), d) {
		return ev.allPartitions()
	}
	return nil
}

// matchOp evaluates a relational operator between two concrete Data
// values directly — used only by the meta-extractor paths above, which
// compare against catalog-derived scalars rather than going through a
// Sketch's one-sided contract.
func matchOp(op expr.RelOp, lhs, rhs evtype.Data) bool {
	switch op {
	case expr.OpEQ:
		return evtype.Equal(lhs, rhs)
	case expr.OpNE:
		return !evtype.Equal(lhs, rhs)
	case expr.OpLT, expr.OpLE, expr.OpGT, expr.OpGE:
		cmp, ok := evtype.Compare(lhs, rhs)
		if !ok {
			return false
		}
		switch op {
		case expr.OpLT:
			return cmp < 0
		case expr.OpLE:
			return cmp <= 0
		case expr.OpGT:
			return cmp > 0
		default:
			return cmp >= 0
		}
	case expr.OpIn, expr.OpNotIn:
		list, ok := rhs.ListVal()
		found := false
		if ok {
			for _, item := range list {
				if evtype.Equal(lhs, item) {
					found = true
					break
				}
			}
		}
		if op == expr.OpIn {
			return found
		}
		return !found
	case expr.OpNI, expr.OpNotNI:
		list, ok := lhs.ListVal()
		found := false
		if ok {
			for _, item := range list {
				if evtype.Equal(item, rhs) {
					found = true
					break
				}
			}
		}
		if op == expr.OpNI {
			return found
		}
		return !found
	case expr.OpMatch, expr.OpNoMatch:
		ls, lok := lhs.Str()
		rs, rok := rhs.Str()
		matched := false
		if lok && rok {
			if re, err := regexp.Compile(rs); err == nil {
				matched = re.MatchString(ls)
			}
		}
		if op == expr.OpMatch {
			return matched
		}
		return !matched
	default:
		return false
	}
}
