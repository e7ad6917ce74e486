// Package taxonomy implements concept expansion (§3.3, §4.3): named
// aliases for sets of concrete field names (and other concepts), resolved
// against a schema's leaves before a query reaches the candidate lookup.
package taxonomy

import (
	"github.com/basalt-db/evcat/internal/evcaterr"
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
)

// maxExpansionDepth bounds concept closure traversal (§3.3, §8 property 5).
const maxExpansionDepth = 32

// Concept is a named alias for a set of concrete field names and other
// concepts, forming a DAG of logical field groups.
type Concept struct {
	Description string
	Fields      []string
	Concepts    []string
}

// Concepts is the full named taxonomy; keys are unique by construction
// (it's a map).
type Concepts map[string]Concept

// expand returns the transitive closure of concrete field names reachable
// from name, using a FIFO worklist with a visited set so cyclic input
// terminates (§3.3, §8 property 5).
func (c Concepts) expand(name string) []string {
	var fields []string
	seenConcepts := map[string]bool{name: true}
	worklist := []string{name}
	depth := 0
	for len(worklist) > 0 && depth < maxExpansionDepth {
		depth++
		var next []string
		for _, n := range worklist {
			concept, ok := c[n]
			if !ok {
				continue
			}
			fields = append(fields, concept.Fields...)
			for _, sub := range concept.Concepts {
				if !seenConcepts[sub] {
					seenConcepts[sub] = true
					next = append(next, sub)
				}
			}
		}
		worklist = next
	}
	return fields
}

// Resolve implements §4.3: expand every FieldExtractor predicate whose
// name is a concept into a disjunction over the concrete fields the
// schema actually has, filtered by type compatibility with (op, data).
// If the filtered expansion is empty, the original predicate is kept
// unchanged — concept resolution only ever widens a query, never
// strengthens it.
func Resolve(taxonomies Concepts, e expr.Expr, schema evtype.Type) (expr.Expr, error) {
	switch x := e.(type) {
	case expr.None:
		return x, nil
	case expr.Neg:
		inner, err := Resolve(taxonomies, x.Operand, schema)
		if err != nil {
			return nil, err
		}
		return expr.Neg{Operand: inner}, nil
	case expr.Conj:
		ops, err := resolveAll(taxonomies, x.Operands, schema)
		if err != nil {
			return nil, err
		}
		return expr.Conj{Operands: ops}, nil
	case expr.Disj:
		ops, err := resolveAll(taxonomies, x.Operands, schema)
		if err != nil {
			return nil, err
		}
		return expr.Disj{Operands: ops}, nil
	case expr.Pred:
		return resolvePred(taxonomies, x, schema)
	default:
		return nil, evcaterr.New(evcaterr.InvalidArgument, "unrecognized expression node in resolve")
	}
}

func resolveAll(taxonomies Concepts, operands []expr.Expr, schema evtype.Type) ([]expr.Expr, error) {
	out := make([]expr.Expr, len(operands))
	for i, o := range operands {
		r, err := Resolve(taxonomies, o, schema)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func resolvePred(taxonomies Concepts, p expr.Pred, schema evtype.Type) (expr.Expr, error) {
	fe, feOnLeft := p.Lhs.(expr.FieldExtractor)
	if !feOnLeft {
		var ok bool
		fe, ok = p.Rhs.(expr.FieldExtractor)
		if !ok {
			return p, nil // not a field extractor predicate, nothing to resolve
		}
	}
	dataOperand, dataOnLeft := p.Lhs.(expr.DataOperand)
	if !dataOnLeft {
		dataOperand = p.Rhs.(expr.DataOperand)
	}

	if _, isConcept := taxonomies[fe.Key]; !isConcept {
		return p, nil // not a concept name, keep unchanged
	}

	fields := taxonomies.expand(fe.Key)
	leaves := schema.Leaves()

	var expansions []expr.Expr
	for _, f := range fields {
		for _, leaf := range leaves {
			if !MatchesSuffix(f, "", leaf.QualifiedName) {
				continue
			}
			if !expr.Compatible(leaf.Type, p.Op, dataOperand.Value) {
				continue
			}
			np := p
			if feOnLeft {
				np.Lhs = expr.FieldExtractor{Key: f}
			} else {
				np.Rhs = expr.FieldExtractor{Key: f}
			}
			expansions = append(expansions, np)
		}
	}

	if len(expansions) == 0 {
		return p, nil // never strengthen a query
	}
	if len(expansions) == 1 {
		return expansions[0], nil
	}
	return expr.Disj{Operands: expansions}, nil
}

// MatchesSuffix is §4.1's field-extractor suffix match, reproduced
// verbatim: key may name a bare field-name suffix or a dotted path
// spanning the tail of schemaName and all of fieldName. Concept
// resolution (above) calls this with schemaName == "" since a schema's
// own leaves already carry their full dotted path in fieldName.
func MatchesSuffix(key, schemaName, fieldName string) bool {
	if len(fieldName) >= len(key) {
		return suffixAtDotBoundary(fieldName, key)
	}
	splitAt := len(key) - len(fieldName)
	if splitAt <= 0 {
		return false
	}
	if key[splitAt:] != fieldName || key[splitAt-1] != '.' {
		return false
	}
	return suffixAtDotBoundary(schemaName, key[:splitAt-1])
}

// suffixAtDotBoundary reports whether suffix is a trailing dotted segment
// of whole: either the whole string, or preceded by a '.'.
func suffixAtDotBoundary(whole, suffix string) bool {
	if len(whole) < len(suffix) {
		return false
	}
	idx := len(whole) - len(suffix)
	if whole[idx:] != suffix {
		return false
	}
	return idx == 0 || whole[idx-1] == '.'
}
