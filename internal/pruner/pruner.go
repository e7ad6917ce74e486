// Package pruner implements the string-literal deduplication rewrite
// described in §4.4: collapsing repeated `field == "literal"` lookups
// across many field names into one `:string == "literal"` probe, since
// a sketch lookup for the same literal answers the same question
// regardless of which field produced it.
//
// Grounded directly on the reference implementation's pruner (a
// match-based AST visitor that memoizes predicates by (op, literal)
// within each connective and rewrites the second-and-later occurrence's
// left side to a bare string type-extractor) — the Go rendering below is
// the same algorithm over the expr package's sum type instead of a
// variant visitor.
package pruner

import (
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/setutil"
)

// stringTypeExtractor is the canonical `:string` selector every collapsed
// duplicate is rewritten to.
var stringTypeExtractor = expr.TypeExtractor{Type: evtype.Type{Kind: evtype.TypeString}}

// Prune rewrites e to deduplicate equivalent string-literal lookups,
// running the rewrite and Hoist to a fixed point (§4.4).
func Prune(e expr.Expr, unprunableFields setutil.StringSet) expr.Expr {
	result := expr.Hoist(prune(e, unprunableFields))
	for !exprEqual(result, e) {
		e = result
		result = expr.Hoist(prune(e, unprunableFields))
	}
	return result
}

func prune(e expr.Expr, unprunable setutil.StringSet) expr.Expr {
	switch x := e.(type) {
	case expr.None:
		return x
	case expr.Neg:
		return expr.Neg{Operand: prune(x.Operand, unprunable)}
	case expr.Conj:
		return expr.Conj{Operands: pruneConnective(x.Operands, unprunable)}
	case expr.Disj:
		return expr.Disj{Operands: pruneConnective(x.Operands, unprunable)}
	case expr.Pred:
		return x
	default:
		return e
	}
}

// memoKey identifies a (op, string literal) pair whose first occurrence
// within a connective is kept verbatim and whose later occurrences
// collapse onto the :string type extractor.
type memoKey struct {
	op  expr.RelOp
	lit string
}

func pruneConnective(operands []expr.Expr, unprunable setutil.StringSet) []expr.Expr {
	result := make([]expr.Expr, 0, len(operands))
	seen := make(map[memoKey]bool)
	for _, operand := range operands {
		if p, lit, ok := prunablePredicate(operand, unprunable); ok {
			key := memoKey{op: p.Op, lit: lit}
			if seen[key] {
				collapsed := p
				collapsed.Lhs = stringTypeExtractor
				result = appendUnique(result, collapsed)
				continue
			}
			seen[key] = true
			result = appendUnique(result, p)
			continue
		}
		result = appendUnique(result, prune(operand, unprunable))
	}
	return result
}

// appendUnique appends e unless an operand structurally identical to it
// (by rendered String()) is already present. Without this, three or more
// occurrences of the same literal within one connective collapse to
// several copies of the same `:string == lit` predicate instead of one
// (§4.4/§8 Scenario 1), and lookup_impl's Conj/Disj evaluation would keep
// searching the catalog for that literal once per copy.
func appendUnique(operands []expr.Expr, e expr.Expr) []expr.Expr {
	s := e.String()
	for _, o := range operands {
		if o.String() == s {
			return operands
		}
	}
	return append(operands, e)
}

// prunablePredicate reports whether operand is a
// `FieldExtractor(f) op String(s)` predicate with f not in unprunable, or
// a `TypeExtractor(string) op String(s)` predicate — the two shapes §4.4
// says are eligible for collapsing — and returns its string literal.
func prunablePredicate(operand expr.Expr, unprunable setutil.StringSet) (expr.Pred, string, bool) {
	p, ok := operand.(expr.Pred)
	if !ok {
		return expr.Pred{}, "", false
	}
	data, ok := p.Rhs.(expr.DataOperand)
	if !ok {
		return expr.Pred{}, "", false
	}
	lit, ok := data.Value.Str()
	if !ok {
		return expr.Pred{}, "", false
	}
	switch lhs := p.Lhs.(type) {
	case expr.FieldExtractor:
		if unprunable.Contains(lhs.Key) {
			return expr.Pred{}, "", false
		}
		return p, lit, true
	case expr.TypeExtractor:
		if lhs.Type.Kind == evtype.TypeString {
			return p, lit, true
		}
	}
	return expr.Pred{}, "", false
}

// exprEqual is a structural equality check used only to detect the pruner
// fixed point; it need not (and does not) handle every Expr shape with
// maximal efficiency, only correctly.
func exprEqual(a, b expr.Expr) bool {
	return a.String() == b.String()
}
