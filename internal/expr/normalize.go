package expr

import (
	"fmt"

	"github.com/basalt-db/evcat/internal/evcaterr"
)

// NormalizeAndValidate implements §4.2: eliminate None operands inside
// connectives, flatten nested same-kind connectives, push Neg through via
// De Morgan, canonicalize Data onto the right where the operator has a
// well-defined flip, and validate operand/operator compatibility.
//
// It is idempotent: NormalizeAndValidate(NormalizeAndValidate(e)) equals
// NormalizeAndValidate(e), which TestNormalizeIsIdempotent in expr_test
// pins down directly.
func NormalizeAndValidate(e Expr) (Expr, error) {
	n, err := normalize(e, false)
	if err != nil {
		return nil, err
	}
	return hoistTop(n), nil
}

// normalize recurses, pushing `negated` down through De Morgan instead of
// materializing Neg nodes around every operand.
func normalize(e Expr, negated bool) (Expr, error) {
	switch x := e.(type) {
	case None:
		if negated {
			return Neg{Operand: None{}}, nil // True() sentinel
		}
		return None{}, nil

	case Neg:
		return normalize(x.Operand, !negated)

	case Conj:
		kind := "conj"
		if negated {
			kind = "disj" // De Morgan: NOT(AND) = OR(NOT ...)
		}
		return normalizeConnective(x.Operands, negated, kind)

	case Disj:
		kind := "disj"
		if negated {
			kind = "conj" // De Morgan: NOT(OR) = AND(NOT ...)
		}
		return normalizeConnective(x.Operands, negated, kind)

	case Pred:
		p := x
		if negated {
			p.Op = Negate(p.Op)
		}
		return canonicalizePred(p)

	default:
		return nil, evcaterr.New(evcaterr.InvalidArgument, fmt.Sprintf("unrecognized expression node %T", e))
	}
}

func normalizeConnective(operands []Expr, negated bool, kind string) (Expr, error) {
	var flat []Expr
	for _, op := range operands {
		n, err := normalize(op, negated)
		if err != nil {
			return nil, err
		}
		if _, isNone := n.(None); isNone {
			continue // eliminate None operands inside connectives
		}
		// Flatten nested same-kind connectives.
		switch sub := n.(type) {
		case Conj:
			if kind == "conj" {
				flat = append(flat, sub.Operands...)
				continue
			}
		case Disj:
			if kind == "disj" {
				flat = append(flat, sub.Operands...)
				continue
			}
		}
		flat = append(flat, n)
	}
	if len(flat) == 0 {
		return None{}, nil // a None-only connective collapses to None
	}
	if kind == "conj" {
		return Conj{Operands: flat}, nil
	}
	return Disj{Operands: flat}, nil
}

// canonicalizePred puts Data on the right whenever the operator has a
// well-defined flip, and validates operand/operator compatibility.
func canonicalizePred(p Pred) (Expr, error) {
	lhsData, lhsIsData := p.Lhs.(DataOperand)
	rhsData, rhsIsData := p.Rhs.(DataOperand)

	if lhsIsData == rhsIsData {
		return nil, evcaterr.New(evcaterr.InvalidArgument,
			"predicate must have exactly one data operand", "predicate", p.String())
	}

	if lhsIsData && hasFlip(p.Op) {
		p.Lhs, p.Rhs = p.Rhs, DataOperand{Value: lhsData.Value}
		p.Op = flip(p.Op)
	}
	_ = rhsData

	selector := p.Lhs
	if _, ok := selector.(DataOperand); ok {
		selector = p.Rhs
	}
	data := p.Rhs
	if _, ok := data.(DataOperand); !ok {
		data = p.Lhs
	}
	d := data.(DataOperand)

	if err := validateOperator(selector, p.Op, d.Value); err != nil {
		return nil, err
	}
	return p, nil
}

// validateOperator rejects operator/operand combinations that can never
// be satisfied, per §4.2 step 5.
func validateOperator(selector Operand, op RelOp, _ interface{}) error {
	switch op {
	case OpMatch, OpNoMatch:
		if fe, ok := selector.(FieldExtractor); ok {
			_ = fe
			return nil
		}
		if te, ok := selector.(TypeExtractor); ok && te.Type.Kind.String() == "string" {
			return nil
		}
		if _, ok := selector.(MetaExtractor); ok {
			return nil
		}
		return evcaterr.New(evcaterr.InvalidArgument,
			"match/!match requires a string-typed selector", "selector", selector.String())
	default:
		return nil
	}
}

// Hoist lifts singleton connectives: Conj([x]) -> x, Disj([x]) -> x (§4.2).
func Hoist(e Expr) Expr {
	switch x := e.(type) {
	case Conj:
		ops := hoistOperands(x.Operands)
		if len(ops) == 1 {
			return ops[0]
		}
		return Conj{Operands: ops}
	case Disj:
		ops := hoistOperands(x.Operands)
		if len(ops) == 1 {
			return ops[0]
		}
		return Disj{Operands: ops}
	case Neg:
		return Neg{Operand: Hoist(x.Operand)}
	default:
		return e
	}
}

func hoistOperands(ops []Expr) []Expr {
	out := make([]Expr, len(ops))
	for i, o := range ops {
		out[i] = Hoist(o)
	}
	return out
}

// hoistTop applies Hoist once at the top level after normalize, matching
// the reference algorithm's "normalize then hoist" pipeline.
func hoistTop(e Expr) Expr {
	return Hoist(e)
}
