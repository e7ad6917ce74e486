// Package expr implements the algebraic query representation described in
// §3.2: a small closed sum type (Pred/Conj/Disj/Neg/None) with exhaustive
// matching everywhere it's consumed, replacing the teacher's interface
// hierarchy (query.Pattern/query.Predicate, datalog/query/predicate.go) —
// per §9's redesign flag against dynamic dispatch over expression nodes.
package expr

import (
	"fmt"
	"strings"

	"github.com/basalt-db/evcat/internal/evtype"
)

// Expr is the closed sum type every query is built from.
type Expr interface {
	isExpr()
	String() string
}

// Pred is a single relational predicate: exactly one side must be a Data
// operand (§3.2 invariant).
type Pred struct {
	Lhs Operand
	Op  RelOp
	Rhs Operand
}

func (Pred) isExpr() {}

func (p Pred) String() string {
	return fmt.Sprintf("%s %s %s", p.Lhs, p.Op, p.Rhs)
}

// Conj is a (possibly empty only transiently, pre-normalization)
// conjunction of sub-expressions.
type Conj struct {
	Operands []Expr
}

func (Conj) isExpr() {}

func (c Conj) String() string {
	parts := make([]string, len(c.Operands))
	for i, o := range c.Operands {
		parts[i] = o.String()
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// Disj is a (possibly empty only transiently) disjunction of sub-expressions.
type Disj struct {
	Operands []Expr
}

func (Disj) isExpr() {}

func (d Disj) String() string {
	parts := make([]string, len(d.Operands))
	for i, o := range d.Operands {
		parts[i] = o.String()
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Neg negates a sub-expression.
type Neg struct {
	Operand Expr
}

func (Neg) isExpr() {}

func (n Neg) String() string {
	return "NOT " + n.Operand.String()
}

// None represents an unsatisfiable or absent expression (§3.2).
type None struct{}

func (None) isExpr() {}

func (None) String() string { return "<none>" }

// True is the trivially-true sentinel expression used by §4.1 step 1 to
// replace a bare None at the top of a lookup: Neg(None) always evaluates
// via the negation case, which §4.1 specifies unconditionally returns
// every partition — so "true" needs no dedicated Expr variant of its own.
func True() Expr {
	return Neg{Operand: None{}}
}

// IsTrueSentinel reports whether e is exactly the True() sentinel, used by
// callers (e.g. the streaming lookup) that want to special-case it without
// re-deriving the shape.
func IsTrueSentinel(e Expr) bool {
	n, ok := e.(Neg)
	if !ok {
		return false
	}
	_, ok = n.Operand.(None)
	return ok
}

// Operand is one side of a Pred: a literal, a field/type/meta extractor.
type Operand interface {
	isOperand()
	String() string
}

// DataOperand wraps a literal value.
type DataOperand struct {
	Value evtype.Data
}

func (DataOperand) isOperand()      {}
func (d DataOperand) String() string { return d.Value.String() }

// FieldExtractor names a dotted field path (possibly a taxonomy concept
// name prior to resolution, §4.3).
type FieldExtractor struct {
	Key string
}

func (FieldExtractor) isOperand()      {}
func (f FieldExtractor) String() string { return f.Key }

// TypeExtractor selects by leaf type rather than by name.
type TypeExtractor struct {
	Type evtype.Type
}

func (TypeExtractor) isOperand() {}
func (t TypeExtractor) String() string {
	if t.Type.Name == "" {
		return ":" + t.Type.Kind.String()
	}
	return ":" + t.Type.Name
}

// MetaKind enumerates the closed set of meta-extractor kinds (§3.2, §9:
// "adding a new meta-extractor must be a compile-time event").
type MetaKind uint8

const (
	MetaSchema MetaKind = iota
	MetaSchemaID
	MetaImportTime
	MetaInternal
)

func (k MetaKind) String() string {
	switch k {
	case MetaSchema:
		return "#schema"
	case MetaSchemaID:
		return "#schema_id"
	case MetaImportTime:
		return "#import_time"
	case MetaInternal:
		return "#internal"
	default:
		return "#unknown"
	}
}

// MetaExtractor selects one of the fixed metadata channels (§3.2).
type MetaExtractor struct {
	Kind MetaKind
}

func (MetaExtractor) isOperand()      {}
func (m MetaExtractor) String() string { return m.Kind.String() }

// RelOp is a relational operator.
type RelOp string

const (
	OpEQ      RelOp = "=="
	OpNE      RelOp = "!="
	OpLT      RelOp = "<"
	OpLE      RelOp = "<="
	OpGT      RelOp = ">"
	OpGE      RelOp = ">="
	OpIn      RelOp = "in"
	OpNotIn   RelOp = "!in"
	OpNI      RelOp = "ni"
	OpNotNI   RelOp = "!ni"
	OpMatch   RelOp = "match"
	OpNoMatch RelOp = "!match"
)

// Negate returns the operator's logical negation (§3.2).
func Negate(op RelOp) RelOp {
	switch op {
	case OpEQ:
		return OpNE
	case OpNE:
		return OpEQ
	case OpLT:
		return OpGE
	case OpLE:
		return OpGT
	case OpGT:
		return OpLE
	case OpGE:
		return OpLT
	case OpIn:
		return OpNotIn
	case OpNotIn:
		return OpIn
	case OpNI:
		return OpNotNI
	case OpNotNI:
		return OpNI
	case OpMatch:
		return OpNoMatch
	case OpNoMatch:
		return OpMatch
	default:
		return op
	}
}

// hasFlip reports whether op has a well-defined lhs/rhs flip (§4.2 step 4):
// the six ordering/equality comparisons flip outright; in/ni/match are
// asymmetric by nature (the data side is fixed by the operator's meaning)
// and are handled specially by the normalizer instead.
func hasFlip(op RelOp) bool {
	switch op {
	case OpEQ, OpNE, OpLT, OpLE, OpGT, OpGE:
		return true
	default:
		return false
	}
}

// flip returns the operator to use when lhs/rhs are swapped.
func flip(op RelOp) RelOp {
	switch op {
	case OpLT:
		return OpGT
	case OpLE:
		return OpGE
	case OpGT:
		return OpLT
	case OpGE:
		return OpLE
	default:
		return op // ==, != are symmetric
	}
}
