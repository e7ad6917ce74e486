package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
)

func field(name string) expr.Operand { return expr.FieldExtractor{Key: name} }
func lit(d evtype.Data) expr.Operand { return expr.DataOperand{Value: d} }

func pred(f string, op expr.RelOp, d evtype.Data) expr.Expr {
	return expr.Pred{Lhs: field(f), Op: op, Rhs: lit(d)}
}

func TestNormalizeCanonicalizesDataOnToTheRight(t *testing.T) {
	// Data on the left, with an operator that has a well-defined flip.
	e := expr.Pred{Lhs: lit(evtype.Int(3)), Op: expr.OpLT, Rhs: field("x")}
	n, err := expr.NormalizeAndValidate(e)
	require.NoError(t, err)

	p, ok := n.(expr.Pred)
	require.True(t, ok)
	assert.Equal(t, field("x"), p.Lhs)
	assert.Equal(t, expr.OpGT, p.Op)
	assert.Equal(t, lit(evtype.Int(3)), p.Rhs)
}

func TestNormalizeRejectsTwoDataOperands(t *testing.T) {
	e := expr.Pred{Lhs: lit(evtype.Int(1)), Op: expr.OpEQ, Rhs: lit(evtype.Int(2))}
	_, err := expr.NormalizeAndValidate(e)
	assert.Error(t, err)
}

func TestNormalizeRejectsTwoSelectorOperands(t *testing.T) {
	e := expr.Pred{Lhs: field("a"), Op: expr.OpEQ, Rhs: field("b")}
	_, err := expr.NormalizeAndValidate(e)
	assert.Error(t, err)
}

func TestNormalizePushesNegationThroughDeMorgan(t *testing.T) {
	inner := expr.Conj{Operands: []expr.Expr{
		pred("a", expr.OpEQ, evtype.Int(1)),
		pred("b", expr.OpEQ, evtype.Int(2)),
	}}
	n, err := expr.NormalizeAndValidate(expr.Neg{Operand: inner})
	require.NoError(t, err)

	d, ok := n.(expr.Disj)
	require.True(t, ok, "NOT(AND) must normalize to OR(NOT ...)")
	require.Len(t, d.Operands, 2)
	for _, op := range d.Operands {
		p, ok := op.(expr.Pred)
		require.True(t, ok)
		assert.Equal(t, expr.OpNE, p.Op)
	}
}

func TestNormalizeFlattensNestedSameKindConnectives(t *testing.T) {
	e := expr.Conj{Operands: []expr.Expr{
		pred("a", expr.OpEQ, evtype.Int(1)),
		expr.Conj{Operands: []expr.Expr{
			pred("b", expr.OpEQ, evtype.Int(2)),
			pred("c", expr.OpEQ, evtype.Int(3)),
		}},
	}}
	n, err := expr.NormalizeAndValidate(e)
	require.NoError(t, err)
	c, ok := n.(expr.Conj)
	require.True(t, ok)
	assert.Len(t, c.Operands, 3)
}

func TestNormalizeEliminatesNoneInsideConnectives(t *testing.T) {
	e := expr.Conj{Operands: []expr.Expr{
		pred("a", expr.OpEQ, evtype.Int(1)),
		expr.None{},
	}}
	n, err := expr.NormalizeAndValidate(e)
	require.NoError(t, err)
	_, ok := n.(expr.Pred)
	assert.True(t, ok, "a singleton conjunction collapses via Hoist")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	e := expr.Neg{Operand: expr.Disj{Operands: []expr.Expr{
		pred("a", expr.OpEQ, evtype.Int(1)),
		expr.Conj{Operands: []expr.Expr{
			pred("b", expr.OpLT, evtype.Int(2)),
			pred("c", expr.OpMatch, evtype.String("foo.*")),
		}},
	}}}

	once, err := expr.NormalizeAndValidate(e)
	require.NoError(t, err)
	twice, err := expr.NormalizeAndValidate(once)
	require.NoError(t, err)
	assert.Equal(t, once.String(), twice.String())
}

func TestNormalizeRejectsMatchOnNonStringSelector(t *testing.T) {
	e := expr.Pred{Lhs: expr.TypeExtractor{Type: evtype.Type{Kind: evtype.TypeInt}}, Op: expr.OpMatch, Rhs: lit(evtype.String("x"))}
	_, err := expr.NormalizeAndValidate(e)
	assert.Error(t, err)
}

func TestTrueSentinelIsNegOfNone(t *testing.T) {
	assert.True(t, expr.IsTrueSentinel(expr.True()))
	assert.False(t, expr.IsTrueSentinel(expr.None{}))
}

func TestNegateIsInvolution(t *testing.T) {
	ops := []expr.RelOp{expr.OpEQ, expr.OpNE, expr.OpLT, expr.OpLE, expr.OpGT, expr.OpGE, expr.OpIn, expr.OpNotIn, expr.OpNI, expr.OpNotNI, expr.OpMatch, expr.OpNoMatch}
	for _, op := range ops {
		assert.Equal(t, op, expr.Negate(expr.Negate(op)), "Negate must be an involution for %s", op)
	}
}

func TestHoistCollapsesSingletonConnectives(t *testing.T) {
	e := expr.Conj{Operands: []expr.Expr{pred("a", expr.OpEQ, evtype.Int(1))}}
	h := expr.Hoist(e)
	_, ok := h.(expr.Pred)
	assert.True(t, ok)
}
