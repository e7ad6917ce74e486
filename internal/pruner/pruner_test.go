package pruner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/pruner"
	"github.com/basalt-db/evcat/internal/setutil"
)

func strPred(field, lit string) expr.Expr {
	return expr.Pred{Lhs: expr.FieldExtractor{Key: field}, Op: expr.OpEQ, Rhs: expr.DataOperand{Value: evtype.String(lit)}}
}

func TestPruneCollapsesRepeatedStringLiteralAcrossFields(t *testing.T) {
	e := expr.Disj{Operands: []expr.Expr{
		strPred("a", "needle"),
		strPred("b", "needle"),
	}}
	pruned := pruner.Prune(e, setutil.NewStringSet())

	d, ok := pruned.(expr.Disj)
	require.True(t, ok)
	require.Len(t, d.Operands, 2)

	first, ok := d.Operands[0].(expr.Pred)
	require.True(t, ok)
	_, isField := first.Lhs.(expr.FieldExtractor)
	assert.True(t, isField, "the first occurrence keeps its original field selector")

	second, ok := d.Operands[1].(expr.Pred)
	require.True(t, ok)
	te, isType := second.Lhs.(expr.TypeExtractor)
	require.True(t, isType, "the second occurrence collapses onto a :string selector")
	assert.Equal(t, evtype.TypeString, te.Type.Kind)
}

func TestPruneLeavesUnprunableFieldsAlone(t *testing.T) {
	e := expr.Disj{Operands: []expr.Expr{
		strPred("a", "needle"),
		strPred("b", "needle"),
	}}
	unprunable := setutil.NewStringSet("b")
	pruned := pruner.Prune(e, unprunable)

	d, ok := pruned.(expr.Disj)
	require.True(t, ok)
	for _, op := range d.Operands {
		p, ok := op.(expr.Pred)
		require.True(t, ok)
		_, isField := p.Lhs.(expr.FieldExtractor)
		assert.True(t, isField, "an unprunable field's predicate is never rewritten")
	}
}

func TestPruneLeavesDistinctLiteralsUncollapsed(t *testing.T) {
	e := expr.Disj{Operands: []expr.Expr{
		strPred("a", "one"),
		strPred("b", "two"),
	}}
	pruned := pruner.Prune(e, setutil.NewStringSet())
	d, ok := pruned.(expr.Disj)
	require.True(t, ok)
	for _, op := range d.Operands {
		p, ok := op.(expr.Pred)
		require.True(t, ok)
		_, isField := p.Lhs.(expr.FieldExtractor)
		assert.True(t, isField)
	}
}

func TestPruneCollapsesThreeSiblingsIntoTwoOperands(t *testing.T) {
	e := expr.Disj{Operands: []expr.Expr{
		strPred("a.b.c", "needle"),
		strPred("d.e", "needle"),
		strPred("f.g.h", "needle"),
	}}
	pruned := pruner.Prune(e, setutil.NewStringSet())

	d, ok := pruned.(expr.Disj)
	require.True(t, ok)
	require.Len(t, d.Operands, 2, "the rest must collapse into a single :string predicate, not one copy per duplicate")

	first, ok := d.Operands[0].(expr.Pred)
	require.True(t, ok)
	_, isField := first.Lhs.(expr.FieldExtractor)
	assert.True(t, isField)

	second, ok := d.Operands[1].(expr.Pred)
	require.True(t, ok)
	te, isType := second.Lhs.(expr.TypeExtractor)
	require.True(t, isType)
	assert.Equal(t, evtype.TypeString, te.Type.Kind)
}

func TestPruneIsIdempotent(t *testing.T) {
	e := expr.Disj{Operands: []expr.Expr{
		strPred("a", "needle"),
		strPred("b", "needle"),
		strPred("c", "needle"),
	}}
	once := pruner.Prune(e, setutil.NewStringSet())
	twice := pruner.Prune(once, setutil.NewStringSet())
	assert.Equal(t, once.String(), twice.String())
}

func TestPruneLeavesNonStringPredicatesAlone(t *testing.T) {
	e := expr.Conj{Operands: []expr.Expr{
		expr.Pred{Lhs: expr.FieldExtractor{Key: "count"}, Op: expr.OpEQ, Rhs: expr.DataOperand{Value: evtype.Int(3)}},
	}}
	pruned := pruner.Prune(e, setutil.NewStringSet())
	p, ok := pruned.(expr.Pred)
	require.True(t, ok)
	_, isField := p.Lhs.(expr.FieldExtractor)
	assert.True(t, isField)
}
