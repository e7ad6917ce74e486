package taxonomy_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/taxonomy"
)

func schema() evtype.Type {
	return evtype.Type{
		Kind: evtype.TypeRecord,
		Name: "net.flow",
		Fields: []evtype.Field{
			{Name: "src_ip", Type: evtype.Type{Kind: evtype.TypeIP}},
			{Name: "dst_ip", Type: evtype.Type{Kind: evtype.TypeIP}},
			{Name: "id", Type: evtype.Type{Kind: evtype.TypeString}},
		},
	}
}

func TestMatchesSuffixBareFieldName(t *testing.T) {
	assert.True(t, taxonomy.MatchesSuffix("src_ip", "", "src_ip"))
	assert.False(t, taxonomy.MatchesSuffix("ip", "", "src_ip"), "must match at a dot boundary, not mid-token")
}

func TestMatchesSuffixDottedPath(t *testing.T) {
	assert.True(t, taxonomy.MatchesSuffix("flow.src_ip", "net.flow", "src_ip"))
	assert.False(t, taxonomy.MatchesSuffix("other.src_ip", "net.flow", "src_ip"))
}

func TestMatchesSuffixFullyQualified(t *testing.T) {
	assert.True(t, taxonomy.MatchesSuffix("net.flow.src_ip", "net.flow", "src_ip"))
}

func TestResolveExpandsConceptToMatchingFields(t *testing.T) {
	concepts := taxonomy.Concepts{
		"net.ip": {Fields: []string{"src_ip", "dst_ip"}},
	}
	p := expr.Pred{
		Lhs: expr.FieldExtractor{Key: "net.ip"},
		Op:  expr.OpEQ,
		Rhs: expr.DataOperand{Value: evtype.IP(mustParseIP(t, "10.0.0.1"))},
	}
	resolved, err := taxonomy.Resolve(concepts, p, schema())
	require.NoError(t, err)

	d, ok := resolved.(expr.Disj)
	require.True(t, ok, "a concept expanding to >1 field becomes a disjunction")
	assert.Len(t, d.Operands, 2)
}

func TestResolveFiltersByTypeCompatibility(t *testing.T) {
	concepts := taxonomy.Concepts{
		// "any_field" expands to a string field and both ip fields, but the
		// literal is an IP, so only the ip fields survive the filter.
		"any_field": {Fields: []string{"src_ip", "dst_ip", "id"}},
	}
	p := expr.Pred{
		Lhs: expr.FieldExtractor{Key: "any_field"},
		Op:  expr.OpEQ,
		Rhs: expr.DataOperand{Value: evtype.IP(mustParseIP(t, "10.0.0.1"))},
	}
	resolved, err := taxonomy.Resolve(concepts, p, schema())
	require.NoError(t, err)
	d, ok := resolved.(expr.Disj)
	require.True(t, ok)
	assert.Len(t, d.Operands, 2)
}

func TestResolveKeepsPredicateUnchangedWhenNotAConcept(t *testing.T) {
	p := expr.Pred{Lhs: expr.FieldExtractor{Key: "src_ip"}, Op: expr.OpEQ, Rhs: expr.DataOperand{Value: evtype.IP(mustParseIP(t, "10.0.0.1"))}}
	resolved, err := taxonomy.Resolve(taxonomy.Concepts{}, p, schema())
	require.NoError(t, err)
	assert.Equal(t, p, resolved)
}

func TestResolveNeverStrengthensOnEmptyExpansion(t *testing.T) {
	concepts := taxonomy.Concepts{
		"ghost": {Fields: []string{"nonexistent_field"}},
	}
	p := expr.Pred{Lhs: expr.FieldExtractor{Key: "ghost"}, Op: expr.OpEQ, Rhs: expr.DataOperand{Value: evtype.Int(1)}}
	resolved, err := taxonomy.Resolve(concepts, p, schema())
	require.NoError(t, err)
	assert.Equal(t, p, resolved, "an expansion matching nothing keeps the original predicate, never narrows to None")
}

func TestResolveTerminatesOnCyclicConcepts(t *testing.T) {
	concepts := taxonomy.Concepts{
		"a": {Concepts: []string{"b"}, Fields: []string{"src_ip"}},
		"b": {Concepts: []string{"a"}, Fields: []string{"dst_ip"}},
	}
	p := expr.Pred{Lhs: expr.FieldExtractor{Key: "a"}, Op: expr.OpEQ, Rhs: expr.DataOperand{Value: evtype.IP(mustParseIP(t, "10.0.0.1"))}}
	resolved, err := taxonomy.Resolve(concepts, p, schema())
	require.NoError(t, err)
	d, ok := resolved.(expr.Disj)
	require.True(t, ok)
	assert.Len(t, d.Operands, 2)
}

func mustParseIP(t *testing.T, s string) netip.Addr {
	t.Helper()
	a, err := netip.ParseAddr(s)
	require.NoError(t, err)
	return a
}
