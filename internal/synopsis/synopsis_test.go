package synopsis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/sketch"
	"github.com/basalt-db/evcat/internal/synopsis"
)

func stringSchema() evtype.Type {
	return evtype.Type{
		Kind: evtype.TypeRecord,
		Name: "test.schema",
		Fields: []evtype.Field{
			{Name: "id", Type: evtype.Type{Kind: evtype.TypeString}},
		},
	}
}

func TestNewSynopsisStartsUnfrozen(t *testing.T) {
	s := synopsis.New(stringSchema(), 10, evtype.Time{}, evtype.Time{}, 1)
	assert.False(t, s.Frozen())
}

func TestFreezeSortsFieldSketchesByName(t *testing.T) {
	s := synopsis.New(stringSchema(), 10, evtype.Time{}, evtype.Time{}, 1)
	bloomZ, err := sketch.NewBloomSketch([]string{"z"}, 8, 0.01)
	require.NoError(t, err)
	bloomA, err := sketch.NewBloomSketch([]string{"a"}, 8, 0.01)
	require.NoError(t, err)

	s.AddFieldSketch(synopsis.QRF{SchemaName: "test.schema", FieldName: "zeta", Type: evtype.Type{Kind: evtype.TypeString}}, bloomZ)
	s.AddFieldSketch(synopsis.QRF{SchemaName: "test.schema", FieldName: "alpha", Type: evtype.Type{Kind: evtype.TypeString}}, bloomA)
	s.Freeze()

	require.True(t, s.Frozen())
	require.Len(t, s.FieldSketches, 2)
	assert.Equal(t, "alpha", s.FieldSketches[0].Field.FieldName)
	assert.Equal(t, "zeta", s.FieldSketches[1].Field.FieldName)
}

func TestNilFieldSketchIsTheNoSketchSentinel(t *testing.T) {
	s := synopsis.New(stringSchema(), 10, evtype.Time{}, evtype.Time{}, 1)
	s.AddFieldSketch(synopsis.QRF{SchemaName: "test.schema", FieldName: "id", Type: evtype.Type{Kind: evtype.TypeString}}, nil)
	require.Len(t, s.FieldSketches, 1)
	assert.Nil(t, s.FieldSketches[0].Sketch)
}

func TestTypeSketchForMatchesByNormalizedCongruence(t *testing.T) {
	s := synopsis.New(stringSchema(), 10, evtype.Time{}, evtype.Time{}, 1)
	bloom, err := sketch.NewBloomSketch([]string{"x"}, 8, 0.01)
	require.NoError(t, err)

	// Register under a *named* string type; lookup uses a bare (nameless)
	// string type, which must still match since TypeSketchFor normalizes.
	s.AddTypeSketch(evtype.Type{Kind: evtype.TypeString, Name: "some_alias"}, bloom)

	found, ok := s.TypeSketchFor(evtype.Type{Kind: evtype.TypeString}.Normalized())
	assert.True(t, ok)
	assert.Same(t, bloom, found)
}

func TestTypeSketchForMissesOnDifferentStructuralType(t *testing.T) {
	s := synopsis.New(stringSchema(), 10, evtype.Time{}, evtype.Time{}, 1)
	bloom, err := sketch.NewBloomSketch([]string{"x"}, 8, 0.01)
	require.NoError(t, err)
	s.AddTypeSketch(evtype.Type{Kind: evtype.TypeString}, bloom)

	_, ok := s.TypeSketchFor(evtype.Type{Kind: evtype.TypeInt}.Normalized())
	assert.False(t, ok)
}
