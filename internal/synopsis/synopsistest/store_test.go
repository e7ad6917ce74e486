package synopsistest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basalt-db/evcat/internal/evcaterr"
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/synopsis"
	"github.com/basalt-db/evcat/internal/synopsis/synopsistest"
)

func TestStoreRoundTrips(t *testing.T) {
	s := synopsistest.New()
	id := evtype.NewUUID()
	schema := evtype.Type{Kind: evtype.TypeRecord, Name: "s"}
	syn := synopsis.New(schema, 7, evtype.Time{}, evtype.Time{}, 1)

	ctx := context.Background()
	require.NoError(t, s.Write(ctx, id, syn))

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Same(t, syn, got)
}

func TestStoreLoadMissingReturnsLookupError(t *testing.T) {
	s := synopsistest.New()
	_, err := s.Load(context.Background(), evtype.NewUUID())
	assert.True(t, evcaterr.Is(err, evcaterr.LookupError))
}
