package badgerstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basalt-db/evcat/internal/evcaterr"
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/synopsis"
	"github.com/basalt-db/evcat/internal/synopsis/badgerstore"
)

func TestStoreRoundTripsCoarseMetadata(t *testing.T) {
	store, err := badgerstore.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	id := evtype.NewUUID()
	minT := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	maxT := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	schema := evtype.Type{Kind: evtype.TypeRecord, Name: "net.flow"}
	syn := synopsis.New(schema, 42, evtype.NewTime(minT), evtype.NewTime(maxT), 3)

	ctx := context.Background()
	require.NoError(t, store.Write(ctx, id, syn))

	got, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "net.flow", got.Schema.Name)
	assert.Equal(t, uint64(42), got.Events)
	assert.Equal(t, uint64(3), got.Version)
	assert.True(t, minT.Equal(got.MinImportTime.Std()))
	assert.True(t, maxT.Equal(got.MaxImportTime.Std()))
}

func TestStoreLoadMissingReturnsLookupError(t *testing.T) {
	store, err := badgerstore.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load(context.Background(), evtype.NewUUID())
	assert.True(t, evcaterr.Is(err, evcaterr.LookupError))
}

func TestStoreListReturnsEveryWrittenUUID(t *testing.T) {
	store, err := badgerstore.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	schema := evtype.Type{Kind: evtype.TypeRecord, Name: "net.flow"}
	idA, idB := evtype.NewUUID(), evtype.NewUUID()
	require.NoError(t, store.Write(ctx, idA, synopsis.New(schema, 1, evtype.Time{}, evtype.Time{}, 1)))
	require.NoError(t, store.Write(ctx, idB, synopsis.New(schema, 1, evtype.Time{}, evtype.Time{}, 1)))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
