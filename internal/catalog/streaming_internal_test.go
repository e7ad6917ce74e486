package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basalt-db/evcat/internal/evcaterr"
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/setutil"
	"github.com/basalt-db/evcat/internal/sketch"
	"github.com/basalt-db/evcat/internal/synopsis"
	"github.com/basalt-db/evcat/internal/taxonomy"
)

func schemaForStreamingTest() evtype.Type {
	return evtype.Type{Kind: evtype.TypeRecord, Name: "s", Fields: []evtype.Field{
		{Name: "id", Type: evtype.Type{Kind: evtype.TypeString}},
	}}
}

func TestStreamingLookupNoExpressionEmitsEveryPartitionWithTrue(t *testing.T) {
	syn := synopsis.New(schemaForStreamingTest(), 1, evtype.Time{}, evtype.Time{}, 1)
	syn.Freeze()
	entries := []SynopsisEntry{{UUID: evtype.NewUUID(), Synopsis: syn}}

	sl := NewStreamingLookup(entries, setutil.NewStringSet(), taxonomy.Concepts{}, Query{}, 16)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	batch, exhausted, err := sl.Get(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.True(t, exhausted)
}

// TestStreamingLookupDrainsRemainderOnFinalBatch covers spec.md §8
// Scenario 6: cache_capacity=2 against 5 matching partitions must yield
// batches of 2, 2, 1, with the third Get's reply itself carrying
// exhausted=true rather than requiring a fourth, empty Get to discover it.
func TestStreamingLookupDrainsRemainderOnFinalBatch(t *testing.T) {
	schema := schemaForStreamingTest()
	var entries []SynopsisEntry
	for i := 0; i < 5; i++ {
		syn := synopsis.New(schema, 1, evtype.Time{}, evtype.Time{}, 1)
		bloom, err := sketch.NewBloomSketch([]string{"needle"}, 8, 0.01)
		require.NoError(t, err)
		syn.AddFieldSketch(synopsis.QRF{SchemaName: schema.Name, FieldName: "id", Type: evtype.Type{Kind: evtype.TypeString}}, bloom)
		syn.Freeze()
		entries = append(entries, SynopsisEntry{UUID: evtype.NewUUID(), Synopsis: syn})
	}

	q := Query{Expr: expr.Pred{
		Lhs: expr.FieldExtractor{Key: "id"},
		Op:  expr.OpEQ,
		Rhs: expr.DataOperand{Value: evtype.String("needle")},
	}}
	sl := NewStreamingLookup(entries, setutil.NewStringSet(), taxonomy.Concepts{}, q, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	batch1, exhausted1, err := sl.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, batch1, 2)
	assert.False(t, exhausted1)

	batch2, exhausted2, err := sl.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, batch2, 2)
	assert.False(t, exhausted2)

	batch3, exhausted3, err := sl.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, batch3, 1)
	assert.True(t, exhausted3, "the batch that drains the last partition must itself report exhausted")
}

func TestStreamingLookupRejectsSecondConcurrentGet(t *testing.T) {
	var entries []SynopsisEntry
	for i := 0; i < 10; i++ {
		syn := synopsis.New(schemaForStreamingTest(), 1, evtype.Time{}, evtype.Time{}, 1)
		syn.Freeze()
		entries = append(entries, SynopsisEntry{UUID: evtype.NewUUID(), Synopsis: syn})
	}

	// Build the task's mailbox by hand and enqueue both Get requests
	// before the goroutine starts reading it: a buffered channel
	// preserves send order, so the first loop iteration is guaranteed to
	// see request 1 (and park it, since results are still empty) before
	// request 2 is even considered.
	sl := &StreamingLookup{
		mailbox: make(chan streamMessage, 4),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	reply1 := make(chan streamGetResult, 1)
	reply2 := make(chan streamGetResult, 1)
	sl.mailbox <- &streamGetMsg{reply: reply1}
	sl.mailbox <- &streamGetMsg{reply: reply2}
	go sl.run(entries, setutil.NewStringSet(), taxonomy.Concepts{}, Query{Expr: expr.True()}, 1000000)

	select {
	case res := <-reply2:
		require.Error(t, res.err)
		assert.True(t, evcaterr.Is(res.err, evcaterr.LogicError))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the second Get's reply")
	}

	select {
	case res := <-reply1:
		assert.NoError(t, res.err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the first Get's reply")
	}
}
