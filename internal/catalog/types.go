// Package catalog implements the candidate-partition index described in
// §3.6/§4.1: a single logical task ("mailbox" goroutine, grounded on the
// teacher's channel-driven worker pool in datalog/executor/worker_pool.go)
// that owns every synopsis and answers candidate-pruning queries against
// them, replacing the teacher's actor-free-but-lock-heavy relation/join
// machinery with a simpler single-writer, message-passing core.
package catalog

import (
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/synopsis"
)

// SynopsisEntry pairs a partition's identity with its synopsis, the unit
// every mutating operation (Start/Merge/Replace) takes.
type SynopsisEntry struct {
	UUID     evtype.UUID
	Synopsis *synopsis.PartitionSynopsis
}

// Query is the input to Candidates: an expression to prune against, plus
// an opaque identifier a caller can use to correlate results (§6's
// `Query { expr, id, … }`).
type Query struct {
	Expr expr.Expr
	ID   string
}

// bucket groups every synopsis sharing one schema (keyed by the schema's
// Fingerprint in the owning Catalog), preserving insertion order for
// deterministic traversal (§3.6).
type bucket struct {
	schema evtype.Type
	order  []evtype.UUID
	byUUID map[evtype.UUID]*synopsis.PartitionSynopsis
}

func newBucket(schema evtype.Type) *bucket {
	return &bucket{schema: schema, byUUID: make(map[evtype.UUID]*synopsis.PartitionSynopsis)}
}

func (b *bucket) insert(id evtype.UUID, s *synopsis.PartitionSynopsis) {
	if _, exists := b.byUUID[id]; !exists {
		b.order = append(b.order, id)
	}
	b.byUUID[id] = s
}

func (b *bucket) erase(id evtype.UUID) bool {
	if _, ok := b.byUUID[id]; !ok {
		return false
	}
	delete(b.byUUID, id)
	for i, u := range b.order {
		if u.Equal(id) {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}
