package catalog

import (
	"context"

	"github.com/basalt-db/evcat/internal/evcaterr"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/partition"
	"github.com/basalt-db/evcat/internal/pruner"
	"github.com/basalt-db/evcat/internal/setutil"
	"github.com/basalt-db/evcat/internal/taxonomy"
)

// Candidate is one surviving partition paired with the bound expression
// that was evaluated against it — the per-item result §4.5's streaming
// task accumulates, distinct from partition.CandidateInfo's per-schema
// aggregate shape used by Catalog.Candidates.
type Candidate struct {
	Partition partition.Info
	BoundExpr expr.Expr
}

// StreamingLookup is the per-query task of §4.5: its own goroutine and
// mailbox, created over a frozen slice of partitions it owns by move, that
// yields a per-partition candidate decision one at a time and drains in
// cache_capacity-bounded batches via Get.
type StreamingLookup struct {
	mailbox chan streamMessage
	quit    chan struct{}
	done    chan struct{}
}

type streamMessage interface{ isStreamMessage() }

type streamGetResult struct {
	candidates []Candidate
	exhausted  bool
	err        error
}

type streamGetMsg struct{ reply chan streamGetResult }

func (*streamGetMsg) isStreamMessage() {}

type streamCancelMsg struct{}

func (*streamCancelMsg) isStreamMessage() {}

// NewStreamingLookup takes ownership of partitions (the caller must not
// reuse the slice) and starts the task's goroutine.
func NewStreamingLookup(
	partitions []SynopsisEntry,
	unprunableFields setutil.StringSet,
	taxonomies taxonomy.Concepts,
	q Query,
	cacheCapacity uint64,
) *StreamingLookup {
	sl := &StreamingLookup{
		mailbox: make(chan streamMessage, 4),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go sl.run(partitions, unprunableFields, taxonomies, q, cacheCapacity)
	return sl
}

// Get returns the next available batch of candidates. If a previous Get
// is still unfulfilled, it returns a LogicError (§4.5). The second return
// value reports whether the task has exhausted its input and will produce
// no further results.
func (sl *StreamingLookup) Get(ctx context.Context) ([]Candidate, bool, error) {
	reply := make(chan streamGetResult, 1)
	select {
	case sl.mailbox <- &streamGetMsg{reply: reply}:
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-sl.done:
		return nil, true, nil
	}
	select {
	case res := <-reply:
		return res.candidates, res.exhausted, res.err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-sl.done:
		// The task sends its terminal reply before done closes, so a reply
		// may already be buffered even when done won the select.
		select {
		case res := <-reply:
			return res.candidates, res.exhausted, res.err
		default:
		}
		return nil, true, nil
	}
}

// Cancel terminates the task cooperatively; the owner drops its handle and
// the task releases its synopsis references promptly (§4.5, §5).
func (sl *StreamingLookup) Cancel() {
	select {
	case sl.mailbox <- &streamCancelMsg{}:
	case <-sl.done:
	}
	<-sl.done
}

func (sl *StreamingLookup) run(
	entries []SynopsisEntry,
	unprunableFields setutil.StringSet,
	taxonomies taxonomy.Concepts,
	q Query,
	cacheCapacity uint64,
) {
	defer close(sl.done)

	remaining := entries
	boundExprs := make(map[uint64]expr.Expr)
	var results []Candidate
	var pendingGet chan streamGetResult
	var bootstrapErr error

	if q.Expr == nil {
		// §4.5 start: expression absent -> every partition is trivially a
		// candidate with bound_expr = true, and the task drains immediately.
		for _, e := range entries {
			results = append(results, Candidate{Partition: infoFor(e.UUID, e.Synopsis), BoundExpr: expr.True()})
		}
		remaining = nil
	} else {
		normalized, err := expr.NormalizeAndValidate(q.Expr)
		if err != nil {
			bootstrapErr = evcaterr.Wrap(evcaterr.InvalidArgument, err, "normalize streaming lookup expression")
		} else {
			q.Expr = normalized
		}
	}

	if bootstrapErr != nil {
		// terminate the task with the error on the first Get, per §4.5.
		select {
		case m := <-sl.mailbox:
			if gm, ok := m.(*streamGetMsg); ok {
				gm.reply <- streamGetResult{err: bootstrapErr}
			}
		case <-sl.quit:
		}
		return
	}

	for {
		select {
		case m := <-sl.mailbox:
			switch msg := m.(type) {
			case *streamGetMsg:
				if pendingGet != nil {
					msg.reply <- streamGetResult{err: evcaterr.New(evcaterr.LogicError, "streaming lookup already has an outstanding get")}
					continue
				}
				if len(results) > 0 {
					out := results
					results = nil
					exhausted := len(remaining) == 0
					msg.reply <- streamGetResult{candidates: out, exhausted: exhausted}
					if exhausted {
						return
					}
					continue
				}
				if len(remaining) == 0 {
					msg.reply <- streamGetResult{exhausted: true}
					return
				}
				pendingGet = msg.reply
			case *streamCancelMsg:
				return
			}
		default:
			if len(remaining) == 0 {
				if pendingGet != nil {
					pendingGet <- streamGetResult{candidates: results, exhausted: true}
					return
				}
				if len(results) == 0 {
					return
				}
				// Results pending but nobody's asked yet: block for the
				// next message instead of busy-looping.
				select {
				case m := <-sl.mailbox:
					if gm, ok := m.(*streamGetMsg); ok {
						out := results
						results = nil
						gm.reply <- streamGetResult{candidates: out, exhausted: true}
					}
					return
				case <-sl.quit:
					return
				}
			}

			if pendingGet == nil && len(results) > 0 && uint64(len(results)) >= cacheCapacity {
				// Back-pressure: results already hold cache_capacity
				// candidates, so wait for the consumer before scanning on.
				select {
				case m := <-sl.mailbox:
					if gm, ok := m.(*streamGetMsg); ok {
						gm.reply <- streamGetResult{candidates: results}
						results = nil
						continue
					}
					return
				case <-sl.quit:
					return
				}
			}

			e := remaining[0]
			remaining = remaining[1:]
			fp := e.Synopsis.Schema.Fingerprint()
			bound, ok := boundExprs[fp]
			if !ok {
				resolved, err := taxonomy.Resolve(taxonomies, q.Expr, e.Synopsis.Schema)
				if err != nil {
					bound = q.Expr // fall back conservatively; resolution failure here shouldn't abort the whole stream
				} else {
					bound = pruner.Prune(resolved, unprunableFields)
				}
				boundExprs[fp] = bound
			}

			if singlePartitionSurvives(e, bound) {
				results = append(results, Candidate{Partition: infoFor(e.UUID, e.Synopsis), BoundExpr: bound})
			}

			if pendingGet != nil && (uint64(len(results)) >= cacheCapacity || len(remaining) == 0) {
				exhausted := len(remaining) == 0
				pendingGet <- streamGetResult{candidates: results, exhausted: exhausted}
				results = nil
				pendingGet = nil
				if exhausted {
					return
				}
			}
		}
	}
}

// singlePartitionSurvives restricts lookup_impl to exactly one synopsis
// (§4.5 step 4), by evaluating it against a throwaway single-entry bucket
// and reusing the catalog's own evaluator.
func singlePartitionSurvives(e SynopsisEntry, bound expr.Expr) bool {
	b := newBucket(e.Synopsis.Schema)
	b.insert(e.UUID, e.Synopsis)
	ev := &evaluator{bucket: b}
	return len(ev.eval(bound)) > 0
}
