package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/basalt-db/evcat/config"
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/partition"
	"github.com/basalt-db/evcat/internal/setutil"
	"github.com/basalt-db/evcat/internal/taxonomy"
	"github.com/basalt-db/evcat/internal/telemetry"
)

// Catalog is the process-wide singleton described in §3.6: a
// single-goroutine task that owns every partition synopsis and answers
// pruning queries against them. Every field below this comment is touched
// only from the mailbox goroutine; callers only ever reach it by sending a
// message and waiting on that message's own reply channel (§5's
// "single-threaded cooperative per component" model).
type Catalog struct {
	mailbox chan message
	quit    chan struct{}
	done    chan struct{}

	cfg        config.Config
	taxonomies taxonomy.Concepts
	log        *telemetry.Logger

	started          bool
	stash            []message
	buckets          map[uint64]*bucket
	unprunableFields setutil.StringSet
}

// New constructs a Catalog and starts its mailbox goroutine. The catalog
// begins in the bootstrap state: every operation except Start is stashed
// until Start succeeds (§3.6).
func New(cfg config.Config, taxonomies taxonomy.Concepts, logger *zap.Logger) *Catalog {
	c := &Catalog{
		mailbox:          make(chan message, 64),
		quit:             make(chan struct{}),
		done:             make(chan struct{}),
		cfg:              cfg,
		taxonomies:       taxonomies,
		log:              telemetry.New(logger),
		unprunableFields: setutil.NewStringSet(),
	}
	go c.loop()
	return c
}

// Shutdown stops the mailbox goroutine. It does not wait for, nor cancel,
// any streaming lookup tasks still referencing this catalog's synopses
// (§5: those keep their own strong references and complete independently).
func (c *Catalog) Shutdown() {
	close(c.quit)
	<-c.done
}

func (c *Catalog) loop() {
	defer close(c.done)
	for {
		select {
		case m := <-c.mailbox:
			c.dispatch(m)
		case <-c.quit:
			return
		}
	}
}

// dispatch implements the bootstrap stash (§3.6, §5): while the catalog
// hasn't started, every message except startMsg is buffered in arrival
// order and replayed once Start succeeds.
func (c *Catalog) dispatch(m message) {
	if !c.started {
		if sm, ok := m.(*startMsg); ok {
			sm.apply(c)
			if c.started {
				c.log.Event(telemetry.CatalogReplayed, zap.Int("stashed", len(c.stash)))
				pending := c.stash
				c.stash = nil
				for _, p := range pending {
					c.dispatch(p)
				}
			}
			return
		}
		c.log.Event(telemetry.CatalogStashed)
		c.stash = append(c.stash, m)
		return
	}
	m.apply(c)
}

// sendVoid delivers an error-returning message and waits for its reply,
// honoring ctx cancellation on both the send and the wait.
func sendVoid(ctx context.Context, c *Catalog, m message, reply chan error) error {
	select {
	case c.mailbox <- m:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sendValue delivers a message producing a value of type T and waits for
// its reply, honoring ctx cancellation on both the send and the wait.
func sendValue[T any](ctx context.Context, c *Catalog, m message, reply chan T) (T, error) {
	select {
	case c.mailbox <- m:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Start bootstraps the catalog with its initial synopsis set (§4.1's
// public contract). Any synopsis whose version predates
// cfg.MinSupportedPartitionVersion causes the whole call to fail with
// UnsupportedVersion; the catalog remains unstarted and the stash intact.
func (c *Catalog) Start(ctx context.Context, entries []SynopsisEntry) error {
	reply := make(chan error, 1)
	return sendVoid(ctx, c, &startMsg{entries: entries, reply: reply}, reply)
}

// Merge inserts or updates synopses. Stashed until Start succeeds.
func (c *Catalog) Merge(ctx context.Context, entries []SynopsisEntry) error {
	reply := make(chan error, 1)
	return sendVoid(ctx, c, &mergeMsg{entries: entries, reply: reply}, reply)
}

// Erase removes a partition by uuid. Stashed until Start succeeds.
func (c *Catalog) Erase(ctx context.Context, id evtype.UUID) error {
	reply := make(chan error, 1)
	return sendVoid(ctx, c, &eraseMsg{uuid: id, reply: reply}, reply)
}

// Replace atomically swaps old partitions for new ones. Stashed until
// Start succeeds.
func (c *Catalog) Replace(ctx context.Context, old []evtype.UUID, newEntries []SynopsisEntry) error {
	reply := make(chan error, 1)
	return sendVoid(ctx, c, &replaceMsg{old: old, new: newEntries, reply: reply}, reply)
}

// GetAll returns every synopsis currently held.
func (c *Catalog) GetAll(ctx context.Context) ([]SynopsisEntry, error) {
	reply := make(chan getAllResult, 1)
	res, err := sendValue(ctx, c, &getAllMsg{reply: reply}, reply)
	if err != nil {
		return nil, err
	}
	return res.entries, res.err
}

// GetFiltered returns every synopsis surviving e as a candidate filter,
// across all schemas. A nil e is treated as the trivially-true filter.
func (c *Catalog) GetFiltered(ctx context.Context, e expr.Expr) ([]SynopsisEntry, error) {
	reply := make(chan getFilteredResult, 1)
	res, err := sendValue(ctx, c, &getFilteredMsg{expr: e, reply: reply}, reply)
	if err != nil {
		return nil, err
	}
	return res.entries, res.err
}

// GetByUUID returns a single partition's info.
func (c *Catalog) GetByUUID(ctx context.Context, id evtype.UUID) (partition.Info, error) {
	reply := make(chan getByUUIDResult, 1)
	res, err := sendValue(ctx, c, &getByUUIDMsg{uuid: id, reply: reply}, reply)
	if err != nil {
		return partition.Info{}, err
	}
	return res.info, res.err
}

// Candidates runs the full §4.1 lookup algorithm for q across every schema.
func (c *Catalog) Candidates(ctx context.Context, q Query) (partition.LookupResult, error) {
	reply := make(chan candidatesResult, 1)
	res, err := sendValue(ctx, c, &candidatesMsg{query: q, reply: reply}, reply)
	if err != nil {
		return partition.LookupResult{}, err
	}
	return res.result, res.err
}

// MemUsage reports an estimate of the catalog's resident synopsis memory.
func (c *Catalog) MemUsage(ctx context.Context) (uint64, error) {
	reply := make(chan memUsageResult, 1)
	res, err := sendValue(ctx, c, &memUsageMsg{reply: reply}, reply)
	if err != nil {
		return 0, err
	}
	return res.bytes, res.err
}

// NewStreamingLookup starts a §4.5 streaming lookup task over a snapshot of
// the catalog's current partitions. The task owns its snapshot outright:
// later Merge/Erase/Replace calls never affect an already-started lookup,
// and the lookup's own goroutine runs independently of the catalog's.
func (c *Catalog) NewStreamingLookup(ctx context.Context, q Query, cacheCapacity uint64) (*StreamingLookup, error) {
	reply := make(chan streamSnapshotResult, 1)
	snap, err := sendValue(ctx, c, &streamSnapshotMsg{reply: reply}, reply)
	if err != nil {
		return nil, err
	}
	if snap.err != nil {
		return nil, snap.err
	}
	return NewStreamingLookup(snap.entries, snap.unprunableFields, snap.taxonomies, q, cacheCapacity), nil
}
