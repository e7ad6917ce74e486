package catalog

import (
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/partition"
	"github.com/basalt-db/evcat/internal/setutil"
	"github.com/basalt-db/evcat/internal/taxonomy"
)

// message is the mailbox's unit of work: every public Catalog method
// builds one of these, sends it on the mailbox channel, and waits on the
// message's own reply channel. apply runs only inside the catalog's
// single goroutine, so the impl methods it calls need no locking.
type message interface {
	apply(c *Catalog)
}

type startMsg struct {
	entries []SynopsisEntry
	reply   chan error
}

func (m *startMsg) apply(c *Catalog) { m.reply <- c.startImpl(m.entries) }

type mergeMsg struct {
	entries []SynopsisEntry
	reply   chan error
}

func (m *mergeMsg) apply(c *Catalog) { m.reply <- c.mergeImpl(m.entries) }

type eraseMsg struct {
	uuid  evtype.UUID
	reply chan error
}

func (m *eraseMsg) apply(c *Catalog) { m.reply <- c.eraseImpl(m.uuid) }

type replaceMsg struct {
	old   []evtype.UUID
	new   []SynopsisEntry
	reply chan error
}

func (m *replaceMsg) apply(c *Catalog) { m.reply <- c.replaceImpl(m.old, m.new) }

type getAllResult struct {
	entries []SynopsisEntry
	err     error
}

type getAllMsg struct {
	reply chan getAllResult
}

func (m *getAllMsg) apply(c *Catalog) {
	entries, err := c.getAllImpl()
	m.reply <- getAllResult{entries: entries, err: err}
}

type getFilteredResult struct {
	entries []SynopsisEntry
	err     error
}

type getFilteredMsg struct {
	expr  expr.Expr
	reply chan getFilteredResult
}

func (m *getFilteredMsg) apply(c *Catalog) {
	entries, err := c.getFilteredImpl(m.expr)
	m.reply <- getFilteredResult{entries: entries, err: err}
}

type getByUUIDResult struct {
	info partition.Info
	err  error
}

type getByUUIDMsg struct {
	uuid  evtype.UUID
	reply chan getByUUIDResult
}

func (m *getByUUIDMsg) apply(c *Catalog) {
	info, err := c.getByUUIDImpl(m.uuid)
	m.reply <- getByUUIDResult{info: info, err: err}
}

type candidatesResult struct {
	result partition.LookupResult
	err    error
}

type candidatesMsg struct {
	query Query
	reply chan candidatesResult
}

func (m *candidatesMsg) apply(c *Catalog) {
	result, err := c.candidatesCore(m.query)
	m.reply <- candidatesResult{result: result, err: err}
}

type memUsageResult struct {
	bytes uint64
	err   error
}

type memUsageMsg struct {
	reply chan memUsageResult
}

func (m *memUsageMsg) apply(c *Catalog) {
	bytes, err := c.memUsageImpl()
	m.reply <- memUsageResult{bytes: bytes, err: err}
}

type streamSnapshotResult struct {
	entries          []SynopsisEntry
	unprunableFields setutil.StringSet
	taxonomies       taxonomy.Concepts
	err              error
}

type streamSnapshotMsg struct {
	reply chan streamSnapshotResult
}

// apply takes the frozen deque a streaming lookup task consumes: a copy of
// every synopsis entry plus the catalog's current unprunable-fields set and
// taxonomy concepts, all read atomically from inside the mailbox goroutine.
func (m *streamSnapshotMsg) apply(c *Catalog) {
	entries, err := c.getAllImpl()
	m.reply <- streamSnapshotResult{
		entries:          entries,
		unprunableFields: c.unprunableFields.Clone(),
		taxonomies:       c.taxonomies,
		err:              err,
	}
}
