package catalog

import (
	"github.com/basalt-db/evcat/internal/evcaterr"
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/partition"
	"github.com/basalt-db/evcat/internal/pruner"
	"github.com/basalt-db/evcat/internal/taxonomy"
)

// getAllImpl returns every synopsis currently indexed, in each schema's
// insertion order (traversal order across schemas is unspecified).
func (c *Catalog) getAllImpl() ([]SynopsisEntry, error) {
	var out []SynopsisEntry
	for _, b := range c.buckets {
		for _, u := range b.order {
			out = append(out, SynopsisEntry{UUID: u, Synopsis: b.byUUID[u]})
		}
	}
	return out, nil
}

// getFilteredImpl runs the full candidate lookup for e and flattens the
// per-schema results back into synopsis entries.
func (c *Catalog) getFilteredImpl(e expr.Expr) ([]SynopsisEntry, error) {
	result, err := c.candidatesCore(Query{Expr: e})
	if err != nil {
		return nil, err
	}
	var out []SynopsisEntry
	for fp, info := range result.BySchema {
		b := c.buckets[fp]
		if b == nil {
			continue
		}
		for _, p := range info.Partitions {
			out = append(out, SynopsisEntry{UUID: p.UUID, Synopsis: b.byUUID[p.UUID]})
		}
	}
	return out, nil
}

// getByUUIDImpl looks up a single partition's info across every schema.
func (c *Catalog) getByUUIDImpl(id evtype.UUID) (partition.Info, error) {
	for _, b := range c.buckets {
		if s, ok := b.byUUID[id]; ok {
			return infoFor(id, s), nil
		}
	}
	return partition.Info{}, evcaterr.New(evcaterr.LookupError, "unknown partition", "uuid", id.String())
}

// candidatesCore implements §4.1's top-level lookup algorithm (steps 1-4):
// normalize once, then resolve/prune/evaluate independently per schema.
func (c *Catalog) candidatesCore(q Query) (partition.LookupResult, error) {
	e := q.Expr
	if e == nil {
		e = expr.True() // step 1: None/absent becomes the trivially-true sentinel
	}
	normalized, err := expr.NormalizeAndValidate(e)
	if err != nil {
		return partition.LookupResult{}, evcaterr.Wrap(evcaterr.InvalidArgument, err, "normalize query expression")
	}

	result := partition.NewLookupResult()
	for fp, b := range c.buckets {
		resolved, err := taxonomy.Resolve(c.taxonomies, normalized, b.schema)
		if err != nil {
			return partition.LookupResult{}, evcaterr.Wrap(evcaterr.InvalidArgument, err, "resolve taxonomy concepts")
		}
		pruned := pruner.Prune(resolved, c.unprunableFields)
		infos := c.lookupImpl(fp, pruned)
		partition.SortByImportTimeDesc(infos)
		result.Set(b.schema, partition.CandidateInfo{Partitions: infos, BoundExpr: pruned})
		_ = fp
	}
	return result, nil
}
