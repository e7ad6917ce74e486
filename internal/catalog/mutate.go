package catalog

import (
	"go.uber.org/zap"

	"github.com/basalt-db/evcat/internal/evcaterr"
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/synopsis"
	"github.com/basalt-db/evcat/internal/telemetry"
)

// insert indexes one synopsis into its schema's bucket and extends
// unprunable_fields (§3.6: the union of string/enum leaf field names).
func (c *Catalog) insert(e SynopsisEntry) {
	fp := e.Synopsis.Schema.Fingerprint()
	b, ok := c.buckets[fp]
	if !ok {
		b = newBucket(e.Synopsis.Schema)
		c.buckets[fp] = b
	}
	b.insert(e.UUID, e.Synopsis)
	c.extendUnprunableFields(e.Synopsis)
}

// extendUnprunableFields folds a synopsis's string- and enum-typed leaf
// field names into unprunable_fields. Enum fields are included alongside
// string fields: §9's open question recommends this, since an enum's
// literal comparison is exactly as pruner-collapsible as a string's, and
// leaving enum fields prunable would let the pruner silently drop a
// would-be sketch hit on a repeated enum literal.
func (c *Catalog) extendUnprunableFields(s *synopsis.PartitionSynopsis) {
	for _, leaf := range s.Schema.Leaves() {
		rt := leaf.Type.Resolved()
		if rt.Kind == evtype.TypeString || rt.Kind == evtype.TypeEnum {
			c.unprunableFields.Add(leaf.QualifiedName)
		}
	}
}

// mergeImpl inserts or updates synopses (§4.1's merge operation). Unlike
// Start, merge does not re-check partition version: the minimum-version
// gate is a one-time bootstrap policy, not a standing invariant over
// every later insertion (§9 open question, decided here).
func (c *Catalog) mergeImpl(entries []SynopsisEntry) error {
	for _, e := range entries {
		c.insert(e)
	}
	c.log.Event(telemetry.CatalogMerge, zap.Int("partitions", len(entries)))
	return nil
}

// eraseImpl removes a partition by uuid.
func (c *Catalog) eraseImpl(id evtype.UUID) error {
	for fp, b := range c.buckets {
		if b.erase(id) {
			if len(b.order) == 0 {
				delete(c.buckets, fp)
			}
			c.log.Event(telemetry.CatalogErase, zap.String("uuid", id.String()))
			return nil
		}
	}
	return evcaterr.New(evcaterr.LookupError, "erase: unknown partition", "uuid", id.String())
}

// replaceImpl atomically (from a reader's perspective — it all happens
// within one mailbox dispatch) swaps old partitions for new ones. Old
// uuids that are no longer present are tolerated rather than rejected:
// replace's purpose is to land a consistent new set, and a partition the
// caller thought still existed may have already been erased by a
// concurrent request that was ordered first.
func (c *Catalog) replaceImpl(old []evtype.UUID, newEntries []SynopsisEntry) error {
	for _, id := range old {
		for fp, b := range c.buckets {
			if b.erase(id) {
				if len(b.order) == 0 {
					delete(c.buckets, fp)
				}
				break
			}
		}
	}
	for _, e := range newEntries {
		c.insert(e)
	}
	c.log.Event(telemetry.CatalogReplace, zap.Int("erased", len(old)), zap.Int("inserted", len(newEntries)))
	return nil
}
