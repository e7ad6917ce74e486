package catalog

import (
	"go.uber.org/zap"

	"github.com/basalt-db/evcat/internal/evcaterr"
	"github.com/basalt-db/evcat/internal/telemetry"
)

// startImpl implements Start's bootstrap gate (§4.1's public contract):
// reject the whole batch with UnsupportedVersion if any synopsis predates
// cfg.MinSupportedPartitionVersion, otherwise index every entry and flip
// the catalog into the started state.
func (c *Catalog) startImpl(entries []SynopsisEntry) error {
	if c.started {
		return evcaterr.New(evcaterr.InvalidArgument, "catalog already started")
	}

	var offending []string
	for _, e := range entries {
		if e.Synopsis.Version < c.cfg.MinSupportedPartitionVersion {
			offending = append(offending, e.UUID.String())
		}
	}
	if len(offending) > 0 {
		c.log.Event(telemetry.ErrorUnsupportedVersion, zap.Strings("uuids", offending))
		return evcaterr.New(evcaterr.UnsupportedVersion,
			"synopsis version predates minimum supported partition version",
			"uuids", offending, "min_version", c.cfg.MinSupportedPartitionVersion)
	}

	c.buckets = make(map[uint64]*bucket)
	for _, e := range entries {
		c.insert(e)
	}
	c.started = true
	c.log.Event(telemetry.CatalogStart, zap.Int("partitions", len(entries)))
	return nil
}
