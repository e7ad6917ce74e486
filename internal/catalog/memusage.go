package catalog

// sizer is implemented by sketches that can report their own resident
// byte size; sketches that don't are charged a fixed estimate instead.
type sizer interface {
	ByteSize() uint64
}

const (
	partitionOverheadBytes = 96  // PartitionInfo-equivalent bookkeeping
	sketchDefaultBytes     = 64 // estimate for a sketch with no ByteSize method
)

// memUsageImpl returns a rough estimate of the catalog's resident memory,
// summing per-partition bookkeeping plus every field/type sketch's
// reported (or estimated) byte size. This is advisory only — §4.1's
// contract only requires memusage() to return "bytes", not an exact figure.
func (c *Catalog) memUsageImpl() (uint64, error) {
	var total uint64
	for _, b := range c.buckets {
		for _, u := range b.order {
			s := b.byUUID[u]
			total += partitionOverheadBytes
			for _, fs := range s.FieldSketches {
				total += sketchBytes(fs.Sketch)
			}
			for _, ts := range s.TypeSketches {
				total += sketchBytes(ts.Sketch)
			}
		}
	}
	return total, nil
}

func sketchBytes(sk interface{}) uint64 {
	if sk == nil {
		return 0
	}
	if s, ok := sk.(sizer); ok {
		return s.ByteSize()
	}
	return sketchDefaultBytes
}
