package synopsis

import (
	"context"

	"github.com/basalt-db/evcat/internal/evtype"
)

// Loader and Writer name the synopsis-construction collaborators: the
// catalog only ever consumes already-built *PartitionSynopsis values, so
// these interfaces exist purely as a documented seam for a host that
// hydrates a catalog from persisted synopses (§6's "Synopsis construction
// (external)" paragraph) — neither interface is implemented by this
// package itself.
type Loader interface {
	Load(ctx context.Context, id evtype.UUID) (*PartitionSynopsis, error)
}

// Writer persists a synopsis keyed by partition UUID.
type Writer interface {
	Write(ctx context.Context, id evtype.UUID, s *PartitionSynopsis) error
}
