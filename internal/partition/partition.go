// Package partition implements the candidate-result shapes of §3.7:
// PartitionInfo, CandidateInfo, and CatalogLookupResult.
package partition

import (
	"sort"

	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
)

// Info is a lightweight descriptor of one partition, ordered and compared
// by Uuid only (§3.7).
type Info struct {
	UUID          evtype.UUID
	Events        uint64
	MaxImportTime evtype.Time
	Schema        evtype.Type
	Version       uint64
}

// Key returns the uuid this Info is ordered and compared by, matching the
// signature setutil.Union/Intersect expect.
func Key(p Info) evtype.UUID { return p.UUID }

// SortByImportTimeDesc orders partitions by max_import_time descending,
// ties broken by uuid ascending (§4.1 step 3d).
func SortByImportTimeDesc(partitions []Info) {
	sort.SliceStable(partitions, func(i, j int) bool {
		a, b := partitions[i], partitions[j]
		if !a.MaxImportTime.Equal(b.MaxImportTime) {
			return a.MaxImportTime.After(b.MaxImportTime)
		}
		return a.UUID.Less(b.UUID)
	})
}

// SortByUUID orders partitions by ascending uuid, the invariant the search
// pass and set-algebra operations require (§4.1 search pass post-condition).
func SortByUUID(partitions []Info) {
	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].UUID.Less(partitions[j].UUID)
	})
}

// CandidateInfo is the pruned candidate set for one schema, paired with the
// bound expression that produced it (§3.7).
type CandidateInfo struct {
	Partitions []Info
	BoundExpr  expr.Expr
}

// LookupResult aggregates per-schema candidate sets (§3.7's
// CatalogLookupResult), keyed by the schema's fingerprint since evtype.Type
// is not itself comparable as a map key.
type LookupResult struct {
	BySchema map[uint64]CandidateInfo
	Schemas  map[uint64]evtype.Type
}

// NewLookupResult returns an empty result ready for per-schema inserts.
func NewLookupResult() LookupResult {
	return LookupResult{
		BySchema: make(map[uint64]CandidateInfo),
		Schemas:  make(map[uint64]evtype.Type),
	}
}

// Set records the candidate info computed for schema s.
func (r LookupResult) Set(s evtype.Type, info CandidateInfo) {
	fp := s.Fingerprint()
	r.BySchema[fp] = info
	r.Schemas[fp] = s
}
